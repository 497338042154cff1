// Package lemmyverse provides an aggregator.Client backed by the static JSON
// dumps published by lemmyverse.net.
package lemmyverse

import (
	"context"
	"fmt"
	"io"
	"lemmony/pkg/aggregator"
	"lemmony/pkg/domain"
	"lemmony/pkg/serrors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// DefaultBaseURL is where lemmyverse.net publishes its data files.
const DefaultBaseURL = "https://lemmyverse.net/data"

// Client reads lemmyverse.net data files. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New returns a Client reading files under baseURL.
func New(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// Meta fetches meta.json.
func (c *Client) Meta(ctx context.Context) (domain.DirectoryMeta, error) {
	b, err := c.get(ctx, "/meta.json")
	if err != nil {
		return domain.DirectoryMeta{}, err
	}

	var (
		meta                    domain.DirectoryMeta
		hasCommunities, hasMags bool
	)
	if err := jx.DecodeBytes(b).ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "communities":
			n, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "communities")
			}
			meta.Communities, hasCommunities = n, true
		case "magazines":
			n, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "magazines")
			}
			meta.Magazines, hasMags = n, true
		default:
			return d.Skip()
		}

		return nil
	}); err != nil {
		return domain.DirectoryMeta{}, serrors.Wrap(serrors.ErrUnexpectedResponse, err, "could not decode meta")
	}
	if !hasCommunities || !hasMags {
		return domain.DirectoryMeta{}, serrors.With(serrors.ErrUnexpectedResponse,
			"meta is missing communities or magazines totals")
	}

	return meta, nil
}

// Communities fetches community/{page}.json. Entries keep their post count so
// callers can drop inactive communities.
func (c *Client) Communities(ctx context.Context, page int) ([]domain.RemoteActor, error) {
	b, err := c.get(ctx, "/community/"+strconv.Itoa(page)+".json")
	if err != nil {
		return nil, err
	}

	actors, err := decodeActors(b, domain.ActorKindCommunity)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnexpectedResponse, err, "could not decode community page %d", page)
	}

	return actors, nil
}

// Magazines fetches magazines/{page}.json. The dump has no post count.
func (c *Client) Magazines(ctx context.Context, page int) ([]domain.RemoteActor, error) {
	b, err := c.get(ctx, "/magazines/"+strconv.Itoa(page)+".json")
	if err != nil {
		return nil, err
	}

	actors, err := decodeActors(b, domain.ActorKindMagazine)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnexpectedResponse, err, "could not decode magazine page %d", page)
	}

	return actors, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serrors.With(serrors.FromStatus(resp.StatusCode),
			"GET %s failed with status %d: %s", path, resp.StatusCode, truncate(strings.TrimSpace(string(b))))
	}

	return b, nil
}

// decodeActors walks a page array and keeps only the fields lemmony needs.
// Communities identify themselves with "url", magazines with "actor_id".
func decodeActors(b []byte, kind domain.ActorKind) ([]domain.RemoteActor, error) {
	idKey := "url"
	if kind == domain.ActorKindMagazine {
		idKey = "actor_id"
	}

	var actors []domain.RemoteActor
	err := jx.DecodeBytes(b).Arr(func(d *jx.Decoder) error {
		actor := domain.RemoteActor{Kind: kind}
		if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			switch string(key) {
			case "baseurl":
				s, err := optStr(d)
				if err != nil {
					return errors.Wrap(err, "baseurl")
				}
				actor.Instance = s
			case idKey:
				s, err := optStr(d)
				if err != nil {
					return errors.Wrap(err, idKey)
				}
				actor.ActorID = s
			case "counts":
				if kind != domain.ActorKindCommunity {
					return d.Skip()
				}
				posts, err := decodePosts(d)
				if err != nil {
					return errors.Wrap(err, "counts")
				}
				actor.Posts = posts
			default:
				return d.Skip()
			}

			return nil
		}); err != nil {
			return err
		}
		if actor.ActorID == "" {
			return errors.Errorf("entry %d has no %s", len(actors), idKey)
		}
		actors = append(actors, actor)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return actors, nil
}

func decodePosts(d *jx.Decoder) (int, error) {
	if d.Next() == jx.Null {
		return 0, d.Null()
	}

	var posts int
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "posts" {
			return d.Skip()
		}
		if d.Next() == jx.Null {
			return d.Null()
		}
		n, err := d.Num()
		if err != nil {
			return err
		}
		// counts are integers but some dumps serialize them as floats
		f, err := n.Float64()
		if err != nil {
			return err
		}
		posts = int(f)

		return nil
	})

	return posts, err
}

func optStr(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}

	return d.Str()
}

func truncate(s string) string {
	const limit = 256
	if len(s) > limit {
		return s[:limit] + "..."
	}

	return s
}

var _ aggregator.Client = (*Client)(nil)

// Package lemmy provides an instance.Client for the Lemmy v3 HTTP API.
package lemmy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"lemmony/pkg/domain"
	"lemmony/pkg/instance"
	"lemmony/pkg/serrors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSearchPath is the web search route. Hitting it makes the instance
// resolve actor URLs it has not federated yet.
const DefaultSearchPath = "/search"

// Client talks to a Lemmy instance. It authenticates every call with the
// session token as a bearer header and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	searchPath string
}

// Option customizes a Client.
type Option func(*Client)

// WithSearchPath overrides DefaultSearchPath.
func WithSearchPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.searchPath = "/" + strings.TrimPrefix(path, "/")
		}
	}
}

// New returns a Client for the instance at baseURL, e.g. https://lemmy.co.uk.
func New(httpClient *http.Client, baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		searchPath: DefaultSearchPath,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Login posts the credentials to /api/v3/user/login. Rejected credentials and
// a response without a token are reported as ErrInvalidConfig.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Session, error) {
	type loginReq struct {
		UsernameOrEmail string `json:"username_or_email"`
		Password        string `json:"password"`
	}
	resp, b, err := c.do(ctx, http.MethodPost, "/api/v3/user/login", nil,
		loginReq{UsernameOrEmail: username, Password: password}, domain.Session{})
	if err != nil {
		return domain.Session{}, err
	}
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return domain.Session{}, serrors.Wrap(serrors.ErrInvalidConfig,
			serrors.With(serrors.FromStatus(resp.StatusCode), "%s", strings.TrimSpace(string(b))),
			"login rejected for %s", username)
	}
	if err := checkStatus(resp, b, "login"); err != nil {
		return domain.Session{}, err
	}

	var loginResp struct {
		JWT *string `json:"jwt"`
	}
	if err := json.Unmarshal(b, &loginResp); err != nil {
		return domain.Session{}, serrors.Wrap(serrors.ErrUnexpectedResponse, err, "could not decode login response")
	}
	if loginResp.JWT == nil || *loginResp.JWT == "" {
		return domain.Session{}, serrors.With(serrors.ErrInvalidConfig,
			"login for %s returned no token, check the credentials", username)
	}

	return NewSession(*loginResp.JWT), nil
}

// NewSession wraps token and reads its expiry when the token is a JWT. The
// signature is not verified: only the issuing instance can do that.
func NewSession(token string) domain.Session {
	session := domain.Session{Token: token}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err == nil && claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session
}

// Communities lists /api/v3/community/list with type_=All.
func (c *Client) Communities(
	ctx context.Context,
	session domain.Session,
	page, limit int) ([]domain.LocalCommunity, error) {
	q := url.Values{}
	q.Set("type_", "All")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(page))

	resp, b, err := c.do(ctx, http.MethodGet, "/api/v3/community/list", q, nil, session)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, b, "list communities"); err != nil {
		return nil, err
	}

	var listResp struct {
		Communities *[]struct {
			Community struct {
				ID      int64  `json:"id"`
				ActorID string `json:"actor_id"`
			} `json:"community"`
			Subscribed domain.SubscribedType `json:"subscribed"`
		} `json:"communities"`
	}
	if err := json.Unmarshal(b, &listResp); err != nil {
		return nil, serrors.Wrap(serrors.ErrUnexpectedResponse, err, "could not decode community page %d", page)
	}
	if listResp.Communities == nil {
		return nil, serrors.With(serrors.ErrUnexpectedResponse, "community page %d has no communities field", page)
	}

	out := make([]domain.LocalCommunity, 0, len(*listResp.Communities))
	for _, cv := range *listResp.Communities {
		out = append(out, domain.LocalCommunity{
			ID:         cv.Community.ID,
			ActorID:    cv.Community.ActorID,
			Subscribed: cv.Subscribed,
		})
	}

	return out, nil
}

// Search requests the search route for query with type and listing set to All,
// sorted by TopAll. It returns the response status; err is set only when no
// response was received.
func (c *Client) Search(ctx context.Context, session domain.Session, query string) (int, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "All")
	q.Set("listingType", "All")
	q.Set("page", "1")
	q.Set("sort", "TopAll")

	resp, _, err := c.do(ctx, http.MethodGet, c.searchPath, q, nil, session)
	if err != nil {
		return 0, err
	}

	return resp.StatusCode, nil
}

// Follow posts {community_id, follow: true} to /api/v3/community/follow.
func (c *Client) Follow(ctx context.Context, session domain.Session, communityID int64) (domain.SubscribedType, error) {
	type followReq struct {
		CommunityID int64  `json:"community_id"`
		Follow      bool   `json:"follow"`
		Auth        string `json:"auth,omitempty"`
	}
	resp, b, err := c.do(ctx, http.MethodPost, "/api/v3/community/follow", nil,
		followReq{CommunityID: communityID, Follow: true, Auth: session.Token}, session)
	if err != nil {
		return "", err
	}
	if err := checkStatus(resp, b, "follow"); err != nil {
		return "", err
	}

	var followResp struct {
		CommunityView *struct {
			Subscribed domain.SubscribedType `json:"subscribed"`
		} `json:"community_view"`
	}
	if err := json.Unmarshal(b, &followResp); err != nil {
		return "", serrors.Wrap(serrors.ErrUnexpectedResponse, err, "could not decode follow response")
	}
	if followResp.CommunityView == nil || followResp.CommunityView.Subscribed == "" {
		return "", serrors.With(serrors.ErrUnexpectedResponse,
			"follow response for community %d has no subscription state", communityID)
	}

	return followResp.CommunityView.Subscribed, nil
}

// do sends a request and returns the response with its fully read body. A
// non-nil body is sent as JSON.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	session domain.Session) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("could not marshal request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("could not read response body: %w", err)
	}

	return resp, b, nil
}

// checkStatus turns a non-2xx response of a required call into an
// ErrUnexpectedResponse that also matches the status kind.
func checkStatus(resp *http.Response, b []byte, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return serrors.Wrap(serrors.ErrUnexpectedResponse,
		serrors.KindOnly(serrors.FromStatus(resp.StatusCode)),
		"%s failed with status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(b)))
}

var _ instance.Client = (*Client)(nil)

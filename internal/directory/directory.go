// Package directory fetches the global list of communities and magazines from
// the aggregator and reduces it to the actors lemmony should synchronize.
package directory

import (
	"context"
	"errors"
	"fmt"
	"lemmony/internal/config"
	"lemmony/pkg/aggregator"
	"lemmony/pkg/domain"
	"lemmony/pkg/logger"
	"lemmony/pkg/serrors"

	"go.uber.org/zap"
)

// PageSize is the number of entries per aggregator page.
const PageSize = 500

// Options configure a Fetcher.
type Options struct {
	// PageSize is the aggregator page size used to compute the page count.
	PageSize int
	// Filter selects instances.
	Filter Filter
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		PageSize: cfg.Aggregator.PageSize,
		Filter:   NewFilter(cfg.Filter.Include, cfg.Filter.Exclude),
	}
}

// Recorder receives the number of actors kept per kind.
type Recorder interface {
	ActorsFetched(ctx context.Context, kind string, n int)
}

// Result is the filtered directory.
type Result struct {
	Communities []domain.RemoteActor
	Magazines   []domain.RemoteActor
}

// All returns communities followed by magazines, in received order.
func (r *Result) All() []domain.RemoteActor {
	all := make([]domain.RemoteActor, 0, len(r.Communities)+len(r.Magazines))
	all = append(all, r.Communities...)

	return append(all, r.Magazines...)
}

// Fetcher reads the whole directory page by page.
type Fetcher struct {
	client   aggregator.Client
	options  Options
	recorder Recorder
}

// New creates a Fetcher. recorder may be nil.
func New(client aggregator.Client, options Options, recorder Recorder) *Fetcher {
	if options.PageSize <= 0 {
		options.PageSize = PageSize
	}

	return &Fetcher{
		client:   client,
		options:  options,
		recorder: recorder,
	}
}

// PageIndexes returns the page indexes to fetch for total entries, from
// floor(total/pageSize) down to 0.
func PageIndexes(total, pageSize int) []int {
	if total < 0 {
		total = 0
	}
	last := total / pageSize
	pages := make([]int, 0, last+1)
	for p := last; p >= 0; p-- {
		pages = append(pages, p)
	}

	return pages
}

// Fetch reads the totals then every community and magazine page. Communities
// without posts are dropped, magazines are only filtered by instance. Any
// failure aborts the fetch without a partial result.
func (f *Fetcher) Fetch(ctx context.Context) (*Result, error) {
	meta, err := f.client.Meta(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not fetch directory totals: %w", err)
	}
	logger.Info(ctx, "fetched directory totals",
		zap.Int("communities", meta.Communities),
		zap.Int("magazines", meta.Magazines))

	communities, err := f.fetchKind(ctx, domain.ActorKindCommunity, meta.Communities, f.client.Communities)
	if err != nil {
		return nil, err
	}
	magazines, err := f.fetchKind(ctx, domain.ActorKindMagazine, meta.Magazines, f.client.Magazines)
	if err != nil {
		return nil, err
	}

	return &Result{Communities: communities, Magazines: magazines}, nil
}

type pageFunc func(ctx context.Context, page int) ([]domain.RemoteActor, error)

func (f *Fetcher) fetchKind(
	ctx context.Context,
	kind domain.ActorKind,
	total int,
	fetch pageFunc) ([]domain.RemoteActor, error) {
	pages := PageIndexes(total, f.options.PageSize)
	top := pages[0]

	var kept []domain.RemoteActor
	for _, page := range pages {
		actors, err := fetch(ctx, page)
		if err != nil {
			// an exact multiple of the page size leaves the top index empty and
			// the aggregator may not publish it at all
			if page == top && total%f.options.PageSize == 0 && errors.Is(err, serrors.ErrNotFound) {
				logger.Debug(ctx, "top directory page not published",
					zap.String("kind", string(kind)),
					zap.Int("page", page))

				continue
			}

			return nil, serrors.Wrap(serrors.ErrUnexpectedResponse, err, "could not fetch %s page %d", kind, page)
		}

		before := len(kept)
		for _, actor := range actors {
			if f.keep(actor) {
				kept = append(kept, actor)
			}
		}
		logger.Debug(ctx, "fetched directory page",
			zap.String("kind", string(kind)),
			zap.Int("page", page),
			zap.Int("received", len(actors)),
			zap.Int("kept", len(kept)-before))
	}

	logger.Info(ctx, "filtered directory", zap.String("kind", string(kind)), zap.Int("kept", len(kept)))
	if f.recorder != nil {
		f.recorder.ActorsFetched(ctx, string(kind), len(kept))
	}

	return kept, nil
}

func (f *Fetcher) keep(actor domain.RemoteActor) bool {
	if actor.Kind == domain.ActorKindCommunity && actor.Posts <= 0 {
		return false
	}

	return f.options.Filter.Allows(actor.Instance)
}

// Package syncer drives a synchronization run against the local instance:
// it logs in, enumerates the communities the instance knows, asks it to
// discover the missing ones and follows everything not yet subscribed.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"lemmony/internal/config"
	"lemmony/pkg/domain"
	"lemmony/pkg/instance"
	"lemmony/pkg/logger"
	"lemmony/pkg/serrors"
	"lemmony/pkg/storage"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// PageSize is the default page size used to list local communities.
const PageSize = 50

// Options configure a Syncer.
type Options struct {
	Username string
	Password string
	// PageSize is the limit passed when listing local communities.
	PageSize int
	// DryRun skips every discovery and follow call.
	DryRun bool
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config, dryRun bool) Options {
	return Options{
		Username: cfg.Local.Username,
		Password: cfg.Local.Password,
		PageSize: cfg.Local.PageSize,
		DryRun:   dryRun,
	}
}

// Recorder receives per-call outcomes.
type Recorder interface {
	DiscoveryRequest(ctx context.Context, status int)
	Followed(ctx context.Context, state string)
}

// Syncer runs the steps of a synchronization. Calls are sequential.
type Syncer struct {
	client   instance.Client
	store    storage.ProcessedStore
	options  Options
	recorder Recorder
}

// New creates a Syncer. A nil store never reports an actor processed and a
// nil recorder discards outcomes.
func New(client instance.Client, store storage.ProcessedStore, options Options, recorder Recorder) *Syncer {
	if store == nil {
		store = storage.Nop{}
	}
	if options.PageSize <= 0 {
		options.PageSize = PageSize
	}

	return &Syncer{
		client:   client,
		store:    store,
		options:  options,
		recorder: recorder,
	}
}

// Run synchronizes the instance with actors, which are expected in directory
// order. Soft failures end up in the report, fatal ones abort the run and are
// returned along with the partial report.
func (s *Syncer) Run(ctx context.Context, actors []domain.RemoteActor) (*Report, error) {
	report := newReport(s.options.DryRun)
	defer func() {
		report.FinishedAt = time.Now()
	}()

	for _, a := range actors {
		if a.Kind == domain.ActorKindMagazine {
			report.Magazines++
		} else {
			report.Communities++
		}
	}

	session, err := s.Authenticate(ctx)
	if err != nil {
		return report, err
	}

	known, err := s.KnownActors(ctx, session)
	if err != nil {
		return report, err
	}
	report.Known = len(known)

	if err := s.Discover(ctx, session, actors, known, report); err != nil {
		return report, err
	}

	ids, err := s.Unsubscribed(ctx, session)
	if err != nil {
		return report, err
	}
	report.Unsubscribed = len(ids)

	if err := s.Subscribe(ctx, session, ids, report); err != nil {
		return report, err
	}

	return report, nil
}

// Authenticate logs in with the configured credentials.
func (s *Syncer) Authenticate(ctx context.Context) (domain.Session, error) {
	session, err := s.client.Login(ctx, s.options.Username, s.options.Password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("could not log in: %w", err)
	}

	fields := []zap.Field{zap.String("username", s.options.Username)}
	if !session.ExpiresAt.IsZero() {
		fields = append(fields, zap.Time("expiresAt", session.ExpiresAt))
	}
	logger.Info(ctx, "logged in", fields...)

	return session, nil
}

// KnownActors lists every community the instance knows, keyed by actor URL.
func (s *Syncer) KnownActors(ctx context.Context, session domain.Session) (map[string]int64, error) {
	known := map[string]int64{}
	if err := s.enumerate(ctx, session, func(c domain.LocalCommunity) {
		known[c.ActorID] = c.ID
	}); err != nil {
		return nil, fmt.Errorf("could not list known communities: %w", err)
	}
	logger.Info(ctx, "enumerated known communities", zap.Int("count", len(known)))

	return known, nil
}

// Unsubscribed lists the ids of communities the session user is not subscribed
// to. Pending subscriptions are included.
func (s *Syncer) Unsubscribed(ctx context.Context, session domain.Session) ([]int64, error) {
	var ids []int64
	if err := s.enumerate(ctx, session, func(c domain.LocalCommunity) {
		if c.Subscribed != domain.SubscribedTypeSubscribed {
			ids = append(ids, c.ID)
		}
	}); err != nil {
		return nil, fmt.Errorf("could not list unsubscribed communities: %w", err)
	}
	logger.Info(ctx, "enumerated unsubscribed communities", zap.Int("count", len(ids)))

	return ids, nil
}

// enumerate walks the local community listing from page 1 until a page comes
// back empty.
func (s *Syncer) enumerate(ctx context.Context, session domain.Session, visit func(domain.LocalCommunity)) error {
	for page := 1; ; page++ {
		communities, err := s.client.Communities(ctx, session, page, s.options.PageSize)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}
		if len(communities) == 0 {
			logger.Debug(ctx, "community listing exhausted", zap.Int("pages", page-1))

			return nil
		}
		for _, c := range communities {
			visit(c)
		}
	}
}

// Discover asks the instance to look up every actor it does not know yet.
// A failed lookup is recorded as a warning and the loop carries on; a
// cancelled context or a store failure aborts it.
func (s *Syncer) Discover(
	ctx context.Context,
	session domain.Session,
	actors []domain.RemoteActor,
	known map[string]int64,
	report *Report) error {
	total := len(actors)
	for i, actor := range actors {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("discovery interrupted: %w", err)
		}
		progress := strconv.Itoa(i+1) + "/" + strconv.Itoa(total)

		if _, ok := known[actor.ActorID]; ok {
			report.AlreadyKnown++
			logger.Info(ctx, "actor already exists", zap.String("progress", progress), zap.String("actor", actor.ActorID))

			continue
		}

		processed, err := s.store.IsProcessed(ctx, actor.ActorID)
		if err != nil {
			return fmt.Errorf("could not check processed actor %s: %w", actor.ActorID, err)
		}
		if processed {
			report.AlreadyProcessed++
			logger.Info(ctx, "actor already processed", zap.String("progress", progress), zap.String("actor", actor.ActorID))

			continue
		}

		if s.options.DryRun {
			report.Searched++
			logger.Info(ctx, "would discover actor", zap.String("progress", progress), zap.String("actor", actor.ActorID))

			continue
		}

		status, err := s.discoverOne(ctx, session, actor)
		if err != nil {
			if !serrors.IsSoft(err) {
				return err
			}
			report.Warnings = append(report.Warnings, Warning{ActorID: actor.ActorID, Status: status, Message: err.Error()})
			logger.Warn(ctx, "could not discover actor",
				zap.String("progress", progress),
				zap.String("actor", actor.ActorID),
				zap.Int("status", status),
				zap.Error(err))

			continue
		}
		report.Searched++
		logger.Info(ctx, "discovered actor",
			zap.String("progress", progress),
			zap.String("actor", actor.ActorID),
			zap.Int("status", status))
	}

	return nil
}

func (s *Syncer) discoverOne(ctx context.Context, session domain.Session, actor domain.RemoteActor) (int, error) {
	status, err := s.client.Search(ctx, session, actor.ActorID)
	if s.recorder != nil {
		s.recorder.DiscoveryRequest(ctx, status)
	}
	switch {
	case err != nil && ctx.Err() != nil:
		return status, fmt.Errorf("discovery interrupted: %w", errors.Join(ctx.Err(), err))
	case err != nil:
		return status, serrors.Wrap(serrors.ErrDiscoveryFailed, err, "search for %s failed", actor.ActorID)
	case status != http.StatusOK:
		return status, serrors.With(serrors.ErrDiscoveryFailed, "search for %s returned status %d", actor.ActorID, status)
	}

	if err := s.store.MarkProcessed(ctx, actor); err != nil {
		return status, fmt.Errorf("could not mark actor %s processed: %w", actor.ActorID, err)
	}

	return status, nil
}

// Subscribe follows every community in ids. Any failure aborts.
func (s *Syncer) Subscribe(ctx context.Context, session domain.Session, ids []int64, report *Report) error {
	if report.Follows == nil {
		report.Follows = map[domain.SubscribedType]int{}
	}
	total := len(ids)
	for i, id := range ids {
		progress := strconv.Itoa(i+1) + "/" + strconv.Itoa(total)
		if s.options.DryRun {
			logger.Info(ctx, "would follow community", zap.String("progress", progress), zap.Int64("communityID", id))

			continue
		}

		state, err := s.client.Follow(ctx, session, id)
		if err != nil {
			return fmt.Errorf("could not follow community %d: %w", id, err)
		}
		report.Follows[state]++
		if s.recorder != nil {
			s.recorder.Followed(ctx, string(state))
		}
		logger.Info(ctx, "followed community",
			zap.String("progress", progress),
			zap.Int64("communityID", id),
			zap.String("subscribed", string(state)))
	}

	return nil
}

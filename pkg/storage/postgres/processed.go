package postgres

import (
	"context"
	"fmt"
	"lemmony/pkg/domain"
	"lemmony/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	processedTable = "processed_actors"
)

// IsProcessed reports whether a row exists for actorID that was processed
// within the TTL. The age is measured with the database clock.
func (p *PgSQL) IsProcessed(ctx context.Context, actorID string) (bool, error) {
	if actorID == "" {
		return false, storage.ErrEmptyActorID
	}

	where := []exp.Expression{goqu.I("actor_id").Eq(actorID)}
	if p.ttl > 0 {
		where = append(where, goqu.L("processed_at > CURRENT_TIMESTAMP - make_interval(secs => ?)", p.ttl.Seconds()))
	}
	count, err := p.Builder.From(processedTable).
		Where(where...).
		CountContext(ctx)
	if err != nil {
		return false, fmt.Errorf("could not look up processed actor in pg: %w", err)
	}

	return count > 0, nil
}

// MarkProcessed upserts actor and refreshes processed_at.
func (p *PgSQL) MarkProcessed(ctx context.Context, actor domain.RemoteActor) error {
	if actor.ActorID == "" {
		return storage.ErrEmptyActorID
	}

	_, err := p.Builder.Insert(processedTable).
		Rows(pgProcessedActorFromDomain(actor)).
		OnConflict(goqu.DoUpdate("actor_id", goqu.Record{
			"instance":     goqu.L("EXCLUDED.instance"),
			"kind":         goqu.L("EXCLUDED.kind"),
			"processed_at": goqu.L("CURRENT_TIMESTAMP"),
		})).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not store processed actor into pg: %w", err)
	}

	return nil
}

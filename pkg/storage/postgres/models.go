package postgres

import (
	"lemmony/pkg/domain"
	"time"
)

// PgProcessedActor is a row of processed_actors.
type PgProcessedActor struct {
	ActorID     string    `db:"actor_id"`
	Instance    string    `db:"instance"`
	Kind        string    `db:"kind"`
	ProcessedAt time.Time `db:"processed_at" goqu:"skipinsert"`
}

func pgProcessedActorFromDomain(actor domain.RemoteActor) PgProcessedActor {
	return PgProcessedActor{
		ActorID:  actor.ActorID,
		Instance: actor.Instance,
		Kind:     string(actor.Kind),
	}
}

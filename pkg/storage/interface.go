// Package storage defines the set of actors already processed by previous
// runs. A processed actor was successfully handed to the local instance's
// discovery route, so later runs can skip it.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import (
	"context"
	"lemmony/pkg/domain"
)

// ProcessedStore records processed actors keyed by actor URL.
type ProcessedStore interface {
	// IsProcessed reports whether actorID was marked by an earlier call to MarkProcessed.
	IsProcessed(ctx context.Context, actorID string) (bool, error)
	// MarkProcessed records actor. Marking an actor twice refreshes its timestamp.
	MarkProcessed(ctx context.Context, actor domain.RemoteActor) error
	// Close releases the underlying connections.
	Close() error
}

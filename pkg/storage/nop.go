package storage

import (
	"context"
	"lemmony/pkg/domain"
)

// Nop is the store used when no driver is configured: nothing is remembered
// and every actor goes through discovery on every run.
type Nop struct{}

// IsProcessed always reports false.
func (Nop) IsProcessed(context.Context, string) (bool, error) { return false, nil }

// MarkProcessed discards actor.
func (Nop) MarkProcessed(context.Context, domain.RemoteActor) error { return nil }

// Close has nothing to release.
func (Nop) Close() error { return nil }

var _ ProcessedStore = Nop{}

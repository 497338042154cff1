// Package aggregator defines the read-only directory of federated communities
// and magazines that lemmony synchronizes against.
package aggregator

import (
	"context"
	"lemmony/pkg/domain"
)

// Client reads the directory. Pages are zero-indexed; every returned actor
// carries its kind and origin instance.
//
//go:generate mockgen -package mockaggregator -source=interface.go -destination=mock/mockaggregator.go *
type Client interface {
	// Meta returns the total number of communities and magazines listed.
	Meta(ctx context.Context) (domain.DirectoryMeta, error)
	// Communities returns one page of communities.
	Communities(ctx context.Context, page int) ([]domain.RemoteActor, error)
	// Magazines returns one page of magazines.
	Magazines(ctx context.Context, page int) ([]domain.RemoteActor, error)
}

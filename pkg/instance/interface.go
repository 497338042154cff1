// Package instance defines the authenticated operations lemmony performs
// against the local federated instance.
package instance

import (
	"context"
	"lemmony/pkg/domain"
)

// Client talks to the local instance. Every call except Login needs the
// session returned by Login.
//
//go:generate mockgen -package mockinstance -source=interface.go -destination=mock/mockinstance.go *
type Client interface {
	// Login exchanges credentials for a session.
	Login(ctx context.Context, username, password string) (domain.Session, error)
	// Communities returns one page of the communities known to the instance.
	// Pages start at 1; an empty page marks the end of the listing.
	Communities(ctx context.Context, session domain.Session, page, limit int) ([]domain.LocalCommunity, error)
	// Search asks the instance to look up query, which makes it fetch unknown
	// remote actors. Only the HTTP status is meaningful.
	Search(ctx context.Context, session domain.Session, query string) (int, error)
	// Follow subscribes the session user to a community and returns the new state.
	Follow(ctx context.Context, session domain.Session, communityID int64) (domain.SubscribedType, error)
}

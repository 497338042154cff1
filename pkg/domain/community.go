package domain

import "time"

// SubscribedType is the subscription state of the logged-in user for a community.
type SubscribedType string

const (
	// SubscribedTypeSubscribed means the follow was accepted.
	SubscribedTypeSubscribed SubscribedType = "Subscribed"
	// SubscribedTypeNotSubscribed means the user does not follow the community.
	SubscribedTypeNotSubscribed SubscribedType = "NotSubscribed"
	// SubscribedTypePending means a follow was sent and the remote instance has not accepted it yet.
	SubscribedTypePending SubscribedType = "Pending"
)

// LocalCommunity is a community as known by the local instance.
type LocalCommunity struct {
	// ID is the community id scoped to the local instance.
	ID int64 `json:"id"`
	// ActorID is the federation actor URL of the community.
	ActorID string `json:"actorId"`
	// Subscribed is the subscription state of the session user.
	Subscribed SubscribedType `json:"subscribed"`
}

// Session is an authenticated session against the local instance.
type Session struct {
	// Token is the opaque bearer token returned by the login endpoint.
	Token string
	// ExpiresAt is read from the token claims. Zero when the token carries no expiry.
	ExpiresAt time.Time
}

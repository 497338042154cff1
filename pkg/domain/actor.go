package domain

// ActorKind tells which kind of federated group an actor identifies.
type ActorKind string

const (
	// ActorKindCommunity is a Lemmy community.
	ActorKindCommunity ActorKind = "community"
	// ActorKindMagazine is a kbin magazine.
	ActorKindMagazine ActorKind = "magazine"
)

// RemoteActor is a community or magazine listed by the aggregator.
type RemoteActor struct {
	// ActorID is the federation actor URL, e.g. https://lemmy.ml/c/linux.
	ActorID string `json:"actorId"`
	// Instance is the hostname of the instance the actor lives on.
	Instance string `json:"instance"`
	// Kind is either community or magazine.
	Kind ActorKind `json:"kind"`
	// Posts is the number of posts reported by the aggregator. Only communities carry it.
	Posts int `json:"posts,omitempty"`
}

// DirectoryMeta holds the totals reported by the aggregator, used to compute
// how many pages have to be fetched.
type DirectoryMeta struct {
	Communities int `json:"communities"`
	Magazines   int `json:"magazines"`
}

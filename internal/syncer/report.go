package syncer

import (
	"lemmony/pkg/domain"
	"time"
)

// Warning is a soft failure recorded during discovery.
type Warning struct {
	// ActorID is the actor whose discovery failed.
	ActorID string
	// Status is the HTTP status returned by the instance, 0 when no response was received.
	Status int
	// Message describes the failure.
	Message string
}

// Report summarizes a run.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool

	// Communities and Magazines count the actors kept from the directory.
	Communities int
	Magazines   int
	// Known is the number of communities the instance knew before discovery.
	Known int
	// AlreadyKnown counts directory actors skipped because the instance knew them.
	AlreadyKnown int
	// AlreadyProcessed counts actors skipped because an earlier run discovered them.
	AlreadyProcessed int
	// Searched counts discovery calls that succeeded. In a dry run it counts
	// the calls that would have been made.
	Searched int
	Warnings []Warning

	// Unsubscribed is the size of the subscribe worklist.
	Unsubscribed int
	// Follows counts follow calls by resulting subscription state.
	Follows map[domain.SubscribedType]int
}

func newReport(dryRun bool) *Report {
	return &Report{
		StartedAt: time.Now(),
		DryRun:    dryRun,
		Follows:   map[domain.SubscribedType]int{},
	}
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}

	return r.FinishedAt.Sub(r.StartedAt)
}

// Followed is the total number of follow calls made.
func (r *Report) Followed() int {
	n := 0
	for _, c := range r.Follows {
		n += c
	}

	return n
}

// Package domain contains the entities shared by the directory fetcher, the
// instance client and the synchronizer: remote actors listed by the aggregator,
// communities known to the local instance and the authenticated session.
// They hold no infrastructure concerns and live only for the duration of a run.
package domain

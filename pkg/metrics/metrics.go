// Package metrics records run metrics with OpenTelemetry instruments exported
// through a Prometheus registry. A finished run can push the registry to a
// Pushgateway since the process does not live long enough to be scraped.
package metrics

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const meterName = "lemmony"

// Recorder owns the registry and the instruments of a run.
type Recorder struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider

	actors          metric.Int64Counter
	discovery       metric.Int64Counter
	follows         metric.Int64Counter
	requestDuration metric.Float64Histogram
}

// New creates a Recorder backed by a fresh registry.
func New() (*Recorder, error) {
	registry := prometheus.NewRegistry()

	exp, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	meter := provider.Meter(meterName)

	r := &Recorder{registry: registry, provider: provider}

	if r.actors, err = meter.Int64Counter("lemmony.directory.actors",
		metric.WithDescription("Remote actors kept after filtering the directory")); err != nil {
		return nil, fmt.Errorf("could not create actors counter: %w", err)
	}
	if r.discovery, err = meter.Int64Counter("lemmony.discovery.requests",
		metric.WithDescription("Discovery search requests by outcome")); err != nil {
		return nil, fmt.Errorf("could not create discovery counter: %w", err)
	}
	if r.follows, err = meter.Int64Counter("lemmony.follows",
		metric.WithDescription("Follow requests by resulting subscription state")); err != nil {
		return nil, fmt.Errorf("could not create follows counter: %w", err)
	}
	if r.requestDuration, err = meter.Float64Histogram("lemmony.http.request.duration",
		metric.WithDescription("Outbound HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...)); err != nil {
		return nil, fmt.Errorf("could not create request duration histogram: %w", err)
	}

	return r, nil
}

// Registry returns the registry the instruments are exported to.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ActorsFetched counts n actors of kind kept from the directory.
func (r *Recorder) ActorsFetched(ctx context.Context, kind string, n int) {
	r.actors.Add(ctx, int64(n), metric.WithAttributes(attribute.String("kind", kind)))
}

// DiscoveryRequest counts one discovery call. Status 0 means no response.
func (r *Recorder) DiscoveryRequest(ctx context.Context, status int) {
	r.discovery.Add(ctx, 1, metric.WithAttributes(attribute.String("status", statusLabel(status))))
}

// Followed counts one follow call by resulting state.
func (r *Recorder) Followed(ctx context.Context, state string) {
	r.follows.Add(ctx, 1, metric.WithAttributes(attribute.String("state", state)))
}

// ObserveRequest records the latency of one outbound request.
func (r *Recorder) ObserveRequest(ctx context.Context, host string, status int, seconds float64) {
	r.requestDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("host", host),
		attribute.String("status", statusLabel(status)),
	))
}

// Push sends the registry to the Pushgateway at url under job.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("could not push metrics: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if err := r.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not shutdown meter provider: %w", err)
	}

	return nil
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}

	return strconv.Itoa(status)
}

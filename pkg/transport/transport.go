package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(next http.RoundTripper, userAgent string) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		r = r.Clone(r.Context())
		r.Header.Set("User-Agent", userAgent)

		return next.RoundTrip(r)
	})
}

// WithRateLimit blocks each request until limiter allows it or the request
// context is done.
func WithRateLimit(next http.RoundTripper, limiter *rate.Limiter) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if err := limiter.Wait(r.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		return next.RoundTrip(r)
	})
}

// Observer receives the outcome of a request. Status is 0 when no response was received.
type Observer func(ctx context.Context, host string, status int, seconds float64)

// WithObserver reports every request to observe.
func WithObserver(next http.RoundTripper, observe Observer) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(r)

		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		observe(r.Context(), r.URL.Host, status, time.Since(start).Seconds())

		return resp, err
	})
}

// Options configure the client built by New.
type Options struct {
	// Base is the innermost transport, http.DefaultTransport when nil.
	Base http.RoundTripper
	// Timeout bounds every request including reading the body. Zero disables it.
	Timeout time.Duration
	// UserAgent is sent when not empty.
	UserAgent string
	// RequestsPerSecond throttles requests when positive. Bursts are not allowed.
	RequestsPerSecond float64
	// Observer is notified of every request when set.
	Observer Observer
}

// New builds an *http.Client running requests through the middlewares
// enabled in opts. The rate limit is applied outermost so waiting time does
// not count as request latency.
func New(opts Options) *http.Client {
	rt := opts.Base
	if rt == nil {
		rt = http.DefaultTransport
	}

	if opts.Observer != nil {
		rt = WithObserver(rt, opts.Observer)
	}
	rt = WithLogger(rt)
	if opts.UserAgent != "" {
		rt = WithUserAgent(rt, opts.UserAgent)
	}
	if opts.RequestsPerSecond > 0 {
		rt = WithRateLimit(rt, rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1))
	}

	return &http.Client{
		Transport: rt,
		Timeout:   opts.Timeout,
	}
}

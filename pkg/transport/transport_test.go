package transport_test

import (
	"context"
	"errors"
	"io"
	"lemmony/pkg/logger"
	"lemmony/pkg/transport"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

func okResponse() *http.Response {
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("ok"))}
}

func TestWithLogger_SetsRequestIDAndLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	var seen []string
	rt := transport.WithLogger(transport.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = append(seen, r.Header.Get(transport.RequestIDHeader))

		return okResponse(), nil
	}))

	// request without an ID gets a generated one
	req := httptest.NewRequest(http.MethodGet, "https://lemmy.co.uk/api/v3/community/list?page=1", nil).WithContext(ctx)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	require.NotEmpty(t, seen[0])
	require.Empty(t, req.Header.Get(transport.RequestIDHeader), "caller request must not be mutated")

	// request with an ID keeps it
	req = httptest.NewRequest(http.MethodGet, "https://lemmy.co.uk/search?q=x", nil).WithContext(ctx)
	req.Header.Set(transport.RequestIDHeader, "abc-123")
	_, err = rt.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, "abc-123", seen[1])

	entries := logs.All()
	require.Len(t, entries, 2)
	fields := entries[1].ContextMap()
	require.Equal(t, "abc-123", fields["requestID"])
	require.Equal(t, "/search", fields["path"])
	require.Equal(t, int64(http.StatusOK), fields["status_code"])
}

func TestWithLogger_Error(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	rt := transport.WithLogger(transport.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}))

	req := httptest.NewRequest(http.MethodGet, "https://down.example/", nil).WithContext(ctx)
	_, err := rt.RoundTrip(req)
	require.Error(t, err)
	require.Equal(t, "HTTP request failed", logs.All()[0].Message)
}

func TestWithUserAgent(t *testing.T) {
	rt := transport.WithUserAgent(transport.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "lemmony/test", r.UserAgent())

		return okResponse(), nil
	}), "lemmony/test")

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "https://lemmyverse.net/data/meta.json", nil))
	require.NoError(t, err)
}

func TestWithRateLimit_CanceledContext(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	calls := 0
	rt := transport.WithRateLimit(transport.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		calls++

		return okResponse(), nil
	}), limiter)

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "https://lemmy.co.uk/", nil))
	require.NoError(t, err)

	// the bucket is empty for an hour, a short deadline cannot be met
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = rt.RoundTrip(httptest.NewRequest(http.MethodGet, "https://lemmy.co.uk/", nil).WithContext(ctx))
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestWithObserver(t *testing.T) {
	var (
		hosts    []string
		statuses []int
	)
	observe := func(_ context.Context, host string, status int, seconds float64) {
		hosts = append(hosts, host)
		statuses = append(statuses, status)
		require.GreaterOrEqual(t, seconds, 0.0)
	}

	fail := false
	rt := transport.WithObserver(transport.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if fail {
			return nil, errors.New("timeout")
		}

		return okResponse(), nil
	}), observe)

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "https://lemmy.co.uk/", nil))
	require.NoError(t, err)
	fail = true
	_, err = rt.RoundTrip(httptest.NewRequest(http.MethodGet, "https://lemmy.co.uk/", nil))
	require.Error(t, err)

	require.Equal(t, []string{"lemmy.co.uk", "lemmy.co.uk"}, hosts)
	require.Equal(t, []int{http.StatusOK, 0}, statuses)
}

func TestNew_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "lemmony", r.UserAgent())
		require.NotEmpty(t, r.Header.Get(transport.RequestIDHeader))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	observed := 0
	client := transport.New(transport.Options{
		Timeout:           5 * time.Second,
		UserAgent:         "lemmony",
		RequestsPerSecond: 100,
		Observer: func(_ context.Context, _ string, status int, _ float64) {
			require.Equal(t, http.StatusAccepted, status)
			observed++
		},
	})

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, 1, observed)
	require.Equal(t, 5*time.Second, client.Timeout)
}

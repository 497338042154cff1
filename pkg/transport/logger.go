package transport

import (
	"lemmony/pkg/logger"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f(r).
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// RequestIDHeader carries the ID of an outbound request.
const RequestIDHeader = "X-Request-Id"

// WithLogger sets a request ID on requests that have none and logs the
// outcome at debug level. Query strings are left out of the log since search
// queries can be long.
func WithLogger(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		ctx := r.Context()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			r = r.Clone(ctx)
			r.Header.Set(RequestIDHeader, requestID)
		}

		start := time.Now()
		resp, err := next.RoundTrip(r)

		fields := []zap.Field{
			zap.String("requestID", requestID),
			zap.String("method", r.Method),
			zap.String("host", r.URL.Host),
			zap.String("path", r.URL.Path),
			zap.Float64("latency", time.Since(start).Seconds()),
		}
		if err != nil {
			logger.Debug(ctx, "HTTP request failed", append(fields, zap.Error(err))...)

			return nil, err
		}
		logger.Debug(ctx, "HTTP request", append(fields, zap.Int("status_code", resp.StatusCode))...)

		return resp, nil
	})
}

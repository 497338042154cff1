// Package transport contains http.RoundTripper middlewares used by the
// aggregator and instance clients.
//
// Provided middlewares:
//   - WithLogger: Sets a request ID header and logs each request at debug level.
//   - WithUserAgent: Sets the User-Agent header.
//   - WithRateLimit: Waits on a token bucket before each request.
//   - WithObserver: Reports the latency and status of each request.
//
// New chains them into an *http.Client.
package transport

// Package transport provides the HTTP plumbing shared by all folio
// endpoints: error-to-status mapping, the result/error response envelopes,
// and HTTP-level middleware.
//
// # Response Envelopes
//
// Every endpoint replies with one of two JSON envelopes. Successful
// operations wrap their payload as {"result": ...}; failures wrap either a
// message string or a list of field violations as {"error": ...}. The HTTP
// status code is derived from the error kind by HTTPStatusFromError.
//
// # Middleware
//
// Middleware wraps http.Handler with cross-cutting concerns: panic
// recovery, request ID assignment (X-Request-ID), and structured request
// logging via log/slog. Authentication and metrics middleware live in
// their own packages and compose the same way.
package transport

// Package middleware provides HTTP middleware components for the API server.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request correlation ID on both the inbound
// request and the response.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength caps client-supplied IDs; anything longer is replaced.
const maxRequestIDLength = 64

type requestIDKey struct{}

// RequestID tags every request with a correlation ID. A well-formed inbound
// X-Request-ID is trusted so callers can correlate across services;
// otherwise a fresh UUID is minted. The ID is echoed on the response and
// stored in the request context for log and error output.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the correlation ID from the context, or "" when the
// request did not pass through the RequestID middleware.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

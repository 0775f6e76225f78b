package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// serveWithRequestID runs one request through the middleware and returns the
// ID observed inside the handler plus the recorded response.
func serveWithRequestID(t *testing.T, inbound string) (string, *httptest.ResponseRecorder) {
	t.Helper()

	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	if inbound != "" {
		req.Header.Set(RequestIDHeader, inbound)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return seen, rr
}

func TestRequestIDMintsUUID(t *testing.T) {
	seen, rr := serveWithRequestID(t, "")

	if seen == "" {
		t.Fatal("expected a request ID in the handler context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("expected a UUID request ID, got %q: %v", seen, err)
	}
	if echoed := rr.Header().Get(RequestIDHeader); echoed != seen {
		t.Errorf("response header %q does not match context ID %q", echoed, seen)
	}
}

func TestRequestIDTrustsInboundHeader(t *testing.T) {
	inbound := "gateway-7f3a"
	seen, rr := serveWithRequestID(t, inbound)

	if seen != inbound {
		t.Errorf("expected inbound ID %q in context, got %q", inbound, seen)
	}
	if echoed := rr.Header().Get(RequestIDHeader); echoed != inbound {
		t.Errorf("expected inbound ID echoed on response, got %q", echoed)
	}
}

func TestRequestIDReplacesOversizedHeader(t *testing.T) {
	inbound := strings.Repeat("x", maxRequestIDLength+1)
	seen, _ := serveWithRequestID(t, inbound)

	if seen == inbound {
		t.Fatal("expected oversized inbound ID to be replaced")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("expected replacement to be a UUID, got %q: %v", seen, err)
	}
}

func TestGetRequestIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	if id := GetRequestID(req.Context()); id != "" {
		t.Errorf("expected empty ID outside the middleware, got %q", id)
	}
}

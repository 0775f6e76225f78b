package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// testLogEntry represents a parsed JSON log entry for testing.
type testLogEntry struct {
	Level     string `json:"level"`
	Msg       string `json:"msg"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Size      int    `json:"size"`
	RequestID string `json:"request_id"`
	UserID    string `json:"user_id"`
	ErrorCode string `json:"error_code"`
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestLogging_BasicFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	var entry testLogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry: %v, log: %s", err, buf.String())
	}

	if entry.Method != "GET" {
		t.Errorf("expected method GET, got %s", entry.Method)
	}
	if entry.Path != "/v1/feed" {
		t.Errorf("expected path /v1/feed, got %s", entry.Path)
	}
	if entry.Status != 200 {
		t.Errorf("expected status 200, got %d", entry.Status)
	}
	if entry.LatencyMS < 0 {
		t.Errorf("expected latency_ms >= 0, got %d", entry.LatencyMS)
	}
	if entry.Size != 5 { // "hello" = 5 bytes
		t.Errorf("expected size 5, got %d", entry.Size)
	}
	if entry.Level != "INFO" {
		t.Errorf("expected level INFO, got %s", entry.Level)
	}
}

func TestLogging_WithRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	// Chain RequestID middleware with Logging middleware
	handler := RequestID(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	req.Header.Set(RequestIDHeader, "test-request-id-456")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	var entry testLogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry: %v", err)
	}

	if entry.RequestID != "test-request-id-456" {
		t.Errorf("expected request_id test-request-id-456, got %s", entry.RequestID)
	}
}

func TestLogging_WithUserID(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Simulate authentication middleware setting the user ID
		ctx := SetUserID(r.Context(), "user-123")
		*r = *r.WithContext(ctx)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	var entry testLogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry: %v", err)
	}

	if entry.UserID != "user-123" {
		t.Errorf("expected user_id user-123, got %s", entry.UserID)
	}
}

func TestLogging_ErrorResponse(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Simulate error handler setting error code
		ctx := SetErrorCode(r.Context(), "VALIDATION_ERROR")
		*r = *r.WithContext(ctx)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"validation failed"}`))
	}))

	req := httptest.NewRequest(http.MethodPut, "/v1/ranking/config", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	var entry testLogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry: %v", err)
	}

	if entry.Status != 400 {
		t.Errorf("expected status 400, got %d", entry.Status)
	}
	if entry.ErrorCode != "VALIDATION_ERROR" {
		t.Errorf("expected error_code VALIDATION_ERROR, got %s", entry.ErrorCode)
	}
	if entry.Level != "WARN" {
		t.Errorf("expected level WARN for 4xx, got %s", entry.Level)
	}
}

func TestLogging_ServerError(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := SetErrorCode(r.Context(), "INTERNAL_ERROR")
		*r = *r.WithContext(ctx)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	var entry testLogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry: %v", err)
	}

	if entry.Status != 500 {
		t.Errorf("expected status 500, got %d", entry.Status)
	}
	if entry.ErrorCode != "INTERNAL_ERROR" {
		t.Errorf("expected error_code INTERNAL_ERROR, got %s", entry.ErrorCode)
	}
	if entry.Level != "ERROR" {
		t.Errorf("expected level ERROR for 5xx, got %s", entry.Level)
	}
}

func TestLogging_DefaultStatus(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	// Handler that doesn't explicitly set status code
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	var entry testLogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry: %v", err)
	}

	// Default status should be 200
	if entry.Status != 200 {
		t.Errorf("expected default status 200, got %d", entry.Status)
	}
}

func TestNewLogger_Production(t *testing.T) {
	logger := NewLogger("production")
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewLogger_Development(t *testing.T) {
	logger := NewLogger("development")
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestSetUserID_GetUserID(t *testing.T) {
	ctx := context.Background()

	if id := GetUserID(ctx); id != "" {
		t.Errorf("expected empty user ID, got %q", id)
	}

	ctx = SetUserID(ctx, "user-789")
	if id := GetUserID(ctx); id != "user-789" {
		t.Errorf("expected user-789, got %q", id)
	}
}

func TestSetErrorCode_GetErrorCode(t *testing.T) {
	ctx := context.Background()

	if code := GetErrorCode(ctx); code != "" {
		t.Errorf("expected empty error code, got %q", code)
	}

	ctx = SetErrorCode(ctx, "NOT_FOUND")
	if code := GetErrorCode(ctx); code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %q", code)
	}
}

func TestResponseWriter_WriteHeader(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	rw.WriteHeader(http.StatusCreated)

	if rw.statusCode != http.StatusCreated {
		t.Errorf("expected status code 201, got %d", rw.statusCode)
	}
	if w.Code != http.StatusCreated {
		t.Errorf("expected underlying writer status 201, got %d", w.Code)
	}
}

func TestResponseWriter_Write(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	data := []byte("test response body")
	n, err := rw.Write(data)

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if n != len(data) {
		t.Errorf("expected to write %d bytes, wrote %d", len(data), n)
	}
	if rw.size != len(data) {
		t.Errorf("expected size %d, got %d", len(data), rw.size)
	}
}

func TestLogging_NoErrorCodeFor2xx(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Set error code even for success (shouldn't be logged)
		ctx := SetErrorCode(r.Context(), "SOME_CODE")
		*r = *r.WithContext(ctx)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	// The error_code should not be present for 2xx responses
	logStr := buf.String()
	if strings.Contains(logStr, "error_code") {
		t.Error("error_code should not be logged for 2xx responses")
	}
}

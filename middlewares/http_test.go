package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubie-oss/nslog/core"
)

func TestHTTPMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		status   int
		size     int
		severity core.Severity
	}{
		{
			name:     "implicit ok",
			handler:  func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("hello")) },
			status:   http.StatusOK,
			size:     5,
			severity: core.INFO,
		},
		{
			name: "first status wins",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
				w.WriteHeader(http.StatusOK)
			},
			status:   http.StatusTeapot,
			severity: core.WARN,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			status:   http.StatusInternalServerError,
			size:     5,
			severity: core.ERROR,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			handler := HTTPMiddleware(DefaultMiddlewareConfig(logger))(tt.handler)

			req := httptest.NewRequest(http.MethodGet, "/items", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			call, fields := lastCall(t, logger, HTTPContext)
			assert.Equal(t, tt.severity, call.severity)
			assert.Equal(t, tt.status, fieldValue(t, fields, "status"))
			assert.Equal(t, tt.size, fieldValue(t, fields, "size"))
			assert.Equal(t, "192.0.2.1", fieldValue(t, fields, "remote_ip"))
			assert.Equal(t, rec.Header().Get(RequestIDHeader), fieldValue(t, fields, "request_id"))
		})
	}
}

func TestHTTPMiddleware_RequestContext(t *testing.T) {
	logger := &recordingLogger{}

	var seenID string
	handler := HTTPMiddleware(DefaultMiddlewareConfig(logger))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID, _ = core.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("X-Trace-ID", "trace-5")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "trace-5", seenID)
}

func TestHTTPMiddleware_SkipAndSample(t *testing.T) {
	tests := []struct {
		name   string
		config func(MiddlewareConfig) MiddlewareConfig
		path   string
	}{
		{"skip path", func(c MiddlewareConfig) MiddlewareConfig { return c }, "/ping"},
		{"custom skip path", func(c MiddlewareConfig) MiddlewareConfig { return c.WithSkipPaths("/internal") }, "/internal/state"},
		{"sampled out", func(c MiddlewareConfig) MiddlewareConfig { return c.WithSamplingRate(0) }, "/items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			called := false
			handler := HTTPMiddleware(tt.config(DefaultMiddlewareConfig(logger)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.True(t, called)
			assert.Empty(t, logger.Calls())
		})
	}
}

func TestHTTPMiddleware_Bodies(t *testing.T) {
	logger := &recordingLogger{}
	config := DefaultMiddlewareConfig(logger).
		WithRequestBodyLogging(true).
		WithResponseBodyLogging(true).
		WithMaxBodySize(1024)

	var received string
	handler := HTTPMiddleware(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secret":"s","ok":true}`))
	}))

	req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(`{"email":"alice@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer 0123456789")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, `{"email":"alice@example.com"}`, received)

	_, fields := lastCall(t, logger, HTTPContext)
	assert.Equal(t, `{"email":"al*************om"}`, fieldValue(t, fields, "request_body"))
	assert.Equal(t, `{"secret":"***","ok":true}`, fieldValue(t, fields, "response_body"))

	_, logged := fields.Get("header_authorization")
	assert.False(t, logged, "authorization is not in the logged header list")
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{"forwarded list", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "192.0.2.1:1", "10.0.0.1"},
		{"forwarded single", map[string]string{"X-Forwarded-For": " 10.0.0.3 "}, "192.0.2.1:1", "10.0.0.3"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.4"}, "192.0.2.1:1", "10.0.0.4"},
		{"remote addr", nil, "192.0.2.9:4321", "192.0.2.9"},
		{"remote addr without port", nil, "unix", "unix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, clientIP(req))
		})
	}
}

func TestStatusRecorder_Flush(t *testing.T) {
	rec := httptest.NewRecorder()
	writer := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	writer.Flush()
	assert.True(t, rec.Flushed)
	assert.Same(t, rec, writer.Unwrap())

	_, _, err := writer.Hijack()
	require.ErrorIs(t, err, http.ErrNotSupported)
}

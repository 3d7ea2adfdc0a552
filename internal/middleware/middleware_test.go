package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/models/user"
	"taskManager/internal/service"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubAuthenticator struct {
	user *user.User
	err  error
	got  string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*user.User, error) {
	s.got = token
	return s.user, s.err
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRequestID(t *testing.T) {
	var seen string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", seen)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}

func TestLogging_PassesThrough(t *testing.T) {
	h := middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

func TestAuth(t *testing.T) {
	alice := &user.User{ID: uuid.New(), Username: "alice"}

	tests := []struct {
		name       string
		header     string
		authn      *stubAuthenticator
		wantStatus int
		wantToken  string
		wantMsg    string
	}{
		{
			name:       "valid token",
			header:     "Bearer good-token",
			authn:      &stubAuthenticator{user: alice},
			wantStatus: http.StatusOK,
			wantToken:  "good-token",
		},
		{
			name:       "scheme is case insensitive",
			header:     "bearer good-token",
			authn:      &stubAuthenticator{user: alice},
			wantStatus: http.StatusOK,
			wantToken:  "good-token",
		},
		{
			name:       "missing header",
			authn:      &stubAuthenticator{user: alice},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "You must be logged in to access this resource",
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			authn:      &stubAuthenticator{user: alice},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token",
			header:     "Bearer   ",
			authn:      &stubAuthenticator{user: alice},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "rejected token",
			header:     "Bearer bad",
			authn:      &stubAuthenticator{err: service.NewUnauthorized(service.MsgInvalidToken, errors.New("expired"))},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    service.MsgInvalidToken,
		},
		{
			name:       "store unavailable",
			header:     "Bearer good-token",
			authn:      &stubAuthenticator{err: service.NewUnavailable(errors.New("pool exhausted"))},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    service.MsgUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *user.User
			h := middleware.Auth(tt.authn)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = middleware.UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, alice, got)
				assert.Equal(t, tt.wantToken, tt.authn.got)
				return
			}

			assert.Nil(t, got)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	_, ok := middleware.UserFromContext(context.Background())
	assert.False(t, ok)
}

func TestRateLimit(t *testing.T) {
	h := middleware.RateLimit(2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := call("10.0.0.1:1000")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001").Code)

	limited := call("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	body := decode(t, limited)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body["error"])

	// another client has its own budget
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000").Code)
}

func TestLogging_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(zap.NewNop()) })

	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusInternalServerError} {
		h := middleware.RequestID(middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	entries := logs.FilterMessage("HTTP: request completed").All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
}

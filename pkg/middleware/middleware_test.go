package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/justinas/alice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/ads-report-sync/internal/domain"
	"github.com/vfg2006/ads-report-sync/pkg/log"
)

type fakeAuthenticator struct{}

func (fakeAuthenticator) Login(string, string) (string, error) { return "", nil }

func (fakeAuthenticator) ValidateToken(token string) (*domain.Claims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &domain.Claims{Username: "ops"}, nil
}

func TestAuthMiddleware(t *testing.T) {
	var seen *domain.Claims
	handler := AuthMiddleware(fakeAuthenticator{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(ContextKeyUser).(*domain.Claims)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
	}{
		{name: "rota pública", path: "/healthcheck", wantStatus: http.StatusNoContent},
		{name: "sem header", path: "/v1/sync/status", wantStatus: http.StatusUnauthorized},
		{name: "sem Bearer", path: "/v1/sync/status", header: "good", wantStatus: http.StatusUnauthorized},
		{name: "token inválido", path: "/v1/sync/status", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "token válido", path: "/v1/sync/status", header: "Bearer good", wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	require.NotNil(t, seen)
	assert.Equal(t, "ops", seen.Username)
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"https://admin.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/v1/sync/status", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/sync/status", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogPanicMiddleware(t *testing.T) {
	handler := alice.New(LoggingMiddleware(), LogPanicMiddleware()).ThenFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, log.GetCorrelationID(r.Context()))
		panic("boom")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sync/runs", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "SRV_001")
}

package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leapstack-labs/leapdash/internal/classifier"
	"github.com/leapstack-labs/leapdash/internal/testutil"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common"
	"github.com/leapstack-labs/leapdash/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, isDev bool) *Server {
	t.Helper()
	return newTestServerWithTTL(t, isDev, 0)
}

func newTestServerWithTTL(t *testing.T, isDev bool, ttl time.Duration) *Server {
	t.Helper()
	reg, err := workspace.NewRegistry(workspace.Config{
		Classifier: classifier.New(nil),
		Latency:    time.Millisecond,
		TTL:        ttl,
		Logger:     testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(reg.Close)

	return NewServer(Config{
		Registry:      reg,
		Port:          8765,
		SessionSecret: "test-secret-key-32-bytes-long!!",
		SessionMaxAge: ttl,
		IsDev:         isDev,
		Logger:        testutil.NewTestLogger(t),
	})
}

func TestServer_Handler(t *testing.T) {
	tests := []struct {
		name       string
		isDev      bool
		path       string
		wantStatus int
	}{
		{"dashboard page", false, "/", http.StatusOK},
		{"stylesheet", false, "/static/dashboard.css", http.StatusOK},
		{"state api", false, "/api/state", http.StatusOK},
		{"hot reload in dev", true, "/hotreload", http.StatusOK},
		{"no hot reload in prod", false, "/hotreload", http.StatusNotFound},
		{"unknown path", false, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.isDev)
			h, err := srv.Handler()
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestServer_Addr(t *testing.T) {
	srv := newTestServer(t, false)
	assert.Equal(t, "http://localhost:8765", srv.Addr())
	assert.False(t, srv.IsDev())
}

func TestServer_SessionCookieSlidesWithActivity(t *testing.T) {
	srv := newTestServerWithTTL(t, false, 30*time.Minute)
	h, err := srv.Handler()
	require.NoError(t, err)

	var cookie *http.Cookie
	var workspaceID string
	for i := range 4 {
		req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1, "request %d", i)
		assert.Equal(t, 1800, cookies[0].MaxAge)
		cookie = cookies[0]

		check := httptest.NewRequest(http.MethodGet, "/", nil)
		check.AddCookie(cookie)
		id := common.WorkspaceID(check, srv.sessionStore)
		require.NotEmpty(t, id)
		if workspaceID == "" {
			workspaceID = id
		}
		assert.Equal(t, workspaceID, id, "request %d", i)
	}
	assert.Equal(t, 1, srv.registry.Len())
}

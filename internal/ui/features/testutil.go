// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdash/internal/classifier"
	"github.com/leapstack-labs/leapdash/internal/clock"
	"github.com/leapstack-labs/leapdash/internal/dataset"
	"github.com/leapstack-labs/leapdash/internal/testutil"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common"
	"github.com/leapstack-labs/leapdash/internal/workspace"
)

// TestEpoch is the fixed time used by feature tests.
var TestEpoch = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

// TestFixture holds all dependencies needed for UI handler tests.
//
// Requests built with NewRequest carry the session cookie captured from
// earlier responses, so consecutive requests share one workspace.
type TestFixture struct {
	Registry     *workspace.Registry
	SessionStore *sessions.CookieStore

	t       *testing.T
	cookies []*http.Cookie
}

// SetupTestFixture creates a registry whose queries settle immediately
// (fixed clock) and a cookie session store.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	clk := clock.NewFixed(TestEpoch)
	reg, err := workspace.NewRegistry(workspace.Config{
		Classifier: classifier.New(dataset.New(dataset.WithClock(clk))),
		Clock:      clk,
		Latency:    time.Millisecond,
		TTL:        time.Minute,
		Logger:     testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(reg.Close)

	return &TestFixture{
		Registry:     reg,
		SessionStore: NewTestSessionStore(),
		t:            t,
	}
}

// NewRequest builds a request carrying the fixture's session cookie.
// A non-empty body is sent as JSON datastar signals.
func (f *TestFixture) NewRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range f.cookies {
		req.AddCookie(c)
	}
	return req
}

// Serve runs handler and keeps any session cookie it sets.
func (f *TestFixture) Serve(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		f.cookies = cookies
	}
	return rec
}

// Workspace returns the workspace bound to the fixture's session.
func (f *TestFixture) Workspace() *workspace.Workspace {
	f.t.Helper()
	id := common.WorkspaceID(f.NewRequest(http.MethodGet, "/", ""), f.SessionStore)
	ws, ok := f.Registry.Get(id)
	require.True(f.t, ok, "no workspace bound to session")
	return ws
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout. The returned
// cancel func must be called.
func RequestWithTimeout(r *http.Request, timeout time.Duration) (*http.Request, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	return r.WithContext(ctx), cancel
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

package common

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapdash/internal/workspace"
)

// Session cookie layout.
const (
	SessionName  = "leapdash"
	WorkspaceKey = "workspace"
)

// ResolveWorkspace returns the workspace bound to the request's session,
// creating one if the session has none or its workspace has expired.
// The cookie is saved on every call so its max age slides with activity,
// like the registry's idle expiry. It must run before any response body
// is written.
func ResolveWorkspace(w http.ResponseWriter, r *http.Request, store sessions.Store, registry *workspace.Registry) (*workspace.Workspace, error) {
	// A cookie that fails to decode still yields a usable new session.
	session, _ := store.Get(r, SessionName)

	id, _ := session.Values[WorkspaceKey].(string)
	ws, created, err := registry.GetOrCreate(id)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}

	if created {
		session.Values[WorkspaceKey] = ws.ID
	}
	if err := session.Save(r, w); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return ws, nil
}

// WorkspaceID returns the workspace id stored in the request's session.
func WorkspaceID(r *http.Request, store sessions.Store) string {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	id, _ := session.Values[WorkspaceKey].(string)
	return id
}

// Package workspace keeps one query store and controller per browser
// session.
//
// Workspaces live in an expiring in-memory cache keyed by a random id that
// the web UI stores in the session cookie. Each lookup pushes the expiry
// back, so a workspace only disappears after it has been idle for the
// configured TTL. Evicted workspaces close their controller and end their
// SSE streams. History is never persisted.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapdash/internal/clock"
	"github.com/leapstack-labs/leapdash/internal/query"
	"github.com/leapstack-labs/leapdash/internal/ui/notifier"
	"github.com/patrickmn/go-cache"
)

// Default expiry settings.
const (
	DefaultTTL             = 30 * time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

// ErrClosed is returned by Create after the registry has been closed.
var ErrClosed = errors.New("workspace registry closed")

// Workspace bundles the per-session query state.
type Workspace struct {
	ID          string
	Store       *query.Store
	Controller  *query.Controller
	Suggestions *query.SuggestionBox
	Notifier    *notifier.Notifier

	unsubscribe func()
	closeOnce   sync.Once
}

// Close stops the controller and ends every SSE stream of the workspace.
func (w *Workspace) Close() {
	w.closeOnce.Do(func() {
		w.Controller.Close()
		w.unsubscribe()
		w.Notifier.Close()
	})
}

// Config configures how new workspaces are built.
type Config struct {
	Classifier      query.Classifier
	Clock           clock.Clock
	Latency         time.Duration
	Policy          query.Policy
	Suggestions     []string
	TTL             time.Duration
	CleanupInterval time.Duration
	Logger          *slog.Logger
}

// Registry holds live workspaces.
type Registry struct {
	cfg    Config
	cache  *cache.Cache
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Classifier == nil {
		return nil, errors.New("workspace registry: classifier is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.NewReal()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		cfg:    cfg,
		cache:  cache.New(cfg.TTL, cfg.CleanupInterval),
		logger: logger,
	}
	r.cache.OnEvicted(func(id string, v any) {
		if ws, ok := v.(*Workspace); ok {
			ws.Close()
			r.logger.Debug("workspace closed", slog.String("id", id))
		}
	})
	return r, nil
}

// Create builds and registers a new workspace.
func (r *Registry) Create() (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}

	ws, err := r.build(uuid.NewString())
	if err != nil {
		return nil, err
	}
	r.cache.Set(ws.ID, ws, cache.DefaultExpiration)
	r.logger.Debug("workspace created", slog.String("id", ws.ID))
	return ws, nil
}

// Get returns a live workspace and refreshes its expiry.
func (r *Registry) Get(id string) (*Workspace, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	ws := v.(*Workspace)
	// Replace fails if the janitor evicted (and closed) the workspace since
	// Get; Set would put the closed workspace back.
	if err := r.cache.Replace(id, ws, cache.DefaultExpiration); err != nil {
		return nil, false
	}
	return ws, true
}

// GetOrCreate returns the workspace for id, creating a fresh one under a
// new id when id is unknown or expired. The boolean reports creation.
func (r *Registry) GetOrCreate(id string) (*Workspace, bool, error) {
	if ws, ok := r.Get(id); ok {
		return ws, false, nil
	}
	ws, err := r.Create()
	if err != nil {
		return nil, false, err
	}
	return ws, true, nil
}

// Delete closes and removes a workspace.
func (r *Registry) Delete(id string) {
	r.cache.Delete(id)
}

// Len returns the number of registered workspaces, including expired
// ones not yet swept.
func (r *Registry) Len() int {
	return r.cache.ItemCount()
}

// Close closes every workspace. Create fails afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	for id := range r.cache.Items() {
		r.cache.Delete(id)
	}
}

func (r *Registry) build(id string) (*Workspace, error) {
	store := query.NewStore(
		query.WithSuggestions(r.cfg.Suggestions),
		query.WithStoreClock(r.cfg.Clock),
	)
	ctrl, err := query.NewController(query.Config{
		Store:      store,
		Classifier: r.cfg.Classifier,
		Clock:      r.cfg.Clock,
		Latency:    r.cfg.Latency,
		Policy:     r.cfg.Policy,
		Logger:     r.logger.With(slog.String("workspace", id)),
	})
	if err != nil {
		return nil, fmt.Errorf("create controller: %w", err)
	}

	n := notifier.New()
	return &Workspace{
		ID:          id,
		Store:       store,
		Controller:  ctrl,
		Suggestions: query.NewSuggestionBox(store),
		Notifier:    n,
		unsubscribe: store.OnChange(n.Broadcast),
	}, nil
}

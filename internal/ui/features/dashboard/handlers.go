package dashboard

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapdash/internal/query"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common"
	"github.com/leapstack-labs/leapdash/internal/workspace"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	registry     *workspace.Registry
	sessionStore sessions.Store
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(registry *workspace.Registry, sessionStore sessions.Store, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		registry:     registry,
		sessionStore: sessionStore,
		logger:       logger,
		isDev:        isDev,
	}
}

func (h *Handlers) workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	ws, err := common.ResolveWorkspace(w, r, h.sessionStore, h.registry)
	if err != nil {
		h.logger.Error("workspace unavailable", slog.String("error", err.Error()))
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return nil, false
	}
	return ws, true
}

// Page renders the dashboard with full content.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	if err := Page(buildView(ws, h.isDev)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Updates is the long-lived SSE endpoint. It pushes the dashboard
// fragments whenever the workspace store changes. No initial state is
// sent; Page already rendered it.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)

	updates := ws.Notifier.Subscribe()
	defer ws.Notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case _, open := <-updates:
			if !open {
				// Workspace evicted.
				return
			}
			if err := h.patchAll(sse, ws); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// Input sets the current query as the user types.
func (h *Handlers) Input(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	signals, ok := readSignals(w, r)
	if !ok {
		return
	}

	ws.Suggestions.Edit(signals.Query)

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(Suggestions(buildView(ws, h.isDev))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Execute submits the current query.
func (h *Handlers) Execute(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	signals, ok := readSignals(w, r)
	if !ok {
		return
	}

	ws.Store.SetCurrentQuery(signals.Query)
	sse := datastar.NewSSE(w, r)
	h.submit(sse, ws, signals.Query)
}

// Clear empties the query box.
func (h *Handlers) Clear(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	ws.Suggestions.Clear()

	sse := datastar.NewSSE(w, r)
	h.patchQuery(sse, ws)
}

// SelectSuggestion commits a suggestion by its index in the filtered list.
func (h *Handlers) SelectSuggestion(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid suggestion index", http.StatusBadRequest)
		return
	}
	if !ws.Suggestions.Choose(index) {
		http.Error(w, "suggestion not found", http.StatusNotFound)
		return
	}

	sse := datastar.NewSSE(w, r)
	h.patchQuery(sse, ws)
}

// Key applies a navigation key to the suggestion box. An Enter the box
// does not consume submits the query.
func (h *Handlers) Key(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	key, known := query.ParseKey(chi.URLParam(r, "key"))
	if !known {
		http.Error(w, "unknown key", http.StatusBadRequest)
		return
	}
	signals, ok := readSignals(w, r)
	if !ok {
		return
	}
	if signals.Query != ws.Store.CurrentQuery() {
		ws.Suggestions.Edit(signals.Query)
	}

	consumed := ws.Suggestions.HandleKey(key)

	sse := datastar.NewSSE(w, r)
	if key == query.KeyEnter && !consumed {
		h.submit(sse, ws, ws.Store.CurrentQuery())
		return
	}
	h.patchQuery(sse, ws)
}

// History replays a history entry.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	if !ws.Controller.Replay(chi.URLParam(r, "id")) {
		http.Error(w, "history entry not found", http.StatusNotFound)
		return
	}
	ws.Suggestions.Close()

	sse := datastar.NewSSE(w, r)
	h.patchQuery(sse, ws)
	if err := h.patchAll(sse, ws); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// State returns the workspace state as JSON.
func (h *Handlers) State(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	resp := StateResponse{
		State:               ws.Store.Snapshot(),
		FilteredSuggestions: ws.Store.FilteredSuggestions(),
		SuggestionsOpen:     ws.Suggestions.Open(),
		ActiveSuggestion:    ws.Suggestions.Active(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("encode state", slog.String("error", err.Error()))
	}
}

func (h *Handlers) submit(sse *datastar.ServerSentEventGenerator, ws *workspace.Workspace, text string) {
	ws.Suggestions.Close()

	_, err := ws.Controller.Execute(text)
	switch {
	case err == nil, errors.Is(err, query.ErrEmptyQuery):
		// Empty input is reported through the store error.
	default:
		_ = sse.ConsoleError(err)
		return
	}

	if err := h.patchAll(sse, ws); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// patchQuery syncs the query signal and the dropdown.
func (h *Handlers) patchQuery(sse *datastar.ServerSentEventGenerator, ws *workspace.Workspace) {
	if err := sse.MarshalAndPatchSignals(QuerySignals{Query: ws.Store.CurrentQuery()}); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(Suggestions(buildView(ws, h.isDev))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) patchAll(sse *datastar.ServerSentEventGenerator, ws *workspace.Workspace) error {
	view := buildView(ws, h.isDev)
	if err := sse.PatchElementTempl(Suggestions(view)); err != nil {
		return err
	}
	if err := sse.PatchElementTempl(Sidebar(view)); err != nil {
		return err
	}
	return sse.PatchElementTempl(Results(view))
}

func readSignals(w http.ResponseWriter, r *http.Request) (QuerySignals, bool) {
	var signals QuerySignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "invalid signals: "+err.Error(), http.StatusBadRequest)
		return signals, false
	}
	return signals, true
}

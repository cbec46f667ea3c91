package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapdash/internal/workspace"
)

// SetupRoutes configures routes for the dashboard feature.
func SetupRoutes(
	router chi.Router,
	registry *workspace.Registry,
	sessionStore sessions.Store,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(registry, sessionStore, logger, isDev)

	router.Get("/", handlers.Page)
	router.Get("/updates", handlers.Updates)

	router.Route("/api", func(r chi.Router) {
		r.Get("/state", handlers.State)
		r.Post("/query/input", handlers.Input)
		r.Post("/query/execute", handlers.Execute)
		r.Post("/query/clear", handlers.Clear)
		r.Post("/query/suggestion/{index}", handlers.SelectSuggestion)
		r.Post("/query/key/{key}", handlers.Key)
		r.Post("/history/{id}", handlers.History)
	})

	return nil
}

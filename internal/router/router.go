package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Devarsh-42/InsureBuddy/internal/handlers"
	"github.com/Devarsh-42/InsureBuddy/internal/middleware"
)

func New(
	coverageHandler *handlers.CoverageHandler,
	analyzerHandler *handlers.AnalyzerHandler,
	chatHandler *handlers.ChatHandler,
	chatLimiter *middleware.RateLimiter,
	wsHandler http.HandlerFunc,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Coverage Calculator ────
		r.Post("/coverage/quote", coverageHandler.Quote)

		// ──── Needs Analyzer ────
		r.Route("/analyzer/sessions", func(r chi.Router) {
			r.Post("/", analyzerHandler.Create)
			r.Get("/{id}", analyzerHandler.Get)
			r.Put("/{id}/form", analyzerHandler.UpdateForm)
			r.Post("/{id}/next", analyzerHandler.Next)
			r.Post("/{id}/prev", analyzerHandler.Prev)
			r.Put("/{id}/tab", analyzerHandler.SetTab)
		})

		// ──── Chat Widget ────
		r.Get("/languages", chatHandler.Languages)

		r.Route("/chat/sessions", func(r chi.Router) {
			r.Post("/", chatHandler.CreateSession)
			r.Get("/{id}/messages", chatHandler.ListMessages)
			r.With(chatLimiter.Middleware).Post("/{id}/messages", chatHandler.SendMessage)
			r.Put("/{id}/language", chatHandler.SetLanguage)

			// ──── WebSocket ────
			r.Get("/{id}/ws", wsHandler)
		})
	})

	return r
}

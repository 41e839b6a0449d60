package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Session-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.SessionAuthMiddleware)

			// Lesson routes
			r.Post("/lessons", apiHandler.CreateLessonHandler)
			r.Get("/lessons", apiHandler.ListLessonsHandler)
			r.Get("/lessons/{sessionID}", apiHandler.GetLessonDetailsHandler)
			r.Post("/lessons/{sessionID}/messages", apiHandler.PostFollowUpHandler)

			// History routes
			r.Get("/history", apiHandler.ListHistoryHandler)
			r.Get("/history/{itemID}", apiHandler.GetHistoryItemHandler)
			r.Delete("/history", apiHandler.ClearHistoryHandler)

			// Settings routes
			r.Get("/settings/theme", apiHandler.GetThemeHandler)
			r.Put("/settings/theme", apiHandler.SetThemeHandler)
		})
	})

	return r
}

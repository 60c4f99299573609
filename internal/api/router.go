package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", app.HealthHandler)
	r.Post("/analyze-fashion", app.AnalyzeFashionHandler)
	// Kept for clients still on the old route name.
	r.Post("/detect-clothing", app.AnalyzeFashionHandler)

	return r
}

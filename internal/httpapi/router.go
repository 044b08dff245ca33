package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/theMaxscriptGuy/archviz-ai/internal/middleware"
)

// NewRouter wires the daemon's routes and middleware.
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.logger),
	)

	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/jobs/validate", app.ValidateJob)
	r.Route("/v1/renders", func(r chi.Router) {
		r.Post("/", app.StartRender)
		r.Get("/{id}", app.RenderStatus)
		r.Post("/{id}/cancel", app.CancelRender)
	})

	return r
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/templui/intake/internal/app"
	"github.com/templui/intake/internal/handler"
	"github.com/templui/intake/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	blobs := handler.NewBlobHandler(app.BlobService, app.Cfg.MaxUploadMemory)
	submissions := handler.NewSubmissionHandler(app.SubmissionService)

	r := chi.NewRouter()

	// Outermost first: ids before logging, recovery inside logging so
	// panics are logged with their final status
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestIDHeader)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.Recover(handler.Fallback))
	r.Use(middleware.Tracing)
	r.Use(middleware.CORS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	// Probes
	r.Get("/healthz", handler.Health)

	// API
	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", blobs.Upload)
		r.Get("/files/{filename}", blobs.Download)
		r.Delete("/files/{filename}", blobs.Delete)
		r.Post("/submit", submissions.Submit)
	})

	return r
}

package api

import (
	"net/http"
	"time"

	documentapi "github.com/futig/resomate/internal/api/document"
	"github.com/futig/resomate/internal/api/docs"
	generationapi "github.com/futig/resomate/internal/api/generation"
	"github.com/futig/resomate/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// generation can walk three tiers with backoff, so the request deadline is generous
const requestTimeout = 120 * time.Second

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	documentHandler *documentapi.Handler,
	generationHandler *generationapi.Handler,
	authTokens map[string]string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(chimiddleware.Timeout(requestTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Auth(authTokens))

		documentapi.RegisterRoutes(r, documentHandler)
		generationapi.RegisterRoutes(r, generationHandler)
	})

	return r
}

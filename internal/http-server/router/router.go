package router

import (
	"fmt"
	"geofeatures/internal/config"
	"geofeatures/internal/database/repository"
	"geofeatures/internal/http-server/handler/feature"
	"geofeatures/internal/http-server/handler/feature/create"
	"geofeatures/internal/http-server/handler/feature/delete"
	"geofeatures/internal/http-server/handler/feature/get"
	"geofeatures/internal/http-server/handler/feature/update"
	"geofeatures/internal/http-server/handler/index"
	"geofeatures/internal/http-server/middleware/logger"
	"geofeatures/internal/http-server/middleware/metrics"
	"geofeatures/internal/http-server/middleware/validator"
	"geofeatures/web"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// New builds the HTTP handler serving the feature API through repo.
func New(log *slog.Logger, cfg config.HTTPServer, repo repository.FeatureRepository) (http.Handler, error) {
	const op = "http-server.router.New"

	page, err := index.New(log, web.Templates)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(metrics.New())
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	if cfg.RateLimit > 0 {
		router.Use(httprate.LimitByIP(cfg.RateLimit, cfg.RateWindow))
	}

	router.Get("/", page)
	router.Handle("/static/*", index.Static(web.Static()))
	router.Handle("/metrics", metrics.Handler())
	router.Get("/api", index.Root())

	router.Route("/api/features", func(r chi.Router) {
		r.Use(validator.New(log))

		r.Get("/", feature.New(log, repo))
		r.Post("/", create.New(log, repo))
		r.Get("/{id}", get.New(log, repo))
		r.Put("/{id}", update.New(log, repo))
		r.Delete("/{id}", delete.New(log, repo))
	})

	return router, nil
}

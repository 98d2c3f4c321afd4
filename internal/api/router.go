package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Apportion/internal/metrics"
	"github.com/MikeSquared-Agency/Apportion/internal/palette"
	"github.com/MikeSquared-Agency/Apportion/internal/session"
)

// RouterConfig carries the knobs NewRouter needs beyond its collaborators.
type RouterConfig struct {
	ChartSize         int
	RequestsPerMinute int
}

func NewRouter(svc *session.Service, p palette.Palette, m *metrics.Metrics, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(MetricsMiddleware(m))
	r.Use(RateLimitMiddleware(cfg.RequestsPerMinute))

	page := NewPageHandler(svc, p, cfg.ChartSize, logger)
	r.Get("/", page.Index)
	r.Post("/rank", page.Rank)
	r.Post("/calculate", page.Calculate)
	r.Get("/chart.svg", page.ChartSVG)

	categories := NewCategoriesHandler(svc, p)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", categories.CreateSession)
		r.Post("/weights/compute", categories.Compute)

		r.Group(func(r chi.Router) {
			r.Use(SessionIDMiddleware)
			r.Get("/session", categories.Session)
			r.Get("/categories", categories.List)
			r.Patch("/categories/{name}", categories.UpdateRank)
			r.Post("/weights/calculate", categories.Calculate)
			r.Get("/chart", categories.Chart)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

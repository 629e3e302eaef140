package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/ProductReviewGo/pkg/health"
	"github.com/utafrali/ProductReviewGo/pkg/middleware"
)

// RouterConfig carries the dependencies and settings for the HTTP router.
type RouterConfig struct {
	Catalog        CatalogService
	Insights       InsightsService
	Health         *health.Handler
	Logger         *slog.Logger
	ServiceName    string
	Environment    string
	AllowedOrigins []string
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.AllowedOrigins
	corsCfg.Environment = cfg.Environment

	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	productHandler := NewProductHandler(cfg.Catalog, cfg.Logger)
	insightsHandler := NewInsightsHandler(cfg.Insights, cfg.Logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Post("/", productHandler.CreateProduct)

		r.Get("/{id}/reviews", productHandler.ListReviews)
		r.Post("/{id}/reviews", productHandler.SubmitReview)
		r.Get("/{id}/reviews/summary", insightsHandler.Summary)
		r.Post("/{id}/reviews/ask", insightsHandler.Ask)

		// The path value may be a UUID or a slug.
		r.Get("/{id}", productHandler.GetProduct)
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Put("/{id}/helpful", productHandler.MarkHelpful)
	})

	return r
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/migratemate/cancelflow-backend/api/controllers"
	"github.com/migratemate/cancelflow-backend/api/middleware"
	"github.com/migratemate/cancelflow-backend/internal/cancellations"
	"github.com/migratemate/cancelflow-backend/internal/subscriptions"
	"github.com/migratemate/cancelflow-backend/pkg/config"
	"github.com/migratemate/cancelflow-backend/pkg/logger"
	pkgredis "github.com/migratemate/cancelflow-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	subscriptionService subscriptions.Service,
	cancellationService cancellations.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var (
		cachePinger      controllers.Pinger
		idempotencyStore pkgredis.IdempotencyStore
		rateLimiter      pkgredis.RateLimiter
	)
	if redisClient != nil {
		cachePinger = redisClient
		idempotencyStore = redisClient
		rateLimiter = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.MockUser(cfg.Flow.MockUserID, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/cancellations", func(r chi.Router) {
			r.Get("/active", controllers.CancellationActive(cancellationService, logg))
			r.With(middleware.RateLimit(rateLimiter, cfg.Flow.ProgressRateLimit, cfg.Flow.ProgressRateWindow, logg)).
				Post("/progress", controllers.CancellationProgress(cancellationService, logg))
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/price", controllers.SubscriptionPrice(subscriptionService, logg))
		})
	})

	return r
}

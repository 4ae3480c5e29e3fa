package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/migratemate/cancelflow-backend/api/responses"
	pkgerrors "github.com/migratemate/cancelflow-backend/pkg/errors"
	"github.com/migratemate/cancelflow-backend/pkg/logger"
	pkgredis "github.com/migratemate/cancelflow-backend/pkg/redis"
)

// RateLimit applies a per-user fixed window to the wrapped routes.
// Limiter outages fail open: losing redis must not take the wizard down.
func RateLimit(limiter pkgredis.RateLimiter, limit int64, window time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			scope := fmt.Sprintf("%s|%s %s", UserIDFromContext(r.Context()), r.Method, r.URL.Path)
			allowed, _, err := limiter.FixedWindowAllow(r.Context(), scope, limit, window)
			if err != nil {
				logError(r.Context(), logg, "rate limit check failed", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/migratemate/cancelflow-backend/api/responses"
	pkgerrors "github.com/migratemate/cancelflow-backend/pkg/errors"
	"github.com/migratemate/cancelflow-backend/pkg/logger"
)

// MockUser injects the single configured development identity in place
// of real authentication. A missing or malformed id is surfaced per
// request as UNCONFIGURED so health and metrics endpoints stay usable.
func MockUser(mockUserID string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if mockUserID == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnconfigured, "mock user id not configured"))
				return
			}

			userID, err := uuid.Parse(mockUserID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeUnconfigured, err, "mock user id malformed"))
				return
			}

			ctx := WithUserID(r.Context(), userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/migratemate/cancelflow-backend/api/middleware"
	"github.com/migratemate/cancelflow-backend/api/responses"
	"github.com/migratemate/cancelflow-backend/internal/subscriptions"
	pkgerrors "github.com/migratemate/cancelflow-backend/pkg/errors"
	"github.com/migratemate/cancelflow-backend/pkg/logger"
)

// SubscriptionPrice returns the caller's latest subscription price, in
// cents and as a decimal dollar amount.
func SubscriptionPrice(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnconfigured, "user identity missing"))
			return
		}

		price, err := svc.LatestPrice(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, price)
	}
}

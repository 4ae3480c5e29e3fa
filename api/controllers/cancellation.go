package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/migratemate/cancelflow-backend/api/middleware"
	"github.com/migratemate/cancelflow-backend/api/responses"
	"github.com/migratemate/cancelflow-backend/api/validators"
	"github.com/migratemate/cancelflow-backend/internal/cancellations"
	pkgerrors "github.com/migratemate/cancelflow-backend/pkg/errors"
	"github.com/migratemate/cancelflow-backend/pkg/logger"
)

// CancellationActive returns the caller's resumable cancellation, or a
// null payload when none is in progress.
func CancellationActive(svc cancellations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cancellation service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnconfigured, "user identity missing"))
			return
		}

		view, err := svc.Active(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if view == nil {
			responses.WriteSuccess(w, nil)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CancellationProgress persists a wizard step patch and reports the
// resulting position.
func CancellationProgress(svc cancellations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cancellation service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnconfigured, "user identity missing"))
			return
		}

		var input cancellations.ProgressInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.SubmitProgress(ctx, userID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

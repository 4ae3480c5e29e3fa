package cancellations

import (
	"time"

	"github.com/google/uuid"
	"github.com/migratemate/cancelflow-backend/pkg/db/models"
	"github.com/migratemate/cancelflow-backend/pkg/enums"
	"github.com/migratemate/cancelflow-backend/pkg/types"
)

// ProgressPatch is the partial update submitted on each wizard step.
// Nullable wrappers mark the fields where an explicit JSON null is a
// meaningful "clear"; plain pointers mean absent-or-value.
type ProgressPatch struct {
	FoundJob               types.NullableBool   `json:"found_job"`
	AcceptedDownsell       types.NullableBool   `json:"accepted_downsell"`
	FoundWithPlatform      *bool                `json:"found_with_mm"`
	RolesAppliedBucket     *string              `json:"roles_applied_bucket"`
	CompaniesEmailedBucket *string              `json:"companies_emailed_bucket"`
	InterviewsBucket       *string              `json:"interviews_bucket"`
	Feedback               types.NullableString `json:"feedback"`
	HasLawyer              *bool                `json:"has_lawyer"`
	VisaType               *string              `json:"visa"`
	Reason                 types.NullableString `json:"reason"`
}

// FieldError names a single rejected patch field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ProgressInput is the progress endpoint's request body.
type ProgressInput struct {
	CancellationID *uuid.UUID    `json:"cancellation_id"`
	Patch          ProgressPatch `json:"patch"`
}

// ProgressResult reports what a progress save persisted and where the
// wizard stands afterwards.
type ProgressResult struct {
	CancellationID uuid.UUID      `json:"cancellation_id"`
	Saved          map[string]any `json:"saved"`
	Position       Position       `json:"position"`
	Completed      bool           `json:"completed"`
}

// ActiveView is the resume projection of the active record.
type ActiveView struct {
	ID                     uuid.UUID                `json:"id"`
	Status                 enums.CancellationStatus `json:"status"`
	DownsellVariant        enums.DownsellVariant    `json:"downsell_variant"`
	FoundJob               *bool                    `json:"found_job"`
	AcceptedDownsell       *bool                    `json:"accepted_downsell"`
	FoundWithPlatform      *bool                    `json:"found_with_mm"`
	RolesAppliedBucket     *enums.ActivityBucket    `json:"roles_applied_bucket"`
	CompaniesEmailedBucket *enums.ActivityBucket    `json:"companies_emailed_bucket"`
	InterviewsBucket       *enums.InterviewBucket   `json:"interviews_bucket"`
	Feedback               *string                  `json:"feedback"`
	HasLawyer              *bool                    `json:"has_lawyer"`
	VisaType               *string                  `json:"visa"`
	Reason                 *enums.CancelReason      `json:"reason"`
	Position               Position                 `json:"position"`
	CreatedAt              time.Time                `json:"created_at"`
}

// NewActiveView projects a record into the resume response.
func NewActiveView(rec *models.Cancellation) *ActiveView {
	if rec == nil {
		return nil
	}
	return &ActiveView{
		ID:                     rec.ID,
		Status:                 rec.Status,
		DownsellVariant:        rec.DownsellVariant,
		FoundJob:               rec.FoundJob,
		AcceptedDownsell:       rec.AcceptedDownsell,
		FoundWithPlatform:      rec.FoundWithPlatform,
		RolesAppliedBucket:     rec.RolesAppliedBucket,
		CompaniesEmailedBucket: rec.CompaniesEmailedBucket,
		InterviewsBucket:       rec.InterviewsBucket,
		Feedback:               rec.Feedback,
		HasLawyer:              rec.HasLawyer,
		VisaType:               rec.VisaType,
		Reason:                 rec.Reason,
		Position:               Resolve(rec.FoundJob, rec.DownsellVariant, rec.AcceptedDownsell),
		CreatedAt:              rec.CreatedAt,
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/migratemate/cancelflow-backend/pkg/enums"
)

// Cancellation mirrors the cancellations table. One row per wizard
// attempt; pointer fields distinguish unanswered from answered-false.
// DownsellVariant is assigned once at creation and never updated.
type Cancellation struct {
	ID                     uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID                 uuid.UUID                 `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	SubscriptionID         *uuid.UUID                `gorm:"column:subscription_id;type:uuid" json:"subscription_id,omitempty"`
	Status                 enums.CancellationStatus  `gorm:"column:status;type:varchar(32);not null;default:in_progress" json:"status"`
	DownsellVariant        enums.DownsellVariant     `gorm:"column:downsell_variant;type:varchar(1);not null" json:"downsell_variant"`
	FoundJob               *bool                     `gorm:"column:found_job" json:"found_job,omitempty"`
	AcceptedDownsell       *bool                     `gorm:"column:accepted_downsell" json:"accepted_downsell,omitempty"`
	FoundWithPlatform      *bool                     `gorm:"column:found_with_platform" json:"found_with_mm,omitempty"`
	RolesAppliedBucket     *enums.ActivityBucket     `gorm:"column:roles_applied_bucket;type:varchar(8)" json:"roles_applied_bucket,omitempty"`
	CompaniesEmailedBucket *enums.ActivityBucket     `gorm:"column:companies_emailed_bucket;type:varchar(8)" json:"companies_emailed_bucket,omitempty"`
	InterviewsBucket       *enums.InterviewBucket    `gorm:"column:interviews_bucket;type:varchar(8)" json:"interviews_bucket,omitempty"`
	Feedback               *string                   `gorm:"column:feedback;type:text" json:"feedback,omitempty"`
	HasLawyer              *bool                     `gorm:"column:has_immigration_lawyer" json:"has_immigration_lawyer,omitempty"`
	VisaType               *string                   `gorm:"column:visa_type;type:varchar(255)" json:"visa,omitempty"`
	Reason                 *enums.CancelReason       `gorm:"column:reason;type:varchar(32)" json:"reason,omitempty"`
	CreatedAt              time.Time                 `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time                 `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the default GORM naming.
func (Cancellation) TableName() string {
	return "cancellations"
}

// Completed reports whether the attempt reached a terminal state.
func (c *Cancellation) Completed() bool {
	return c.Status == enums.CancellationStatusCompleted
}

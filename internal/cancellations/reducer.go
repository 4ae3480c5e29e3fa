package cancellations

import (
	"strings"

	"github.com/migratemate/cancelflow-backend/pkg/enums"
)

const (
	feedbackMinLength = 25
	visaMaxLength     = 255
)

// Changes is the outcome of reducing a patch: the column updates to
// persist, the API-facing echo of what was saved, and the signals the
// wizard controller acts on.
type Changes struct {
	Updates map[string]any
	Saved   map[string]any

	// AcceptsOffer fires the discount side effect. No transition guard:
	// repeated accepts re-apply the discount, as the flow has always
	// behaved.
	AcceptsOffer bool
	// DeclinesOffer records an explicit offer refusal.
	DeclinesOffer bool
	// ChoosesFound enters the found track.
	ChoosesFound bool
	// ChoosesStill enters the still-looking track.
	ChoosesStill bool
	// CompletesFound marks the found track terminal (step-3 fields
	// present).
	CompletesFound bool
	// SetsReason marks the not-found track terminal.
	SetsReason bool
	// ClearsFoundJob is the explicit undo back to the choice screen.
	ClearsFoundJob bool
}

// Empty reports whether the patch carried no recognized fields.
func (c *Changes) Empty() bool {
	return len(c.Updates) == 0
}

// Reduce validates and normalizes a patch. All field violations are
// collected; a non-empty error slice means nothing may be persisted.
// downsell_variant is not a patch field and can never change here.
func Reduce(patch ProgressPatch) (*Changes, []FieldError) {
	changes := &Changes{
		Updates: map[string]any{},
		Saved:   map[string]any{},
	}
	var errs []FieldError

	if patch.FoundJob.Valid {
		changes.Updates["found_job"] = patch.FoundJob.Value
		changes.Saved["found_job"] = patch.FoundJob.Value
		switch {
		case patch.FoundJob.Value == nil:
			changes.ClearsFoundJob = true
		case *patch.FoundJob.Value:
			changes.ChoosesFound = true
		default:
			changes.ChoosesStill = true
		}
	}

	if patch.AcceptedDownsell.Valid {
		changes.Updates["accepted_downsell"] = patch.AcceptedDownsell.Value
		changes.Saved["accepted_downsell"] = patch.AcceptedDownsell.Value
		if patch.AcceptedDownsell.Value != nil {
			if *patch.AcceptedDownsell.Value {
				changes.AcceptsOffer = true
			} else {
				changes.DeclinesOffer = true
			}
		}
	}

	if patch.FoundWithPlatform != nil {
		changes.Updates["found_with_platform"] = *patch.FoundWithPlatform
		changes.Saved["found_with_mm"] = *patch.FoundWithPlatform
	}

	reduceBucket(patch.RolesAppliedBucket, "roles_applied_bucket", changes, &errs)
	reduceBucket(patch.CompaniesEmailedBucket, "companies_emailed_bucket", changes, &errs)

	if patch.InterviewsBucket != nil {
		bucket, err := enums.ParseInterviewBucket(*patch.InterviewsBucket)
		if err != nil {
			errs = append(errs, FieldError{
				Field:   "interviews_bucket",
				Message: "must be one of 0, 1-2, 3-5, 5+",
			})
		} else {
			changes.Updates["interviews_bucket"] = bucket
			changes.Saved["interviews_bucket"] = bucket
		}
	}

	if patch.Feedback.Valid {
		if patch.Feedback.Value == nil {
			changes.Updates["feedback"] = nil
			changes.Saved["feedback"] = nil
		} else {
			trimmed := strings.TrimSpace(*patch.Feedback.Value)
			if len(trimmed) < feedbackMinLength {
				errs = append(errs, FieldError{
					Field:   "feedback",
					Message: "must be at least 25 characters",
				})
			} else {
				changes.Updates["feedback"] = trimmed
				changes.Saved["feedback"] = trimmed
			}
		}
	}

	if patch.HasLawyer != nil {
		changes.Updates["has_immigration_lawyer"] = *patch.HasLawyer
		changes.Saved["has_lawyer"] = *patch.HasLawyer
		changes.CompletesFound = true
	}

	if patch.VisaType != nil {
		trimmed := strings.TrimSpace(*patch.VisaType)
		if len(trimmed) > visaMaxLength {
			errs = append(errs, FieldError{
				Field:   "visa",
				Message: "must be at most 255 characters",
			})
		} else {
			changes.Updates["visa_type"] = trimmed
			changes.Saved["visa"] = trimmed
		}
	}

	if patch.Reason.Valid {
		if patch.Reason.Value == nil {
			changes.Updates["reason"] = nil
			changes.Saved["reason"] = nil
		} else {
			token, err := enums.NormalizeCancelReason(*patch.Reason.Value)
			if err != nil {
				errs = append(errs, FieldError{
					Field:   "reason",
					Message: "unrecognized cancellation reason",
				})
			} else {
				changes.Updates["reason"] = token
				changes.Saved["reason"] = token
				changes.SetsReason = true
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return changes, nil
}

func reduceBucket(raw *string, column string, changes *Changes, errs *[]FieldError) {
	if raw == nil {
		return
	}
	bucket, err := enums.ParseActivityBucket(*raw)
	if err != nil {
		*errs = append(*errs, FieldError{
			Field:   column,
			Message: "must be one of 0, 1-5, 6-20, 20+",
		})
		return
	}
	changes.Updates[column] = bucket
	changes.Saved[column] = bucket
}

package cancellations

import "github.com/migratemate/cancelflow-backend/pkg/enums"

// Flow is the top-level wizard branch.
type Flow string

const (
	// FlowNone renders the initial found/still-looking choice screen.
	FlowNone Flow = "none"
	// FlowFound is the "I found a job" track.
	FlowFound Flow = "found"
	// FlowStill is the "still looking" track with the downsell offer.
	FlowStill Flow = "still"
)

// Position is the resolved screen for a partially filled record.
type Position struct {
	Flow Flow `json:"flow"`
	Step int  `json:"step,omitempty"`
}

// Resolve maps a record's branch fields to the screen the wizard should
// show next. It is total: every combination of the three inputs yields
// exactly one position.
//
// The found track always resumes at step 1; its steps are idempotent
// forms, not a progress ledger. Variant A re-shows the offer on every
// resume regardless of a recorded decision.
func Resolve(foundJob *bool, variant enums.DownsellVariant, acceptedDownsell *bool) Position {
	if foundJob == nil {
		return Position{Flow: FlowNone}
	}

	if *foundJob {
		return Position{Flow: FlowFound, Step: 1}
	}

	if variant == enums.DownsellVariantB && acceptedDownsell == nil {
		return Position{Flow: FlowStill, Step: 1}
	}
	if variant == enums.DownsellVariantA {
		return Position{Flow: FlowStill, Step: 1}
	}
	if acceptedDownsell != nil {
		return Position{Flow: FlowStill, Step: 2}
	}
	// no variant recorded and no offer decision: the offer screen
	return Position{Flow: FlowStill, Step: 1}
}

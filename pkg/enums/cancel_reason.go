package enums

import "fmt"

// CancelReason is the canonical token persisted for the user's stated
// cancellation reason. The UI presents human-readable labels; both forms
// must round-trip through the fixed mapping below.
type CancelReason string

const (
	CancelReasonTooExpensive CancelReason = "too_expensive"
	CancelReasonNotHelpful   CancelReason = "not_helpful"
	CancelReasonNotRelevant  CancelReason = "not_relevant"
	CancelReasonNotMoving    CancelReason = "not_moving"
	CancelReasonOther        CancelReason = "other"
)

var validCancelReasons = []CancelReason{
	CancelReasonTooExpensive,
	CancelReasonNotHelpful,
	CancelReasonNotRelevant,
	CancelReasonNotMoving,
	CancelReasonOther,
}

// reasonLabels maps UI labels to canonical tokens. The label strings are
// contract; do not edit without a coordinated client change.
var reasonLabels = map[string]CancelReason{
	"Too expensive":            CancelReasonTooExpensive,
	"Platform not helpful":     CancelReasonNotHelpful,
	"Not enough relevant jobs": CancelReasonNotRelevant,
	"Decided not to move":      CancelReasonNotMoving,
	"Other":                    CancelReasonOther,
}

// String implements fmt.Stringer.
func (r CancelReason) String() string {
	return string(r)
}

// IsValid reports whether the value is known.
func (r CancelReason) IsValid() bool {
	for _, candidate := range validCancelReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// NormalizeCancelReason accepts either a UI label or an
// already-canonical token and returns the canonical token. Normalizing
// a canonical token is the identity. Anything outside the mapping is an
// error, never a silent pass-through.
func NormalizeCancelReason(value string) (CancelReason, error) {
	if token, ok := reasonLabels[value]; ok {
		return token, nil
	}
	for _, candidate := range validCancelReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unknown cancellation reason %q", value)
}

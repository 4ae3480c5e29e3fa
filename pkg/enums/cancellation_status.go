package enums

import "fmt"

// CancellationStatus marks whether a cancellation record is still being
// worked through or has reached a terminal screen. "Active" record
// lookups filter on in_progress, which replaces the source system's
// inferred-by-null-columns notion of activity.
type CancellationStatus string

const (
	CancellationStatusInProgress CancellationStatus = "in_progress"
	CancellationStatusCompleted  CancellationStatus = "completed"
)

var validCancellationStatuses = []CancellationStatus{
	CancellationStatusInProgress,
	CancellationStatusCompleted,
}

// String implements fmt.Stringer.
func (s CancellationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s CancellationStatus) IsValid() bool {
	for _, candidate := range validCancellationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCancellationStatus converts raw input into a CancellationStatus.
func ParseCancellationStatus(value string) (CancellationStatus, error) {
	for _, candidate := range validCancellationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cancellation status %q", value)
}

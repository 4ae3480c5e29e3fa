package enums

import "fmt"

// DownsellVariant is the A/B retention-offer assignment stored on a
// cancellation. Assigned once at record creation, immutable thereafter.
type DownsellVariant string

const (
	DownsellVariantA DownsellVariant = "A"
	DownsellVariantB DownsellVariant = "B"
)

var validDownsellVariants = []DownsellVariant{
	DownsellVariantA,
	DownsellVariantB,
}

// String implements fmt.Stringer.
func (v DownsellVariant) String() string {
	return string(v)
}

// IsValid reports whether the value is known.
func (v DownsellVariant) IsValid() bool {
	for _, candidate := range validDownsellVariants {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseDownsellVariant converts raw input into a DownsellVariant.
func ParseDownsellVariant(value string) (DownsellVariant, error) {
	for _, candidate := range validDownsellVariants {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid downsell variant %q", value)
}

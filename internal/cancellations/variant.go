package cancellations

import (
	"crypto/rand"
	"fmt"

	"github.com/migratemate/cancelflow-backend/pkg/enums"
)

// VariantSource picks the downsell variant for a new record. Injected so
// tests can substitute a deterministic source.
type VariantSource interface {
	Pick() (enums.DownsellVariant, error)
}

// CryptoVariantSource flips an unbiased coin from crypto/rand. A
// predictable PRNG would let users game which offer they receive.
type CryptoVariantSource struct{}

// NewCryptoVariantSource returns the production variant source.
func NewCryptoVariantSource() *CryptoVariantSource {
	return &CryptoVariantSource{}
}

// Pick returns A or B with equal probability.
func (s *CryptoVariantSource) Pick() (enums.DownsellVariant, error) {
	var buf [1]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("reading random byte: %w", err)
	}
	if buf[0]&1 == 0 {
		return enums.DownsellVariantA, nil
	}
	return enums.DownsellVariantB, nil
}

// FixedVariantSource always returns the same variant. Test helper.
type FixedVariantSource struct {
	Variant enums.DownsellVariant
}

// Pick returns the configured variant.
func (s *FixedVariantSource) Pick() (enums.DownsellVariant, error) {
	return s.Variant, nil
}

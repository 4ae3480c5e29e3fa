package subscriptions

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceView is the offer-screen projection of the latest subscription.
type PriceView struct {
	SubscriptionID uuid.UUID       `json:"subscription_id"`
	PriceCents     int64           `json:"price_cents"`
	Price          decimal.Decimal `json:"price"`
}

// DiscountResult reports the before/after prices of an applied discount.
type DiscountResult struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	PreviousCents  int64     `json:"previous_cents"`
	NewCents       int64     `json:"new_cents"`
}

// DollarsFromCents converts an integer cent amount into a two-decimal
// dollar value.
func DollarsFromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Round(2)
}

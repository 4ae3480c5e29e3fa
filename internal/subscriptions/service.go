package subscriptions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	pkgerrors "github.com/migratemate/cancelflow-backend/pkg/errors"
	"github.com/migratemate/cancelflow-backend/pkg/logger"
	"gorm.io/gorm"
)

// Service exposes the subscription operations the wizard consumes.
type Service interface {
	LatestPrice(ctx context.Context, userID uuid.UUID) (*PriceView, error)
	Latest(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
	ApplyDiscount(ctx context.Context, subscriptionID uuid.UUID, discountCents int64) (*DiscountResult, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds a subscription service with the required dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("subscriptions repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// LatestPrice returns the price of the most recent subscription for the
// user, or NOT_FOUND when none exists.
func (s *service) LatestPrice(ctx context.Context, userID uuid.UUID) (*PriceView, error) {
	sub, err := s.repo.FindLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no subscription for user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading latest subscription")
	}
	return &PriceView{
		SubscriptionID: sub.ID,
		PriceCents:     sub.MonthlyPrice,
		Price:          DollarsFromCents(sub.MonthlyPrice),
	}, nil
}

// Latest returns the id of the most recent subscription, or nil when the
// user has none. Storage failures still surface as errors.
func (s *service) Latest(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	sub, err := s.repo.FindLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading latest subscription")
	}
	id := sub.ID
	return &id, nil
}

// ApplyDiscount subtracts discountCents from the subscription's monthly
// price, clamping at zero. Repeated calls subtract again; dedup belongs
// to the caller's state transition.
func (s *service) ApplyDiscount(ctx context.Context, subscriptionID uuid.UUID, discountCents int64) (*DiscountResult, error) {
	if discountCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must be non-negative")
	}

	sub, err := s.repo.FindByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading subscription")
	}

	newPrice := sub.MonthlyPrice - discountCents
	if newPrice < 0 {
		newPrice = 0
	}

	if err := s.repo.UpdateMonthlyPrice(ctx, sub.ID, newPrice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "updating monthly price")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"subscription_id": sub.ID.String(),
		"previous_cents":  sub.MonthlyPrice,
		"new_cents":       newPrice,
	}), "downsell discount applied")

	return &DiscountResult{
		SubscriptionID: sub.ID,
		PreviousCents:  sub.MonthlyPrice,
		NewCents:       newPrice,
	}, nil
}

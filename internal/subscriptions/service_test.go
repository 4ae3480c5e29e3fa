package subscriptions

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/migratemate/cancelflow-backend/pkg/db/models"
	pkgerrors "github.com/migratemate/cancelflow-backend/pkg/errors"
	"github.com/migratemate/cancelflow-backend/pkg/logger"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type stubRepo struct {
	latest       *models.Subscription
	byID         map[uuid.UUID]*models.Subscription
	priceUpdates map[uuid.UUID]int64
	findErr      error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		byID:         map[uuid.UUID]*models.Subscription{},
		priceUpdates: map[uuid.UUID]int64{},
	}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.latest, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	if sub, ok := s.byID[id]; ok {
		return sub, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) UpdateMonthlyPrice(ctx context.Context, id uuid.UUID, priceCents int64) error {
	s.priceUpdates[id] = priceCents
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
}

func TestLatestPriceReturnsDollarsView(t *testing.T) {
	repo := newStubRepo()
	repo.latest = &models.Subscription{ID: uuid.New(), MonthlyPrice: 2500}
	svc, err := NewService(repo, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := svc.LatestPrice(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.PriceCents != 2500 {
		t.Fatalf("expected 2500 cents, got %d", view.PriceCents)
	}
	if view.Price.String() != "25" {
		t.Fatalf("expected 25 dollars, got %s", view.Price.String())
	}
}

func TestLatestPriceNotFound(t *testing.T) {
	svc, err := NewService(newStubRepo(), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.LatestPrice(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestApplyDiscountSubtractsAndClamps(t *testing.T) {
	repo := newStubRepo()
	subID := uuid.New()
	repo.byID[subID] = &models.Subscription{ID: subID, MonthlyPrice: 2500}
	svc, err := NewService(repo, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.ApplyDiscount(context.Background(), subID, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NewCents != 1500 {
		t.Fatalf("expected 1500, got %d", result.NewCents)
	}
	if repo.priceUpdates[subID] != 1500 {
		t.Fatalf("expected price write of 1500, got %d", repo.priceUpdates[subID])
	}

	// clamp at zero
	cheapID := uuid.New()
	repo.byID[cheapID] = &models.Subscription{ID: cheapID, MonthlyPrice: 500}
	result, err = svc.ApplyDiscount(context.Background(), cheapID, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NewCents != 0 {
		t.Fatalf("expected clamp to 0, got %d", result.NewCents)
	}
}

func TestApplyDiscountUnknownSubscription(t *testing.T) {
	svc, err := NewService(newStubRepo(), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.ApplyDiscount(context.Background(), uuid.New(), 1000)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

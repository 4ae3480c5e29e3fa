package subscriptions

import (
	"context"

	"github.com/google/uuid"
	"github.com/migratemate/cancelflow-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for subscription rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindLatestByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	UpdateMonthlyPrice(ctx context.Context, id uuid.UUID, priceCents int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a subscriptions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) UpdateMonthlyPrice(ctx context.Context, id uuid.UUID, priceCents int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ?", id).
		Update("monthly_price", priceCents).Error
}

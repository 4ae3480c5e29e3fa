package cancellations

import (
	"context"

	"github.com/google/uuid"
	"github.com/migratemate/cancelflow-backend/pkg/db/models"
	"github.com/migratemate/cancelflow-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for cancellation rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rec *models.Cancellation) (*models.Cancellation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cancellation, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cancellation, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Cancellation, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cancellations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rec *models.Cancellation) (*models.Cancellation, error) {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cancellation, error) {
	var rec models.Cancellation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindActiveByUser returns the most recent in_progress record. Completed
// records never resume.
func (r *repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cancellation, error) {
	var rec models.Cancellation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enums.CancellationStatusInProgress).
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Cancellation, error) {
	if len(updates) > 0 {
		err := r.db.WithContext(ctx).
			Model(&models.Cancellation{}).
			Where("id = ?", id).
			Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

func (r *repository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Cancellation{}).
		Where("id = ?", id).
		Update("status", enums.CancellationStatusCompleted).Error
}

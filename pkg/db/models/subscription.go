package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/migratemate/cancelflow-backend/pkg/enums"
)

// Subscription mirrors the subscriptions table. MonthlyPrice is stored
// in integer cents; dollar formatting happens at the response layer.
type Subscription struct {
	ID           uuid.UUID                `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	MonthlyPrice int64                    `gorm:"column:monthly_price;not null" json:"monthly_price"`
	Status       enums.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null;default:active" json:"status"`
	CreatedAt    time.Time                `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the default GORM naming.
func (Subscription) TableName() string {
	return "subscriptions"
}

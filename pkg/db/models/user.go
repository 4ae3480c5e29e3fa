package models

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors the users table. The wizard never writes users; they are
// provisioned upstream and referenced by foreign key.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email     string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName overrides the default GORM naming.
func (User) TableName() string {
	return "users"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an inbox entry. Delivery is best-effort: dispatch failures
// are logged and never fail the operation that produced them.
type Notification struct {
	ID      string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Message string `gorm:"type:text;not null" json:"message"`

	ToUserID    *string   `gorm:"type:varchar(36);index" json:"to_user_id,omitempty"`
	ToRole      *UserRole `gorm:"type:varchar(20)" json:"to_role,omitempty"`
	CreatedByID string    `gorm:"type:varchar(36)" json:"created_by_id,omitempty"`

	IsRead bool `gorm:"not null;default:false;index" json:"is_read"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_notifications_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

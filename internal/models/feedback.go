package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackStatus is the moderation state of a complaint.
type FeedbackStatus string

const (
	FeedbackStatusPending    FeedbackStatus = "PENDING"
	FeedbackStatusInProgress FeedbackStatus = "IN_PROGRESS"
	FeedbackStatusResolved   FeedbackStatus = "RESOLVED"
)

// ValidFeedbackStatus reports whether s names a known status.
func ValidFeedbackStatus(s string) bool {
	switch FeedbackStatus(s) {
	case FeedbackStatusPending, FeedbackStatusInProgress, FeedbackStatusResolved:
		return true
	}
	return false
}

// Feedback is a tenant complaint about a room, worked by the room's landlord.
type Feedback struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Status      FeedbackStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	RoomID string `gorm:"type:varchar(36);not null;index" json:"room_id"`
	UserID string `gorm:"type:varchar(36);not null;index" json:"user_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// Package notify is the notification dispatcher: a database-backed inbox
// written on a best-effort basis. Dispatch happens after the owning
// transaction commits and never fails the caller.
package notify

import (
	"errors"
	"log"

	"rental-portal/internal/apperr"
	"rental-portal/internal/models"

	"gorm.io/gorm"
)

type Dispatcher struct {
	db *gorm.DB
}

func NewDispatcher(db *gorm.DB) *Dispatcher {
	return &Dispatcher{db: db}
}

// Send writes an inbox entry for the given user. Failures are logged and
// swallowed; at-most-once delivery is acceptable here.
func (d *Dispatcher) Send(toUserID, title, message, createdByID string) {
	n := models.Notification{
		Title:       title,
		Message:     message,
		ToUserID:    &toUserID,
		CreatedByID: createdByID,
	}
	if err := d.db.Create(&n).Error; err != nil {
		log.Printf("Warning: failed to deliver notification to %s: %v", toUserID, err)
	}
}

// ListFor returns the unread notifications addressed to the user, either
// directly or via their role, newest first.
func (d *Dispatcher) ListFor(userID string, role models.UserRole) ([]models.Notification, error) {
	var notifications []models.Notification
	err := d.db.
		Where("is_read = ?", false).
		Where("to_user_id = ? OR to_role = ?", userID, role).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return notifications, nil
}

// MarkRead flags a notification as read. Only the addressee may do so.
func (d *Dispatcher) MarkRead(id, userID string) (*models.Notification, error) {
	var n models.Notification
	if err := d.db.Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Notification not found")
		}
		return nil, apperr.Internal(err)
	}

	if n.ToUserID != nil && *n.ToUserID != userID {
		return nil, apperr.Forbidden("No permission to mark this notification as read")
	}

	n.IsRead = true
	if err := d.db.Save(&n).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &n, nil
}

// Package feedback is the tenant complaint workflow: a tenant reports a
// problem with a room, the room's landlord works it through
// PENDING -> IN_PROGRESS -> RESOLVED. Text only; attachments are out of scope.
package feedback

import (
	"errors"
	"fmt"

	"rental-portal/internal/apperr"
	"rental-portal/internal/auth"
	"rental-portal/internal/models"
	"rental-portal/internal/notify"

	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	notifier *notify.Dispatcher
}

func NewService(db *gorm.DB, notifier *notify.Dispatcher) *Service {
	return &Service{db: db, notifier: notifier}
}

// CreateInput carries a new complaint.
type CreateInput struct {
	RoomID      string
	Title       string
	Description string
}

// UpdateInput carries a revision. The reporter may edit title and description
// while the complaint is still PENDING; status moves are the landlord's (or
// an admin's). Nil means unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *models.FeedbackStatus
}

// Create files a complaint against a room and notifies the room's owner.
func (s *Service) Create(actor auth.Actor, in CreateInput) (*models.Feedback, error) {
	if in.Title == "" || in.Description == "" {
		return nil, apperr.Validation("Title and description are required")
	}

	room, err := findRoom(s.db, in.RoomID)
	if err != nil {
		return nil, err
	}

	f := &models.Feedback{
		Title:       in.Title,
		Description: in.Description,
		Status:      models.FeedbackStatusPending,
		RoomID:      in.RoomID,
		UserID:      actor.ID,
	}
	if err := s.db.Create(f).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	s.notifier.Send(room.OwnerID, "New feedback on your room",
		fmt.Sprintf("A complaint has been filed for room %s: %s", room.Number, f.Title),
		actor.ID)
	return f, nil
}

// List returns complaints visible to the actor: admins see everything,
// landlords the complaints on rooms they own, tenants their own reports.
func (s *Service) List(actor auth.Actor) ([]models.Feedback, error) {
	q := s.db.Order("created_at DESC")
	switch {
	case actor.IsAdmin():
		// no filter
	case actor.Role == models.RoleLandlord:
		roomIDs := s.db.Model(&models.Room{}).Select("id").Where("owner_id = ?", actor.ID)
		q = q.Where("room_id IN (?)", roomIDs)
	default:
		q = q.Where("user_id = ?", actor.ID)
	}

	var items []models.Feedback
	if err := q.Find(&items).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

// Get returns one complaint if the actor is the reporter, the room's owner,
// or an admin.
func (s *Service) Get(actor auth.Actor, id string) (*models.Feedback, error) {
	f, err := findFeedback(s.db, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Update revises a complaint. Status moves are restricted to the room's
// landlord or an admin; the reporter may reword a complaint only while it is
// still PENDING.
func (s *Service) Update(actor auth.Actor, id string, in UpdateInput) (*models.Feedback, error) {
	var updated *models.Feedback
	var statusChanged bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		f, err := findFeedback(tx, id)
		if err != nil {
			return err
		}
		room, err := findRoom(tx, f.RoomID)
		if err != nil {
			return err
		}
		moderator := actor.IsAdmin() || actor.ID == room.OwnerID

		if in.Status != nil {
			if !models.ValidFeedbackStatus(string(*in.Status)) {
				return apperr.Validation("invalid feedback status %q", string(*in.Status))
			}
			if !moderator {
				return apperr.Forbidden("Only the landlord can change the feedback status")
			}
			if f.Status != *in.Status {
				f.Status = *in.Status
				statusChanged = true
			}
		}

		if in.Title != nil || in.Description != nil {
			if !moderator && actor.ID != f.UserID {
				return apperr.Forbidden("No permission to edit this feedback")
			}
			if !moderator && f.Status != models.FeedbackStatusPending {
				return apperr.Conflict("Feedback already being worked can no longer be edited")
			}
			if in.Title != nil {
				f.Title = *in.Title
			}
			if in.Description != nil {
				f.Description = *in.Description
			}
		}

		if err := tx.Save(f).Error; err != nil {
			return apperr.Internal(err)
		}
		updated = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		s.notifier.Send(updated.UserID, "Feedback status updated",
			fmt.Sprintf("Your feedback %q is now %s.", updated.Title, updated.Status),
			actor.ID)
	}
	return updated, nil
}

// Remove deletes a complaint. The reporter or an admin may remove it.
func (s *Service) Remove(actor auth.Actor, id string) error {
	f, err := findFeedback(s.db, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && actor.ID != f.UserID {
		return apperr.Forbidden("No permission to delete this feedback")
	}
	if err := s.db.Delete(&models.Feedback{}, "id = ?", f.ID).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) authorize(actor auth.Actor, f *models.Feedback) error {
	if actor.IsAdmin() || actor.ID == f.UserID {
		return nil
	}
	room, err := findRoom(s.db, f.RoomID)
	if err == nil && room.OwnerID == actor.ID {
		return nil
	}
	return apperr.Forbidden("No permission to view this feedback")
}

func findFeedback(tx *gorm.DB, id string) (*models.Feedback, error) {
	var f models.Feedback
	if err := tx.Where("id = ?", id).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Feedback not found")
		}
		return nil, apperr.Internal(err)
	}
	return &f, nil
}

func findRoom(tx *gorm.DB, id string) (*models.Room, error) {
	var room models.Room
	if err := tx.Where("id = ?", id).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Room not found")
		}
		return nil, apperr.Internal(err)
	}
	return &room, nil
}

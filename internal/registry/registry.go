// Package registry tracks the rentable resources (rooms and motels) and owns
// their occupancy state. Lock and Unlock must run inside the same transaction
// as the contract status change that depends on them; nothing else in the
// codebase writes Room.Status or Room.CurrentTenantID.
package registry

import (
	"errors"
	"fmt"

	"rental-portal/internal/apperr"
	"rental-portal/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Target identifies what a contract or request rents: exactly one of a room
// or a motel. Construct it with NewTarget so the exclusivity is validated up
// front instead of at every use site.
type Target struct {
	Type    models.ContractType
	RoomID  string
	MotelID string
}

// NewTarget validates the type discriminator against the supplied ids.
func NewTarget(ctype models.ContractType, roomID, motelID string) (Target, error) {
	switch ctype {
	case models.ContractTypeRoom:
		if roomID == "" {
			return Target{}, apperr.Validation("roomId is required for ROOM contracts")
		}
		return Target{Type: ctype, RoomID: roomID}, nil
	case models.ContractTypeMotel:
		if motelID == "" {
			return Target{}, apperr.Validation("motelId is required for MOTEL contracts")
		}
		return Target{Type: ctype, MotelID: motelID}, nil
	default:
		return Target{}, apperr.Validation("invalid contract type %q", string(ctype))
	}
}

// ID returns the id of whichever resource the target names.
func (t Target) ID() string {
	if t.Type == models.ContractTypeMotel {
		return t.MotelID
	}
	return t.RoomID
}

// Resource is a resolved target with the data the contract engine needs.
// Exactly one of Room and Motel is non-nil, matching Target.Type.
type Resource struct {
	Target Target
	Room   *models.Room
	Motel  *models.Motel
}

// OwnerID returns the landlord owning the resource.
func (r *Resource) OwnerID() string {
	if r.Motel != nil {
		return r.Motel.OwnerID
	}
	return r.Room.OwnerID
}

// Label is a human-readable name used in notifications.
func (r *Resource) Label() string {
	if r.Motel != nil {
		return fmt.Sprintf("motel %s", r.Motel.Name)
	}
	return fmt.Sprintf("room %s", r.Room.Number)
}

// Resolve loads the target's resource on the given transaction. With
// forUpdate set, the row is locked for the remainder of the transaction so
// two concurrent approvals cannot both observe a vacant room.
func Resolve(tx *gorm.DB, target Target, forUpdate bool) (*Resource, error) {
	q := tx
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	switch target.Type {
	case models.ContractTypeRoom:
		var room models.Room
		if err := q.Where("id = ?", target.RoomID).First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("Room not found")
			}
			return nil, apperr.Internal(err)
		}
		return &Resource{Target: target, Room: &room}, nil
	default:
		var motel models.Motel
		if err := q.Where("id = ?", target.MotelID).First(&motel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("Motel not found")
			}
			return nil, apperr.Internal(err)
		}
		return &Resource{Target: target, Motel: &motel}, nil
	}
}

// LockRoom marks a room occupied by the given tenant. The row is read with a
// row-level lock first; a room already occupied fails Conflict. Whole-motel
// rentals do not flip per-room occupancy (known gap, kept deliberately).
func LockRoom(tx *gorm.DB, roomID, tenantID string) error {
	var room models.Room
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", roomID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Room not found")
		}
		return apperr.Internal(err)
	}

	if room.IsOccupied() {
		return apperr.Conflict("Room is already occupied")
	}
	if room.Status == models.RoomStatusMaintenance {
		return apperr.Conflict("Room is under maintenance")
	}

	updates := map[string]interface{}{
		"status":            models.RoomStatusOccupied,
		"current_tenant_id": tenantID,
	}
	if err := tx.Model(&models.Room{}).Where("id = ?", roomID).Updates(updates).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// UnlockRoom releases a room back to the vacant pool and clears the tenant
// reference.
func UnlockRoom(tx *gorm.DB, roomID string) error {
	var room models.Room
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", roomID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Room not found")
		}
		return apperr.Internal(err)
	}

	updates := map[string]interface{}{
		"status":            models.RoomStatusVacant,
		"current_tenant_id": nil,
	}
	if err := tx.Model(&models.Room{}).Where("id = ?", roomID).Updates(updates).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

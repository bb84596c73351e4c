// Package billing is the monthly ledger attached to contracts. Bills are
// append-only records; the existence of any bill blocks hard deletion of
// its contract.
package billing

import (
	"errors"
	"fmt"
	"time"

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

// CreateInput carries one month of meter readings and fees. Rates left nil
// default to the contract's signed utility rates.
type CreateInput struct {
	ContractID string
	Month      time.Time

	ElectricityStart int
	ElectricityEnd   int
	WaterStart       int
	WaterEnd         int

	ElectricityRate *float64
	WaterRate       *float64
	OtherFees       float64
}

// Create issues a bill against an active or terminated contract. Only the
// landlord of the contract's resource or an admin may bill; the total is
// computed server-side from the readings, never taken from the client.
func (s *Service) Create(actor auth.Actor, in CreateInput) (*models.Bill, error) {
	var created *models.Bill

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var c models.Contract
		if err := tx.Where("id = ?", in.ContractID).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Contract not found")
			}
			return apperr.Internal(err)
		}

		if !actor.IsAdmin() {
			ownerID, err := contractOwnerID(tx, &c)
			if err != nil {
				return err
			}
			if actor.ID != ownerID {
				return apperr.Forbidden("Only the landlord can create bills for this contract")
			}
		}

		if c.Status == models.ContractStatusPendingTenant {
			return apperr.Conflict("Cannot bill a contract that is not yet active")
		}
		if in.ElectricityEnd < in.ElectricityStart {
			return apperr.Validation("Electricity end reading must not be below the start reading")
		}
		if in.WaterEnd < in.WaterStart {
			return apperr.Validation("Water end reading must not be below the start reading")
		}
		if in.OtherFees < 0 {
			return apperr.Validation("Other fees must not be negative")
		}

		elecRate := c.ElectricityCostPerKwh
		if in.ElectricityRate != nil {
			elecRate = *in.ElectricityRate
		}
		waterRate := c.WaterCostPerCubicMeter
		if in.WaterRate != nil {
			waterRate = *in.WaterRate
		}

		elecAmount := float64(in.ElectricityEnd-in.ElectricityStart) * elecRate
		waterAmount := float64(in.WaterEnd-in.WaterStart) * waterRate
		total := c.MonthlyRent + elecAmount + waterAmount +
			c.InternetCost + c.ParkingCost + c.ServiceFee + in.OtherFees

		b := &models.Bill{
			ContractID:       c.ID,
			Month:            monthOf(in.Month),
			ElectricityStart: in.ElectricityStart,
			ElectricityEnd:   in.ElectricityEnd,
			WaterStart:       in.WaterStart,
			WaterEnd:         in.WaterEnd,
			ElectricityRate:  elecRate,
			WaterRate:        waterRate,
			OtherFees:        in.OtherFees,
			TotalAmount:      total,
		}
		if err := tx.Create(b).Error; err != nil {
			return apperr.Internal(err)
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	var c models.Contract
	if err := s.db.Where("id = ?", created.ContractID).First(&c).Error; err == nil {
		s.notifier.Send(c.TenantID, "New bill issued",
			fmt.Sprintf("A bill for %s has been issued on your contract.", created.Month.Format("January 2006")),
			actor.ID)
	}
	return created, nil
}

// List returns bills visible to the actor. Admins see everything, tenants
// the bills on their own contracts, landlords the bills on contracts over
// resources they own. An optional contract id narrows the result.
func (s *Service) List(actor auth.Actor, contractID string) ([]models.Bill, error) {
	q := s.db.Order("month DESC")
	if contractID != "" {
		q = q.Where("contract_id = ?", contractID)
	}

	switch {
	case actor.IsAdmin():
		// no filter
	case actor.Role == models.RoleLandlord:
		roomIDs := s.db.Model(&models.Room{}).Select("id").Where("owner_id = ?", actor.ID)
		motelIDs := s.db.Model(&models.Motel{}).Select("id").Where("owner_id = ?", actor.ID)
		cids := s.db.Model(&models.Contract{}).Select("id").
			Where("room_id IN (?) OR motel_id IN (?)", roomIDs, motelIDs)
		q = q.Where("contract_id IN (?)", cids)
	default:
		cids := s.db.Model(&models.Contract{}).Select("id").Where("tenant_id = ?", actor.ID)
		q = q.Where("contract_id IN (?)", cids)
	}

	var bills []models.Bill
	if err := q.Find(&bills).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return bills, nil
}

// Get returns one bill if the actor may see it.
func (s *Service) Get(actor auth.Actor, billID string) (*models.Bill, error) {
	var b models.Bill
	if err := s.db.Where("id = ?", billID).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Bill not found")
		}
		return nil, apperr.Internal(err)
	}

	var c models.Contract
	if err := s.db.Where("id = ?", b.ContractID).First(&c).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if actor.IsAdmin() || actor.ID == c.TenantID {
		return &b, nil
	}
	ownerID, err := contractOwnerID(s.db, &c)
	if err == nil && ownerID == actor.ID {
		return &b, nil
	}
	return nil, apperr.Forbidden("No permission to view this bill")
}

// MarkPaid settles a bill. The landlord of the contract or an admin may
// mark payment; paying twice is a Conflict.
func (s *Service) MarkPaid(actor auth.Actor, billID string) (*models.Bill, error) {
	var paid *models.Bill

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var b models.Bill
		if err := tx.Where("id = ?", billID).First(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Bill not found")
			}
			return apperr.Internal(err)
		}
		if b.IsPaid {
			return apperr.Conflict("Bill is already paid")
		}

		var c models.Contract
		if err := tx.Where("id = ?", b.ContractID).First(&c).Error; err != nil {
			return apperr.Internal(err)
		}
		if !actor.IsAdmin() {
			ownerID, err := contractOwnerID(tx, &c)
			if err != nil {
				return err
			}
			if actor.ID != ownerID {
				return apperr.Forbidden("Only the landlord can mark this bill paid")
			}
		}

		now := time.Now()
		b.IsPaid = true
		b.PaidAt = &now
		if err := tx.Save(&b).Error; err != nil {
			return apperr.Internal(err)
		}

		paid = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// monthOf truncates to the first day of the month.
func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func contractOwnerID(tx *gorm.DB, c *models.Contract) (string, error) {
	if c.RoomID != nil {
		var room models.Room
		if err := tx.Where("id = ?", *c.RoomID).First(&room).Error; err != nil {
			return "", apperr.Internal(err)
		}
		return room.OwnerID, nil
	}
	var motel models.Motel
	if err := tx.Where("id = ?", *c.MotelID).First(&motel).Error; err != nil {
		return "", apperr.Internal(err)
	}
	return motel.OwnerID, nil
}

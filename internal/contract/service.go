// Package contract owns the tenancy contract lifecycle: direct creation,
// tenant approval, termination, removal, and the request/negotiation flow
// that precedes a binding contract. All occupancy side effects on rooms go
// through the registry inside the same database transaction as the contract
// status change, so the two can never disagree.
package contract

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-portal/internal/apperr"
	"rental-portal/internal/audit"
	"rental-portal/internal/auth"
	"rental-portal/internal/models"
	"rental-portal/internal/notify"
	"rental-portal/internal/registry"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the contract lifecycle engine.
type Service struct {
	db       *gorm.DB
	notifier *notify.Dispatcher
	events   *audit.Recorder
}

func NewService(db *gorm.DB, notifier *notify.Dispatcher, events *audit.Recorder) *Service {
	return &Service{db: db, notifier: notifier, events: events}
}

// CreateInput is the direct-creation DTO. Terms left nil fall back to the
// resource defaults, then to the hard defaults.
type CreateInput struct {
	Type     models.ContractType
	RoomID   string
	MotelID  string
	TenantID string

	StartDate time.Time
	EndDate   time.Time

	Terms        TermsInput
	SpecialTerms string
}

// UpdateInput carries the updatable contract fields. Nil means unchanged.
type UpdateInput struct {
	StartDate          *time.Time
	EndDate            *time.Time
	MonthlyRent        *float64
	Deposit            *float64
	PaymentDay         *int
	PaymentCycleMonths *int
	SpecialTerms       *string
}

// note is a notification deferred until after the transaction commits.
type note struct {
	toUserID string
	title    string
	message  string
}

// Create persists a new contract in PENDING_TENANT status. The room is NOT
// reserved yet; occupancy is taken only when the tenant approves, so a room
// never shows as unavailable before the tenant has agreed.
func (s *Service) Create(actor auth.Actor, in CreateInput) (*models.Contract, error) {
	var created *models.Contract
	var pending []note

	err := s.db.Transaction(func(tx *gorm.DB) error {
		c, res, err := s.createInTx(tx, actor, in, false)
		if err != nil {
			return err
		}
		created = c
		pending = append(pending, note{
			toUserID: c.TenantID,
			title:    "New contract awaiting your approval",
			message:  fmt.Sprintf("A contract for %s has been drawn up for you. Review and approve it to move in.", res.Label()),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(actor.ID, pending)
	return created, nil
}

// createInTx resolves the target and tenant, computes effective terms,
// generates the document, and persists the contract on the caller's
// transaction. With activate set (the negotiator's approval path) the
// contract is born ACTIVE and the room is locked in the same transaction.
func (s *Service) createInTx(tx *gorm.DB, actor auth.Actor, in CreateInput, activate bool) (*models.Contract, *registry.Resource, error) {
	target, err := registry.NewTarget(in.Type, in.RoomID, in.MotelID)
	if err != nil {
		return nil, nil, err
	}

	// Row-lock the resource for the rest of the transaction: two concurrent
	// creations against the same vacant room must serialize here.
	res, err := registry.Resolve(tx, target, true)
	if err != nil {
		return nil, nil, err
	}
	if res.Room != nil && res.Room.IsOccupied() {
		return nil, nil, apperr.Conflict("Room is already occupied")
	}

	tenant, err := findUser(tx, in.TenantID)
	if err != nil {
		return nil, nil, apperr.NotFound("Tenant not found")
	}

	if !in.EndDate.After(in.StartDate) {
		return nil, nil, apperr.Validation("End date must be after start date")
	}

	terms := ResolveEffectiveTerms(in.Terms, DefaultsFor(res))

	landlordName := res.OwnerID()
	if owner, err := findUser(tx, res.OwnerID()); err == nil {
		landlordName = owner.FullName()
	}

	doc := GenerateDocument(DocumentData{
		ContractType:  in.Type,
		PropertyLabel: propertyLabel(res),
		LandlordName:  landlordName,
		TenantName:    tenant.FullName(),
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Terms:         terms,
		AllowCooking:  allowCooking(res),
		AllowPets:     allowPets(res),
		SpecialTerms:  in.SpecialTerms,
		Regulations:   regulations(res),
	})

	c := &models.Contract{
		Type:                   in.Type,
		TenantID:               in.TenantID,
		StartDate:              in.StartDate,
		EndDate:                in.EndDate,
		MonthlyRent:            terms.MonthlyRent,
		Deposit:                terms.Deposit,
		PaymentCycleMonths:     terms.PaymentCycleMonths,
		PaymentDay:             terms.PaymentDay,
		MaxOccupants:           terms.MaxOccupants,
		ElectricityCostPerKwh:  terms.ElectricityCostPerKwh,
		WaterCostPerCubicMeter: terms.WaterCostPerCubicMeter,
		InternetCost:           terms.InternetCost,
		ParkingCost:            terms.ParkingCost,
		ServiceFee:             terms.ServiceFee,
		DocumentContent:        doc,
		SpecialTerms:           in.SpecialTerms,
		Status:                 models.ContractStatusPendingTenant,
	}
	if in.Type == models.ContractTypeRoom {
		c.RoomID = &in.RoomID
	} else {
		c.MotelID = &in.MotelID
	}

	if activate {
		c.Status = models.ContractStatusActive
		if in.Type == models.ContractTypeRoom {
			if err := registry.LockRoom(tx, in.RoomID, in.TenantID); err != nil {
				return nil, nil, err
			}
		}
	}

	if err := tx.Create(c).Error; err != nil {
		return nil, nil, apperr.Internal(err)
	}

	details := fmt.Sprintf("status=%s target=%s", c.Status, target.ID())
	if err := s.events.Record(tx, c.ID, models.EventContractCreated, actor.ID, details); err != nil {
		return nil, nil, err
	}

	return c, res, nil
}

// Approve transitions PENDING_TENANT to ACTIVE and, for room contracts,
// takes the room's occupancy. This is the only path by which a room becomes
// OCCUPIED under the direct-creation flow.
func (s *Service) Approve(contractID, tenantID string) (*models.Contract, error) {
	var approved *models.Contract
	var pending []note

	err := s.db.Transaction(func(tx *gorm.DB) error {
		c, err := findContractForUpdate(tx, contractID)
		if err != nil {
			return err
		}

		if c.TenantID != tenantID {
			return apperr.Forbidden("Only the contract tenant can approve")
		}
		if c.Status != models.ContractStatusPendingTenant {
			return apperr.Conflict("Contract is not awaiting tenant approval")
		}

		if c.Type == models.ContractTypeRoom {
			if err := registry.LockRoom(tx, *c.RoomID, tenantID); err != nil {
				return err
			}
		}

		c.Status = models.ContractStatusActive
		if err := tx.Save(c).Error; err != nil {
			return apperr.Internal(err)
		}
		if err := s.events.Record(tx, c.ID, models.EventContractApproved, tenantID, ""); err != nil {
			return err
		}

		res, err := resourceForContract(tx, c, false)
		if err == nil {
			pending = append(pending, note{
				toUserID: res.OwnerID(),
				title:    "Contract approved",
				message:  fmt.Sprintf("The tenant has approved the contract for %s. The tenancy is now active.", res.Label()),
			})
		}

		approved = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(tenantID, pending)
	return approved, nil
}

// Update modifies a contract's negotiable fields. Only the resource owner or
// an administrator may update; a change to rent, deposit or dates regenerates
// the agreement document.
func (s *Service) Update(actor auth.Actor, contractID string, in UpdateInput) (*models.Contract, error) {
	var updated *models.Contract

	err := s.db.Transaction(func(tx *gorm.DB) error {
		c, err := findContractForUpdate(tx, contractID)
		if err != nil {
			return err
		}

		res, err := resourceForContract(tx, c, false)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && res.OwnerID() != actor.ID {
			return apperr.Forbidden("No permission to update this contract")
		}

		start, end := c.StartDate, c.EndDate
		if in.StartDate != nil {
			start = *in.StartDate
		}
		if in.EndDate != nil {
			end = *in.EndDate
		}
		if (in.StartDate != nil || in.EndDate != nil) && !end.After(start) {
			return apperr.Validation("End date must be after start date")
		}

		var changed []string
		regen := false

		if in.StartDate != nil && !start.Equal(c.StartDate) {
			c.StartDate = start
			changed = append(changed, "startDate")
			regen = true
		}
		if in.EndDate != nil && !end.Equal(c.EndDate) {
			c.EndDate = end
			changed = append(changed, "endDate")
			regen = true
		}
		if in.MonthlyRent != nil && *in.MonthlyRent != c.MonthlyRent {
			c.MonthlyRent = *in.MonthlyRent
			changed = append(changed, "monthlyRent")
			regen = true
		}
		if in.Deposit != nil && *in.Deposit != c.Deposit {
			c.Deposit = *in.Deposit
			changed = append(changed, "deposit")
			regen = true
		}
		if in.PaymentDay != nil && *in.PaymentDay != c.PaymentDay {
			c.PaymentDay = *in.PaymentDay
			changed = append(changed, "paymentDay")
		}
		if in.PaymentCycleMonths != nil && *in.PaymentCycleMonths != c.PaymentCycleMonths {
			c.PaymentCycleMonths = *in.PaymentCycleMonths
			changed = append(changed, "paymentCycleMonths")
		}
		if in.SpecialTerms != nil && *in.SpecialTerms != c.SpecialTerms {
			c.SpecialTerms = *in.SpecialTerms
			changed = append(changed, "specialTerms")
		}

		if len(changed) == 0 {
			updated = c
			return nil
		}

		if regen {
			tenantName := c.TenantID
			if tenant, err := findUser(tx, c.TenantID); err == nil {
				tenantName = tenant.FullName()
			}
			landlordName := res.OwnerID()
			if owner, err := findUser(tx, res.OwnerID()); err == nil {
				landlordName = owner.FullName()
			}
			c.DocumentContent = GenerateDocument(DocumentData{
				ContractType:  c.Type,
				PropertyLabel: propertyLabel(res),
				LandlordName:  landlordName,
				TenantName:    tenantName,
				StartDate:     c.StartDate,
				EndDate:       c.EndDate,
				Terms:         termsOf(c),
				AllowCooking:  allowCooking(res),
				AllowPets:     allowPets(res),
				SpecialTerms:  c.SpecialTerms,
				Regulations:   regulations(res),
			})
		}

		if err := tx.Save(c).Error; err != nil {
			return apperr.Internal(err)
		}
		if err := s.events.Record(tx, c.ID, models.EventContractUpdated, actor.ID, strings.Join(changed, ",")); err != nil {
			return err
		}

		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Terminate ends an active contract and releases the room. The resource
// owner, the tenant, or an administrator may terminate. Re-terminating an
// already ended contract is a Conflict, never a silent success.
func (s *Service) Terminate(actor auth.Actor, contractID string) (*models.Contract, error) {
	var terminated *models.Contract
	var pending []note

	err := s.db.Transaction(func(tx *gorm.DB) error {
		c, err := findContractForUpdate(tx, contractID)
		if err != nil {
			return err
		}

		res, err := resourceForContract(tx, c, false)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && actor.ID != c.TenantID && actor.ID != res.OwnerID() {
			return apperr.Forbidden("No permission to terminate this contract")
		}

		if c.Status != models.ContractStatusActive {
			return apperr.Conflict("Only active contracts can be terminated")
		}

		c.Status = models.ContractStatusTerminated
		if err := tx.Save(c).Error; err != nil {
			return apperr.Internal(err)
		}

		if c.Type == models.ContractTypeRoom {
			if err := registry.UnlockRoom(tx, *c.RoomID); err != nil {
				return err
			}
		}

		if err := s.events.Record(tx, c.ID, models.EventContractTerminated, actor.ID, ""); err != nil {
			return err
		}

		other := c.TenantID
		if actor.ID == c.TenantID {
			other = res.OwnerID()
		}
		pending = append(pending, note{
			toUserID: other,
			title:    "Contract terminated",
			message:  fmt.Sprintf("The contract for %s has been terminated.", res.Label()),
		})

		terminated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(actor.ID, pending)
	return terminated, nil
}

// Remove hard-deletes a contract. Administrators only, and only while no
// bill references it; contracts with billing history must be terminated so
// the ledger keeps its referent. The room lock state is re-checked and
// released inside the same transaction as the delete.
func (s *Service) Remove(actor auth.Actor, contractID string) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("Only administrators can delete contracts")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		c, err := findContractForUpdate(tx, contractID)
		if err != nil {
			return err
		}

		var billCount int64
		if err := tx.Model(&models.Bill{}).Where("contract_id = ?", c.ID).Count(&billCount).Error; err != nil {
			return apperr.Internal(err)
		}
		if billCount > 0 {
			return apperr.Conflict("Contract has bills and must be terminated instead of deleted")
		}

		// Only an ACTIVE contract holds the room's occupancy. A removed
		// PENDING_TENANT contract must not release a lock taken by some
		// other contract of the same tenant.
		if c.Type == models.ContractTypeRoom && c.Status == models.ContractStatusActive {
			var room models.Room
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", *c.RoomID).First(&room).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// Room already gone; nothing to release.
			case err != nil:
				return apperr.Internal(err)
			case room.CurrentTenantID != nil && *room.CurrentTenantID == c.TenantID:
				if err := registry.UnlockRoom(tx, room.ID); err != nil {
					return err
				}
			}
		}

		if err := tx.Delete(&models.Contract{}, "id = ?", c.ID).Error; err != nil {
			return apperr.Internal(err)
		}
		return s.events.Record(tx, c.ID, models.EventContractRemoved, actor.ID, "")
	})
}

// ExpireOverdue marks active contracts past their end date as EXPIRED and
// releases their rooms. Called by the scheduler; request-path operations
// never set EXPIRED themselves.
func (s *Service) ExpireOverdue(now time.Time) (int, error) {
	var ids []string
	err := s.db.Model(&models.Contract{}).
		Where("status = ? AND end_date < ?", models.ContractStatusActive, now).
		Order("created_at").
		Pluck("id", &ids).Error
	if err != nil {
		return 0, apperr.Internal(err)
	}

	expired := 0
	var pending []note

	for _, id := range ids {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			c, err := findContractForUpdate(tx, id)
			if err != nil {
				return err
			}
			// Re-check under lock; a concurrent terminate may have won.
			if c.Status != models.ContractStatusActive {
				return nil
			}

			c.Status = models.ContractStatusExpired
			if err := tx.Save(c).Error; err != nil {
				return apperr.Internal(err)
			}
			if c.Type == models.ContractTypeRoom {
				if err := registry.UnlockRoom(tx, *c.RoomID); err != nil {
					return err
				}
			}
			if err := s.events.Record(tx, c.ID, models.EventContractExpired, "scheduler", ""); err != nil {
				return err
			}

			expired++
			pending = append(pending, note{
				toUserID: c.TenantID,
				title:    "Contract expired",
				message:  "Your rental contract has reached its end date and is now expired.",
			})
			return nil
		})
		if err != nil {
			// Contracts expired before the failure did commit; their
			// tenants still get told.
			s.dispatch("scheduler", pending)
			return expired, err
		}
	}

	s.dispatch("scheduler", pending)
	return expired, nil
}

// FindAll lists contracts visible to the actor: admins see everything,
// landlords the contracts on resources they own, tenants their own.
func (s *Service) FindAll(actor auth.Actor) ([]models.Contract, error) {
	var contracts []models.Contract
	q := s.db.Order("created_at DESC")

	switch {
	case actor.IsAdmin():
		// no filter
	case actor.Role == models.RoleLandlord:
		roomIDs := s.db.Model(&models.Room{}).Select("id").Where("owner_id = ?", actor.ID)
		motelIDs := s.db.Model(&models.Motel{}).Select("id").Where("owner_id = ?", actor.ID)
		q = q.Where("room_id IN (?) OR motel_id IN (?)", roomIDs, motelIDs)
	default:
		q = q.Where("tenant_id = ?", actor.ID)
	}

	if err := q.Find(&contracts).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return contracts, nil
}

// FindOne returns one contract if the actor is involved or an admin.
func (s *Service) FindOne(actor auth.Actor, contractID string) (*models.Contract, error) {
	var c models.Contract
	if err := s.db.Where("id = ?", contractID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Contract not found")
		}
		return nil, apperr.Internal(err)
	}

	if actor.IsAdmin() || actor.ID == c.TenantID {
		return &c, nil
	}
	res, err := resourceForContract(s.db, &c, false)
	if err == nil && res.OwnerID() == actor.ID {
		return &c, nil
	}
	return nil, apperr.Forbidden("No permission to view this contract")
}

func (s *Service) dispatch(fromID string, notes []note) {
	for _, n := range notes {
		s.notifier.Send(n.toUserID, n.title, n.message, fromID)
	}
}

func findUser(tx *gorm.DB, id string) (*models.User, error) {
	var u models.User
	if err := tx.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func findContractForUpdate(tx *gorm.DB, id string) (*models.Contract, error) {
	var c models.Contract
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Contract not found")
		}
		return nil, apperr.Internal(err)
	}
	return &c, nil
}

func resourceForContract(tx *gorm.DB, c *models.Contract, forUpdate bool) (*registry.Resource, error) {
	roomID, motelID := "", ""
	if c.RoomID != nil {
		roomID = *c.RoomID
	}
	if c.MotelID != nil {
		motelID = *c.MotelID
	}
	target, err := registry.NewTarget(c.Type, roomID, motelID)
	if err != nil {
		return nil, err
	}
	return registry.Resolve(tx, target, forUpdate)
}

func termsOf(c *models.Contract) EffectiveTerms {
	return EffectiveTerms{
		MonthlyRent:            c.MonthlyRent,
		Deposit:                c.Deposit,
		PaymentCycleMonths:     c.PaymentCycleMonths,
		PaymentDay:             c.PaymentDay,
		MaxOccupants:           c.MaxOccupants,
		ElectricityCostPerKwh:  c.ElectricityCostPerKwh,
		WaterCostPerCubicMeter: c.WaterCostPerCubicMeter,
		InternetCost:           c.InternetCost,
		ParkingCost:            c.ParkingCost,
		ServiceFee:             c.ServiceFee,
	}
}

func propertyLabel(res *registry.Resource) string {
	if res.Motel != nil {
		return fmt.Sprintf("%s, %s", res.Motel.Name, res.Motel.Address)
	}
	if res.Room.Address != "" {
		return fmt.Sprintf("%s, %s", res.Room.Number, res.Room.Address)
	}
	return res.Room.Number
}

func allowCooking(res *registry.Resource) bool {
	if res.Motel != nil {
		return res.Motel.AllowCooking
	}
	return res.Room.AllowCooking
}

func allowPets(res *registry.Resource) bool {
	if res.Motel != nil {
		return res.Motel.AllowPets
	}
	return res.Room.AllowPets
}

func regulations(res *registry.Resource) string {
	if res.Motel != nil {
		return res.Motel.Regulations
	}
	return ""
}

package contract

import (
	"errors"
	"fmt"
	"time"

	"rental-portal/internal/apperr"
	"rental-portal/internal/auth"
	"rental-portal/internal/models"
	"rental-portal/internal/registry"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestService is the negotiation layer in front of the lifecycle engine.
// A request is a proposal; approving one produces an ACTIVE contract and
// locks the room in a single transaction, which is the second of the two
// ways a contract comes into being.
type RequestService struct {
	db        *gorm.DB
	contracts *Service
}

func NewRequestService(db *gorm.DB, contracts *Service) *RequestService {
	return &RequestService{db: db, contracts: contracts}
}

// RequestInput is the negotiation DTO. TenantID names the prospective
// tenant regardless of who initiates.
type RequestInput struct {
	Type     models.ContractType
	RoomID   string
	MotelID  string
	TenantID string

	StartDate time.Time
	EndDate   time.Time

	MonthlyRent float64
	Deposit     float64

	ElectricityCostPerKwh  *float64
	WaterCostPerCubicMeter *float64
	InternetCost           *float64
	ParkingCost            *float64
	ServiceFee             *float64

	SpecialTerms string
	Message      string
}

// RequestUpdateInput carries the fields the initiator may revise while the
// request is still pending. Nil means unchanged.
type RequestUpdateInput struct {
	StartDate   *time.Time
	EndDate     *time.Time
	MonthlyRent *float64
	Deposit     *float64

	ElectricityCostPerKwh  *float64
	WaterCostPerCubicMeter *float64
	InternetCost           *float64
	ParkingCost            *float64
	ServiceFee             *float64

	SpecialTerms *string
	Message      *string
}

// Create opens a negotiation. The actor must be the resource owner (landlord
// path, proposing to TenantID) or the prospective tenant themselves (tenant
// path, applying to the owner); the initiator is derived from which side the
// actor stands on, never taken from the payload.
func (s *RequestService) Create(actor auth.Actor, in RequestInput) (*models.ContractRequest, error) {
	var created *models.ContractRequest
	var pending []note

	err := s.db.Transaction(func(tx *gorm.DB) error {
		target, err := registry.NewTarget(in.Type, in.RoomID, in.MotelID)
		if err != nil {
			return err
		}
		res, err := registry.Resolve(tx, target, false)
		if err != nil {
			return err
		}
		if res.Room != nil && res.Room.IsOccupied() {
			return apperr.Conflict("Room is already occupied")
		}

		if _, err := findUser(tx, in.TenantID); err != nil {
			return apperr.NotFound("Tenant not found")
		}
		if !in.EndDate.After(in.StartDate) {
			return apperr.Validation("End date must be after start date")
		}

		var initiator models.RequestInitiator
		switch actor.ID {
		case res.OwnerID():
			initiator = models.InitiatorLandlord
		case in.TenantID:
			initiator = models.InitiatorTenant
		default:
			return apperr.Forbidden("You must be either the landlord or the tenant")
		}

		r := &models.ContractRequest{
			Type:        in.Type,
			InitiatedBy: initiator,
			Status:      models.RequestStatusPending,
			LandlordID:  res.OwnerID(),
			TenantID:    in.TenantID,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			MonthlyRent: in.MonthlyRent,
			Deposit:     in.Deposit,

			ElectricityCostPerKwh:  in.ElectricityCostPerKwh,
			WaterCostPerCubicMeter: in.WaterCostPerCubicMeter,
			InternetCost:           in.InternetCost,
			ParkingCost:            in.ParkingCost,
			ServiceFee:             in.ServiceFee,

			SpecialTerms: in.SpecialTerms,
			Message:      in.Message,
		}
		if in.Type == models.ContractTypeRoom {
			r.RoomID = &in.RoomID
		} else {
			r.MotelID = &in.MotelID
		}

		if err := tx.Create(r).Error; err != nil {
			return apperr.Internal(err)
		}

		pending = append(pending, note{
			toUserID: r.CounterPartyID(),
			title:    "New contract request",
			message:  fmt.Sprintf("You have received a contract request for %s.", res.Label()),
		})
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.contracts.dispatch(actor.ID, pending)
	return created, nil
}

// Approve accepts a pending request. Only the counter-party may approve
// (admins may override the party check, never the PENDING check). On
// success the contract is created ACTIVE and the room locked in the same
// transaction; a room taken since the request was made fails the whole
// approval with a Conflict.
func (s *RequestService) Approve(actor auth.Actor, requestID, responseMessage string) (*models.ContractRequest, error) {
	var approved *models.ContractRequest
	var pending []note

	err := s.db.Transaction(func(tx *gorm.DB) error {
		r, err := findRequestForUpdate(tx, requestID)
		if err != nil {
			return err
		}
		if r.Status != models.RequestStatusPending {
			return apperr.Conflict("Request is not pending")
		}
		if !actor.IsAdmin() && actor.ID != r.CounterPartyID() {
			return apperr.Forbidden("Only the receiving party can respond to this request")
		}

		roomID, motelID := "", ""
		if r.RoomID != nil {
			roomID = *r.RoomID
		}
		if r.MotelID != nil {
			motelID = *r.MotelID
		}

		c, res, err := s.contracts.createInTx(tx, actor, CreateInput{
			Type:      r.Type,
			RoomID:    roomID,
			MotelID:   motelID,
			TenantID:  r.TenantID,
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
			Terms: TermsInput{
				MonthlyRent:            &r.MonthlyRent,
				Deposit:                &r.Deposit,
				ElectricityCostPerKwh:  r.ElectricityCostPerKwh,
				WaterCostPerCubicMeter: r.WaterCostPerCubicMeter,
				InternetCost:           r.InternetCost,
				ParkingCost:            r.ParkingCost,
				ServiceFee:             r.ServiceFee,
			},
			SpecialTerms: r.SpecialTerms,
		}, true)
		if err != nil {
			if apperr.IsKind(err, apperr.KindConflict) {
				return apperr.Conflict("Room is no longer available")
			}
			return err
		}

		now := time.Now()
		r.Status = models.RequestStatusApproved
		r.ResponseMessage = responseMessage
		r.RespondedAt = &now
		r.ContractID = &c.ID
		if err := tx.Save(r).Error; err != nil {
			return apperr.Internal(err)
		}

		pending = append(pending, note{
			toUserID: r.InitiatorID(),
			title:    "Contract request approved",
			message:  fmt.Sprintf("Your contract request for %s was approved. The tenancy is now active.", res.Label()),
		})
		approved = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.contracts.dispatch(actor.ID, pending)
	return approved, nil
}

// Reject declines a pending request. Same authorization as Approve.
func (s *RequestService) Reject(actor auth.Actor, requestID, responseMessage string) (*models.ContractRequest, error) {
	var rejected *models.ContractRequest
	var pending []note

	err := s.db.Transaction(func(tx *gorm.DB) error {
		r, err := findRequestForUpdate(tx, requestID)
		if err != nil {
			return err
		}
		if r.Status != models.RequestStatusPending {
			return apperr.Conflict("Request is not pending")
		}
		if !actor.IsAdmin() && actor.ID != r.CounterPartyID() {
			return apperr.Forbidden("Only the receiving party can respond to this request")
		}

		now := time.Now()
		r.Status = models.RequestStatusRejected
		r.ResponseMessage = responseMessage
		r.RespondedAt = &now
		if err := tx.Save(r).Error; err != nil {
			return apperr.Internal(err)
		}

		pending = append(pending, note{
			toUserID: r.InitiatorID(),
			title:    "Contract request rejected",
			message:  "Your contract request was rejected.",
		})
		rejected = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.contracts.dispatch(actor.ID, pending)
	return rejected, nil
}

// Cancel withdraws a pending request. Only the initiator (or an admin) may
// cancel; the counter-party's exit is Reject.
func (s *RequestService) Cancel(actor auth.Actor, requestID string) (*models.ContractRequest, error) {
	var cancelled *models.ContractRequest

	err := s.db.Transaction(func(tx *gorm.DB) error {
		r, err := findRequestForUpdate(tx, requestID)
		if err != nil {
			return err
		}
		if r.Status != models.RequestStatusPending {
			return apperr.Conflict("Can only cancel pending requests")
		}
		if !actor.IsAdmin() && actor.ID != r.InitiatorID() {
			return apperr.Forbidden("Only the initiator can cancel this request")
		}

		now := time.Now()
		r.Status = models.RequestStatusCancelled
		r.RespondedAt = &now
		if err := tx.Save(r).Error; err != nil {
			return apperr.Internal(err)
		}
		cancelled = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// Update revises a pending request's proposed terms. Only the initiator (or
// an admin) may update; terminal requests are immutable.
func (s *RequestService) Update(actor auth.Actor, requestID string, in RequestUpdateInput) (*models.ContractRequest, error) {
	var updated *models.ContractRequest
	var pending []note

	err := s.db.Transaction(func(tx *gorm.DB) error {
		r, err := findRequestForUpdate(tx, requestID)
		if err != nil {
			return err
		}
		if r.Status != models.RequestStatusPending {
			return apperr.Conflict("Can only update pending requests")
		}
		if !actor.IsAdmin() && actor.ID != r.InitiatorID() {
			return apperr.Forbidden("Only the initiator can update this request")
		}

		start, end := r.StartDate, r.EndDate
		if in.StartDate != nil {
			start = *in.StartDate
		}
		if in.EndDate != nil {
			end = *in.EndDate
		}
		if (in.StartDate != nil || in.EndDate != nil) && !end.After(start) {
			return apperr.Validation("End date must be after start date")
		}

		r.StartDate, r.EndDate = start, end
		if in.MonthlyRent != nil {
			r.MonthlyRent = *in.MonthlyRent
		}
		if in.Deposit != nil {
			r.Deposit = *in.Deposit
		}
		if in.ElectricityCostPerKwh != nil {
			r.ElectricityCostPerKwh = in.ElectricityCostPerKwh
		}
		if in.WaterCostPerCubicMeter != nil {
			r.WaterCostPerCubicMeter = in.WaterCostPerCubicMeter
		}
		if in.InternetCost != nil {
			r.InternetCost = in.InternetCost
		}
		if in.ParkingCost != nil {
			r.ParkingCost = in.ParkingCost
		}
		if in.ServiceFee != nil {
			r.ServiceFee = in.ServiceFee
		}
		if in.SpecialTerms != nil {
			r.SpecialTerms = *in.SpecialTerms
		}
		if in.Message != nil {
			r.Message = *in.Message
		}

		if err := tx.Save(r).Error; err != nil {
			return apperr.Internal(err)
		}

		pending = append(pending, note{
			toUserID: r.CounterPartyID(),
			title:    "Contract request updated",
			message:  "A contract request addressed to you has been updated.",
		})
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.contracts.dispatch(actor.ID, pending)
	return updated, nil
}

// FindAllForUser lists requests the actor is a party to, newest first.
// Admins see all requests.
func (s *RequestService) FindAllForUser(actor auth.Actor) ([]models.ContractRequest, error) {
	var requests []models.ContractRequest
	q := s.db.Order("created_at DESC")
	if !actor.IsAdmin() {
		q = q.Where("landlord_id = ? OR tenant_id = ?", actor.ID, actor.ID)
	}
	if err := q.Find(&requests).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return requests, nil
}

// FindOne returns one request if the actor is a party to it or an admin.
func (s *RequestService) FindOne(actor auth.Actor, requestID string) (*models.ContractRequest, error) {
	var r models.ContractRequest
	if err := s.db.Where("id = ?", requestID).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Contract request not found")
		}
		return nil, apperr.Internal(err)
	}
	if !actor.IsAdmin() && actor.ID != r.LandlordID && actor.ID != r.TenantID {
		return nil, apperr.Forbidden("No permission to view this request")
	}
	return &r, nil
}

func findRequestForUpdate(tx *gorm.DB, id string) (*models.ContractRequest, error) {
	var r models.ContractRequest
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Contract request not found")
		}
		return nil, apperr.Internal(err)
	}
	return &r, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus is the state of a contract request. PENDING is the only
// non-terminal state.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

// RequestInitiator records which party opened the negotiation. The other
// party holds the approve/reject rights.
type RequestInitiator string

const (
	InitiatorLandlord RequestInitiator = "LANDLORD"
	InitiatorTenant   RequestInitiator = "TENANT"
)

// ContractRequest is a proposed tenancy prior to commitment.
type ContractRequest struct {
	ID   string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Type ContractType `gorm:"type:varchar(10);not null;default:'ROOM'" json:"type"`

	InitiatedBy RequestInitiator `gorm:"type:varchar(10);not null" json:"initiated_by"`
	Status      RequestStatus    `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	RoomID  *string `gorm:"type:varchar(36);index" json:"room_id,omitempty"`
	MotelID *string `gorm:"type:varchar(36);index" json:"motel_id,omitempty"`

	LandlordID string `gorm:"type:varchar(36);not null;index" json:"landlord_id"`
	TenantID   string `gorm:"type:varchar(36);not null;index" json:"tenant_id"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	MonthlyRent float64 `gorm:"not null" json:"monthly_rent"`
	Deposit     float64 `gorm:"not null" json:"deposit"`

	ElectricityCostPerKwh  *float64 `json:"electricity_cost_per_kwh,omitempty"`
	WaterCostPerCubicMeter *float64 `json:"water_cost_per_cubic_meter,omitempty"`
	InternetCost           *float64 `json:"internet_cost,omitempty"`
	ParkingCost            *float64 `json:"parking_cost,omitempty"`
	ServiceFee             *float64 `json:"service_fee,omitempty"`

	SpecialTerms    string     `gorm:"type:text" json:"special_terms,omitempty"`
	Message         string     `gorm:"type:text" json:"message,omitempty"`
	ResponseMessage string     `gorm:"type:text" json:"response_message,omitempty"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`

	// Set when approval produces a contract.
	ContractID *string `gorm:"type:varchar(36);index" json:"contract_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_requests_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ContractRequest) TableName() string {
	return "contract_requests"
}

func (r *ContractRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// CounterPartyID returns the user on the receiving end of the request.
func (r *ContractRequest) CounterPartyID() string {
	if r.InitiatedBy == InitiatorLandlord {
		return r.TenantID
	}
	return r.LandlordID
}

// InitiatorID returns the user who opened the request.
func (r *ContractRequest) InitiatorID() string {
	if r.InitiatedBy == InitiatorLandlord {
		return r.LandlordID
	}
	return r.TenantID
}

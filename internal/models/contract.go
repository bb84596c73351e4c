package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContractType discriminates what a contract rents.
type ContractType string

const (
	ContractTypeRoom  ContractType = "ROOM"
	ContractTypeMotel ContractType = "MOTEL"
)

// ContractStatus is the lifecycle state of a contract.
//
// PENDING_TENANT: created directly by the landlord, awaiting tenant approval;
// the room is not reserved yet. ACTIVE: binding, room locked for ROOM-type.
// TERMINATED: ended by a party. EXPIRED: end date passed (set by the
// scheduler sweep, never by the request-path operations).
type ContractStatus string

const (
	ContractStatusPendingTenant ContractStatus = "PENDING_TENANT"
	ContractStatusActive        ContractStatus = "ACTIVE"
	ContractStatusTerminated    ContractStatus = "TERMINATED"
	ContractStatusExpired       ContractStatus = "EXPIRED"
)

// Contract is the binding tenancy agreement. All financial and utility
// values are stored fully resolved at signing time; the room's defaults are
// never consulted again after creation.
type Contract struct {
	ID   string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Type ContractType `gorm:"type:varchar(10);not null;default:'ROOM'" json:"type"`

	RoomID   *string `gorm:"type:varchar(36);index" json:"room_id,omitempty"`
	MotelID  *string `gorm:"type:varchar(36);index" json:"motel_id,omitempty"`
	TenantID string  `gorm:"type:varchar(36);not null;index" json:"tenant_id"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	MonthlyRent        float64 `gorm:"not null" json:"monthly_rent"`
	Deposit            float64 `gorm:"not null" json:"deposit"`
	PaymentCycleMonths int     `gorm:"not null;default:1" json:"payment_cycle_months"`
	PaymentDay         int     `gorm:"not null;default:5" json:"payment_day"`
	MaxOccupants       int     `gorm:"not null;default:4" json:"max_occupants"`

	ElectricityCostPerKwh  float64 `gorm:"not null;default:0" json:"electricity_cost_per_kwh"`
	WaterCostPerCubicMeter float64 `gorm:"not null;default:0" json:"water_cost_per_cubic_meter"`
	InternetCost           float64 `gorm:"not null;default:0" json:"internet_cost"`
	ParkingCost            float64 `gorm:"not null;default:0" json:"parking_cost"`
	ServiceFee             float64 `gorm:"not null;default:0" json:"service_fee"`

	// DocumentContent is derived deterministically from the resolved terms.
	// It is regenerated only when rent, deposit or dates change.
	DocumentContent string `gorm:"type:text" json:"document_content,omitempty"`
	SpecialTerms    string `gorm:"type:text" json:"special_terms,omitempty"`

	Status ContractStatus `gorm:"type:varchar(20);not null;default:'PENDING_TENANT';index" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Contract) TableName() string {
	return "contracts"
}

func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

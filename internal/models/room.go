package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomStatus is the occupancy status of a room.
type RoomStatus string

const (
	RoomStatusVacant      RoomStatus = "VACANT"
	RoomStatusOccupied    RoomStatus = "OCCUPIED"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
)

// Room is a standalone rentable unit, optionally belonging to a motel.
// Status and CurrentTenantID are written only by the contract engine's
// transactional operations, never directly by handlers.
type Room struct {
	ID      string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Number  string  `gorm:"type:varchar(50);not null" json:"number"`
	Address string  `gorm:"type:text" json:"address,omitempty"`
	Area    float64 `gorm:"not null;default:0" json:"area"`
	Price   float64 `gorm:"not null;default:0" json:"price"`

	Status          RoomStatus `gorm:"type:varchar(20);not null;default:'VACANT';index" json:"status"`
	CurrentTenantID *string    `gorm:"type:varchar(36);index" json:"current_tenant_id,omitempty"`

	// Capacity and house rules, also consumed by document generation.
	MaxOccupancy int  `gorm:"not null;default:2" json:"max_occupancy"`
	AllowPets    bool `gorm:"not null;default:false" json:"allow_pets"`
	AllowCooking bool `gorm:"not null;default:false" json:"allow_cooking"`
	HasWifi      bool `gorm:"not null;default:false" json:"has_wifi"`
	HasParking   bool `gorm:"not null;default:false" json:"has_parking"`
	Floor        *int `gorm:"type:int" json:"floor,omitempty"`

	// Utility unit cost defaults, used when a contract omits its own.
	ElectricityCostPerKwh  *float64 `json:"electricity_cost_per_kwh,omitempty"`
	WaterCostPerCubicMeter *float64 `json:"water_cost_per_cubic_meter,omitempty"`
	InternetCost           *float64 `json:"internet_cost,omitempty"`
	ParkingCost            *float64 `json:"parking_cost,omitempty"`
	ServiceFee             *float64 `json:"service_fee,omitempty"`
	PaymentCycleMonths     *int     `gorm:"type:int" json:"payment_cycle_months,omitempty"`

	Description string `gorm:"type:text" json:"description,omitempty"`

	OwnerID string  `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	MotelID *string `gorm:"type:varchar(36);index" json:"motel_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Room) TableName() string {
	return "rooms"
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IsOccupied reports whether the room currently holds an active tenancy.
func (r *Room) IsOccupied() bool {
	return r.Status == RoomStatusOccupied
}

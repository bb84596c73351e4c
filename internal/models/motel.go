package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Motel is a multi-room property that can also be rented as a whole.
type Motel struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Address     string `gorm:"type:text;not null" json:"address"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	TotalRooms  int      `gorm:"not null;default:0" json:"total_rooms"`
	MonthlyRent *float64 `json:"monthly_rent,omitempty"`

	HasWifi      bool `gorm:"not null;default:false" json:"has_wifi"`
	HasParking   bool `gorm:"not null;default:false" json:"has_parking"`
	HasElevator  bool `gorm:"not null;default:false" json:"has_elevator"`
	AllowPets    bool `gorm:"not null;default:false" json:"allow_pets"`
	AllowCooking bool `gorm:"not null;default:false" json:"allow_cooking"`

	// Utility unit cost defaults for whole-property contracts.
	ElectricityCostPerKwh  *float64 `json:"electricity_cost_per_kwh,omitempty"`
	WaterCostPerCubicMeter *float64 `json:"water_cost_per_cubic_meter,omitempty"`
	InternetCost           *float64 `json:"internet_cost,omitempty"`
	ParkingCost            *float64 `json:"parking_cost,omitempty"`
	ServiceFee             *float64 `json:"service_fee,omitempty"`
	PaymentCycleMonths     *int     `gorm:"type:int" json:"payment_cycle_months,omitempty"`

	Regulations string `gorm:"type:text" json:"regulations,omitempty"`

	ContactPhone string `gorm:"type:varchar(30)" json:"contact_phone,omitempty"`
	ContactEmail string `gorm:"type:varchar(255)" json:"contact_email,omitempty"`

	OwnerID string `gorm:"type:varchar(36);not null;index" json:"owner_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Motel) TableName() string {
	return "motels"
}

func (m *Motel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

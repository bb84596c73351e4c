package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bill is one billed period of a contract. A contract with bills can only be
// terminated, never hard-deleted.
type Bill struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	ContractID string `gorm:"type:varchar(36);not null;index" json:"contract_id"`

	// Month identifies the billed period (first day of the month).
	Month time.Time `gorm:"not null" json:"month"`

	ElectricityStart int     `gorm:"not null" json:"electricity_start"`
	ElectricityEnd   int     `gorm:"not null" json:"electricity_end"`
	WaterStart       int     `gorm:"not null" json:"water_start"`
	WaterEnd         int     `gorm:"not null" json:"water_end"`
	ElectricityRate  float64 `gorm:"not null" json:"electricity_rate"`
	WaterRate        float64 `gorm:"not null" json:"water_rate"`
	OtherFees        float64 `gorm:"not null;default:0" json:"other_fees"`

	TotalAmount float64 `gorm:"not null" json:"total_amount"`

	IsPaid bool       `gorm:"not null;default:false;index" json:"is_paid"`
	PaidAt *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Bill) TableName() string {
	return "bills"
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

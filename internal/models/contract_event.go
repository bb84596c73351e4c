package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContractEventType names the lifecycle transitions worth auditing.
type ContractEventType string

const (
	EventContractCreated    ContractEventType = "created"
	EventContractApproved   ContractEventType = "approved"
	EventContractUpdated    ContractEventType = "updated"
	EventContractTerminated ContractEventType = "terminated"
	EventContractExpired    ContractEventType = "expired"
	EventContractRemoved    ContractEventType = "removed"
)

// ContractEvent is an audit-trail row, written in the same transaction as
// the contract mutation it describes. Rows are kept even after a contract is
// hard-deleted.
type ContractEvent struct {
	ID         string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	ContractID string            `gorm:"type:varchar(36);not null;index" json:"contract_id"`
	EventType  ContractEventType `gorm:"type:varchar(20);not null;index" json:"event_type"`
	ActorID    string            `gorm:"type:varchar(36)" json:"actor_id,omitempty"`
	Details    string            `gorm:"type:text" json:"details,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_contract_events_created_at,sort:desc" json:"created_at"`
}

func (ContractEvent) TableName() string {
	return "contract_events"
}

func (e *ContractEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// CleanupLog records a contract request cancelled by the stale-request sweep.
type CleanupLog struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	RequestID  string    `gorm:"type:varchar(36);not null;index" json:"request_id"`
	LandlordID string    `gorm:"type:varchar(36)" json:"landlord_id"`
	TenantID   string    `gorm:"type:varchar(36)" json:"tenant_id"`
	AgeDays    int       `gorm:"not null" json:"age_days"`
	ExecutedAt time.Time `gorm:"not null" json:"executed_at"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (CleanupLog) TableName() string {
	return "cleanup_logs"
}

func (l *CleanupLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

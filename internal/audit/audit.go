// Package audit keeps the contract event trail. Events are recorded inside
// the transaction that performs the transition, so the trail never disagrees
// with the contract table.
package audit

import (
	"rental-portal/internal/apperr"
	"rental-portal/internal/models"

	"gorm.io/gorm"
)

type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record writes an event on the caller's transaction.
func (r *Recorder) Record(tx *gorm.DB, contractID string, event models.ContractEventType, actorID, details string) error {
	e := models.ContractEvent{
		ContractID: contractID,
		EventType:  event,
		ActorID:    actorID,
		Details:    details,
	}
	if err := tx.Create(&e).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// ContractHistory returns the events of one contract, newest first.
func (r *Recorder) ContractHistory(contractID string, limit int) ([]models.ContractEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []models.ContractEvent
	err := r.db.Where("contract_id = ?", contractID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return events, nil
}

// RecentEvents returns the latest events across all contracts.
func (r *Recorder) RecentEvents(limit int) ([]models.ContractEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var events []models.ContractEvent
	err := r.db.Order("created_at DESC").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return events, nil
}

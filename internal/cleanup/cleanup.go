// Package cleanup cancels contract requests that have sat in PENDING longer
// than the retention window. Stale proposals otherwise pin rooms in
// negotiation limbo forever; cancelling them keeps the request inbox honest.
package cleanup

import (
	"fmt"
	"log"
	"time"

	"rental-portal/internal/models"
	"rental-portal/internal/notify"

	"gorm.io/gorm"
)

// Service handles cancellation of stale pending contract requests.
type Service struct {
	db       *gorm.DB
	notifier *notify.Dispatcher
}

func NewService(db *gorm.DB, notifier *notify.Dispatcher) *Service {
	return &Service{db: db, notifier: notifier}
}

// Config holds configuration for a cleanup run.
type Config struct {
	StaleDays      int  // Days a request may stay PENDING before it is swept (default: 30)
	MaxCancelCount int  // Maximum number of requests to cancel in one run (safety limit)
	DryRun         bool // If true, only log what would be cancelled without actually cancelling
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		StaleDays:      30,
		MaxCancelCount: 1000,
		DryRun:         false,
	}
}

// Result holds the outcome of a cleanup run.
type Result struct {
	TargetCount       int       `json:"target_count"`
	CancelledCount    int       `json:"cancelled_count"`
	ErrorCount        int       `json:"error_count"`
	DryRun            bool      `json:"dry_run"`
	ExecutedAt        time.Time `json:"executed_at"`
	CancelledRequests []string  `json:"cancelled_requests"`
	Errors            []string  `json:"errors,omitempty"`
}

// FindStaleRequests finds PENDING requests created before the cutoff.
func (s *Service) FindStaleRequests(staleDays int) ([]models.ContractRequest, error) {
	var requests []models.ContractRequest

	cutoff := time.Now().AddDate(0, 0, -staleDays)

	err := s.db.Where("status = ? AND created_at < ?",
		models.RequestStatusPending,
		cutoff,
	).Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find stale requests: %w", err)
	}

	log.Printf("Found %d pending requests older than %s", len(requests), cutoff.Format("2006-01-02"))
	return requests, nil
}

// Run cancels stale pending requests. Each cancellation is its own
// transaction with a re-check under lock, so a request answered mid-sweep
// is left alone.
func (s *Service) Run(cfg Config) (*Result, error) {
	result := &Result{
		DryRun:     cfg.DryRun,
		ExecutedAt: time.Now(),
	}

	stale, err := s.FindStaleRequests(cfg.StaleDays)
	if err != nil {
		return nil, err
	}

	result.TargetCount = len(stale)

	if result.TargetCount == 0 {
		log.Println("No stale requests found for cleanup")
		return result, nil
	}

	if result.TargetCount > cfg.MaxCancelCount {
		return nil, fmt.Errorf("safety check failed: %d requests exceed max cancel limit of %d",
			result.TargetCount, cfg.MaxCancelCount)
	}

	log.Printf("Starting cleanup: %d requests to cancel (stale after: %d days, dry-run: %v)",
		result.TargetCount, cfg.StaleDays, cfg.DryRun)

	for _, req := range stale {
		ageDays := int(result.ExecutedAt.Sub(req.CreatedAt).Hours() / 24)

		if cfg.DryRun {
			log.Printf("[DRY-RUN] Would cancel request %s (Age: %d days, Landlord: %s, Tenant: %s)",
				req.ID, ageDays, req.LandlordID, req.TenantID)
			result.CancelledRequests = append(result.CancelledRequests, req.ID)
			result.CancelledCount++
			continue
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			var current models.ContractRequest
			if err := tx.Where("id = ?", req.ID).First(&current).Error; err != nil {
				return err
			}
			if current.Status != models.RequestStatusPending {
				return nil
			}

			now := time.Now()
			current.Status = models.RequestStatusCancelled
			current.RespondedAt = &now
			if err := tx.Save(&current).Error; err != nil {
				return err
			}

			return tx.Create(&models.CleanupLog{
				RequestID:  current.ID,
				LandlordID: current.LandlordID,
				TenantID:   current.TenantID,
				AgeDays:    ageDays,
				ExecutedAt: result.ExecutedAt,
			}).Error
		})
		if err != nil {
			errMsg := fmt.Sprintf("Failed to cancel request %s: %v", req.ID, err)
			log.Printf("ERROR: %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			continue
		}

		s.notifier.Send(req.InitiatorID(), "Contract request expired",
			fmt.Sprintf("Your contract request was automatically cancelled after %d days without a response.", ageDays),
			"cleanup")

		log.Printf("Cancelled stale request %s (Age: %d days)", req.ID, ageDays)
		result.CancelledRequests = append(result.CancelledRequests, req.ID)
		result.CancelledCount++
	}

	log.Printf("Cleanup completed: %d/%d cancelled, %d errors (dry-run: %v)",
		result.CancelledCount, result.TargetCount, result.ErrorCount, cfg.DryRun)

	return result, nil
}

// GetStats returns statistics about swept requests.
func (s *Service) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalSwept int64
	if err := s.db.Model(&models.CleanupLog{}).Count(&totalSwept).Error; err != nil {
		return nil, err
	}
	stats["total_swept"] = totalSwept

	var recentSwept int64
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := s.db.Model(&models.CleanupLog{}).
		Where("executed_at >= ?", thirtyDaysAgo).
		Count(&recentSwept).Error; err != nil {
		return nil, err
	}
	stats["swept_last_30_days"] = recentSwept

	var currentPending int64
	if err := s.db.Model(&models.ContractRequest{}).
		Where("status = ?", models.RequestStatusPending).
		Count(&currentPending).Error; err != nil {
		return nil, err
	}
	stats["currently_pending"] = currentPending

	stale, err := s.FindStaleRequests(DefaultConfig().StaleDays)
	if err != nil {
		return nil, err
	}
	stats["stale_ready_for_cleanup"] = len(stale)

	return stats, nil
}

// GetRecentLogs returns recent cleanup log entries.
func (s *Service) GetRecentLogs(limit int) ([]models.CleanupLog, error) {
	var logs []models.CleanupLog
	err := s.db.Order("executed_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

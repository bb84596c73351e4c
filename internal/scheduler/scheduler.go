// Package scheduler runs the daily maintenance jobs: expiring contracts past
// their end date and sweeping stale pending requests.
package scheduler

import (
	"fmt"
	"log"
	"time"

	"rental-portal/internal/cleanup"
	"rental-portal/internal/config"
	"rental-portal/internal/contract"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Scheduler handles scheduled maintenance tasks.
type Scheduler struct {
	cron      *cron.Cron
	db        *gorm.DB
	contracts *contract.Service
	cleanup   *cleanup.Service
	config    *config.Config
	isRunning bool
}

// NewScheduler creates a new scheduler.
func NewScheduler(db *gorm.DB, contracts *contract.Service, sweep *cleanup.Service, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		db:        db,
		contracts: contracts,
		cleanup:   sweep,
		config:    cfg,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	if !s.config.Scheduler.Enabled {
		log.Println("Scheduler: Daily run is disabled in configuration")
		return nil
	}

	cronSpec := s.parseDailyRunTime(s.config.Scheduler.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: Starting daily maintenance job...")
		if err := s.runDailyMaintenance(); err != nil {
			log.Printf("Scheduler: Daily maintenance failed: %v", err)
		} else {
			log.Println("Scheduler: Daily maintenance completed successfully")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started with daily run at %s (cron: %s)", s.config.Scheduler.DailyRunTime, cronSpec)

	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// runDailyMaintenance expires overdue contracts, then sweeps stale requests.
func (s *Scheduler) runDailyMaintenance() error {
	expired, err := s.contracts.ExpireOverdue(time.Now())
	if err != nil {
		return fmt.Errorf("expiring contracts: %w", err)
	}
	log.Printf("Scheduler: Expired %d overdue contracts", expired)

	cfg := cleanup.Config{
		StaleDays:      s.config.Cleanup.StaleRequestDays,
		MaxCancelCount: s.config.Cleanup.MaxCancelCount,
		DryRun:         false,
	}
	result, err := s.cleanup.Run(cfg)
	if err != nil {
		return fmt.Errorf("sweeping stale requests: %w", err)
	}
	log.Printf("Scheduler: Swept %d stale requests (%d errors)", result.CancelledCount, result.ErrorCount)

	return nil
}

// RunNow immediately executes the daily maintenance job (for manual trigger).
func (s *Scheduler) RunNow() error {
	log.Println("Scheduler: Manual trigger - starting maintenance job...")
	return s.runDailyMaintenance()
}

// parseDailyRunTime converts HH:MM format to cron specification.
// Example: "02:00" -> "0 2 * * *" (run at 2:00 AM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 && hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	log.Printf("Scheduler: Failed to parse time '%s', using default 02:00", timeStr)
	return "0 2 * * *"
}

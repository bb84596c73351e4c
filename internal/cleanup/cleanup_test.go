package cleanup

import (
	"testing"
	"time"

	"rental-portal/internal/database"
	"rental-portal/internal/models"
	"rental-portal/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return NewService(db, notify.NewDispatcher(db)), db
}

func seedRequest(t *testing.T, db *gorm.DB, status models.RequestStatus, ageDays int) models.ContractRequest {
	t.Helper()
	roomID := "room-1"
	r := models.ContractRequest{
		Type:        models.ContractTypeRoom,
		InitiatedBy: models.InitiatorTenant,
		Status:      status,
		RoomID:      &roomID,
		LandlordID:  "landlord-1",
		TenantID:    "tenant-1",
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(1, 0, 0),
		MonthlyRent: 3000000,
		Deposit:     6000000,
		CreatedAt:   time.Now().AddDate(0, 0, -ageDays),
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func TestFindStaleRequests(t *testing.T) {
	s, db := newTestService(t)

	old := seedRequest(t, db, models.RequestStatusPending, 45)
	seedRequest(t, db, models.RequestStatusPending, 5)
	seedRequest(t, db, models.RequestStatusApproved, 45)

	stale, err := s.FindStaleRequests(30)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, old.ID, stale[0].ID)
}

func TestRunCancelsStaleRequests(t *testing.T) {
	s, db := newTestService(t)

	old := seedRequest(t, db, models.RequestStatusPending, 45)
	fresh := seedRequest(t, db, models.RequestStatusPending, 5)

	result, err := s.Run(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, result.TargetCount)
	assert.Equal(t, 1, result.CancelledCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, []string{old.ID}, result.CancelledRequests)

	var got models.ContractRequest
	require.NoError(t, db.First(&got, "id = ?", old.ID).Error)
	assert.Equal(t, models.RequestStatusCancelled, got.Status)
	assert.NotNil(t, got.RespondedAt)

	got = models.ContractRequest{}
	require.NoError(t, db.First(&got, "id = ?", fresh.ID).Error)
	assert.Equal(t, models.RequestStatusPending, got.Status)

	var logs []models.CleanupLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, old.ID, logs[0].RequestID)
	assert.Equal(t, "landlord-1", logs[0].LandlordID)
	assert.Equal(t, 45, logs[0].AgeDays)

	// The initiator is told why their request disappeared.
	var count int64
	db.Model(&models.Notification{}).Where("to_user_id = ?", old.TenantID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRunSkipsRequestsAnsweredMidSweep(t *testing.T) {
	s, db := newTestService(t)

	old := seedRequest(t, db, models.RequestStatusPending, 45)

	// Simulate a landlord responding between the scan and the sweep.
	stale, err := s.FindStaleRequests(30)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	require.NoError(t, db.Model(&models.ContractRequest{}).
		Where("id = ?", old.ID).
		Update("status", models.RequestStatusApproved).Error)

	result, err := s.Run(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, result.TargetCount)

	var got models.ContractRequest
	require.NoError(t, db.First(&got, "id = ?", old.ID).Error)
	assert.Equal(t, models.RequestStatusApproved, got.Status)
}

func TestRunDryRun(t *testing.T) {
	s, db := newTestService(t)

	old := seedRequest(t, db, models.RequestStatusPending, 45)

	cfg := DefaultConfig()
	cfg.DryRun = true
	result, err := s.Run(cfg)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.CancelledCount)
	assert.Equal(t, []string{old.ID}, result.CancelledRequests)

	var got models.ContractRequest
	require.NoError(t, db.First(&got, "id = ?", old.ID).Error)
	assert.Equal(t, models.RequestStatusPending, got.Status)

	var logCount int64
	db.Model(&models.CleanupLog{}).Count(&logCount)
	assert.Equal(t, int64(0), logCount)
}

func TestRunSafetyLimit(t *testing.T) {
	s, db := newTestService(t)

	seedRequest(t, db, models.RequestStatusPending, 45)
	seedRequest(t, db, models.RequestStatusPending, 60)

	cfg := DefaultConfig()
	cfg.MaxCancelCount = 1
	_, err := s.Run(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "safety check failed")

	// Nothing was touched.
	var pending int64
	db.Model(&models.ContractRequest{}).
		Where("status = ?", models.RequestStatusPending).Count(&pending)
	assert.Equal(t, int64(2), pending)
}

func TestGetStats(t *testing.T) {
	s, db := newTestService(t)

	seedRequest(t, db, models.RequestStatusPending, 45)
	seedRequest(t, db, models.RequestStatusPending, 5)

	_, err := s.Run(DefaultConfig())
	require.NoError(t, err)

	stats, err := s.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats["total_swept"])
	assert.Equal(t, int64(1), stats["swept_last_30_days"])
	assert.Equal(t, int64(1), stats["currently_pending"])
	assert.Equal(t, 0, stats["stale_ready_for_cleanup"])

	logs, err := s.GetRecentLogs(10)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

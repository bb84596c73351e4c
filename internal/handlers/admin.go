package handlers

import (
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"rental-portal/internal/audit"
	"rental-portal/internal/cleanup"
	"rental-portal/internal/models"
	"rental-portal/internal/ratelimit"
	"rental-portal/internal/scheduler"
	"rental-portal/internal/search"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	db             *gorm.DB
	scheduler      *scheduler.Scheduler
	cleanupService *cleanup.Service
	events         *audit.Recorder
	rateLimiter    *ratelimit.RateLimiter
	searchClient   *search.SearchClient
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, sched *scheduler.Scheduler, sweep *cleanup.Service,
	events *audit.Recorder, limiter *ratelimit.RateLimiter, searchClient *search.SearchClient) *AdminHandler {
	return &AdminHandler{
		db:             db,
		scheduler:      sched,
		cleanupService: sweep,
		events:         events,
		rateLimiter:    limiter,
		searchClient:   searchClient,
	}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})

	// Room counts by status
	var vacantCount, occupiedCount, maintenanceCount int64
	h.db.Model(&models.Room{}).Where("status = ?", models.RoomStatusVacant).Count(&vacantCount)
	h.db.Model(&models.Room{}).Where("status = ?", models.RoomStatusOccupied).Count(&occupiedCount)
	h.db.Model(&models.Room{}).Where("status = ?", models.RoomStatusMaintenance).Count(&maintenanceCount)

	stats["rooms"] = map[string]interface{}{
		"vacant":      vacantCount,
		"occupied":    occupiedCount,
		"maintenance": maintenanceCount,
		"total":       vacantCount + occupiedCount + maintenanceCount,
	}

	var motelCount int64
	h.db.Model(&models.Motel{}).Count(&motelCount)
	stats["motels"] = map[string]interface{}{
		"total": motelCount,
	}

	// Contract counts by status
	var pendingCount, activeCount, terminatedCount, expiredCount int64
	h.db.Model(&models.Contract{}).Where("status = ?", models.ContractStatusPendingTenant).Count(&pendingCount)
	h.db.Model(&models.Contract{}).Where("status = ?", models.ContractStatusActive).Count(&activeCount)
	h.db.Model(&models.Contract{}).Where("status = ?", models.ContractStatusTerminated).Count(&terminatedCount)
	h.db.Model(&models.Contract{}).Where("status = ?", models.ContractStatusExpired).Count(&expiredCount)

	stats["contracts"] = map[string]interface{}{
		"pending_tenant": pendingCount,
		"active":         activeCount,
		"terminated":     terminatedCount,
		"expired":        expiredCount,
		"total":          pendingCount + activeCount + terminatedCount + expiredCount,
	}

	// Open negotiations
	var pendingRequests int64
	h.db.Model(&models.ContractRequest{}).Where("status = ?", models.RequestStatusPending).Count(&pendingRequests)
	stats["requests"] = map[string]interface{}{
		"pending": pendingRequests,
	}

	// Billing totals
	var unpaidCount int64
	h.db.Model(&models.Bill{}).Where("is_paid = ?", false).Count(&unpaidCount)
	var unpaidTotal float64
	h.db.Model(&models.Bill{}).Where("is_paid = ?", false).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&unpaidTotal)
	var paidLast30 float64
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	h.db.Model(&models.Bill{}).Where("is_paid = ? AND paid_at >= ?", true, thirtyDaysAgo).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&paidLast30)

	stats["billing"] = map[string]interface{}{
		"unpaid_count":      unpaidCount,
		"unpaid_total":      unpaidTotal,
		"paid_last_30_days": paidLast30,
	}

	// Cleanup statistics
	cleanupStats, err := h.cleanupService.GetStats()
	if err != nil {
		log.Printf("Failed to get cleanup stats: %v", err)
	} else {
		stats["cleanup"] = cleanupStats
	}

	c.JSON(http.StatusOK, stats)
}

// GetLandlordRevenue returns per-landlord revenue over paid bills for the
// last six months, with a per-month breakdown. Aggregation happens in Go so
// the month bucketing works the same on every database engine.
func (h *AdminHandler) GetLandlordRevenue(c *gin.Context) {
	since := time.Now().AddDate(0, -6, 0)

	var rows []struct {
		OwnerID     string
		TotalAmount float64
		PaidAt      time.Time
	}
	err := h.db.Model(&models.Bill{}).
		Select("COALESCE(rooms.owner_id, motels.owner_id) as owner_id, bills.total_amount, bills.paid_at").
		Joins("JOIN contracts ON contracts.id = bills.contract_id").
		Joins("LEFT JOIN rooms ON rooms.id = contracts.room_id").
		Joins("LEFT JOIN motels ON motels.id = contracts.motel_id").
		Where("bills.is_paid = ? AND bills.paid_at >= ?", true, since).
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type landlordRevenue struct {
		OwnerID string             `json:"owner_id"`
		Revenue float64            `json:"revenue"`
		Bills   int64              `json:"bills"`
		Monthly map[string]float64 `json:"monthly"`
	}

	byOwner := make(map[string]*landlordRevenue)
	for _, row := range rows {
		lr, ok := byOwner[row.OwnerID]
		if !ok {
			lr = &landlordRevenue{OwnerID: row.OwnerID, Monthly: make(map[string]float64)}
			byOwner[row.OwnerID] = lr
		}
		lr.Revenue += row.TotalAmount
		lr.Bills++
		lr.Monthly[row.PaidAt.Format("2006-01")] += row.TotalAmount
	}

	landlords := make([]*landlordRevenue, 0, len(byOwner))
	for _, lr := range byOwner {
		landlords = append(landlords, lr)
	}
	sort.Slice(landlords, func(i, j int) bool {
		return landlords[i].Revenue > landlords[j].Revenue
	})

	c.JSON(http.StatusOK, gin.H{
		"since":     since.Format("2006-01-02"),
		"landlords": landlords,
		"count":     len(landlords),
	})
}

// GetRecentActivity returns the recent contract audit trail
func (h *AdminHandler) GetRecentActivity(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	limit, _ := strconv.Atoi(limitStr)

	events, err := h.events.RecentEvents(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// TriggerMaintenance manually triggers the daily maintenance job
func (h *AdminHandler) TriggerMaintenance(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Scheduler not available",
		})
		return
	}

	log.Println("Admin: Manual maintenance trigger requested")

	// Run in goroutine to avoid blocking
	go func() {
		if err := h.scheduler.RunNow(); err != nil {
			log.Printf("Admin: Manual maintenance failed: %v", err)
		} else {
			log.Println("Admin: Manual maintenance completed successfully")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Maintenance job started",
		"status":  "running",
	})
}

// RunCleanup executes the stale request sweep
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	var req struct {
		StaleDays      int  `json:"stale_days"`
		MaxCancelCount int  `json:"max_cancel_count"`
		DryRun         bool `json:"dry_run"`
	}

	// Empty body runs with defaults.
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := cleanup.DefaultConfig()
	if req.StaleDays > 0 {
		cfg.StaleDays = req.StaleDays
	}
	if req.MaxCancelCount > 0 {
		cfg.MaxCancelCount = req.MaxCancelCount
	}
	cfg.DryRun = req.DryRun

	result, err := h.cleanupService.Run(cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCleanupLogs returns recent cleanup log entries
func (h *AdminHandler) GetCleanupLogs(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	limit, _ := strconv.Atoi(limitStr)

	logs, err := h.cleanupService.GetRecentLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}

// GetRateLimitStats returns current rate limiter statistics
func (h *AdminHandler) GetRateLimitStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.rateLimiter.GetStats())
}

// Reindex rebuilds the search index from the database
func (h *AdminHandler) Reindex(c *gin.Context) {
	log.Println("[Reindex] Starting full reindex of all listings")

	count, err := h.searchClient.ReindexAll(h.db)
	if err != nil {
		log.Printf("[Reindex] Error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reindex listings"})
		return
	}

	log.Printf("[Reindex] Reindex complete. Indexed: %d", count)

	c.JSON(http.StatusOK, gin.H{
		"message": "Reindex complete",
		"indexed": count,
	})
}

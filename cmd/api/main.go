package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"rental-portal/internal/audit"
	"rental-portal/internal/auth"
	"rental-portal/internal/billing"
	"rental-portal/internal/cleanup"
	"rental-portal/internal/config"
	"rental-portal/internal/contract"
	"rental-portal/internal/database"
	"rental-portal/internal/feedback"
	"rental-portal/internal/handlers"
	"rental-portal/internal/models"
	"rental-portal/internal/notify"
	"rental-portal/internal/ratelimit"
	"rental-portal/internal/scheduler"
	"rental-portal/internal/search"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments use the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Initialize database
	db, err := database.New(appConfig.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	gormDB := db.DB()

	// Initialize Meilisearch
	meilisearchHost := appConfig.Search.Meilisearch.Host
	if meilisearchHost == "" {
		meilisearchHost = getEnv("MEILISEARCH_HOST", "http://meilisearch:7700")
	}
	meilisearchKey := appConfig.Search.Meilisearch.APIKey
	if meilisearchKey == "" {
		meilisearchKey = getEnv("MEILISEARCH_KEY", "masterKey123")
	}

	searchClient := search.NewSearchClient(meilisearchHost, meilisearchKey)
	if err := searchClient.InitIndex(); err != nil {
		log.Printf("Warning: Failed to initialize search index: %v", err)
	}

	// Core services
	notifier := notify.NewDispatcher(gormDB)
	events := audit.NewRecorder(gormDB)
	contractService := contract.NewService(gormDB, notifier, events)
	requestService := contract.NewRequestService(gormDB, contractService)
	billingService := billing.NewService(gormDB, notifier)
	cleanupService := cleanup.NewService(gormDB, notifier)
	feedbackService := feedback.NewService(gormDB, notifier)

	// Rate limiter for mutation endpoints
	rateLimiter := ratelimit.NewRateLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.Enabled,
	)
	log.Printf("Rate limiter initialized: %d req/min, %d req/hour (enabled: %v)",
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.Enabled,
	)

	// Daily maintenance scheduler
	appScheduler := scheduler.NewScheduler(gormDB, contractService, cleanupService, appConfig)
	if err := appScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer appScheduler.Stop()

	// Handlers
	roomHandler := handlers.NewRoomHandler(gormDB, searchClient)
	motelHandler := handlers.NewMotelHandler(gormDB, searchClient)
	contractHandler := handlers.NewContractHandler(contractService, events)
	requestHandler := handlers.NewRequestHandler(requestService)
	billHandler := handlers.NewBillHandler(billingService)
	notificationHandler := handlers.NewNotificationHandler(notifier)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	searchHandler := handlers.NewSearchHandler(searchClient)
	adminHandler := handlers.NewAdminHandler(gormDB, appScheduler, cleanupService, events, rateLimiter, searchClient)

	// Setup Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-User-Id", "X-User-Role"},
		AllowCredentials: true,
	}))

	r.GET("/health", healthCheck)

	// Public search over listings
	r.GET("/api/search", searchHandler.Search)
	r.POST("/api/search/advanced", searchHandler.AdvancedSearch)
	r.GET("/api/search/facets", searchHandler.Facets)

	// Authenticated API
	api := r.Group("/api", auth.Middleware(), rateLimiter.Middleware())
	{
		api.GET("/rooms", roomHandler.List)
		api.GET("/rooms/:id", roomHandler.Get)
		api.POST("/rooms", auth.RequireRoles(models.RoleLandlord, models.RoleAdmin), roomHandler.Create)
		api.PUT("/rooms/:id", auth.RequireRoles(models.RoleLandlord, models.RoleAdmin), roomHandler.Update)
		api.DELETE("/rooms/:id", auth.RequireRoles(models.RoleLandlord, models.RoleAdmin), roomHandler.Delete)

		api.GET("/motels", motelHandler.List)
		api.GET("/motels/:id", motelHandler.Get)
		api.POST("/motels", auth.RequireRoles(models.RoleLandlord, models.RoleAdmin), motelHandler.Create)
		api.PUT("/motels/:id", auth.RequireRoles(models.RoleLandlord, models.RoleAdmin), motelHandler.Update)
		api.DELETE("/motels/:id", auth.RequireRoles(models.RoleLandlord, models.RoleAdmin), motelHandler.Delete)

		api.GET("/contracts", contractHandler.List)
		api.GET("/contracts/:id", contractHandler.Get)
		api.GET("/contracts/:id/document", contractHandler.Document)
		api.GET("/contracts/:id/history", contractHandler.History)
		api.POST("/contracts", auth.RequireRoles(models.RoleLandlord, models.RoleAdmin), contractHandler.Create)
		api.POST("/contracts/:id/approve", auth.RequireRoles(models.RoleTenant), contractHandler.Approve)
		api.PUT("/contracts/:id", auth.RequireRoles(models.RoleLandlord, models.RoleAdmin), contractHandler.Update)
		api.POST("/contracts/:id/terminate", contractHandler.Terminate)
		api.DELETE("/contracts/:id", auth.RequireRoles(models.RoleAdmin), contractHandler.Delete)

		api.GET("/contract-requests", requestHandler.List)
		api.GET("/contract-requests/:id", requestHandler.Get)
		api.POST("/contract-requests", requestHandler.Create)
		api.POST("/contract-requests/:id/approve", requestHandler.Approve)
		api.POST("/contract-requests/:id/reject", requestHandler.Reject)
		api.POST("/contract-requests/:id/cancel", requestHandler.Cancel)
		api.PUT("/contract-requests/:id", requestHandler.Update)

		api.GET("/bills", billHandler.List)
		api.GET("/bills/:id", billHandler.Get)
		api.POST("/bills", auth.RequireRoles(models.RoleLandlord, models.RoleAdmin), billHandler.Create)
		api.POST("/bills/:id/pay", auth.RequireRoles(models.RoleLandlord, models.RoleAdmin), billHandler.MarkPaid)

		api.GET("/notifications", notificationHandler.List)
		api.POST("/notifications/:id/read", notificationHandler.MarkRead)

		api.GET("/feedbacks", feedbackHandler.List)
		api.GET("/feedbacks/:id", feedbackHandler.Get)
		api.POST("/feedbacks", auth.RequireRoles(models.RoleTenant, models.RoleAdmin), feedbackHandler.Create)
		api.PUT("/feedbacks/:id", feedbackHandler.Update)
		api.DELETE("/feedbacks/:id", feedbackHandler.Delete)
	}

	// Admin API
	admin := r.Group("/api/admin", auth.Middleware(), auth.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/revenue", adminHandler.GetLandlordRevenue)
		admin.GET("/activity", adminHandler.GetRecentActivity)

		admin.POST("/maintenance/trigger", adminHandler.TriggerMaintenance)

		admin.POST("/cleanup/run", adminHandler.RunCleanup)
		admin.GET("/cleanup/logs", adminHandler.GetCleanupLogs)

		admin.GET("/ratelimit/stats", adminHandler.GetRateLimitStats)
		admin.POST("/search/reindex", adminHandler.Reindex)
	}
	log.Println("Admin API routes registered at /api/admin/*")

	port := appConfig.Server.Port
	if port == "" {
		port = getEnv("PORT", "8080")
	}
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/mindmesh/mindmesh-api/internal/config"
	"github.com/mindmesh/mindmesh-api/internal/database"
	"github.com/mindmesh/mindmesh-api/internal/handlers"
	"github.com/mindmesh/mindmesh-api/internal/logger"
	"github.com/mindmesh/mindmesh-api/internal/middleware"
	"github.com/mindmesh/mindmesh-api/internal/providers"
	"github.com/mindmesh/mindmesh-api/internal/repository"
	"github.com/mindmesh/mindmesh-api/internal/services"
	"github.com/mindmesh/mindmesh-api/internal/store"
	"github.com/mindmesh/mindmesh-api/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	zlog, err := logger.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	moodRepo := repository.NewMoodRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	focusRepo := repository.NewFocusSessionRepository(db)
	dumpRepo := repository.NewBrainDumpRepository(db)
	syncRepo := repository.NewSyncRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Durable key/value slot for settings and the subscription override
	kv, err := store.NewFileKV(cfg.StatePath)
	if err != nil {
		log.Fatalf("Failed to open state file: %v", err)
	}

	// Services
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo)
	moodService := services.NewMoodService(moodRepo)
	reminderService := services.NewReminderService(reminderRepo)
	focusService := services.NewFocusService(focusRepo)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}
	dumpService := services.NewBrainDumpService(dumpRepo, aiService)

	var ttsService *services.TTSService
	if cfg.ElevenLabsAPIKey != "" {
		elevenLabs := providers.NewElevenLabsClient(cfg.ElevenLabsAPIKey, http.DefaultClient)
		ttsService = services.NewTTSService(elevenLabs, cfg.ElevenLabsVoice)
	}

	exchanger := providers.NewOAuthExchanger(cfg)
	stateCodec := utils.NewOAuthStateCodec(cfg.SessionSecret)
	integrationService := services.NewIntegrationService(syncRepo, exchanger, stateCodec)
	syncService := services.NewSyncService(taskRepo, syncRepo, zlog, integrationService,
		providers.NewGoogleCalendarProvider(http.DefaultClient),
		providers.NewNotionProvider(http.DefaultClient),
	)

	settingsStore := store.NewSettingsStore(settingsRepo, kv)
	subscriptionStore := store.NewSubscriptionStore(kv)

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	sessionStore, err := redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		redisAddr,                 // Redis address from config
		"",                        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("mindmesh_session", sessionStore))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	moodHandler := handlers.NewMoodHandler(moodService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	focusHandler := handlers.NewFocusHandler(focusService)
	dumpHandler := handlers.NewBrainDumpHandler(dumpService)
	aiHandler := handlers.NewAIHandler(aiService, taskService, moodService, zlog)
	ttsHandler := handlers.NewTTSHandler(ttsService, settingsStore, zlog)
	integrationHandler := handlers.NewIntegrationHandler(integrationService)
	syncHandler := handlers.NewSyncHandler(syncService)
	settingsHandler := handlers.NewSettingsHandler(settingsStore)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionStore)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "MindMesh API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/complete", taskHandler.CompleteTask)
			tasks.POST("/:id/reorder", taskHandler.ReorderTask)
		}

		// Mood routes (protected)
		mood := api.Group("/mood")
		mood.Use(middleware.RequireAuth())
		{
			mood.GET("", moodHandler.ListEntries)
			mood.POST("", moodHandler.CreateEntry)
			mood.GET("/averages", moodHandler.GetAverages)
			mood.GET("/trend", moodHandler.GetTrend)
			mood.PUT("/:id", moodHandler.UpdateEntry)
			mood.DELETE("/:id", moodHandler.DeleteEntry)
		}

		// Reminder routes (protected)
		reminders := api.Group("/reminders")
		reminders.Use(middleware.RequireAuth())
		{
			reminders.GET("", reminderHandler.ListReminders)
			reminders.POST("", reminderHandler.CreateReminder)
			reminders.GET("/active", reminderHandler.ActiveReminders)
			reminders.POST("/:id/dismiss", reminderHandler.DismissReminder)
			reminders.POST("/:id/snooze", reminderHandler.SnoozeReminder)
			reminders.DELETE("/:id", reminderHandler.DeleteReminder)
		}

		// Focus session routes (protected)
		focus := api.Group("/focus-sessions")
		focus.Use(middleware.RequireAuth())
		{
			focus.GET("", focusHandler.ListSessions)
			focus.POST("", focusHandler.StartSession)
			focus.POST("/:id/complete", focusHandler.CompleteSession)
		}

		// Brain dump routes (protected)
		dumps := api.Group("/brain-dumps")
		dumps.Use(middleware.RequireAuth())
		{
			dumps.GET("", dumpHandler.ListDumps)
			dumps.POST("", dumpHandler.CreateDump)
			dumps.POST("/sync", dumpHandler.SyncDumps)
			dumps.POST("/:id/process", dumpHandler.ProcessDump)
			dumps.DELETE("/:id", dumpHandler.DeleteDump)
		}

		// AI coaching routes (protected)
		ai := api.Group("/ai")
		ai.Use(middleware.RequireAuth())
		{
			ai.POST("/coach", aiHandler.Coach)
			ai.POST("/insights", aiHandler.ContextualInsights)
			ai.POST("/smart-reminders", aiHandler.SmartReminders)
			ai.POST("/workload-breakdown", aiHandler.WorkloadBreakdown)
		}

		// Text-to-speech proxy (protected)
		api.POST("/tts", middleware.RequireAuth(), ttsHandler.Synthesize)

		// Integration routes. The OAuth callback is public; the owning
		// user travels in the state parameter.
		integrations := api.Group("/integrations")
		{
			integrations.GET("", middleware.RequireAuth(), integrationHandler.ListIntegrations)
			integrations.GET("/:provider/auth", middleware.RequireAuth(), integrationHandler.BeginAuth)
			integrations.GET("/:provider/callback", integrationHandler.AuthCallback)
			integrations.PATCH("/:provider/sync-rules", middleware.RequireAuth(), integrationHandler.UpdateSyncRules)
			integrations.DELETE("/:provider", middleware.RequireAuth(), integrationHandler.Disconnect)
		}

		// On-demand reconciliation (protected)
		api.POST("/sync", middleware.RequireAuth(), syncHandler.RunSync)

		// Settings and subscription (protected)
		api.GET("/settings", middleware.RequireAuth(), settingsHandler.GetSettings)
		api.PATCH("/settings", middleware.RequireAuth(), settingsHandler.UpdateSettings)
		api.GET("/subscription", middleware.RequireAuth(), subscriptionHandler.GetSubscription)
		api.POST("/subscription/override", middleware.RequireAuth(), subscriptionHandler.SetOverride)
	}

	// Background reconciliation for every user with active integrations.
	// Disabled unless an interval is configured; /api/sync stays available
	// either way.
	if cfg.SyncIntervalMinutes > 0 {
		scheduler := services.NewSchedulerService(time.Local)
		_, err := scheduler.ScheduleInterval(time.Duration(cfg.SyncIntervalMinutes)*time.Minute, func() {
			userIDs, err := syncRepo.ListUsersWithIntegrations()
			if err != nil {
				zlog.Errorf("scheduled sync: failed to list users: %v", err)
				return
			}
			for _, userID := range userIDs {
				if _, err := syncService.Run(context.Background(), services.SyncInput{UserID: userID}); err != nil {
					zlog.Errorf("scheduled sync failed for user %d: %v", userID, err)
				}
			}
		})
		if err != nil {
			log.Fatalf("Failed to schedule sync job: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Start server
	zlog.Infof("starting server on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

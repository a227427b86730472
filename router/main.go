package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/waslhq/wasl-api/config"
	"github.com/waslhq/wasl-api/database"
	"github.com/waslhq/wasl-api/handlers"
	admin_handlers "github.com/waslhq/wasl-api/handlers/admin"
	auth_handlers "github.com/waslhq/wasl-api/handlers/auth"
	batch_handlers "github.com/waslhq/wasl-api/handlers/batch"
	candidate_handlers "github.com/waslhq/wasl-api/handlers/candidate"
	complaint_handlers "github.com/waslhq/wasl-api/handlers/complaint"
	departure_handlers "github.com/waslhq/wasl-api/handlers/departure"
	document_handlers "github.com/waslhq/wasl-api/handlers/document"
	lookup_handlers "github.com/waslhq/wasl-api/handlers/lookup"
	notification_handlers "github.com/waslhq/wasl-api/handlers/notification"
	remittance_handlers "github.com/waslhq/wasl-api/handlers/remittance"
	screening_handlers "github.com/waslhq/wasl-api/handlers/screening"
	training_handlers "github.com/waslhq/wasl-api/handlers/training"
	visa_handlers "github.com/waslhq/wasl-api/handlers/visa"
	"github.com/waslhq/wasl-api/services"
	"github.com/waslhq/wasl-api/services/storage"
	"github.com/waslhq/wasl-api/utils"
	"github.com/waslhq/wasl-api/utils/auth"
	"github.com/waslhq/wasl-api/utils/cache"
	"github.com/waslhq/wasl-api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	// Get JWT secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "wasl-api"
	}

	// Initialize JWT manager with config
	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	env, err := config.Get()
	if err != nil {
		log.Fatal("Failed to read environment configuration")
	}

	// Initialize Redis cache for brute force protection and journey caching
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, cacheErr := cache.NewRedisCache(redisURL)
	if cacheErr != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection and journey caching will be disabled.", cacheErr)
	}

	// Initialize brute force protection
	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Object storage for document files (nil when unconfigured; uploads then
	// keep metadata only)
	spacesClient, spacesErr := storage.NewSpacesClientFromEnv(env)
	if spacesErr != nil {
		log.Printf("Warning: Failed to initialize object storage: %v. Document files will not be stored.", spacesErr)
	}

	// Initialize auth middleware with DB for blacklist checking
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Initialize auth handler with brute force protection
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)

	// Pipeline services
	notificationService := services.NewNotificationService(db)
	candidateService := services.NewCandidateService(db, env.Pipeline, notificationService)
	journeyService := services.NewJourneyService(db, candidateService, redisCache)
	candidateService.SetJourneyService(journeyService)
	screeningService := services.NewScreeningService(db, candidateService)
	documentService := services.NewDocumentService(db, spacesClient)
	allocationService := services.NewAllocationService(db, env.Pipeline)
	trainingService := services.NewTrainingService(db)
	visaService := services.NewVisaService(db)
	complaintService := services.NewComplaintService(db, visaService, notificationService)
	departureService := services.NewDepartureService(db, env.Pipeline, candidateService, documentService, complaintService)

	// Handlers
	candidateHandler := candidate_handlers.NewCandidateHandler(candidateService, journeyService)
	screeningHandler := screening_handlers.NewScreeningHandler(screeningService, candidateService)
	documentHandler := document_handlers.NewDocumentHandler(documentService, candidateService)
	batchHandler := batch_handlers.NewBatchHandler(allocationService, candidateService)
	trainingHandler := training_handlers.NewTrainingHandler(trainingService, candidateService)
	visaHandler := visa_handlers.NewVisaHandler(visaService, candidateService)
	complaintHandler := complaint_handlers.NewComplaintHandler(complaintService, candidateService)
	departureHandler := departure_handlers.NewDepartureHandler(departureService, candidateService)
	remittanceHandler := remittance_handlers.NewRemittanceHandler(departureService, candidateService)
	notificationHandler := notification_handlers.NewNotificationHandler(notificationService)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")

	// Staff accounts are created by user-management admins, never self-signup
	authGroup.Post("/register", authMiddleware.Required(), middleware.RequireUserManagement(), authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Reference data (protected reads, admin writes)
	api.Get("/campuses", authMiddleware.Required(), func(c *fiber.Ctx) error { return lookup_handlers.ListCampuses(c, store) })
	api.Get("/campuses/:id", authMiddleware.Required(), func(c *fiber.Ctx) error { return lookup_handlers.GetCampus(c, store) })
	api.Get("/programs", authMiddleware.Required(), func(c *fiber.Ctx) error { return lookup_handlers.ListPrograms(c, store) })
	api.Get("/trades", authMiddleware.Required(), func(c *fiber.Ctx) error { return lookup_handlers.ListTrades(c, store) })
	api.Get("/oeps", authMiddleware.Required(), func(c *fiber.Ctx) error { return lookup_handlers.ListOEPs(c, store) })

	// Candidate lifecycle
	candidates := api.Group("/candidates", authMiddleware.Required())
	candidates.Post("/", candidateHandler.CreateCandidate)
	candidates.Get("/", candidateHandler.ListCandidates)
	candidates.Get("/:id", candidateHandler.GetCandidate)
	candidates.Post("/:id/transition", candidateHandler.Transition)
	candidates.Get("/:id/gate/:target", candidateHandler.EvaluateGate)
	candidates.Get("/:id/journey", candidateHandler.GetJourney)
	candidates.Get("/:id/blockers", candidateHandler.GetBlockers)
	candidates.Get("/:id/progress", candidateHandler.GetProgress)
	candidates.Get("/:id/next-actions", candidateHandler.GetNextActions)

	// Screening
	candidates.Post("/:id/screenings", screeningHandler.OpenScreening)
	candidates.Post("/:id/screenings/record", screeningHandler.RecordScreening)
	candidates.Get("/:id/screenings", screeningHandler.ListScreenings)

	// Document registry
	candidates.Post("/:id/documents", documentHandler.UploadDocument)
	candidates.Get("/:id/documents", documentHandler.ListDocuments)
	candidates.Get("/:id/documents/check/:stage", documentHandler.CheckDocuments)
	candidates.Get("/:id/documents/expiring", documentHandler.ExpiringDocuments)
	candidates.Post("/:id/documents/verify", documentHandler.VerifyRegistration)
	api.Post("/documents/:docId/renew", authMiddleware.Required(), documentHandler.RenewDocument)

	// Batch allocation
	candidates.Post("/:id/allocate", batchHandler.Allocate)
	batches := api.Group("/batches", authMiddleware.Required())
	batches.Get("/", batchHandler.ListBatches)
	batches.Get("/:id", batchHandler.GetBatch)

	// Training
	candidates.Post("/:id/assessments", trainingHandler.RecordAssessment)
	candidates.Put("/:id/attendance", trainingHandler.UpdateAttendance)
	candidates.Get("/:id/training", trainingHandler.GetTraining)

	// Visa processing
	candidates.Get("/:id/visa", visaHandler.GetVisaProcess)
	candidates.Post("/:id/visa/advance", visaHandler.AdvanceStage)
	candidates.Post("/:id/visa/hold", visaHandler.PlaceOnHold)
	candidates.Post("/:id/visa/resume", visaHandler.Resume)

	// Complaints
	candidates.Post("/:id/complaints", complaintHandler.FileComplaint)
	candidates.Get("/:id/complaints", complaintHandler.ListComplaints)
	complaints := api.Group("/complaints", authMiddleware.Required())
	complaints.Post("/:complaintId/escalate", complaintHandler.Escalate)
	complaints.Post("/:complaintId/resolve", complaintHandler.Resolve)
	complaints.Post("/:complaintId/assign", complaintHandler.Assign)

	// Departure and post-departure
	candidates.Get("/:id/departure/check", departureHandler.CanDepart)
	candidates.Get("/:id/departure", departureHandler.GetDeparture)
	candidates.Post("/:id/departure", departureHandler.ScheduleDeparture)
	candidates.Post("/:id/departure/record", departureHandler.RecordDeparture)
	candidates.Post("/:id/departure/arrival", departureHandler.ConfirmArrival)
	candidates.Post("/:id/post-departure", departureHandler.RecordPostDeparture)

	// Remittances
	candidates.Post("/:id/remittances", remittanceHandler.RecordRemittance)
	candidates.Get("/:id/remittances", remittanceHandler.ListRemittances)

	// Notifications
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.GetNotifications)
	notifications.Get("/unread-count", notificationHandler.GetUnreadCount)
	notifications.Post("/read-all", notificationHandler.MarkAllAsRead)
	notifications.Post("/:id/read", notificationHandler.MarkAsRead)
	notifications.Delete("/", notificationHandler.DeleteAllNotifications)
	notifications.Delete("/:id", notificationHandler.DeleteNotification)

	// Admin panel
	admin := api.Group("/admin", authMiddleware.RequireAdmin())

	// User management
	admin.Get("/users/stats", func(c *fiber.Ctx) error { return admin_handlers.GetUserStats(c, store) })
	admin.Get("/users", func(c *fiber.Ctx) error { return admin_handlers.ListUsers(c, store) })
	admin.Get("/users/:id", func(c *fiber.Ctx) error { return admin_handlers.GetUser(c, store) })
	admin.Put("/users/:id", middleware.AdminAuditLog(store, "user_update", "users"), func(c *fiber.Ctx) error { return admin_handlers.UpdateUser(c, store) })
	admin.Delete("/users/:id", middleware.AdminAuditLog(store, "user_delete", "users"), func(c *fiber.Ctx) error { return admin_handlers.DeleteUser(c, store) })
	admin.Post("/users/:id/reset-password", middleware.AdminAuditLog(store, "password_reset", "users"), func(c *fiber.Ctx) error { return admin_handlers.ResetUserPassword(c, store) })

	// Reference-data management
	admin.Post("/campuses", middleware.AdminAuditLog(store, "campus_create", "campuses"), func(c *fiber.Ctx) error { return lookup_handlers.CreateCampus(c, store) })
	admin.Post("/programs", middleware.AdminAuditLog(store, "program_create", "programs"), func(c *fiber.Ctx) error { return lookup_handlers.CreateProgram(c, store) })
	admin.Post("/trades", middleware.AdminAuditLog(store, "trade_create", "trades"), func(c *fiber.Ctx) error { return lookup_handlers.CreateTrade(c, store) })
	admin.Post("/oeps", middleware.AdminAuditLog(store, "oep_create", "oeps"), func(c *fiber.Ctx) error { return lookup_handlers.CreateOEP(c, store) })

	// Pipeline analytics
	admin.Get("/analytics/overview", func(c *fiber.Ctx) error { return admin_handlers.GetOverviewAnalytics(c, store) })
	admin.Get("/analytics/funnel", func(c *fiber.Ctx) error { return admin_handlers.GetFunnelAnalytics(c, store) })
	admin.Get("/analytics/complaints", func(c *fiber.Ctx) error { return admin_handlers.GetComplaintAnalytics(c, store) })
	admin.Get("/analytics/departures", func(c *fiber.Ctx) error { return admin_handlers.GetDepartureAnalytics(c, store) })

	// Audit trail
	admin.Get("/audit", func(c *fiber.Ctx) error { return admin_handlers.ListAuditLogs(c, store) })
	admin.Get("/audit/:id", func(c *fiber.Ctx) error { return admin_handlers.GetAuditLog(c, store) })
}

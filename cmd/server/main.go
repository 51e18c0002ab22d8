package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/greenpulse/sustainability-api/internal/config"
	"github.com/greenpulse/sustainability-api/internal/constants"
	"github.com/greenpulse/sustainability-api/internal/database"
	"github.com/greenpulse/sustainability-api/internal/handlers"
	"github.com/greenpulse/sustainability-api/internal/middleware"
	"github.com/greenpulse/sustainability-api/internal/repository"
	"github.com/greenpulse/sustainability-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	initiativeRepo := repository.NewInitiativeRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	companyService := services.NewCompanyService(companyRepo)
	initiativeService := services.NewInitiativeService(initiativeRepo, companyRepo)
	voteService := services.NewVoteService(voteRepo, initiativeRepo, companyRepo)
	lifecycleService := services.NewLifecycleService(initiativeRepo, voteRepo)
	badgeService := services.NewBadgeService(badgeRepo)
	progressService := services.NewProgressService(progressRepo, initiativeRepo, companyRepo, badgeService)
	maintenanceService := services.NewMaintenanceService(initiativeRepo, companyRepo, lifecycleService)

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, badgeService)
	companyHandler := handlers.NewCompanyHandler(companyService)
	initiativeHandler := handlers.NewInitiativeHandler(initiativeService, voteService, lifecycleService, aiService)
	progressHandler := handlers.NewProgressHandler(progressService)
	adminHandler := handlers.NewAdminHandler(maintenanceService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Sustainability API is running",
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
			auth.GET("/me/badges", middleware.RequireAuth(), authHandler.ListBadges)
		}

		// Company routes (protected)
		companies := api.Group("/companies")
		companies.Use(middleware.RequireAuth())
		{
			companies.POST("", companyHandler.CreateCompany)
			companies.GET("", companyHandler.ListCompanies)
			companies.POST("/join", companyHandler.JoinCompany)
			companies.GET("/:id", middleware.RequireCompanyAccess(), companyHandler.GetCompany)
			companies.PUT("/:id", middleware.RequireCompanyAccess(), middleware.RequireCompanyAdmin(), companyHandler.UpdateCompany)
			companies.DELETE("/:id", middleware.RequireCompanyAccess(), middleware.RequireCompanyAdmin(), companyHandler.DeleteCompany)
			companies.POST("/:id/regenerate-code", middleware.RequireCompanyAccess(), middleware.RequireCompanyAdmin(), companyHandler.RegenerateInviteCode)
			companies.DELETE("/:id/members/:user_id", middleware.RequireCompanyAccess(), middleware.RequireCompanyAdmin(), companyHandler.RemoveMember)
		}

		// Initiative routes (protected)
		initiatives := api.Group("/initiatives")
		initiatives.Use(middleware.RequireAuth())
		{
			initiatives.GET("", initiativeHandler.ListInitiatives)
			initiatives.POST("", initiativeHandler.CreateInitiative)
			initiatives.GET("/can-suggest", initiativeHandler.CanSuggest)
			initiatives.POST("/suggest", initiativeHandler.SuggestInitiatives)
			initiatives.GET("/results", initiativeHandler.VotingResults)
			initiatives.GET("/:id", middleware.RequireInitiativeAccess(), initiativeHandler.GetInitiative)
			initiatives.PUT("/:id", middleware.RequireInitiativeAccess(), initiativeHandler.UpdateInitiative)
			initiatives.DELETE("/:id", middleware.RequireInitiativeAccess(), initiativeHandler.DeleteInitiative)
			initiatives.POST("/:id/vote", middleware.RequireInitiativeAccess(), initiativeHandler.CastVote)
			initiatives.DELETE("/:id/vote", middleware.RequireInitiativeAccess(), initiativeHandler.RetractVote)
			initiatives.GET("/:id/votes", middleware.RequireInitiativeAccess(), initiativeHandler.ListVotes)
			initiatives.POST("/:id/activate", middleware.RequireInitiativeAccess(), initiativeHandler.ActivateInitiative)
			initiatives.PUT("/:id/deactivate", middleware.RequireInitiativeAccess(), initiativeHandler.DeactivateInitiative)
		}

		// Progress routes (protected)
		progress := api.Group("/progress")
		progress.Use(middleware.RequireAuth())
		{
			progress.GET("", progressHandler.GetProgress)
			progress.POST("", progressHandler.SaveProgress)
		}

		// Admin routes (protected)
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth())
		{
			admin.POST("/run-scheduled-tasks", adminHandler.RunScheduledTasks)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

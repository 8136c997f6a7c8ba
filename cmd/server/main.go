package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/stevew1007/mission-runner-api/internal/config"
	"github.com/stevew1007/mission-runner-api/internal/constants"
	"github.com/stevew1007/mission-runner-api/internal/database"
	"github.com/stevew1007/mission-runner-api/internal/handlers"
	"github.com/stevew1007/mission-runner-api/internal/middleware"
	"github.com/stevew1007/mission-runner-api/internal/models"
	"github.com/stevew1007/mission-runner-api/internal/repository"
	"github.com/stevew1007/mission-runner-api/internal/services"
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
		"",        // username (empty for default user)
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
	accountRepo := repository.NewAccountRepository(db)
	missionRepo := repository.NewMissionRepository(db)
	changeLogRepo := repository.NewChangeLogRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, accountRepo)
	accountService := services.NewAccountService(accountRepo, userRepo)
	missionService := services.NewMissionService(missionRepo, accountRepo, userRepo)
	adminService := services.NewAdminService(userRepo, accountRepo, changeLogRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService)
	missionHandler := handlers.NewMissionHandler(missionService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Mission Runner API is running",
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

		// Current user routes (protected)
		me := api.Group("/me")
		me.Use(middleware.RequireAuth())
		{
			me.PUT("", userHandler.UpdateMe)
			me.POST("/default_account", userHandler.SetDefaultAccount)
		}

		// User lookup (protected)
		api.GET("/users/:username", middleware.RequireAuth(), userHandler.GetByUsername)

		// Account routes (protected)
		accounts := api.Group("/accounts")
		accounts.Use(middleware.RequireAuth())
		{
			accounts.POST("", accountHandler.Register)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.Get)
			accounts.GET("/name/:name", accountHandler.GetByName)
			accounts.PUT("/:id", accountHandler.Update)
			accounts.POST("/:id/missions", missionHandler.Publish)
			accounts.GET("/:id/missions", missionHandler.ListByAccount)
		}

		// Mission routes (protected)
		missions := api.Group("/missions")
		missions.Use(middleware.RequireAuth())
		{
			missions.GET("", missionHandler.List)
			missions.GET("/:id", missionHandler.Get)
			missions.POST("/accept", missionHandler.AcceptMissions)
			missions.POST("/:id/accept", missionHandler.Action(models.ActionAccept))
			missions.POST("/:id/complete", missionHandler.Action(models.ActionComplete))
			missions.POST("/:id/pay", missionHandler.Action(models.ActionPay))
			missions.POST("/:id/done", missionHandler.Action(models.ActionDone))
			missions.POST("/:id/archive", missionHandler.Action(models.ActionArchive))
			missions.POST("/:id/quit", missionHandler.Action(models.ActionQuit))
		}

		// Admin routes (protected, admin only)
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
			admin.POST("/users/:id/activate", adminHandler.ActivateUser)
			admin.POST("/users/:id/deactivate", adminHandler.DeactivateUser)
			admin.PUT("/users/:id/role", adminHandler.SetRole)
			admin.GET("/accounts", adminHandler.ListAccounts)
			admin.GET("/accounts/:id", adminHandler.GetAccount)
			admin.PUT("/accounts/:id", adminHandler.UpdateAccount)
			admin.POST("/accounts/:id/activate", adminHandler.ActivateAccount)
			admin.POST("/accounts/:id/deactivate", adminHandler.DeactivateAccount)
			admin.GET("/changelog", adminHandler.RecentChangeLogs)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

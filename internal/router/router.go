package router

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/campusplaced/backend/internal/handlers"
	"github.com/campusplaced/backend/internal/middleware"
	"github.com/campusplaced/backend/internal/models"
	"github.com/campusplaced/backend/internal/repositories"
	"github.com/campusplaced/backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, mongoDatabase string, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Notification{},
		&models.Bookmark{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database(mongoDatabase)
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	companyRepo := repositories.NewMongoCompanyRepository(mongoDB)
	experienceRepo := repositories.NewMongoExperienceRepository(mongoDB)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := companyRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create company indexes: %v", err)
	}

	// --- Initialize Services ---
	resolver := services.NewCompanyResolver(companyRepo, experienceRepo, services.DefaultCompanySeeds)
	notifier := services.NewNotifier(notificationRepo, userRepo)
	moderation := services.NewModerationService(experienceRepo, notifier)
	trendingCache := services.NewTrendingCache(5*time.Minute, nil)

	notifier.StartRetentionSweep(context.Background(), time.Hour)
	log.Println("Notification retention sweep started.")

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	authHandler.RegisterElevationRoute(api)
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Experience routes
	experienceHandler := handlers.NewExperienceHandler(experienceRepo, commentRepo, bookmarkRepo, userRepo, resolver, moderation, trendingCache)
	experienceHandler.RegisterExperienceRoutes(api)
	log.Println("Experience routes configured.")

	// Company routes
	companyHandler := handlers.NewCompanyHandler(companyRepo, resolver)
	companyHandler.RegisterCompanyRoutes(api)
	log.Println("Company routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, experienceRepo, userRepo)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Bookmark routes
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkRepo, experienceRepo)
	bookmarkHandler.RegisterBookmarkRoutes(api)
	log.Println("Bookmark routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, notifier)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// --- Moderator routes (role or elevation checked on top of JWT) ---
	admin := e.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.RequireModerator())
	moderationHandler := handlers.NewModerationHandler(moderation, experienceRepo, userRepo, notifier)
	moderationHandler.RegisterModerationRoutes(admin)
	companyHandler.RegisterAdminCompanyRoutes(admin)
	log.Println("Moderation routes configured.")

	log.Println("All routes configured.")
}

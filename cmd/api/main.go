package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/assocosmetologie/backend/docs"
	"github.com/assocosmetologie/backend/internal/auth"
	"github.com/assocosmetologie/backend/internal/config"
	"github.com/assocosmetologie/backend/internal/handlers"
	"github.com/assocosmetologie/backend/internal/logger"
	"github.com/assocosmetologie/backend/internal/middleware"
	"github.com/assocosmetologie/backend/internal/models"
	"github.com/assocosmetologie/backend/internal/repositories"
	"github.com/assocosmetologie/backend/internal/seed"
	"github.com/assocosmetologie/backend/internal/services"
	"github.com/assocosmetologie/backend/internal/tasks"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Association de Cosmétologie API
// @version 1.0
// @description Membership, events and blog back-end of the association website

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting association API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db, cfg.Database.MigrationsPath); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize JWT token generator
	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Task queue, e-mails are dropped when Redis is disabled
	var notifier services.Notifier = tasks.NopNotifier{}
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer asynqClient.Close()

		notifier = tasks.NewClient(asynqClient, logger.Logger)
	} else {
		logger.Logger.Warn("Redis disabled, confirmation e-mails will not be sent")
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	eventRepo := repositories.NewEventRepository(db, logger.Logger)
	articleRepo := repositories.NewArticleRepository(db, logger.Logger)
	registrationRepo := repositories.NewRegistrationRepository(db, logger.Logger)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenGenerator, notifier, logger.Logger)
	eventService := services.NewEventService(eventRepo, registrationRepo, userRepo, notifier, logger.Logger)
	articleService := services.NewArticleService(articleRepo, userRepo, logger.Logger)
	memberService := services.NewMemberService(userRepo, logger.Logger)
	statsService := services.NewStatsService(userRepo, eventRepo, articleRepo, registrationRepo)

	// Seed demo content
	if cfg.Demo.Enabled {
		seeder := seed.NewSeeder(memberService, eventService, articleService, logger.Logger)
		if err := seeder.Run(context.Background(), cfg.Demo.AdminEmail, cfg.Demo.AdminPassword); err != nil {
			logger.Logger.Fatal("Failed to seed demo content", zap.Error(err))
		}
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	profileHandler := handlers.NewProfileHandler(authService, logger.Logger)
	eventHandler := handlers.NewEventHandler(eventService, logger.Logger)
	blogHandler := handlers.NewBlogHandler(articleService, logger.Logger)
	adminEventHandler := handlers.NewAdminEventHandler(eventService, logger.Logger)
	adminArticleHandler := handlers.NewAdminArticleHandler(articleService, logger.Logger)
	adminMemberHandler := handlers.NewAdminMemberHandler(memberService, logger.Logger)
	statsHandler := handlers.NewStatsHandler(statsService, logger.Logger)
	healthHandler := handlers.NewHealthHandler(db, logger.Logger)
	if rdb != nil {
		healthHandler.AddCheck("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	// Initialize auth middleware
	authMiddleware := middleware.AuthMiddleware(tokenGenerator)
	optionalAuthMiddleware := middleware.OptionalAuthMiddleware(tokenGenerator)
	adminMiddleware := middleware.RoleMiddleware(models.RoleAdmin)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(cfg.Server.MaxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	healthHandler.RegisterRoutes(r)

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes, stricter limit against credential stuffing
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(10, time.Minute))
			authHandler.RegisterRoutes(r)
		})
		// Public routes that adapt to a signed-in member
		r.Group(func(r chi.Router) {
			r.Use(optionalAuthMiddleware)
			eventHandler.RegisterRoutes(r)
			blogHandler.RegisterRoutes(r)
		})
		// Self-service routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			profileHandler.RegisterRoutes(r)
		})
		// Back-office routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			adminEventHandler.RegisterRoutes(r)
			adminArticleHandler.RegisterRoutes(r)
			adminMemberHandler.RegisterRoutes(r)
			statsHandler.RegisterRoutes(r)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, path string) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Fall back to the parent directory when running from cmd/api
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if _, err := os.Stat("../../" + path); err == nil {
			path = "../../" + path
		}
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

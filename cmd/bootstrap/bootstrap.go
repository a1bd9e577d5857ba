package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-clinic-planning/config"
	deliveryHttp "go-clinic-planning/internal/delivery/http"
	"go-clinic-planning/internal/delivery/http/handler"
	"go-clinic-planning/internal/delivery/http/middleware"
	"go-clinic-planning/internal/infrastructure/cache"
	"go-clinic-planning/internal/infrastructure/database"
	"go-clinic-planning/internal/repository"
	"go-clinic-planning/internal/service"
	"go-clinic-planning/internal/usecase"
	"go-clinic-planning/pkg/jwt"
	"go-clinic-planning/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Locks       *service.ScheduleLockService
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	app.Server = app.initializeServer()

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() *http.Server {
	cfg := app.Config
	db := app.DB
	redisClient := app.RedisClient

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	employeeRepo := repository.NewEmployeeRepository()
	workRequestRepo := repository.NewWorkRequestRepository()
	leaveRequestRepo := repository.NewLeaveRequestRepository()
	slotRepo := repository.NewScheduleSlotRepository()
	assignmentRepo := repository.NewAssignmentRepository()
	auditRepo := repository.NewAuditLogRepository()

	// Initialize domain services
	locks := service.NewScheduleLockService(cfg.Planning.LockTimeout, log)
	app.Locks = locks
	capacity := service.NewCapacityPolicy(cfg.Planning, slotRepo)
	rooms := service.NewRoomAllocator(cfg.Planning, slotRepo, assignmentRepo)
	materializer := service.NewMaterializer(log, slotRepo, capacity, rooms)
	cascade := service.NewCascadeResolver(log, slotRepo, assignmentRepo, rooms)
	audit := service.NewAuditService(log, auditRepo)
	notifier := service.NewRedisNotifier(redisClient, log)

	// Initialize usecases
	workRequestUsecase := usecase.NewWorkRequestUsecase(db, log, cfg.Planning, workRequestRepo, employeeRepo, materializer, locks, audit, notifier)
	leaveRequestUsecase := usecase.NewLeaveRequestUsecase(db, log, cfg.Planning, leaveRequestRepo, employeeRepo, materializer, cascade, locks, audit, notifier)
	planningUsecase := usecase.NewPlanningUsecase(db, log, slotRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditRepo)
	employeeUsecase := usecase.NewEmployeeUsecase(db, log, employeeRepo)

	// Initialize handlers
	workRequestHandler := handler.NewWorkRequestHandler(workRequestUsecase, customValidator)
	leaveRequestHandler := handler.NewLeaveRequestHandler(leaveRequestUsecase, customValidator)
	planningHandler := handler.NewPlanningHandler(planningUsecase)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)
	employeeHandler := handler.NewEmployeeHandler(employeeUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(workRequestHandler, leaveRequestHandler, planningHandler, auditLogHandler, employeeHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, lock janitor)
func (app *App) Close() {
	if app.Locks != nil {
		app.Locks.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

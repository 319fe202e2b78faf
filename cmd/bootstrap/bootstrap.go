package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtside/config"
	deliveryHttp "courtside/internal/delivery/http"
	"courtside/internal/delivery/http/handler"
	"courtside/internal/delivery/http/middleware"
	"courtside/internal/domain/entity"
	"courtside/internal/infrastructure/cache"
	"courtside/internal/infrastructure/database"
	"courtside/internal/repository"
	"courtside/internal/service"
	"courtside/internal/usecase"
	"courtside/pkg/jwt"
	"courtside/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Sweeper     *service.CompletionSweeper
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg)
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Apply schema migrations
	if err := database.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Stripe uses a package-level key
	stripe.Key = cfg.Stripe.SecretKey

	// Initialize all layers
	server, sweeper, err := initializeServer(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}
	app.Server = server
	app.Sweeper = sweeper

	return app, nil
}

// setupLogger configures the logrus logger, with rotation when a log file is set
func setupLogger(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	if cfg.Log.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		logrus.SetOutput(io.MultiWriter(os.Stdout, rotator))
	} else {
		logrus.SetOutput(os.Stdout)
	}
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, *service.CompletionSweeper, error) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load timezone %q: %w", cfg.App.Timezone, err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	facilityRepo := repository.NewFacilityRepository()
	courtRepo := repository.NewCourtRepository()
	bookingRepo := repository.NewBookingRepository()
	walletRepo := repository.NewWalletRepository()
	walletTxnRepo := repository.NewWalletTransactionRepository()
	couponRepo := repository.NewCouponRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	pricingService := service.NewPricingService()
	walletLedger := service.NewWalletLedger(log, walletRepo, walletTxnRepo)
	slotHoldService := service.NewSlotHoldService(redisClient, log)
	verifiers := map[entity.PaymentMethod]service.PaymentVerifier{
		entity.PaymentMethodStripe: service.NewStripeVerifier(log),
		entity.PaymentMethodUPI:    service.NewRazorpayVerifier(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, log),
	}
	sweeper := service.NewCompletionSweeper(db, log, bookingRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, walletRepo, auditService, jwtService, redisClient)
	facilityUsecase := usecase.NewFacilityUsecase(db, log, facilityRepo, auditService)
	courtUsecase := usecase.NewCourtUsecase(db, log, courtRepo, facilityRepo, bookingRepo, auditService)
	bookingUsecase := usecase.NewBookingUsecase(db, log, loc, bookingRepo, courtRepo, userRepo, couponRepo,
		pricingService, walletLedger, slotHoldService, verifiers, auditService)
	walletUsecase := usecase.NewWalletUsecase(db, log, walletLedger, auditService)
	couponUsecase := usecase.NewCouponUsecase(db, log, couponRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, jwtService, customValidator)
	facilityHandler := handler.NewFacilityHandler(facilityUsecase, customValidator)
	courtHandler := handler.NewCourtHandler(courtUsecase, customValidator)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	walletHandler := handler.NewWalletHandler(walletUsecase, customValidator)
	couponHandler := handler.NewCouponHandler(couponUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, facilityHandler, courtHandler, bookingHandler,
		walletHandler, couponHandler, auditLogHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}

	return server, sweeper, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	app.Sweeper.Start()

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

	app.Sweeper.Stop()

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
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

package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sistema-hospitalar/config"
	deliveryHttp "sistema-hospitalar/internal/delivery/http"
	"sistema-hospitalar/internal/delivery/http/handler"
	"sistema-hospitalar/internal/delivery/http/middleware"
	"sistema-hospitalar/internal/infrastructure/cache"
	"sistema-hospitalar/internal/infrastructure/database"
	"sistema-hospitalar/internal/infrastructure/metrics"
	"sistema-hospitalar/internal/repository"
	"sistema-hospitalar/internal/service"
	"sistema-hospitalar/internal/usecase"
	"sistema-hospitalar/pkg/jwt"
	"sistema-hospitalar/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Log         *logrus.Logger
}

type usecases struct {
	auth        usecase.AuthUsecase
	user        usecase.UserUsecase
	specialty   usecase.SpecialtyUsecase
	appointment usecase.AppointmentUsecase
	auditLog    usecase.AuditLogUsecase
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	db, err := database.NewConnection(cfg.DB, cfg.App.Env, log)
	if err != nil {
		return nil, err
	}
	app.DB = db

	if err := database.Migrate(db, cfg.Scheduling.AppointmentDuration); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database migrated successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	jwtService := jwt.NewJWTService(cfg.JWT)
	tokenStore := service.NewRedisTokenStore(redisClient, log)
	uc := initializeUsecases(cfg, db, log, redisClient, m, jwtService, tokenStore)

	if cfg.App.Seed {
		if err := Seed(context.Background(), log, uc.user, uc.specialty, uc.appointment); err != nil {
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	app.Server = initializeServer(cfg, log, uc, m, reg, jwtService, tokenStore)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

func initializeUsecases(
	cfg *config.Config,
	db *gorm.DB,
	log *logrus.Logger,
	redisClient *redis.Client,
	m *metrics.Metrics,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
) *usecases {
	// Initialize repositories
	userRepo := repository.NewUserRepository()
	specialtyRepo := repository.NewSpecialtyRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	lifecycleService := service.NewLifecycleService(log, userRepo, doctorProfileRepo, patientProfileRepo, auditService)
	specialtyCache := service.NewRedisSpecialtyCache(redisClient, log)

	return &usecases{
		auth: usecase.NewAuthUsecase(db, log, userRepo, jwtService, tokenStore),
		user: usecase.NewUserUsecase(db, log, userRepo, doctorProfileRepo, patientProfileRepo, specialtyRepo,
			auditService, lifecycleService, tokenStore),
		specialty: usecase.NewSpecialtyUsecase(db, log, specialtyRepo, auditService, specialtyCache),
		appointment: usecase.NewAppointmentUsecase(db, log, appointmentRepo, doctorProfileRepo, patientProfileRepo,
			m, cfg.Scheduling.AppointmentDuration),
		auditLog: usecase.NewAuditLogUsecase(db, log, auditLogRepo),
	}
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	uc *usecases,
	m *metrics.Metrics,
	reg *prometheus.Registry,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
) *http.Server {
	customValidator := validator.NewValidator()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(uc.auth, customValidator, log)
	userHandler := handler.NewUserHandler(uc.user, customValidator, log)
	doctorHandler := handler.NewDoctorHandler(uc.user, customValidator, log)
	specialtyHandler := handler.NewSpecialtyHandler(uc.specialty, customValidator, log)
	appointmentHandler := handler.NewAppointmentHandler(uc.appointment, customValidator, log)
	auditLogHandler := handler.NewAuditLogHandler(uc.auditLog, log)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)
	accessLogMiddleware := middleware.NewAccessLogMiddleware(log, m)
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)

	router := deliveryHttp.NewRouter(
		authHandler,
		userHandler,
		doctorHandler,
		specialtyHandler,
		appointmentHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		accessLogMiddleware,
		loginLimiter,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

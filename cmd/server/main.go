package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	advisorapp "github.com/dealercrm/backend/internal/application/advisor"
	crmapp "github.com/dealercrm/backend/internal/application/crm"
	identityapp "github.com/dealercrm/backend/internal/application/identity"
	ingestionapp "github.com/dealercrm/backend/internal/application/ingestion"
	reportapp "github.com/dealercrm/backend/internal/application/report"
	scoringapp "github.com/dealercrm/backend/internal/application/scoring"
	"github.com/dealercrm/backend/internal/infrastructure/auth"
	"github.com/dealercrm/backend/internal/infrastructure/config"
	"github.com/dealercrm/backend/internal/infrastructure/logger"
	"github.com/dealercrm/backend/internal/infrastructure/persistence"
	"github.com/dealercrm/backend/internal/infrastructure/queue"
	"github.com/dealercrm/backend/internal/infrastructure/sms"
	"github.com/dealercrm/backend/internal/infrastructure/telemetry"
	"github.com/dealercrm/backend/internal/interfaces/http/handler"
	"github.com/dealercrm/backend/internal/interfaces/http/middleware"
	"github.com/dealercrm/backend/internal/interfaces/http/router"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting dealer CRM backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	gormLevel := gormlogger.Warn
	if cfg.IsProduction() {
		gormLevel = gormlogger.Error
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()
	db.DB.Logger = logger.NewGormLogger(log, gormLevel)

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := plugin.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Redis backs the token blacklist and the job queue; the server still
	// comes up without it, on in-memory fallbacks.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var blacklist auth.TokenBlacklist
	var enqueuer queue.Enqueuer
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist and queue", zap.Error(err))
		blacklist = auth.NewMemoryTokenBlacklist()
		enqueuer = queue.NewMemoryEnqueuer()
	} else {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		enqueuer = queue.NewRedisEnqueuer(redisClient, cfg.Jobs.QueueName)
		defer func() { _ = redisClient.Close() }()
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	dealershipRepo := persistence.NewGormDealershipRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	apptRepo := persistence.NewGormAppointmentRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	eventLogRepo := persistence.NewGormEventLogRepository(db.DB)
	integrationRepo := persistence.NewGormIntegrationEventRepository(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, membershipRepo, jwtService, blacklist, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxFailedAttempts,
		LockDuration:     cfg.Auth.LockoutDuration,
	}, log)
	userService := identityapp.NewUserService(userRepo, dealershipRepo, membershipRepo, log)
	dealershipService := identityapp.NewDealershipService(dealershipRepo, log)

	smsSender := sms.NewLogSender()
	leadService := crmapp.NewLeadService(leadRepo, eventLogRepo, log)
	apptService := crmapp.NewAppointmentService(apptRepo, leadRepo, eventLogRepo, log)
	taskService := crmapp.NewTaskService(taskRepo, leadRepo, log)
	messageService := crmapp.NewMessageService(messageRepo, leadRepo, eventLogRepo, smsSender, log)
	scoreService := scoringapp.NewScoreService(leadRepo, messageRepo, apptRepo, log)
	importService := ingestionapp.NewImportService(leadRepo, integrationRepo, eventLogRepo, log)
	reportService := reportapp.NewReportService(eventLogRepo, integrationRepo, log)
	advisorService := advisorapp.NewAdvisorService(leadRepo, apptRepo, messageRepo, enqueuer, log)

	// HTTP layer
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
	}
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	webhookLimiter := middleware.NewRateLimiter(5, 20)

	handlers := router.Handlers{
		System:      handler.NewSystemHandler(db, version),
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(userService),
		Dealership:  handler.NewDealershipHandler(dealershipService),
		Lead:        handler.NewLeadHandler(leadService, scoreService),
		Appointment: handler.NewAppointmentHandler(apptService),
		Task:        handler.NewTaskHandler(taskService),
		Message:     handler.NewMessageHandler(messageService),
		Import:      handler.NewImportHandler(importService),
		Advisor:     handler.NewAdvisorHandler(advisorService),
		Report:      handler.NewReportHandler(reportService),
		Webhook: handler.NewWebhookHandler(
			importService, leadService, messageService, leadRepo,
			cfg.SMS.WebhookSecret, log),
	}
	chain := router.Chain{
		Authn: middleware.JWTAuthWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		}),
		Guard:        middleware.DealershipGuard(membershipRepo, log),
		WebhookLimit: middleware.RateLimit(webhookLimiter),
	}

	router.MountSystem(engine, handlers.System)
	router.New(engine).Register(router.Build(handlers, chain)...).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Server stopped")
}

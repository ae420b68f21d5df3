package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/glowpos/backend/internal/application/catalog"
	commissionapp "github.com/glowpos/backend/internal/application/commission"
	identityapp "github.com/glowpos/backend/internal/application/identity"
	realtimeapp "github.com/glowpos/backend/internal/application/realtime"
	reconapp "github.com/glowpos/backend/internal/application/reconciliation"
	salesapp "github.com/glowpos/backend/internal/application/sales"
	tillapp "github.com/glowpos/backend/internal/application/till"
	"github.com/glowpos/backend/internal/domain/realtime"
	"github.com/glowpos/backend/internal/domain/reconciliation"
	"github.com/glowpos/backend/internal/infrastructure/auth"
	"github.com/glowpos/backend/internal/infrastructure/cache"
	"github.com/glowpos/backend/internal/infrastructure/config"
	"github.com/glowpos/backend/internal/infrastructure/event"
	"github.com/glowpos/backend/internal/infrastructure/logger"
	"github.com/glowpos/backend/internal/infrastructure/migration"
	"github.com/glowpos/backend/internal/infrastructure/persistence"
	realtimeinfra "github.com/glowpos/backend/internal/infrastructure/realtime"
	"github.com/glowpos/backend/internal/infrastructure/storage"
	"github.com/glowpos/backend/internal/infrastructure/telemetry"
	"github.com/glowpos/backend/internal/interfaces/http/handler"
	"github.com/glowpos/backend/internal/interfaces/http/middleware"
	"github.com/glowpos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

//	@title			GlowPOS Backend API
//	@version		1.0
//	@description	Point-of-sale backend for beauty retail: till sessions, daily reconciliation, staff commission and a live operations feed.

//	@contact.name	GlowPOS Engineering
//	@contact.url	https://github.com/glowpos/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logCfg := &logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry providers come up before the final logger so the OTEL core can be teed in.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}

	log := bootLog
	if loggerProvider.IsEnabled() {
		log, err = logger.New(logCfg, loggerProvider.Core(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
		_ = bootLog.Sync()
	}
	defer func() { _ = log.Sync() }()

	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Telemetry.ProfilingEnabled {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting GlowPOS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabase(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	if cfg.Database.AutoMigrate {
		if err := migration.Run(cfg.Database.DSN(), cfg.Database.MigrationsPath, log); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Repositories
	sessionRepo := persistence.NewGormTillSessionRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	reportRepo := persistence.NewGormReconciliationReportRepository(db.DB)
	tierRepo := persistence.NewGormCommissionTierRepository(db.DB)
	calcRepo := persistence.NewGormCommissionCalculationRepository(db.DB)

	directory, redisClient := cache.NewDirectoryFromConfig(ctx, cfg.Redis, cfg.Realtime, employeeRepo, productRepo, log)
	defer directory.Close()

	var archiver reconciliation.Archiver
	if cfg.Storage.Enabled {
		s3Archiver, err := storage.NewS3ReportArchiver(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize report archive", zap.Error(err))
		}
		if err := s3Archiver.EnsureBucket(ctx); err != nil {
			log.Warn("Report archive bucket unavailable", zap.Error(err))
		}
		archiver = s3Archiver
	} else {
		archiver = storage.NewStubArchiver()
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	var posMetrics *telemetry.POSMetrics
	if meterProvider.IsEnabled() {
		posMetrics, err = telemetry.NewPOSMetrics(meterProvider.Meter("glowpos"))
		if err != nil {
			log.Warn("Failed to create business metrics", zap.Error(err))
		} else {
			eventBus.Subscribe(posMetrics)
		}
	}

	// Application services
	sessionService := tillapp.NewSessionService(sessionRepo, cfg.Till.VarianceThreshold, log)
	sessionService.SetEventPublisher(eventBus)

	orderService := salesapp.NewOrderService(orderRepo, productRepo, sessionRepo, persistence.NewGormCheckoutScope(db.DB), log)
	orderService.SetEventPublisher(eventBus)

	reportService := reconapp.NewReportService(reportRepo, orderRepo, sessionRepo, archiver, reconciliation.Thresholds{
		CashVariance: cfg.Reconciliation.VarianceThreshold,
		TopProducts:  cfg.Reconciliation.TopProductsLimit,
	}, log)
	reportService.SetEventPublisher(eventBus)

	commissionService := commissionapp.NewService(tierRepo, calcRepo, orderRepo, employeeRepo, cfg.Commission.DefaultRoleType, log)
	commissionService.SetEventPublisher(eventBus)

	employeeService := identityapp.NewEmployeeService(employeeRepo, log)
	employeeService.SetNameCache(directory)
	productService := catalogapp.NewProductService(productRepo, log)
	productService.SetNameCache(directory)

	// Realtime relay
	relayOpts := []realtimeapp.RelayOption{
		realtimeapp.WithRelayLogger(log),
		realtimeapp.WithPriorityRules(realtime.PriorityRules{HighValueSale: cfg.Realtime.HighValueSaleThreshold}),
		realtimeapp.WithFeedCapacity(cfg.Realtime.FeedCapacity),
		realtimeapp.WithChangeFeed(cfg.Realtime.ListenerEnabled),
	}
	if posMetrics != nil {
		relayOpts = append(relayOpts, realtimeapp.WithMetrics(posMetrics))
	}
	relay := realtimeapp.NewEventRelay(persistence.NewGormCounterSource(db.DB), directory, relayOpts...)
	relay.SetMaxSubscribers(cfg.Realtime.MaxSubscribers)
	eventBus.Subscribe(relay)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	listenerCtx, stopListener := context.WithCancel(ctx)
	defer stopListener()
	if cfg.Realtime.ListenerEnabled {
		listener := realtimeinfra.NewChangeListener(cfg.Database.DSN(), cfg.Realtime, eventBus, log,
			realtimeinfra.WithReconnectHook(relay.Resync))
		go func() {
			if err := listener.Run(listenerCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Change listener stopped", zap.Error(err))
			}
		}()
	}

	// HTTP
	middleware.SetupValidator()
	jwtService := auth.NewJWTService(cfg.JWT)

	engine, err := router.NewEngine(router.Options{
		Config: cfg,
		JWT:    jwtService,
		Meter:  meterProvider,
		Logger: log,
	}, router.Handlers{
		Till:           handler.NewTillHandler(sessionService),
		Orders:         handler.NewOrderHandler(orderService),
		Reconciliation: handler.NewReconciliationHandler(reportService),
		Commission:     handler.NewCommissionHandler(commissionService),
		Directory:      handler.NewDirectoryHandler(employeeService, productService),
		Realtime:       handler.NewRealtimeHandler(relay, cfg.Realtime.HeartbeatInterval, log),
		System:         handler.NewSystemHandler(cfg.App.Name, version, db),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	// WriteTimeout applies to the SSE stream too; zero leaves long-lived streams open.
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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Streams hold connections open; close them before draining the server.
	relay.Close()
	stopListener()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop event bus", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis client", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Failed to stop profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown logger provider", zap.Error(err))
	}

	log.Info("Server exited")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appfinance "github.com/fleet/ledger/internal/application/finance"
	apporg "github.com/fleet/ledger/internal/application/organization"
	"github.com/fleet/ledger/internal/domain/access"
	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/infrastructure/auth"
	"github.com/fleet/ledger/internal/infrastructure/cache"
	"github.com/fleet/ledger/internal/infrastructure/config"
	"github.com/fleet/ledger/internal/infrastructure/event"
	"github.com/fleet/ledger/internal/infrastructure/idgen"
	"github.com/fleet/ledger/internal/infrastructure/logger"
	"github.com/fleet/ledger/internal/infrastructure/mq"
	"github.com/fleet/ledger/internal/infrastructure/persistence"
	"github.com/fleet/ledger/internal/infrastructure/storage"
	"github.com/fleet/ledger/internal/infrastructure/telemetry"
	"github.com/fleet/ledger/internal/interfaces/http/handler"
	"github.com/fleet/ledger/internal/interfaces/http/middleware"
	"github.com/fleet/ledger/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	serviceName := cfg.Telemetry.ServiceName

	// Telemetry: traces, metrics, exported logs, profiles
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		log, err = logger.New(logCfg, loggerProvider.Core(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() { _ = log.Sync() }()

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeServer,
		ApplicationName: serviceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting ledger service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:        cfg.Database.Driver,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database schema", zap.Error(err))
		}
		log.Info("Database schema migrated")
	}
	log.Info("Database connected successfully", zap.String("driver", db.Driver))

	// Repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	deps := appfinance.Dependencies{
		Payables:     persistence.NewGormAccountPayableRepository(db.DB),
		Receivables:  persistence.NewGormAccountReceivableRepository(db.DB),
		Transactions: persistence.NewGormFinancialTransactionRepository(db.DB),
		Wallets:      persistence.NewGormBranchWalletRepository(db.DB),
		Adjustments:  persistence.NewGormBalanceAdjustmentRepository(db.DB),
		Scope:        persistence.NewGormTransactionScope(db.DB),
		Companies:    companyRepo,
		Branches:     branchRepo,
		Guard:        access.NewGuard(access.WithAdminRole(access.Role(cfg.Ledger.AdminRole))),
	}

	// Event bus and forwarders
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	closeForwarder := setupEventForwarding(ctx, cfg, eventBus, log)
	defer closeForwarder()

	auditSink := setupAuditSink(ctx, cfg, db, log)

	ledgerMetrics, err := telemetry.NewLedgerMetrics(meterProvider.Meter(serviceName))
	if err != nil {
		log.Fatal("Failed to create ledger metrics", zap.Error(err))
	}

	references, err := idgen.NewSnowflakeReferences(cfg.Snowflake.NodeID)
	if err != nil {
		log.Fatal("Failed to create reference generator", zap.Error(err))
	}

	opts := []appfinance.Option{
		appfinance.WithBalanceMode(appfinance.BalanceMode(cfg.Ledger.BalanceMode)),
		appfinance.WithPendingScope(finance.PendingScope(cfg.Ledger.PendingScope)),
		appfinance.WithDefaultPageSize(cfg.Ledger.SummaryPageSize),
		appfinance.WithLocation(cfg.Ledger.Location()),
		appfinance.WithReferenceGenerator(references),
		appfinance.WithAuditSink(auditSink),
		appfinance.WithMetrics(ledgerMetrics),
		appfinance.WithEventPublisher(eventBus),
		appfinance.WithOriginResolver(persistence.NewGormOriginResolver(db.DB)),
		appfinance.WithLogger(log),
	}

	// Application services
	payableService := appfinance.NewPayableService(deps, opts...)
	receivableService := appfinance.NewReceivableService(deps, opts...)
	transactionService := appfinance.NewTransactionService(deps, opts...)
	walletService := appfinance.NewWalletService(deps, opts...)
	walletSummaryService := appfinance.NewWalletSummaryService(deps, opts...)
	organizationService := apporg.NewOrganizationService(companyRepo, branchRepo, deps.Guard)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}

	handlers := router.Handlers{
		Payables:     handler.NewPayableHandler(payableService),
		Receivables:  handler.NewReceivableHandler(receivableService),
		Transactions: handler.NewTransactionHandler(transactionService),
		Wallet:       handler.NewWalletHandler(walletService, walletSummaryService),
		Organization: handler.NewOrganizationHandler(organizationService),
		Health:       handler.NewHealthHandler(sqlDB, version),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var defaultCompany uuid.UUID
	if cfg.Ledger.DefaultCompanyID != "" {
		defaultCompany = uuid.MustParse(cfg.Ledger.DefaultCompanyID)
	}
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:      log,
		ServiceName: serviceName,
		Auth: middleware.AuthConfig{
			Validator:        auth.NewJWTService(cfg.JWT),
			DefaultCompanyID: defaultCompany,
			Logger:           log,
		},
		CORS:      cors,
		Meter:     meterProvider.Meter(serviceName),
		Tracing:   tracerProvider.IsEnabled(),
		Profiling: profiler.IsEnabled(),
	}, handlers)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus stop failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// setupEventForwarding subscribes the Kafka forwarder behind an idempotency
// check. The returned func releases the producer and the store.
func setupEventForwarding(ctx context.Context, cfg *config.Config, bus *event.InMemoryEventBus, log *zap.Logger) func() {
	if !cfg.Kafka.Enabled {
		log.Info("Kafka forwarding disabled")
		return func() {}
	}

	producer, err := mq.NewProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("Failed to create Kafka producer", zap.Error(err))
	}
	forwarder := mq.NewEventForwarder(producer, cfg.Kafka.Topic, log)

	store, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	bus.Subscribe(event.NewIdempotentHandler(forwarder, store, log))
	log.Info("Kafka forwarding enabled",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic))

	return func() {
		if err := forwarder.Close(); err != nil {
			log.Warn("Kafka producer close failed", zap.Error(err))
		}
		if err := store.Close(); err != nil {
			log.Warn("Idempotency store close failed", zap.Error(err))
		}
	}
}

// setupAuditSink returns the database audit sink, mirrored to S3 when the
// archive is enabled
func setupAuditSink(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) finance.AuditSink {
	var sink finance.AuditSink = persistence.NewGormAuditSink(db.DB)
	if !cfg.Storage.AuditArchiveEnabled {
		return sink
	}
	archive, err := storage.NewS3AuditArchive(ctx, cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create audit archive", zap.Error(err))
	}
	log.Info("Audit archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	return storage.NewArchivedAuditSink(sink, archive, log)
}

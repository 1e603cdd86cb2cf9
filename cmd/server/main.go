package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	assignmentapp "github.com/fleet/backend/internal/application/assignment"
	auditapp "github.com/fleet/backend/internal/application/audit"
	cartapp "github.com/fleet/backend/internal/application/cart"
	identityapp "github.com/fleet/backend/internal/application/identity"
	inventoryapp "github.com/fleet/backend/internal/application/inventory"
	procurementapp "github.com/fleet/backend/internal/application/procurement"
	"github.com/fleet/backend/internal/infrastructure/cache"
	"github.com/fleet/backend/internal/infrastructure/config"
	"github.com/fleet/backend/internal/infrastructure/event"
	"github.com/fleet/backend/internal/infrastructure/logger"
	"github.com/fleet/backend/internal/infrastructure/persistence"
	"github.com/fleet/backend/internal/infrastructure/scheduler"
	"github.com/fleet/backend/internal/infrastructure/telemetry"
	"github.com/fleet/backend/internal/interfaces/http/handler"
	"github.com/fleet/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const auditJobName = "integrity-audit"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting fleet backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver()))

	dbSystem := "postgresql"
	if db.Driver() == config.DriverSQLite {
		dbSystem = "sqlite"
		// sqlite is a development mode without golang-migrate; the schema comes from the models
		if err := db.AutoMigrate(ctx); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:            cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:           dbSystem,
		SlowQueryThresh:    cfg.Telemetry.DBSlowQueryThresh,
		WithQueryVariables: !cfg.IsProduction(),
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	cartStore, redisClient, err := cache.NewCartStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize cart store", zap.Error(err))
	}
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
	}
	if closer, ok := cartStore.(io.Closer); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	var metrics *telemetry.Metrics
	if cfg.Telemetry.MetricsEnabled {
		metrics = telemetry.NewMetrics()
	}

	// Repositories
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	modelRepo := persistence.NewGormVehicleModelRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	assignmentRepo := persistence.NewGormAssignmentRepository(db.DB)

	bus := event.NewInMemoryEventBus(log)
	if metrics != nil {
		bus.Subscribe(telemetry.NewEventMetricsHandler(metrics))
	}
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Services
	assignmentService := assignmentapp.NewAssignmentService(assignmentRepo, orderRepo, invoiceRepo, itemRepo, bus, log)
	projectService := procurementapp.NewProjectService(projectRepo)
	orderService := procurementapp.NewPurchaseOrderService(orderRepo, invoiceRepo, projectRepo, itemRepo, bus, log)
	invoiceService := procurementapp.NewInvoiceService(invoiceRepo, orderRepo, itemRepo, bus, log)
	itemService := inventoryapp.NewInventoryService(itemRepo, modelRepo, bus, log)
	modelService := inventoryapp.NewVehicleModelService(modelRepo)
	cartService := cartapp.NewCartService(cartStore, itemRepo, assignmentService, log)
	userService := identityapp.NewUserService(userRepo, bus, log)
	auditService := auditapp.NewService(assignmentRepo, cfg.Audit.Limit, log)
	if metrics != nil {
		assignmentService.SetMetrics(metrics)
		auditService.SetMetrics(metrics)
	}

	sched := scheduler.New(log)
	if cfg.Audit.Enabled {
		err := sched.Add(auditJobName, cfg.Audit.Schedule, cfg.Audit.Timeout, func(ctx context.Context) error {
			_, err := auditService.Run(ctx)
			return err
		})
		if err != nil {
			log.Fatal("Failed to schedule integrity audit", zap.Error(err))
		}
	}
	sched.Start(ctx)

	checks := map[string]handler.HealthCheck{"database": db.Ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	engine := router.NewEngine(router.EngineOptions{
		HTTP:           cfg.HTTP,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		Metrics:        metrics,
		Logger:         log,
		RequestTimeout: cfg.HTTP.WriteTimeout,
	}, router.Handlers{
		Assignment:  handler.NewAssignmentHandler(assignmentService),
		Procurement: handler.NewProcurementHandler(projectService, orderService, invoiceService),
		Inventory:   handler.NewInventoryHandler(itemService, modelService),
		Cart:        handler.NewCartHandler(cartService),
		User:        handler.NewUserHandler(userService),
		System:      handler.NewSystemHandler(cfg.App.Name, version, checks),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	failed := false
	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
		failed = true
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler did not stop cleanly", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not stop cleanly", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider did not flush", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if failed {
		os.Exit(1)
	}
}

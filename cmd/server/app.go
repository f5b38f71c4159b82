package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogapp "github.com/dokan/papershop/internal/application/catalog"
	financeapp "github.com/dokan/papershop/internal/application/finance"
	identityapp "github.com/dokan/papershop/internal/application/identity"
	inventoryapp "github.com/dokan/papershop/internal/application/inventory"
	reportapp "github.com/dokan/papershop/internal/application/report"
	tradeapp "github.com/dokan/papershop/internal/application/trade"
	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/infrastructure/auth"
	"github.com/dokan/papershop/internal/infrastructure/cache"
	"github.com/dokan/papershop/internal/infrastructure/config"
	"github.com/dokan/papershop/internal/infrastructure/event"
	"github.com/dokan/papershop/internal/infrastructure/export"
	"github.com/dokan/papershop/internal/infrastructure/lock"
	"github.com/dokan/papershop/internal/infrastructure/logger"
	"github.com/dokan/papershop/internal/infrastructure/migration"
	"github.com/dokan/papershop/internal/infrastructure/persistence"
	"github.com/dokan/papershop/internal/infrastructure/printing"
	"github.com/dokan/papershop/internal/infrastructure/storage"
	"github.com/dokan/papershop/internal/infrastructure/telemetry"
	"github.com/dokan/papershop/internal/interfaces/http/apidocs"
	"github.com/dokan/papershop/internal/interfaces/http/handler"
	"github.com/dokan/papershop/internal/interfaces/http/middleware"
	"github.com/dokan/papershop/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

const (
	// authRateLimit caps register/login/refresh attempts per client IP
	authRateLimit       = 20
	authRateLimitWindow = time.Minute
	idempotencyPrefix   = "papershop:idem:"
	meterName           = "papershop/ledger"
	// multipartOverhead leaves room for form boundaries around a receipt
	multipartOverhead   = 64 << 10
)

// publicPaths are served without a bearer token
var publicPaths = []string{"/health", "/api/v1/auth/register", "/api/v1/auth/login", "/api/v1/auth/refresh"}

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

// app is the assembled service: the HTTP engine plus everything that has to
// be released on shutdown, in reverse order of construction.
type app struct {
	engine  *gin.Engine
	db      *persistence.Database
	closers []func(context.Context) error
	log     *zap.Logger
}

func (a *app) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order and returns the joined errors
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newApp wires configuration into repositories, services, handlers and the
// gin engine. On error everything built so far is released.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *app, err error) {
	a := &app{log: log}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	// Telemetry first so the database plugin and gin pick up the providers
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("tracer provider: %w", err)
	}
	a.onClose(tracerProvider.Shutdown)

	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("meter provider: %w", err)
	}
	a.onClose(meterProvider.Shutdown)

	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("logger provider: %w", err)
	}
	a.onClose(logProvider.Shutdown)
	log = logProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))
	a.log = log

	ledgerMetrics, err := telemetry.NewLedgerMetrics(meterProvider.Meter(meterName))
	if err != nil {
		return nil, fmt.Errorf("ledger metrics: %w", err)
	}

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.onClose(func(context.Context) error { return db.Close() })

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log).Register(db.DB); err != nil {
			return nil, fmt.Errorf("db tracing: %w", err)
		}
	}

	inventory.DefaultReorderLevel = decimal.NewFromInt(cfg.Ledger.DefaultReorderLevel)

	// Shared state: Redis when configured, in-process otherwise
	var (
		locker      financeapp.Locker
		blacklist   auth.TokenBlacklist
		idempotency shared.IdempotencyStore
	)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.onClose(func(context.Context) error { return client.Close() })
		locker = lock.NewRedisLocker(client,
			lock.WithTTL(cfg.Ledger.CashFlowLockTTL),
			lock.WithLogger(log),
		)
		blacklist = auth.NewRedisTokenBlacklist(client)
		idempotency = cache.NewRedisIdempotencyStore(client, idempotencyPrefix)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		memStore := cache.NewInMemoryIdempotencyStore()
		a.onClose(func(context.Context) error { return memStore.Close() })
		locker = lock.NewMemoryLocker()
		blacklist = auth.NewInMemoryTokenBlacklist()
		idempotency = memStore
		log.Warn("Redis disabled, using in-process locks and idempotency keys")
	}

	var receipts financeapp.ReceiptStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("object storage: %w", err)
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("object storage bucket: %w", err)
		}
		receipts = s3Storage
	} else {
		receipts = storage.NewMemoryObjectStorage()
		log.Warn("Object storage disabled, receipts are kept in memory")
	}

	// Repositories
	gdb := db.DB
	orgRepo := persistence.NewGormOrganizationRepository(gdb)
	userRepo := persistence.NewGormUserRepository(gdb)
	productRepo := persistence.NewGormProductRepository(gdb)
	categoryRepo := persistence.NewGormCategoryRepository(gdb)
	referenceRepo := persistence.NewGormReferenceDataRepository(gdb)
	stockRepo := persistence.NewGormStockRepository(gdb)
	movementRepo := persistence.NewGormStockMovementRepository(gdb)
	alertRepo := persistence.NewGormStockAlertRepository(gdb)
	customerRepo := persistence.NewGormCustomerRepository(gdb)
	supplierRepo := persistence.NewGormSupplierRepository(gdb)
	saleRepo := persistence.NewGormSaleRepository(gdb)
	purchaseRepo := persistence.NewGormPurchaseRepository(gdb)
	paymentRepo := persistence.NewGormPaymentRepository(gdb)
	expenseRepo := persistence.NewGormExpenseRepository(gdb)
	transactionRepo := persistence.NewGormTransactionRepository(gdb)
	cashFlowRepo := persistence.NewGormCashFlowRepository(gdb)
	ledgerReader := persistence.NewGormLedgerReader(gdb)
	reportReader := persistence.NewGormReportReader(gdb)

	// Event bus
	bus := event.NewInMemoryEventBus(log)
	lowStock := inventoryapp.NewLowStockAlertHandler(log, alertRepo, productRepo)
	bus.Subscribe(lowStock, lowStock.EventTypes()...)
	bus.Subscribe(ledgerMetrics, ledgerMetrics.EventTypes()...)
	if err := bus.Start(ctx); err != nil {
		return nil, fmt.Errorf("event bus: %w", err)
	}
	a.onClose(bus.Stop)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(orgRepo, userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	orgService := identityapp.NewOrganizationService(orgRepo, log)

	productService := catalogapp.NewProductService(productRepo, categoryRepo, persistence.NewGormCatalogTransactionScope(gdb))
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	referenceService := catalogapp.NewReferenceService(referenceRepo)

	stockService := inventoryapp.NewStockService(stockRepo, movementRepo, alertRepo, productRepo, persistence.NewGormInventoryTransactionScope(gdb))
	stockService.SetEventPublisher(bus)

	tradeScope := persistence.NewGormTradeTransactionScope(gdb)
	saleService := tradeapp.NewSaleService(saleRepo, paymentRepo, productRepo, customerRepo, tradeScope)
	saleService.SetEventPublisher(bus)
	saleService.SetRecorder(ledgerMetrics)
	saleService.SetMaxRetries(cfg.Ledger.MaxRetries)
	saleService.SetLogger(log)

	purchaseService := tradeapp.NewPurchaseService(purchaseRepo, paymentRepo, productRepo, supplierRepo, tradeScope)
	purchaseService.SetEventPublisher(bus)
	purchaseService.SetRecorder(ledgerMetrics)
	purchaseService.SetMaxRetries(cfg.Ledger.MaxRetries)
	purchaseService.SetLogger(log)

	partyService := tradeapp.NewPartyService(customerRepo, supplierRepo, reportReader)

	if cfg.Printing.Enabled {
		pdf := printing.NewChromedpRenderer(cfg.Printing, log)
		a.onClose(func(context.Context) error { return pdf.Close() })
		invoices := printing.NewInvoiceRenderer(printing.NewTemplateEngine(), pdf, printing.InvoiceOptions{
			Footer: cfg.Printing.ShopFooter,
		})
		saleService.SetInvoiceRenderer(orgRepo, invoices)
	}

	cashFlowService := financeapp.NewCashFlowService(cashFlowRepo, ledgerReader, locker)
	cashFlowService.SetLogger(log)

	expenseService := financeapp.NewExpenseService(expenseRepo)
	expenseService.SetReceiptStorage(receipts)
	expenseService.SetLogger(log)

	accountingService := financeapp.NewAccountingService(transactionRepo, ledgerReader)
	accountingService.SetLogger(log)

	reportService := reportapp.NewReportService(ledgerReader, reportReader)
	reportService.SetExporter(export.NewXLSXExporter(), orgRepo)
	reportService.SetLogger(log)

	// HTTP
	middleware.SetupValidator()
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORS(cfg.HTTP),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize,
			middleware.WithRouteLimit("/api/v1/expenses/:id/receipt", cfg.Storage.MaxUploadSize+multipartOverhead)),
	)
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	}

	system := handler.NewSystemHandler(cfg.App.Name, version)
	system.AddCheck("database", db.Ping)
	engine.GET("/health", system.Health)
	engine.GET("/health/live", system.Live)

	limiter := middleware.NewRateLimiter(authRateLimit, authRateLimitWindow)
	a.onClose(func(context.Context) error { limiter.Stop(); return nil })

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Users:      handler.NewUserHandler(userService),
		Settings:   handler.NewOrganizationHandler(orgService),
		Products:   handler.NewProductHandler(productService),
		Categories: handler.NewCategoryHandler(categoryService),
		Reference:  handler.NewReferenceHandler(referenceService),
		Parties:    handler.NewPartyHandler(partyService),
		Sales:      handler.NewSaleHandler(saleService),
		Purchases:  handler.NewPurchaseHandler(purchaseService),
		Inventory:  handler.NewInventoryHandler(stockService),
		CashFlow:   handler.NewCashFlowHandler(cashFlowService),
		Expenses:   handler.NewExpenseHandler(expenseService),
		Accounting: handler.NewAccountingHandler(accountingService),
		Reports:    handler.NewReportHandler(reportService),
	}
	guards := router.Guards{
		Authenticate: middleware.JWTAuth(middleware.JWTConfig{
			JWTService:  jwtService,
			Revocations: authService,
			Logger:      log,
		}),
		SpanAttributes: middleware.SpanAttributes(),
		Idempotent:     middleware.Idempotency(idempotency, cfg.Ledger.IdempotencyTTL, log),
		AuthRateLimit:  middleware.RateLimit(limiter),
	}

	router.NewRouter(engine).Register(router.Groups(handlers, guards)...).Setup()

	if cfg.HTTP.SwaggerEnabled {
		err := apidocs.Mount(engine, swag.Name, apidocs.Info{
			Title:       "Papershop Ledger API",
			Description: "Sales, purchases, stock and cash flow for paper shops",
			Version:     version,
		}, publicPaths...)
		if err != nil {
			return nil, fmt.Errorf("swagger: %w", err)
		}
	}

	a.engine = engine
	return a, nil
}

// openDatabase connects and brings the schema up to date. PostgreSQL runs
// the versioned SQL migrations; SQLite, used for local runs and tests, is
// migrated from the gorm models.
func openDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.SQLLevel)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Driver == config.DriverSQLite {
		if err := persistence.AutoMigrate(ctx, db.DB); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("Database connected", zap.String("driver", cfg.Database.Driver), zap.String("path", cfg.Database.Path))
		return db, nil
	}

	migrator, err := migration.NewFromURL(cfg.Database.DSN(), migration.Source{}, log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()
	if err := migrator.Up(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate up: %w", err)
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver), zap.String("host", cfg.Database.Host))
	return db, nil
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	consignmentapp "github.com/consignmentgenie/backend/internal/application/consignment"
	eventapp "github.com/consignmentgenie/backend/internal/application/event"
	identityapp "github.com/consignmentgenie/backend/internal/application/identity"
	integrationapp "github.com/consignmentgenie/backend/internal/application/integration"
	inventoryapp "github.com/consignmentgenie/backend/internal/application/inventory"
	notificationapp "github.com/consignmentgenie/backend/internal/application/notification"
	reportapp "github.com/consignmentgenie/backend/internal/application/report"
	storefrontapp "github.com/consignmentgenie/backend/internal/application/storefront"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/infrastructure/accounting"
	"github.com/consignmentgenie/backend/internal/infrastructure/auth"
	"github.com/consignmentgenie/backend/internal/infrastructure/cache"
	"github.com/consignmentgenie/backend/internal/infrastructure/config"
	"github.com/consignmentgenie/backend/internal/infrastructure/event"
	"github.com/consignmentgenie/backend/internal/infrastructure/logger"
	"github.com/consignmentgenie/backend/internal/infrastructure/notification"
	"github.com/consignmentgenie/backend/internal/infrastructure/payment"
	"github.com/consignmentgenie/backend/internal/infrastructure/persistence"
	"github.com/consignmentgenie/backend/internal/infrastructure/scheduler"
	"github.com/consignmentgenie/backend/internal/infrastructure/storage"
	"github.com/consignmentgenie/backend/internal/infrastructure/telemetry"
	"github.com/consignmentgenie/backend/internal/interfaces/http/handler"
	"github.com/consignmentgenie/backend/internal/interfaces/http/middleware"
	"github.com/consignmentgenie/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/consignmentgenie/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			ConsignmentGenie API
//	@version		1.0
//	@description	Multi-tenant consignment shop backend: providers, items, sales, payouts, statements and storefront checkout.

//	@contact.name	API Support
//	@contact.url	https://github.com/consignmentgenie/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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
		_ = logger.Sync(log)
	}()

	log.Info("Starting ConsignmentGenie backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// OpenTelemetry tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	loggerProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	defer func() {
		if err := loggerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down log exporter", zap.Error(err))
		}
	}()
	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          zapcore.InfoLevel,
		})
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, otelCore)
		}))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		ProfileCPU:        true,
		ProfileAllocSpace: true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled {
		dbTracingCfg := telemetry.DefaultDBTracingConfig()
		dbTracingCfg.Enabled = true
		dbTracing := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	providerRepo := persistence.NewGormProviderRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	payoutRepo := persistence.NewGormPayoutRepository(db.DB)
	statementRepo := persistence.NewGormStatementRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	salesReportRepo := persistence.NewGormSalesReportRepository(db.DB)
	inventoryReportRepo := persistence.NewGormInventoryReportRepository(db.DB)
	financeReportRepo := persistence.NewGormFinanceReportRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)

	// Event serializer, transactional outbox and in-memory bus
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	log.Info("Event serializer ready", zap.Int("event_types", len(eventSerializer.RegisteredTypes())))

	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	orderRepo.SetOutboxEventSaver(outboxPublisher)

	eventBus := event.NewInMemoryEventBus(log)

	// Notification delivery: SendGrid when configured, log-only otherwise
	var notifier notificationapp.Notifier
	if cfg.SendGrid.Enabled {
		sendgridNotifier, err := notification.NewSendGridNotifier(&notification.SendGridConfig{
			APIKey:    cfg.SendGrid.APIKey,
			FromEmail: cfg.SendGrid.FromEmail,
			FromName:  cfg.SendGrid.FromName,
		})
		if err != nil {
			log.Fatal("Failed to initialize SendGrid notifier", zap.Error(err))
		}
		notifier = sendgridNotifier
		log.Info("SendGrid notifier enabled", zap.String("from", cfg.SendGrid.FromEmail))
	} else {
		notifier = notificationapp.NewLoggingNotifier(log)
	}

	// Notification handlers run for both direct-published and outbox-replayed
	// events, so each is wrapped for idempotency.
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	idempotencyMetrics := &event.IdempotencyMetrics{}
	subscribeIdempotent := func(h shared.EventHandler) {
		eventBus.Subscribe(event.NewIdempotentHandler(h, idempotencyStore, log,
			event.WithIdempotencyMetrics(idempotencyMetrics)))
	}
	subscribeIdempotent(notificationapp.NewProviderLifecycleHandler(notifier, log))
	subscribeIdempotent(notificationapp.NewPayoutPaidHandler(providerRepo, notifier, log))
	subscribeIdempotent(notificationapp.NewStatementGeneratedHandler(providerRepo, notifier, log))
	subscribeIdempotent(notificationapp.NewOrderConfirmationHandler(notifier, log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor replays persisted events into the bus
	outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
	if err := outboxProcessor.Start(context.Background()); err != nil {
		log.Fatal("Failed to start outbox processor", zap.Error(err))
	}
	defer func() {
		if err := outboxProcessor.Stop(context.Background()); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}()

	// Photo storage: S3 (or compatible) in production, local disk in development
	var photoStorage inventoryapp.PhotoStorage
	switch cfg.Storage.Provider {
	case "s3":
		s3Storage, err := storage.NewS3PhotoStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 photo storage", zap.Error(err))
		}
		photoStorage = s3Storage
		log.Info("S3 photo storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	default:
		localStorage, err := storage.NewLocalPhotoStorage(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local photo storage", zap.Error(err))
		}
		photoStorage = localStorage
	}

	// Stripe payment gateway for storefront checkout
	var paymentGateway storefrontapp.PaymentGateway
	stripeConfig := &payment.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
	}
	if cfg.Stripe.SecretKey != "" {
		stripeGateway, err := payment.NewStripeGateway(stripeConfig, log)
		if err != nil {
			log.Fatal("Failed to initialize Stripe gateway", zap.Error(err))
		}
		paymentGateway = stripeGateway
	} else {
		log.Warn("Stripe secret key not configured; online payment disabled")
	}

	// JWT auth with Redis-backed token revocation
	jwtService := auth.NewJWTService(cfg.JWT)
	var tokenBlacklist auth.TokenBlacklist
	tokenBlacklist, err = auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Initialize application services
	authService := identityapp.NewAuthService(userRepo, orgRepo, jwtService, tokenBlacklist, log)
	orgService := identityapp.NewOrganizationService(orgRepo, userRepo, txManager, eventBus)
	userService := identityapp.NewUserService(userRepo, eventBus)
	providerService := consignmentapp.NewProviderService(providerRepo, eventBus)
	itemService := inventoryapp.NewItemService(itemRepo, providerRepo, photoStorage, eventBus)
	transactionService := consignmentapp.NewTransactionService(transactionRepo, providerRepo, itemRepo, txManager, eventBus)
	payoutService := consignmentapp.NewPayoutService(payoutRepo, transactionRepo, providerRepo, txManager, eventBus)
	statementService := consignmentapp.NewStatementService(statementRepo, transactionRepo, payoutRepo, providerRepo, eventBus)
	catalogService := storefrontapp.NewCatalogService(orgRepo, itemRepo)
	cartService := storefrontapp.NewCartService(cartRepo, itemRepo, txManager)
	checkoutService := storefrontapp.NewCheckoutService(cartRepo, orderRepo, itemRepo, transactionRepo, providerRepo, orgRepo, txManager, eventBus)
	orderService := storefrontapp.NewOrderService(orderRepo, paymentGateway, eventBus)
	webhookService := storefrontapp.NewPaymentWebhookService(stripeConfig, orderService, log)
	reportService := reportapp.NewReportService(salesReportRepo, inventoryReportRepo, financeReportRepo)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// QuickBooks accounting sync (optional)
	var accountingService *integrationapp.AccountingSyncService
	if cfg.QuickBooks.Enabled {
		adapter, err := accounting.NewQuickBooksAdapter(&accounting.QuickBooksConfig{
			RealmID: cfg.QuickBooks.RealmID,
			BaseURL: cfg.QuickBooks.BaseURL,
		}, accounting.StaticTokenSource(cfg.QuickBooks.RefreshToken))
		if err != nil {
			log.Fatal("Failed to initialize QuickBooks adapter", zap.Error(err))
		}
		accountingService = integrationapp.NewAccountingSyncService(transactionRepo, payoutRepo, providerRepo, adapter)
		log.Info("QuickBooks sync enabled", zap.String("realm_id", cfg.QuickBooks.RealmID))
	}

	// Background jobs: monthly statement runs and expired cart sweeping
	if cfg.Scheduler.Enabled {
		jobScheduler := scheduler.NewScheduler(scheduler.SchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, scheduler.NewStatementExecutor(statementRunner{statementService}, log), log)
		if err := jobScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()

		statementTrigger := scheduler.NewStatementTrigger(scheduler.StatementTriggerConfig{
			Hour:   cfg.Scheduler.StatementHour,
			Minute: cfg.Scheduler.StatementMinute,
		}, jobScheduler, orgRepo, log)
		if err := statementTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start statement trigger", zap.Error(err))
		}
		defer func() {
			if err := statementTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping statement trigger", zap.Error(err))
			}
		}()

		cartSweeper := scheduler.NewCartSweeper(cfg.Scheduler.CartSweepInterval, cartService, log)
		if err := cartSweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start cart sweeper", zap.Error(err))
		}
		defer func() {
			if err := cartSweeper.Stop(context.Background()); err != nil {
				log.Error("Error stopping cart sweeper", zap.Error(err))
			}
		}()
		log.Info("Background jobs started",
			zap.Int("statement_hour", cfg.Scheduler.StatementHour),
			zap.Duration("cart_sweep_interval", cfg.Scheduler.CartSweepInterval),
		)
	}

	// Business metrics gauges (item counts, reservations) when telemetry is on
	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:             meterProvider.Meter("consignmentgenie"),
			Logger:            log,
			InventoryProvider: telemetry.NewGormInventoryMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(context.Background(), telemetry.NewGormTenantProvider(db.DB), 5*time.Minute)
			defer businessMetrics.Stop()
			// Sale, payment, and payout counters are fed from domain events.
			// Idempotency keeps outbox replays from double-counting.
			subscribeIdempotent(telemetry.NewBusinessMetricsSubscriber(businessMetrics, log))
		}

		dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("consignmentgenie"), telemetry.DefaultDBMetricsConfig(), log)
		if err != nil {
			log.Warn("Failed to initialize database metrics", zap.Error(err))
		} else {
			if sqlDB, err := db.DB.DB(); err == nil {
				dbMetrics.SetSQLDB(sqlDB)
			}
			if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
				log.Warn("Failed to register query metrics plugin", zap.Error(err))
			}
			dbMetrics.StartPoolStatsCollection(context.Background())
			defer dbMetrics.Stop()
		}
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	orgHandler := handler.NewOrganizationHandler(orgService)
	userHandler := handler.NewUserHandler(userService)
	providerHandler := handler.NewProviderHandler(providerService, userService)
	itemHandler := handler.NewItemHandler(itemService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	payoutHandler := handler.NewPayoutHandler(payoutService)
	statementHandler := handler.NewStatementHandler(statementService)
	storefrontHandler := handler.NewStorefrontHandler(catalogService, cartService, checkoutService, orderService)
	orderHandler := handler.NewOrderHandler(orderService)
	reportHandler := handler.NewReportHandler(reportService)
	webhookHandler := handler.NewStripeWebhookHandler(webhookService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler(idempotencyMetrics)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
	}
	if meterProvider.IsEnabled() {
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}
	if cfg.Profiling.Enabled {
		engine.Use(middleware.Profiling())
	}

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))
	engine.GET("/ready", healthHandler(db, log))

	// Stripe webhook: raw body with signature verification, no JWT
	engine.POST("/api/v1/webhooks/stripe", webhookHandler.HandleStripeWebhook)

	jwtMW := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	})

	// Swagger documentation endpoint, gated per environment
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtMW),
		ginSwagger.WrapHandler(swaggerFiles.Handler))
	optionalJWT := middleware.OptionalJWTAuthMiddleware(jwtService)
	staffOnly := middleware.RequireRole("owner", "staff")
	ownerOnly := middleware.RequireRole("owner")
	portalRoles := middleware.RequireRole("owner", "staff", "provider")

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Authentication. Login and refresh are public; stricter rate limits
	// apply when enabled. Session routes require a valid token.
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.AuthRateLimit(authLimiter))
	}
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", jwtMW, authHandler.Logout)
	authRoutes.GET("/me", jwtMW, authHandler.Me)
	authRoutes.PUT("/password", jwtMW, authHandler.ChangePassword)

	// Organization self-registration is public; everything else is scoped
	// to the authenticated owner.
	orgPublicRoutes := router.NewDomainGroup("organizations", "/organizations")
	orgPublicRoutes.POST("/register", orgHandler.Register)

	orgRoutes := router.NewDomainGroup("organization", "/organization")
	orgRoutes.Use(jwtMW, staffOnly)
	orgRoutes.GET("", orgHandler.Get)
	orgRoutes.PUT("", orgHandler.Update)

	// Staff user management (owner only)
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(jwtMW, ownerOnly)
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.PUT("/:id/password", userHandler.ResetPassword)
	userRoutes.POST("/:id/unlock", userHandler.Unlock)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)
	userRoutes.POST("/:id/activate", userHandler.Activate)

	// Provider (consignor) management
	providerRoutes := router.NewDomainGroup("providers", "/providers")
	providerRoutes.Use(jwtMW, staffOnly)
	providerRoutes.POST("", providerHandler.Create)
	providerRoutes.GET("", providerHandler.List)
	providerRoutes.GET("/:id", providerHandler.GetByID)
	providerRoutes.PUT("/:id", providerHandler.Update)
	providerRoutes.POST("/:id/approve", providerHandler.Approve)
	providerRoutes.POST("/:id/reject", providerHandler.Reject)
	providerRoutes.POST("/:id/deactivate", providerHandler.Deactivate)
	providerRoutes.POST("/:id/reactivate", providerHandler.Reactivate)
	providerRoutes.POST("/:id/login", providerHandler.CreateLogin)

	// Consigned inventory
	itemRoutes := router.NewDomainGroup("items", "/items")
	itemRoutes.Use(jwtMW, staffOnly)
	itemRoutes.POST("", itemHandler.Create)
	itemRoutes.GET("", itemHandler.List)
	itemRoutes.GET("/sku/:sku", itemHandler.GetBySKU)
	itemRoutes.GET("/:id", itemHandler.GetByID)
	itemRoutes.PUT("/:id", itemHandler.Update)
	itemRoutes.POST("/:id/remove", itemHandler.Remove)
	itemRoutes.POST("/:id/relist", itemHandler.Relist)
	itemRoutes.POST("/:id/photos", itemHandler.AddPhoto)
	itemRoutes.DELETE("/:id/photos", itemHandler.RemovePhoto)

	// POS sales
	transactionRoutes := router.NewDomainGroup("transactions", "/transactions")
	transactionRoutes.Use(jwtMW, staffOnly)
	transactionRoutes.POST("", transactionHandler.RecordSale)
	transactionRoutes.GET("", transactionHandler.List)
	transactionRoutes.GET("/:id", transactionHandler.GetByID)
	transactionRoutes.POST("/:id/void", transactionHandler.Void)

	// Provider payouts
	payoutRoutes := router.NewDomainGroup("payouts", "/payouts")
	payoutRoutes.Use(jwtMW, staffOnly)
	payoutRoutes.POST("/preview", payoutHandler.Preview)
	payoutRoutes.POST("", payoutHandler.Create)
	payoutRoutes.GET("", payoutHandler.List)
	payoutRoutes.GET("/:id", payoutHandler.GetByID)
	payoutRoutes.POST("/:id/pay", payoutHandler.MarkPaid)
	payoutRoutes.POST("/:id/cancel", payoutHandler.Cancel)

	// Monthly statements. Providers read their own through the portal;
	// generation is a staff operation.
	statementRoutes := router.NewDomainGroup("statements", "/statements")
	statementRoutes.Use(jwtMW)
	statementRoutes.GET("", portalRoles, statementHandler.List)
	statementRoutes.GET("/:id", portalRoles, statementHandler.GetByID)
	statementRoutes.POST("/:id/viewed", portalRoles, statementHandler.MarkViewed)
	statementRoutes.POST("/generate", staffOnly, statementHandler.Generate)

	// Storefront orders (back office)
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.Use(jwtMW, staffOnly)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.POST("/:id/fulfill", orderHandler.MarkFulfilled)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)

	// Reports
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.Use(jwtMW, staffOnly)
	reportRoutes.GET("/sales/summary", reportHandler.GetSalesSummary)
	reportRoutes.GET("/sales/trend", reportHandler.GetDailySalesTrend)
	reportRoutes.GET("/sales/providers", reportHandler.GetProviderSalesRanking)
	reportRoutes.GET("/inventory/summary", reportHandler.GetInventorySummary)
	reportRoutes.GET("/inventory/aging", reportHandler.GetInventoryAging)
	reportRoutes.GET("/inventory/aging/summary", reportHandler.GetInventoryAgingSummary)
	reportRoutes.GET("/finance/reconciliation", reportHandler.GetDailyReconciliation)
	reportRoutes.GET("/finance/balances", reportHandler.GetProviderBalances)
	reportRoutes.GET("/finance/payouts", reportHandler.GetPayoutSummary)

	// Accounting sync (only when QuickBooks is configured)
	if accountingService != nil {
		accountingHandler := handler.NewAccountingHandler(accountingService)
		accountingRoutes := router.NewDomainGroup("accounting", "/accounting")
		accountingRoutes.Use(jwtMW, staffOnly)
		accountingRoutes.POST("/transactions/:id/sync", accountingHandler.SyncTransaction)
		accountingRoutes.POST("/payouts/:id/sync", accountingHandler.SyncPayout)
		accountingRoutes.POST("/providers/:id/customer", accountingHandler.EnsureCustomer)
		r.Register(accountingRoutes)
	}

	// Public storefront. Shopper identity is optional; anonymous carts ride
	// on the session header.
	storeRoutes := router.NewDomainGroup("store", "/store")
	storeRoutes.Use(optionalJWT)
	storeRoutes.GET("/:slug", storefrontHandler.GetStore)
	storeRoutes.GET("/:slug/items", storefrontHandler.ListItems)
	storeRoutes.GET("/:slug/cart", storefrontHandler.GetCart)
	storeRoutes.POST("/:slug/cart/items", storefrontHandler.AddCartItem)
	storeRoutes.DELETE("/:slug/cart/items/:itemId", storefrontHandler.RemoveCartItem)
	storeRoutes.POST("/:slug/cart/merge", storefrontHandler.MergeCart)
	storeRoutes.POST("/:slug/checkout", storefrontHandler.Checkout)
	storeRoutes.GET("/:slug/orders/:number", storefrontHandler.GetOrder)
	storeRoutes.POST("/:slug/orders/:id/payment-intent", storefrontHandler.CreatePaymentIntent)

	// System and outbox administration
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/stats", jwtMW, ownerOnly, outboxHandler.GetStats)
	systemRoutes.GET("/outbox/dead", jwtMW, ownerOnly, outboxHandler.GetDeadLetterEntries)
	systemRoutes.POST("/outbox/dead/retry-all", jwtMW, ownerOnly, outboxHandler.RetryAllDeadEntries)
	systemRoutes.GET("/outbox/:id", jwtMW, ownerOnly, outboxHandler.GetEntry)
	systemRoutes.POST("/outbox/:id/retry", jwtMW, ownerOnly, outboxHandler.RetryDeadEntry)

	r.Register(authRoutes).
		Register(orgPublicRoutes).
		Register(orgRoutes).
		Register(userRoutes).
		Register(providerRoutes).
		Register(itemRoutes).
		Register(transactionRoutes).
		Register(payoutRoutes).
		Register(statementRoutes).
		Register(orderRoutes).
		Register(reportRoutes).
		Register(storeRoutes).
		Register(systemRoutes)

	r.Setup()

	// Simple ping for load balancer checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// statementRunner adapts the statement service to the scheduler's generator
// interface.
type statementRunner struct {
	service *consignmentapp.StatementService
}

func (s statementRunner) GenerateForMonth(ctx context.Context, tenantID uuid.UUID, year, month int) (scheduler.StatementRunSummary, error) {
	result, err := s.service.GenerateForMonth(ctx, tenantID, year, month)
	if err != nil {
		return scheduler.StatementRunSummary{}, err
	}
	return scheduler.StatementRunSummary{
		Generated: result.Generated,
		Skipped:   result.Skipped,
		Failed:    len(result.Failures),
	}, nil
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safedocs/backend/internal/application/safe"
	"github.com/safedocs/backend/internal/domain/shared"
	"github.com/safedocs/backend/internal/infrastructure/auth"
	"github.com/safedocs/backend/internal/infrastructure/cache"
	"github.com/safedocs/backend/internal/infrastructure/config"
	"github.com/safedocs/backend/internal/infrastructure/document"
	"github.com/safedocs/backend/internal/infrastructure/email"
	"github.com/safedocs/backend/internal/infrastructure/esign"
	"github.com/safedocs/backend/internal/infrastructure/logger"
	"github.com/safedocs/backend/internal/infrastructure/persistence"
	"github.com/safedocs/backend/internal/infrastructure/printing"
	"github.com/safedocs/backend/internal/infrastructure/storage"
	"github.com/safedocs/backend/internal/infrastructure/summarizer"
	"github.com/safedocs/backend/internal/infrastructure/telemetry"
	"github.com/safedocs/backend/internal/interfaces/http/handler"
	"github.com/safedocs/backend/internal/interfaces/http/middleware"
	"github.com/safedocs/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/safedocs/backend/docs"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			SAFE Document Service API
//	@version		1.0
//	@description	Generates, summarizes, converts, signs and emails YC SAFE agreements.

//	@contact.name	API Support
//	@contact.url	https://github.com/safedocs/backend

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

	ctx := context.Background()
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	// Telemetry: traces, metrics and logs share one collector
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       serviceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		Level:             zapcore.InfoLevel,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = lp.Bridge(log)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServer,
		ApplicationName:   serviceName,
		BasicAuthUser:     cfg.Telemetry.ProfilingUser,
		BasicAuthPassword: cfg.Telemetry.ProfilingPassword,
		ProfileTypes:      cfg.Telemetry.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Telemetry.SpanProfiles && profiler.IsEnabled() {
		tp.EnableSpanProfiles()
	}

	log.Info("Starting SAFE document service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log).Register(db.DB); err != nil {
		log.Warn("Database tracing not registered", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, mp, cfg.Telemetry.DBSlowQueryThresh, log)
	if err != nil {
		log.Warn("Database metrics not registered", zap.Error(err))
	}

	pipelineMetrics, err := telemetry.NewPipelineMetrics(mp.Meter(serviceName))
	if err != nil {
		log.Fatal("Failed to initialize pipeline metrics", zap.Error(err))
	}

	// Repositories
	repos := persistence.NewRepositories(db.DB)
	investmentRepo := repos.Investments

	// Redis-backed stores, in-memory when Redis is disabled
	stores, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).Create(ctx)
	if err != nil {
		log.Fatal("Failed to initialize caches", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing caches", zap.Error(err))
		}
	}()

	docStore := newDocumentStorage(cfg, log)

	// Templates and rendering
	templates, err := document.NewTemplateStore(&document.TemplateStoreConfig{ExternalDir: cfg.Templates.ExternalDir})
	if err != nil {
		log.Fatal("Failed to load SAFE templates", zap.Error(err))
	}
	renderer := document.NewDocxRenderer(templates, document.WithRendererLogger(log))

	chrome := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.PDF.Timeout,
		RemoteURL:      cfg.PDF.RemoteURL,
		NoSandbox:      cfg.PDF.NoSandbox,
		Logger:         log,
	})
	defer func() {
		if err := chrome.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()
	converter := printing.NewDocxConverter(chrome, log)

	sum, err := summarizer.New(summarizer.Config{
		Provider: cfg.Summarizer.Provider,
		ProviderConfig: summarizer.ProviderConfig{
			APIKey:    cfg.Summarizer.APIKey,
			Model:     cfg.Summarizer.Model,
			BaseURL:   cfg.Summarizer.BaseURL,
			MaxTokens: cfg.Summarizer.MaxTokens,
		},
		Timeout:  cfg.Summarizer.Timeout,
		CacheTTL: cfg.Summarizer.CacheTTL,
	}, stores.Summaries, log)
	if err != nil {
		log.Fatal("Failed to initialize summarizer", zap.Error(err))
	}

	// Outbound providers; a missing credential disables the feature only
	var signer safe.SignatureClient
	if client, err := esign.NewClient(&esign.Config{
		BaseURL:     cfg.ESign.BaseURL,
		AccountID:   cfg.ESign.AccountID,
		AccessToken: cfg.ESign.AccessToken,
		Timeout:     cfg.ESign.Timeout,
	}, esign.WithLogger(log)); err != nil {
		log.Warn("E-signature disabled", zap.Error(err))
	} else {
		signer = client
	}
	var mailer safe.Mailer
	if client, err := email.NewClient(&email.Config{
		BaseURL: cfg.Email.BaseURL,
		APIKey:  cfg.Email.APIKey,
		From:    cfg.Email.From,
		Timeout: cfg.Email.Timeout,
	}, email.WithLogger(log)); err != nil {
		log.Warn("Email delivery disabled", zap.Error(err))
	} else {
		mailer = client
	}

	// Application services
	idemConfig := shared.IdempotencyConfig{
		Enabled: cfg.Idempotency.Enabled,
		TTL:     cfg.Idempotency.TTL,
	}
	docService := safe.NewDocumentService(renderer, templates, sum, converter, log, safe.WithRecorder(pipelineMetrics))
	investmentService := safe.NewInvestmentService(repos, docService, docStore, cfg.Storage.PresignExpiration, log,
		safe.WithUnitOfWork(persistence.NewGormUnitOfWork(db)))
	notificationService := safe.NewNotificationService(docService, mailer, investmentRepo, stores.Idempotency, idemConfig, log)
	signatureService := safe.NewSignatureService(docService, signer, investmentRepo, stores.Idempotency, idemConfig, log)

	// Health checks
	checks := map[string]handler.Pinger{"database": db}
	if stores.Redis != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return stores.Redis.Ping(ctx).Err()
		})
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	jwtMiddleware := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		Validator: jwtService,
		Logger:    log,
	})

	var summaryLimiter *middleware.RateLimiter
	if cfg.HTTP.SummaryRateLimit > 0 {
		summaryLimiter = middleware.NewRateLimiter(cfg.HTTP.SummaryRateLimit, time.Minute)
		defer summaryLimiter.Stop()
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.App.IsProduction()

	engine, err := router.New(router.Handlers{
		Documents:     handler.NewDocumentHandler(docService),
		Notifications: handler.NewNotificationHandler(notificationService),
		Signatures:    handler.NewSignatureHandler(signatureService),
		Investments:   handler.NewInvestmentHandler(investmentService),
		System:        handler.NewSystemHandler(cfg.App.Name, version, checks),
	}, router.Options{
		ServiceName:    serviceName,
		Logger:         log,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		CORS:           corsConfig,
		Security:       securityConfig,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		Auth:           jwtMiddleware,
		SummaryLimiter: summaryLimiter,
		Swagger: middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		},
		Meter: mp.Meter(serviceName),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	// Logs go last so shutdown errors of the others are still exported
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := lp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newDocumentStorage returns S3 storage when enabled. Outside production an
// in-memory store stands in; in production stored documents are unavailable.
func newDocumentStorage(cfg *config.Config, log *zap.Logger) safe.DocumentStorage {
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3DocumentStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration))
		if err != nil {
			log.Fatal("Failed to initialize document storage", zap.Error(err))
		}
		return s3
	}
	if cfg.App.IsProduction() {
		log.Warn("Document storage disabled")
		return nil
	}
	return storage.NewMemoryDocumentStorage("http://localhost:" + cfg.App.Port + "/storage")
}

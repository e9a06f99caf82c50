package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	_ "github.com/siniestros/backend/docs"
	appclaims "github.com/siniestros/backend/internal/application/claims"
	appidentity "github.com/siniestros/backend/internal/application/identity"
	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/siniestros/backend/internal/infrastructure/auth"
	"github.com/siniestros/backend/internal/infrastructure/cache"
	"github.com/siniestros/backend/internal/infrastructure/config"
	"github.com/siniestros/backend/internal/infrastructure/logger"
	"github.com/siniestros/backend/internal/infrastructure/persistence"
	"github.com/siniestros/backend/internal/infrastructure/scheduler"
	"github.com/siniestros/backend/internal/infrastructure/telemetry"
	"github.com/siniestros/backend/internal/interfaces/http/dto"
	"github.com/siniestros/backend/internal/interfaces/http/handler"
	"github.com/siniestros/backend/internal/interfaces/http/middleware"
	"github.com/siniestros/backend/internal/interfaces/http/router"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			Siniestros API
//	@version		1.0
//	@description	Ajuste de reservas de siniestros: consulta de saldos, validación y registro de ajustes con su asiento contable.

//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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
		_ = logger.Sync(log)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, log := initTelemetry(ctx, cfg, log)
	defer tel.shutdown(log)

	log.Info("Starting siniestros backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog), persistence.WithTracing(dbTracing))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Repositories
	claimRepo := persistence.NewGormClaimRepository(db.DB)
	coverageRepo := persistence.NewGormCoverageRepository(db.DB)
	reserveRepo := persistence.NewGormReserveRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Reserve service
	reserveService := appclaims.NewReserveService(
		claimRepo, coverageRepo, reserveRepo, movementRepo, ledgerRepo, txScope,
		appclaims.Config{
			Rules: claims.BranchRules{
				Maritime: cfg.Claims.MaritimeBranches,
				Land:     cfg.Claims.LandBranches,
				Life:     cfg.Claims.LifeBranches,
			},
			DefaultAccounts: claims.ReserveAccounts{
				CuentaGasto:   cfg.Claims.DefaultExpenseAccount,
				CuentaReserva: cfg.Claims.DefaultReserveAccount,
			},
			IdempotencyTTL: cfg.Claims.IdempotencyTTL,
		},
		log,
	)

	storeOpts := []cache.IdempotencyStoreFactoryOption{
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	}
	if redisClient != nil {
		storeOpts = append(storeOpts, cache.WithClient(redisClient))
		reserveService.SetLocker(cache.NewRedisClaimLocker(redisClient, cfg.Claims.LockTTL, log))
	}
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, storeOpts...).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	reserveService.SetIdempotencyStore(idempotencyStore)

	claimsMetrics, err := telemetry.NewClaimsMetrics(tel.meter("siniestros/claims"))
	if err != nil {
		log.Fatal("Failed to create claims metrics", zap.Error(err))
	}
	reserveService.SetMetrics(claimsMetrics)

	// Authentication
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}
	authService := appidentity.NewAuthService(userRepo, jwtService, blacklist, log)

	// Background jobs
	jobs := scheduler.NewScheduler(cfg.Scheduler, log)
	if cfg.Scheduler.Enabled {
		if err := scheduler.RegisterReconciliation(jobs, reserveService, cfg.Scheduler, log); err != nil {
			log.Fatal("Failed to register reconciliation job", zap.Error(err))
		}
		jobs.Start(ctx)
	}

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up request validator", zap.Error(err))
	}

	engine, limiter := newEngine(cfg, log, tel, db, jwtService, blacklist, jobs,
		handler.NewClaimsHandler(reserveService),
		handler.NewAuthHandler(authService),
	)
	if limiter != nil {
		go limiter.Run(ctx)
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

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler did not stop cleanly", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newEngine assembles the gin engine: global middleware, public endpoints and the API groups
func newEngine(
	cfg *config.Config,
	log *zap.Logger,
	tel *telemetryStack,
	db *persistence.Database,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	jobs handler.JobLister,
	claimsHandler *handler.ClaimsHandler,
	authHandler *handler.AuthHandler,
) (*gin.Engine, *middleware.RateLimiter) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	httpMetrics, err := middleware.HTTPMetrics(tel.meter("siniestros/http"))
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.HSTSEnabled = cfg.App.Env == "production"

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure(securityCfg))
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(httpMetrics)
	engine.Use(middleware.Profiling(cfg.Telemetry.ProfilingEnabled))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeRouteNotFound, "El recurso solicitado no existe", middleware.GetRequestID(c), nil))
	})

	jwtAuth := middleware.JWTAuth(middleware.DefaultJWTConfig(jwtService, blacklist, log))

	systemHandler := handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion, cfg.App.Env,
		map[string]handler.HealthChecker{"database": db}, jobs)
	engine.GET("/health", systemHandler.Health)

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(middleware.SwaggerConfig{
				Enabled:     cfg.Swagger.Enabled,
				RequireAuth: cfg.Swagger.RequireAuth,
				AllowedIPs:  cfg.Swagger.AllowedIPs,
			}, jwtAuth),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	var limiter *middleware.RateLimiter
	var limited []gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limited = append(limited, middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	perm := middleware.PermissionConfig{Logger: log}
	claimsMiddleware := make([]gin.HandlerFunc, 0, len(limited)+1)
	claimsMiddleware = append(claimsMiddleware, limited...)
	claimsMiddleware = append(claimsMiddleware, middleware.SpanEnricher())

	router.NewRouter(engine).
		Register(router.ClaimsRoutes(claimsHandler, perm, jwtAuth, claimsMiddleware...)).
		Register(router.AuthRoutes(authHandler, jwtAuth, limited...)).
		Register(router.SystemRoutes(systemHandler, jwtAuth)).
		Setup()

	return engine, limiter
}

// telemetryStack owns the OpenTelemetry providers and the profiler
type telemetryStack struct {
	tracer   *telemetry.TracerProvider
	meters   *telemetry.MeterProvider
	logs     *telemetry.LoggerProvider
	profiler *telemetry.Profiler
}

// initTelemetry starts the configured exporters. The returned logger also
// forwards entries to OpenTelemetry when log export is enabled.
func initTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*telemetryStack, *zap.Logger) {
	t := cfg.Telemetry
	tel := &telemetryStack{}
	var err error

	tel.tracer, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           t.Enabled,
		CollectorEndpoint: t.CollectorEndpoint,
		SamplingRatio:     t.SamplingRatio,
		ServiceName:       t.ServiceName,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	tel.meters, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           t.Enabled && t.MetricsEnabled,
		CollectorEndpoint: t.CollectorEndpoint,
		ExportInterval:    t.MetricsInterval,
		ServiceName:       t.ServiceName,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	tel.logs, err = telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           t.Enabled && t.LogsEnabled,
		CollectorEndpoint: t.CollectorEndpoint,
		ServiceName:       t.ServiceName,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	if tel.logs.IsEnabled() {
		level := logger.ParseLevel(cfg.Log.Level)
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, tel.logs.ZapCore(level))
		}))
	}

	tel.profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         t.ProfilingEnabled,
		ServerAddress:   t.ProfilingEndpoint,
		ApplicationName: t.ServiceName,
	}, log)
	if err != nil {
		log.Warn("Continuous profiling unavailable", zap.Error(err))
	}
	if tel.profiler != nil && tel.profiler.IsEnabled() && tel.tracer.IsEnabled() {
		if err := tel.tracer.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles unavailable", zap.Error(err))
		}
	}

	return tel, log
}

// meter falls back to the global no-op provider when export is disabled
func (t *telemetryStack) meter(name string) metric.Meter {
	return t.meters.Meter(name)
}

func (t *telemetryStack) shutdown(log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if t.profiler != nil {
		if err := t.profiler.Stop(); err != nil {
			log.Warn("Profiler stop failed", zap.Error(err))
		}
	}
	if err := t.logs.Shutdown(ctx); err != nil {
		log.Warn("Log provider shutdown failed", zap.Error(err))
	}
	if err := t.meters.Shutdown(ctx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := t.tracer.Shutdown(ctx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
}

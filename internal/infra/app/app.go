package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/port"
	"github.com/mahesh553/Resumefinal-sub000/internal/infra/config"
	"github.com/mahesh553/Resumefinal-sub000/internal/infra/database"
	kafkainfra "github.com/mahesh553/Resumefinal-sub000/internal/infra/kafka"
	"github.com/mahesh553/Resumefinal-sub000/internal/infra/logger"
	redisinfra "github.com/mahesh553/Resumefinal-sub000/internal/infra/redis"
	"github.com/mahesh553/Resumefinal-sub000/internal/infra/security"
	"github.com/mahesh553/Resumefinal-sub000/internal/infra/telemetry"
	"github.com/mahesh553/Resumefinal-sub000/internal/repository/memory"
	postgresrepo "github.com/mahesh553/Resumefinal-sub000/internal/repository/postgres"
	redisrepo "github.com/mahesh553/Resumefinal-sub000/internal/repository/redis"
	"github.com/mahesh553/Resumefinal-sub000/internal/transport/http/middleware"
	"github.com/mahesh553/Resumefinal-sub000/internal/transport/http/routes"
	"github.com/mahesh553/Resumefinal-sub000/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
	tracer *telemetry.TracerProvider
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if _, err := telemetry.Attach(ctx, cfg); err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.OTLPEndpoint != "" {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	tokenVerifier, err := security.NewTokenVerifier(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("init token verifier: %w", err)
	}

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}

	var redisClient *redisinfra.Client
	var rateLimitStore port.RateLimitStore
	if cfg.Redis.Enabled {
		redisClient, err = redisinfra.NewClient(cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		keyPrefix := cfg.Redis.KeyPrefix
		if keyPrefix == "" {
			keyPrefix = "access:rate_limit"
		}
		rateLimitStore = redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
			KeyPrefix: keyPrefix,
			TTL:       rateLimitWindow * 2,
		})
	} else {
		log.Info("redis disabled, using in-memory rate limit store")
		rateLimitStore = memory.NewRateLimitStore()
	}

	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	repos := postgresrepo.NewRepositories(pool)

	permissionService := usecase.NewPermissionService(repos.Permissions)
	roleService := usecase.NewRoleService(repos.Roles, repos.Permissions, eventPublisher, log)
	assignmentService := usecase.NewAssignmentService(repos.Users, repos.Roles, eventPublisher, log)
	accessService := usecase.NewAccessService(repos.Users, repos.Roles, repos.Permissions, log)
	bulkService := usecase.NewBulkService(repos.Users, repos.Permissions, eventPublisher, log)

	if cfg.Bootstrap.SeedOnStart {
		bootstrapService := usecase.NewBootstrapService(repos.Roles, repos.Permissions, log)
		seeded, err := bootstrapService.SeedPermissions(ctx)
		if err != nil {
			return nil, fmt.Errorf("seed permissions: %w", err)
		}
		created, err := bootstrapService.InitializeSystemRoles(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize system roles: %w", err)
		}
		log.Info("bootstrap completed",
			zap.Int("permissions_seeded", seeded),
			zap.Int("roles_created", created),
		)
	}

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	var cache routes.CacheChecker
	if redisClient != nil {
		cache = redisClient
	}

	engine := routes.Register(routes.Dependencies{
		Config:        cfg,
		Logger:        log,
		RateLimiter:   rateLimiter,
		TokenVerifier: tokenVerifier,
		Metrics:       metrics,
		Database:      pool,
		Cache:         cache,
		Services: routes.ServiceSet{
			Permissions: permissionService,
			Roles:       roleService,
			Assignments: assignmentService,
			Access:      accessService,
			Bulk:        bulkService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
		tracer: tracer,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.tracer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = a.tracer.Shutdown(shutdownCtx)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting access control API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/levidang306/training-be/internal/core/port"
	"github.com/levidang306/training-be/internal/infra/config"
	"github.com/levidang306/training-be/internal/infra/database"
	kafkainfra "github.com/levidang306/training-be/internal/infra/kafka"
	"github.com/levidang306/training-be/internal/infra/logger"
	redisinfra "github.com/levidang306/training-be/internal/infra/redis"
	"github.com/levidang306/training-be/internal/infra/security"
	"github.com/levidang306/training-be/internal/infra/telemetry"
	postgresrepo "github.com/levidang306/training-be/internal/repository/postgres"
	redisrepo "github.com/levidang306/training-be/internal/repository/redis"
	"github.com/levidang306/training-be/internal/transport/http/middleware"
	"github.com/levidang306/training-be/internal/transport/http/routes"
	"github.com/levidang306/training-be/internal/usecase"
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

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.Enabled {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.App, cfg.Telemetry, log)
		if err != nil {
			return nil, fmt.Errorf("init tracer provider: %w", err)
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	tokenVerifier, err := security.NewTokenVerifier(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init token verifier: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

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

	var redisClient *redisinfra.Client
	var rateLimiter *middleware.RateLimiter
	if cfg.Redis.Enabled {
		redisClient, err = redisinfra.NewClient(cfg.Redis, log)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init redis: %w", err)
		}

		rateLimitWindow := cfg.RateLimit.WindowDuration
		if rateLimitWindow <= 0 {
			rateLimitWindow = time.Minute
		}
		prefix := cfg.Redis.RateLimitPrefix
		if prefix == "" {
			prefix = "task:rate-limit"
		}
		rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
			KeyPrefix: prefix,
			TTL:       rateLimitWindow * 2,
		})
		rateLimiter = middleware.NewRateLimiter(rateLimitStore, log)
	} else {
		log.Info("redis disabled, rate limiting is off")
	}

	accessService := usecase.NewAccessService(repos.Roles, repos.Permissions, repos.Users, eventPublisher, log)

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{
		Registerer: prometheus.DefaultRegisterer,
		Namespace:  cfg.Metrics.Namespace,
	})
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		pool.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	deps := routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		Access:      accessService,
		TokenParser: tokenVerifier,
		RateLimiter: rateLimiter,
		Metrics:     httpMetrics,
		Database:    pool,
	}
	if redisClient != nil {
		deps.Cache = redisClient
	}

	engine := routes.Register(deps)

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
			_ = a.tracer.Shutdown(context.Background())
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

	a.logger.Info("starting access API",
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

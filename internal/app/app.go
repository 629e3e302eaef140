package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/ProductReviewGo/internal/config"
	"github.com/utafrali/ProductReviewGo/internal/event"
	handlerhttp "github.com/utafrali/ProductReviewGo/internal/handler/http"
	"github.com/utafrali/ProductReviewGo/internal/notify"
	"github.com/utafrali/ProductReviewGo/internal/repository/postgres"
	"github.com/utafrali/ProductReviewGo/internal/seed"
	"github.com/utafrali/ProductReviewGo/internal/service"
	"github.com/utafrali/ProductReviewGo/pkg/database"
	"github.com/utafrali/ProductReviewGo/pkg/health"
	"github.com/utafrali/ProductReviewGo/pkg/kafka"
	"github.com/utafrali/ProductReviewGo/pkg/tracing"

	"github.com/utafrali/ProductReviewGo/migrations"
)

// App holds the wired application and its long-lived resources.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool     *pgxpool.Pool
	redis    *redis.Client
	producer *kafka.Producer
	server   *http.Server

	shutdownTracing func(context.Context) error
}

// New wires the application: database, cache, broker, services, and the HTTP
// server. Resources acquired here are released by Close.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	shutdownTracing, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTELEndpoint,
		SampleRatio: cfg.OTELSampleRatio,
		Environment: cfg.Environment,
		Insecure:    cfg.OTELInsecure,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.shutdownTracing = shutdownTracing

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.pool = pool

	if err := database.RunMigrations(ctx, pool, migrations.FS, ".", logger); err != nil {
		a.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	database.SlowQueryThreshold = time.Duration(cfg.SlowQueryMs) * time.Millisecond

	if err := prometheus.Register(database.NewPoolStatsCollector(pool)); err != nil {
		logger.Warn("register pool stats collector failed", slog.String("error", err.Error()))
	}

	if cfg.RedisEnabled {
		redisCfg := cfg.Redis()
		client, err := database.NewRedisClient(ctx, &redisCfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
	}

	productRepo := postgres.NewProductRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	statsService := service.NewStatsService(productRepo, reviewRepo)
	insightsService := service.NewInsightsService(productRepo, reviewRepo, a.redis)

	var events service.EventPublisher
	if cfg.KafkaEnabled {
		a.producer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events = event.NewPublisher(a.producer)
	}

	var notifier service.Notifier
	if cfg.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.WebhookURL, logger)
	}

	catalogService := service.NewCatalogService(
		pool, productRepo, reviewRepo, statsService,
		events, notifier, insightsService,
	)

	if cfg.SeedDemoData {
		if err := seed.Run(ctx, catalogService, productRepo, logger); err != nil {
			a.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if a.redis != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		})
	}
	if a.producer != nil {
		healthHandler.Register("kafka", a.producer.Ping)
	}

	router := handlerhttp.NewRouter(handlerhttp.RouterConfig{
		Catalog:        catalogService,
		Insights:       insightsService,
		Health:         healthHandler,
		Logger:         logger,
		ServiceName:    cfg.ServiceName,
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	a.server = &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

// Run starts the HTTP server and blocks until ctx is canceled or the server
// fails, then shuts everything down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.Close()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http shutdown failed", slog.String("error", err.Error()))
	}

	a.Close()
	return nil
}

// Close releases all long-lived resources. Safe to call more than once.
func (a *App) Close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("close kafka producer failed", slog.String("error", err.Error()))
		}
		a.producer = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis client failed", slog.String("error", err.Error()))
		}
		a.redis = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	if a.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdownTracing(ctx); err != nil {
			a.logger.Warn("tracing shutdown failed", slog.String("error", err.Error()))
		}
		a.shutdownTracing = nil
	}
}

package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"runtime"
	"time"

	"github.com/aarynsmith/exercisetracker/internal/domain"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/configs"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/env"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/events"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/logging"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/messaging"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/metrics"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/ratelimiter"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/tracing"
	"github.com/aarynsmith/exercisetracker/internal/persistence/db"
	"github.com/aarynsmith/exercisetracker/internal/persistence/repository"
	"github.com/aarynsmith/exercisetracker/internal/persistence/store"
	"github.com/aarynsmith/exercisetracker/internal/presentation/api"
	"github.com/aarynsmith/exercisetracker/internal/presentation/handler/exercise"
	"github.com/aarynsmith/exercisetracker/internal/presentation/handler/health"
	"github.com/prometheus/client_golang/prometheus"
)

func serve(ctx context.Context, configFlag string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	env.LoadDotenv()

	cfg, err := configs.Load(configs.DetermineConfigPath(configFlag))
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(&logging.LoggerConfig{
		FilePath: cfg.Logger.FilePath,
		Encoding: cfg.Logger.Encoding,
		Level:    cfg.Logger.Level,
		Logger:   cfg.Logger.Logger,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Tracing.Environment,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize the tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(shutdownCtx)
	}()

	userStore, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := userStore.Close(closeCtx); err != nil {
			logger.Error(logging.Internal, logging.Shutdown, "failed to close store", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
	}()

	m := metrics.New(prometheus.NewRegistry())

	var publisher domain.ActivityPublisher = domain.NopPublisher()
	if cfg.Messaging.Enabled {
		rabbitmq, err := messaging.NewRabbitMQ(cfg.Messaging.RabbitMQURI, cfg.Messaging.Exchange)
		if err != nil {
			return err
		}
		defer rabbitmq.Close()

		logger.Info(logging.RabbitMQ, logging.Startup, "connected to RabbitMQ", map[logging.ExtraKey]any{
			"exchange": cfg.Messaging.Exchange,
		})

		publisher = events.NewActivityPublisher(rabbitmq)

		consumer := events.NewActivityConsumer(rabbitmq, logger)
		go func() {
			if err := consumer.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error(logging.RabbitMQ, logging.Publish, "activity consumer stopped", map[logging.ExtraKey]any{
					logging.ErrorMessage: err.Error(),
				})
			}
		}()
	}

	repo := repository.NewUserRepository(userStore,
		repository.WithPublisher(m.CountingPublisher(publisher)),
		repository.WithTracer(tracing.GetTracer("github.com/aarynsmith/exercisetracker/internal/persistence/repository")),
		repository.WithClock(trackerClock(cfg.Tracker.Location())),
	)

	var limiter ratelimiter.Limiter
	if cfg.RateLimiter.Enabled {
		rl := ratelimiter.New(ratelimiter.Options{
			MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
			MaxBurst:         cfg.RateLimiter.MaxBurst,
			CacheTTL:         cfg.RateLimiter.CacheTTL,
			SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
		})
		defer rl.Close()
		limiter = rl
	}

	app := api.NewApplication(
		*cfg,
		exercise.NewHandler(repo, logger),
		health.NewHandler(userStore, cfg.Store.Driver),
		logger,
		limiter,
		m,
	)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	return app.Run(ctx, app.Mount())
}

// trackerClock reports "now" in loc so a dateless entry is stamped with the
// tracker's local calendar day.
func trackerClock(loc *time.Location) func() time.Time {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

func openStore(ctx context.Context, cfg configs.StoreConfig, logger logging.Logger) (domain.UserStore, error) {
	extra := map[logging.ExtraKey]any{logging.Driver: cfg.Driver}

	switch cfg.Driver {
	case configs.StoreMemory:
		logger.Warn(logging.General, logging.Startup, "using the in-memory store, data is lost on restart", extra)
		return store.NewMemoryUserStore(), nil

	case configs.StoreMongo:
		client, err := db.NewMongoClient(ctx, &db.MongoConfig{
			URI:               cfg.Mongo.URI,
			Database:          cfg.Mongo.Database,
			ConnectionTimeout: cfg.Mongo.ConnectionTimeout,
		})
		if err != nil {
			return nil, err
		}

		s := store.NewMongoUserStore(client.Database(cfg.Mongo.Database))
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = db.DisconnectMongo(ctx, client)
			return nil, fmt.Errorf("failed to ensure mongodb indexes: %w", err)
		}

		logger.Info(logging.MongoDB, logging.Connect, "connected to MongoDB", extra)
		return s, nil

	case configs.StorePostgres:
		pool, err := db.NewPostgresPool(ctx, &db.PostgresConfig{
			URL:               cfg.Postgres.URL,
			MaxConns:          cfg.Postgres.MaxConns,
			ConnectionTimeout: cfg.Postgres.ConnectionTimeout,
		})
		if err != nil {
			return nil, err
		}

		s := store.NewPostgresUserStore(pool)
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}

		logger.Info(logging.Postgres, logging.Migration, "postgres schema ready", extra)
		return s, nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
}

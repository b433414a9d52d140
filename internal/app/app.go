package app

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"tgstore/internal/config"
	"tgstore/internal/entity"
	"tgstore/internal/notify"
	"tgstore/internal/repository"
	"tgstore/internal/service"
	httpt "tgstore/internal/transport/http"
	kafkat "tgstore/internal/transport/kafka"
	"tgstore/pkg/cache"
	"tgstore/pkg/kafka"
	"tgstore/pkg/logger"
	"tgstore/pkg/metric"
	"tgstore/pkg/storage/postgres"

	"golang.org/x/sync/errgroup"
)

func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)

	metrics := initMetrics(eg, &cfg.Metrics, log)

	db, dbErr := initDatabase(ctx, &cfg.Postgres, log)
	if dbErr != nil {
		return dbErr
	}
	defer closeDB(db)

	orderCache, cacheErr := initCache(&cfg.Cache, metrics)
	if cacheErr != nil {
		return cacheErr
	}

	notifier := notify.NewClient(
		&cfg.Telegram,
		log.With("component", "telegram notifier"),
		metrics.Notification(),
	)

	orderService := initOrderService(cfg, db, orderCache, notifier, log)

	initHTTPServer(ctx, eg, cfg, orderService, log, metrics)

	if kafkaErr := initKafkaConsumer(ctx, eg, cfg, orderService, log, metrics); kafkaErr != nil {
		return kafkaErr
	}

	return waitForShutdown(eg)
}

func initMetrics(
	eg *errgroup.Group,
	cfg *config.Metrics,
	log logger.Logger,
) metric.Factory {
	metrics := metric.NewFactory()

	hostPort := net.JoinHostPort(cfg.Host, cfg.Port)
	metricsServer := &http.Server{
		Addr:              hostPort,
		Handler:           metrics.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	eg.Go(func() error {
		log.Infow("starting metrics server", "port", cfg.Port)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("app.initMetrics: %w", err)
		}
		return nil
	})

	return metrics
}

func initDatabase(ctx context.Context, cfg *config.Postgres, log logger.Logger) (*postgres.Postgres, error) {
	db, err := postgres.NewPostgres(
		cfg,
		log.With("component", "database"),
		postgres.MaxPoolSize(cfg.PoolMax),
		postgres.MaxConnAttempts(cfg.ConnAttempts),
		postgres.BaseRetryDelay(cfg.BaseRetryDelay),
		postgres.MaxRetryDelay(cfg.MaxRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initDatabase: %w", err)
	}

	if err = repository.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("app.initDatabase: %w", err)
	}

	return db, nil
}

func closeDB(db *postgres.Postgres) {
	if db != nil {
		db.Close()
	}
}

func initCache(
	cfg *config.Cache,
	metrics metric.Factory,
) (cache.Cache[string, *entity.Order], error) {
	orderCache, err := cache.NewLRUCache[string, *entity.Order](
		cfg.Capacity,
		"orders",
		metrics.Cache(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initCache: %w", err)
	}
	return orderCache, nil
}

func initOrderService(
	cfg *config.Config,
	db *postgres.Postgres,
	orderCache cache.Cache[string, *entity.Order],
	notifier service.Notifier,
	log logger.Logger,
) *service.OrderService {
	orderRepo := repository.NewOrderRepository(db)

	return service.NewOrderService(
		orderRepo,
		notifier,
		log.With("component", "order service"),
		orderCache,
		cfg.Cache.TTL,
	)
}

func initHTTPServer(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Config,
	orderService *service.OrderService,
	log logger.Logger,
	metrics metric.Factory,
) {
	auth := httpt.NewWebAppAuth(cfg.Telegram.Token, log.With("component", "webapp auth"))

	httpServer := httpt.NewHTTPServer(
		httpt.NewOrderHandler(orderService, auth, log, metrics.HTTP()),
		&cfg.HTTP,
		log.With("component", "http server"),
	)

	eg.Go(func() error {
		return httpServer.Start(ctx)
	})
}

func initKafkaConsumer(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Config,
	orderService *service.OrderService,
	log logger.Logger,
	metrics metric.Factory,
) error {
	kafkaReader, err := kafka.NewReader(cfg.Kafka, log.With("component", "kafka reader"))
	if err != nil {
		return fmt.Errorf("app.initKafkaConsumer: kafka reader creation: %w", err)
	}

	orderConsumer := kafkat.NewOrderConsumer(
		kafkaReader,
		orderService,
		log.With("component", "checkout consumer"),
		metrics.Kafka(),
	)

	eg.Go(func() error {
		defer func() {
			if closeErr := orderConsumer.Close(); closeErr != nil {
				log.Errorw("failed to close checkout consumer", "error", closeErr)
			}
		}()
		return orderConsumer.Run(ctx)
	})

	return nil
}

func waitForShutdown(eg *errgroup.Group) error {
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("app.Run: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
	"golang.org/x/sync/errgroup"

	"github.com/wyfcoding/ecommerce/internal/customer/application"
	"github.com/wyfcoding/ecommerce/internal/customer/domain"
	"github.com/wyfcoding/ecommerce/internal/customer/infrastructure/persistence/mysql"
	redisrepo "github.com/wyfcoding/ecommerce/internal/customer/infrastructure/persistence/redis"
	customerconsumer "github.com/wyfcoding/ecommerce/internal/customer/interfaces/consumer"
	httpserver "github.com/wyfcoding/ecommerce/internal/customer/interfaces/http"
	"github.com/wyfcoding/ecommerce/internal/shared/messaging"
	"github.com/wyfcoding/ecommerce/internal/shared/persistence"
	appcache "github.com/wyfcoding/ecommerce/pkg/cache"
)

var configPath = flag.String("config", "configs/customer/config.toml", "config file path")

var projectionTopics = []string{
	domain.TopicCustomerRegistered,
	domain.TopicCustomerEmailChanged,
	domain.TopicCustomerProfileUpdated,
	domain.TopicCustomerAddressAdded,
	domain.TopicCustomerAddressRemoved,
	domain.TopicCustomerAddressPrimaryChanged,
	domain.TopicCustomerLoyaltyChanged,
}

func main() {
	flag.Parse()

	// 1. Config
	var cfg config.Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Logger
	logCfg := &logging.Config{Service: cfg.Server.Name, Module: "customer", Level: cfg.Log.Level}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. Metrics
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)
	if cfg.Metrics.Enabled {
		go metricsImpl.ExposeHTTP(cfg.Metrics.Port)
	}

	// 4. Infrastructure
	db, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}

	if cfg.Server.Environment == "dev" {
		if err := db.RawDB().AutoMigrate(
			&mysql.CustomerModel{}, &mysql.AddressModel{}, &mysql.EventPO{}, &outbox.Message{},
		); err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	// 5. Kafka & Outbox
	kafkaProducer := kafka.NewProducer(&cfg.MessageQueue.Kafka, logger, metricsImpl)
	outboxMgr := outbox.NewManager(db.RawDB(), logger.Logger)
	pusher := func(ctx context.Context, topic, key string, payload []byte) error {
		return kafkaProducer.PublishToTopic(ctx, topic, []byte(key), payload)
	}
	outboxProcessor := outbox.NewProcessor(outboxMgr, pusher, 100, 2*time.Second)

	// 6. Redis
	redisCache, err := cache.NewRedisCache(&cfg.Data.Redis, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}
	redisClient := redisCache.GetClient()

	// 7. Repositories
	customerRepo := mysql.NewCustomerRepository(db.RawDB())
	eventStore := mysql.NewEventStore(db.RawDB())
	readRepo := redisrepo.NewCustomerReadRepository(redisClient)

	publisher := messaging.NewOutboxPublisher(outboxMgr)
	uow := persistence.NewUnitOfWork(db.RawDB())
	cacheSvc := appcache.NewService(redisClient, logger.Logger)

	// 8. Application
	commandSvc := application.NewCustomerCommandService(customerRepo, eventStore, publisher, uow, logger.Logger)
	querySvc := application.NewCustomerQueryService(customerRepo, readRepo, cacheSvc, logger.Logger)
	projectionSvc := application.NewCustomerProjectionService(customerRepo, readRepo, logger.Logger)
	invalidationSvc := application.NewCacheInvalidationService(cacheSvc, logger.Logger)

	// 9. Consumers
	projectionHandler := customerconsumer.NewCustomerProjectionHandler(projectionSvc, logger.Logger)
	invalidationHandler := customerconsumer.NewCacheInvalidationHandler(invalidationSvc, logger.Logger)
	for _, topic := range projectionTopics {
		projCfg := cfg.MessageQueue.Kafka
		projCfg.Topic = topic
		projCfg.GroupID = "customer-projection-group"
		kafka.NewConsumer(&projCfg, logger, metricsImpl).Start(context.Background(), 3, projectionHandler.Handle)

		invCfg := cfg.MessageQueue.Kafka
		invCfg.Topic = topic
		invCfg.GroupID = "customer-cache-group"
		kafka.NewConsumer(&invCfg, logger, metricsImpl).Start(context.Background(), 3, invalidationHandler.Handle)
	}

	// 10. HTTP
	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	httpHandler := httpserver.NewCustomerHandler(commandSvc, querySvc, logger.Logger)
	httpHandler.RegisterRoutes(r)

	// 11. Start
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTP.Port)
		server := &http.Server{Addr: addr, Handler: r}
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}

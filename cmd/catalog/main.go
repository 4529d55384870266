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
	search_pkg "github.com/wyfcoding/pkg/search"
	"golang.org/x/sync/errgroup"

	"github.com/wyfcoding/ecommerce/internal/catalog/application"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/elasticsearch"
	"github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/mysql"
	redisrepo "github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/redis"
	catalogconsumer "github.com/wyfcoding/ecommerce/internal/catalog/interfaces/consumer"
	httpserver "github.com/wyfcoding/ecommerce/internal/catalog/interfaces/http"
	"github.com/wyfcoding/ecommerce/internal/shared/messaging"
	"github.com/wyfcoding/ecommerce/internal/shared/persistence"
	appcache "github.com/wyfcoding/ecommerce/pkg/cache"
)

var configPath = flag.String("config", "configs/catalog/config.toml", "config file path")

var projectionTopics = []string{
	domain.TopicProductCreated,
	domain.TopicProductDetailsUpdated,
	domain.TopicProductPriceChanged,
	domain.TopicProductStockChanged,
	domain.TopicProductStockLow,
	domain.TopicProductReviewAdded,
	domain.TopicProductReviewApproved,
	domain.TopicProductFeaturedChanged,
	domain.TopicProductDiscontinued,
}

func main() {
	flag.Parse()

	// 1. Config
	var cfg config.Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Logger
	logCfg := &logging.Config{Service: cfg.Server.Name, Module: "catalog", Level: cfg.Log.Level}
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
			&mysql.ProductModel{}, &mysql.ReviewModel{}, &mysql.EventPO{}, &outbox.Message{},
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

	// 7. Elasticsearch
	esCfg := &search_pkg.Config{
		ServiceName:         cfg.Server.Name,
		ElasticsearchConfig: cfg.Data.Elasticsearch,
		BreakerConfig:       cfg.CircuitBreaker,
	}
	esClient, err := search_pkg.NewClient(esCfg, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to init elasticsearch", "error", err)
		os.Exit(1)
	}

	// 8. Repositories
	productRepo := mysql.NewProductRepository(db.RawDB())
	eventStore := mysql.NewEventStore(db.RawDB())
	readRepo := redisrepo.NewProductReadRepository(redisClient)
	searchRepo := elasticsearch.NewProductSearchRepository(esClient, "")

	publisher := messaging.NewOutboxPublisher(outboxMgr)
	uow := persistence.NewUnitOfWork(db.RawDB())
	cacheSvc := appcache.NewService(redisClient, logger.Logger)

	// 9. Application
	commandSvc := application.NewCatalogCommandService(productRepo, eventStore, publisher, uow, logger.Logger)
	querySvc := application.NewCatalogQueryService(productRepo, readRepo, searchRepo, cacheSvc, logger.Logger)
	projectionSvc := application.NewProductProjectionService(readRepo, searchRepo, productRepo, logger.Logger)
	invalidationSvc := application.NewCacheInvalidationService(cacheSvc, logger.Logger)

	// 10. Consumers
	// 投影与缓存失效分属不同消费组，互不影响消费进度。
	projectionHandler := catalogconsumer.NewProductProjectionHandler(projectionSvc, logger.Logger)
	invalidationHandler := catalogconsumer.NewCacheInvalidationHandler(invalidationSvc, logger.Logger)
	for _, topic := range projectionTopics {
		projCfg := cfg.MessageQueue.Kafka
		projCfg.Topic = topic
		projCfg.GroupID = "catalog-projection-group"
		kafka.NewConsumer(&projCfg, logger, metricsImpl).Start(context.Background(), 3, projectionHandler.Handle)

		invCfg := cfg.MessageQueue.Kafka
		invCfg.Topic = topic
		invCfg.GroupID = "catalog-cache-group"
		kafka.NewConsumer(&invCfg, logger, metricsImpl).Start(context.Background(), 3, invalidationHandler.Handle)
	}

	// 11. HTTP
	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	httpHandler := httpserver.NewCatalogHandler(commandSvc, querySvc, logger.Logger)
	httpHandler.RegisterRoutes(r)

	// 12. Start
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

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shop-service/internal/config"
	api "shop-service/internal/controllers/http"
	"shop-service/internal/infra/cache"
	"shop-service/internal/infra/database"
	"shop-service/internal/infra/rabbitmq"
	"shop-service/internal/logging"
	"shop-service/internal/repository"
	"shop-service/internal/repository/gormrepo"
	"shop-service/internal/repository/memory"
	"shop-service/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.Setup(cfg.Logger)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("shop service stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store repository.Store
	if cfg.Database.Driver == "memory" {
		logger.Warn("using in-memory store, data is lost on exit")
		store = memory.NewStore()
	} else {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(db); err != nil {
				logger.Error("close database", zap.Error(err))
			}
		}()
		store = gormrepo.NewStore(db)
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.Exchange)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	}

	mode, policy := cfg.Modes()
	s := services.NewShopService(store, publisher, services.Options{
		UpdateMode:   mode,
		DeletePolicy: policy,
	})

	if cfg.Redis.Host != "" {
		rdb := cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.DB)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, reads fall through to the store", zap.Error(err))
		}
		s.SetCache(cache.NewRedisCache(rdb, cfg.Redis.CacheTTL))
	}

	if cfg.Logger.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger())
	api.NewHandler(s, cfg.APIUsername, cfg.APIPassword).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting shop service",
			zap.String("port", cfg.Port),
			zap.String("driver", cfg.Database.Driver),
			zap.Stringer("update_mode", mode),
			zap.Stringer("delete_policy", policy))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"model-catalog-service/internal/adapters/primary/http/handlers"
	"model-catalog-service/internal/adapters/primary/http/middleware"
	"model-catalog-service/internal/adapters/secondary/filestore"
	"model-catalog-service/internal/adapters/secondary/mongo"
	"model-catalog-service/internal/adapters/secondary/postgres"
	"model-catalog-service/internal/config"
	ports "model-catalog-service/internal/core/ports/output"
	"model-catalog-service/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	ctx := context.Background()

	// Secondary adapters (output ports)
	store, closeStore, err := newModelStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init model store: %v", err)
	}
	defer closeStore()
	log.Infof("model store initialized (backend=%s)", cfg.Store.Backend)

	files, err := newFileStore(cfg)
	if err != nil {
		log.Fatalf("init file store: %v", err)
	}
	log.Infof("file store initialized (backend=%s)", cfg.FileStore.Backend)

	// Core services
	modelSvc := services.NewModelService(store, files)
	artifactSvc := services.NewArtifactService(store, files)
	healthSvc := services.NewHealthService(store, files)

	// Primary adapter (HTTP)
	h := handlers.New(modelSvc, artifactSvc, healthSvc)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), middleware.Metrics(), gin.Recovery())

	api := router.Group("/api/v1")
	h.RegisterRoutes(api)

	router.GET("/healthz", h.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func newModelStore(ctx context.Context, cfg *config.Config) (ports.ModelStore, func(), error) {
	switch cfg.Store.Backend {
	case "mongo":
		client, err := mongodriver.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		store := mongo.NewModelStore(client.Database(cfg.Mongo.Database))
		if err := store.Ping(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		closer := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.WithError(err).Warn("mongo disconnect failed")
			}
		}
		return store, closer, nil

	case "postgres":
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("parse db config: %w", err)
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
		poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("create db pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping db: %w", err)
		}
		store := postgres.NewModelStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}

func newFileStore(cfg *config.Config) (ports.FileStore, error) {
	switch cfg.FileStore.Backend {
	case "local":
		return filestore.NewLocal(cfg.FileStore.Dir)
	case "memory":
		return filestore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported filestore backend %q", cfg.FileStore.Backend)
	}
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

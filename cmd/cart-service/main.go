package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/cart"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/catalog"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/config"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/db"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/dedup"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/events"
	httpapi "github.com/Jaypanchal00/amazon-web/cart-service-go/internal/http"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/order"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/storage"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[cart-service] ", log.LstdFlags|log.Lshortfile)

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("run migrations: %v", err)
		}
	}

	database, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStorage, err := buildStorage(ctx, cfg)
	if err != nil {
		logger.Fatalf("storage backend %q: %v", cfg.StorageBackend, err)
	}
	defer closeStorage()

	rabbitConn := events.MustDialRabbit(cfg.RabbitURL)
	defer rabbitConn.Close()

	sequenceRepo := events.NewSequenceRepository(database)
	publisher, err := events.NewRabbitPublisher(rabbitConn, sequenceRepo, cfg.InstanceID)
	if err != nil {
		logger.Fatalf("create publisher: %v", err)
	}

	cartStore := cart.NewStore(store, publisher, logger)

	checkpoints := dedup.NewRepository(database)
	if err := events.StartCartStateChangedConsumer(ctx, rabbitConn, cartStore, checkpoints, publisher.Producer(), cfg.InstanceID, logger); err != nil {
		logger.Fatalf("start consumer: %v", err)
	}

	orderRepo := order.NewRepository(database)
	handler := httpapi.NewHandler(cartStore, catalog.NewSeeded(), orderRepo, publisher, logger)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("cart-service %s listening on %s", cfg.InstanceID, cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Printf("publisher close error: %v", err)
	}
}

// buildStorage selects the session-state backend. The returned closer is a
// no-op for backends that share a lifecycle with the process.
func buildStorage(ctx context.Context, cfg config.Config) (storage.Storage, func(), error) {
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewPostgresStorage(pool), pool.Close, nil
	case "redis":
		return storage.NewRedisStorage(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), func() {}, nil
	case "memory":
		return storage.NewMemoryStorage(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-gateway/internal/assistant"
	"storefront-gateway/internal/commerce/cart"
	"storefront-gateway/internal/commerce/catalog"
	"storefront-gateway/internal/commerce/customer"
	"storefront-gateway/internal/commerce/graphql"
	"storefront-gateway/internal/common/config"
	"storefront-gateway/internal/common/logger"
	"storefront-gateway/internal/common/observability"
	"storefront-gateway/internal/storage"
	transport "storefront-gateway/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting storefront gateway", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"store":       cfg.Store.IsConfigured(),
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	var store storage.Store
	if cfg.Redis.Address != "" {
		redisStore := storage.NewRedisStore(cfg.Redis)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStore.Ping(pingCtx)
		cancel()
		if err != nil {
			log.WithError(err).Warn("redis unreachable, using in-memory storage", map[string]interface{}{
				"address": cfg.Redis.Address,
			})
			store = storage.NewMemoryStore()
		} else {
			defer redisStore.Close()
			store = redisStore
		}
	} else {
		store = storage.NewMemoryStore()
	}

	client := graphql.New(cfg.Store, log)
	if client.Mocked() {
		log.Warn("store credentials missing, serving fallback catalog only", nil)
	}

	catalogSvc := catalog.New(client, cfg.Cache, log)
	cartSvc := cart.New(client, store, catalogSvc, log)
	customerSvc := customer.New(client, store, log)
	assistantSvc := assistant.New(cfg.Assistant, log)

	handler := transport.NewHandler(catalogSvc, cartSvc, customerSvc, assistantSvc, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.Router(obs),
		ReadTimeout:  config.GetDuration(cfg.Server.RequestTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.RequestTimeout),
	}

	go func() {
		log.Info("http server listening", map[string]interface{}{"port": cfg.Server.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server failed", nil)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed", nil)
	}
}

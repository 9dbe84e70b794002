package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	cartapp "github.com/dwikikusuma/coffeeshop/internal/cart/app"
	catalogapp "github.com/dwikikusuma/coffeeshop/internal/catalog/app"
	catalogpg "github.com/dwikikusuma/coffeeshop/internal/catalog/infra/postgres"
	checkoutapp "github.com/dwikikusuma/coffeeshop/internal/checkout/app"
	"github.com/dwikikusuma/coffeeshop/internal/checkout/infra/adapter"
	"github.com/dwikikusuma/coffeeshop/internal/database"
	identityapp "github.com/dwikikusuma/coffeeshop/internal/identity/app"
	identitypg "github.com/dwikikusuma/coffeeshop/internal/identity/infra/postgres"
	"github.com/dwikikusuma/coffeeshop/internal/notify"
	orderapp "github.com/dwikikusuma/coffeeshop/internal/order/app"
	orderpg "github.com/dwikikusuma/coffeeshop/internal/order/infra/postgres"
	"github.com/dwikikusuma/coffeeshop/internal/session"
	"github.com/dwikikusuma/coffeeshop/internal/web"
	"github.com/dwikikusuma/coffeeshop/pkg/config"
	"github.com/dwikikusuma/coffeeshop/pkg/logger"
	"github.com/dwikikusuma/coffeeshop/pkg/metrics"
	"github.com/dwikikusuma/coffeeshop/pkg/postgres"
	"github.com/dwikikusuma/coffeeshop/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load error", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service:   "coffeeshop",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	pool, err := postgres.Open(ctx, cfg.Postgres.URL())
	if err != nil {
		log.Error("postgres connect error", slog.Any("err", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Bootstrap(ctx, pool); err != nil {
		log.Error("schema bootstrap error", slog.Any("err", err))
		os.Exit(1)
	}

	var notifier checkoutapp.Notifier = notify.Noop{}
	if cfg.RabbitMQ.Enabled {
		pub, err := notify.NewAMQPPublisher(cfg.RabbitMQ.URL)
		if err != nil {
			log.Error("rabbitmq connect error", slog.Any("err", err))
			os.Exit(1)
		}
		defer pub.Close()
		notifier = pub
	}

	sessions := session.NewPostgresManager(pool)
	locks := session.NewLocks()

	cartStore := cartapp.NewStore()
	catalogSvc := catalogapp.NewService(catalogpg.NewMenuRepo(pool))
	orderSvc := orderapp.NewService(orderpg.NewOrderRepo(pool))
	identitySvc := identityapp.NewService(identitypg.NewUserRepo(pool))

	checkoutSvc := checkoutapp.NewService(
		adapter.NewCartStoreGateway(cartStore),
		adapter.NewCatalogServiceReader(catalogSvc),
		identitySvc,
		adapter.NewOrderServicePlacer(orderSvc),
		notifier,
		locks,
		log,
	)

	m := metrics.New(nil, "coffeeshop")
	handler := web.NewHandler(cartStore, checkoutSvc, catalogSvc, orderSvc, sessions, locks, m, log)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

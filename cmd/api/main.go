package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"driphorizon/internal/catalog"
	"driphorizon/internal/config"
	"driphorizon/internal/db"
	"driphorizon/internal/events"
	"driphorizon/internal/httpserver"
	"driphorizon/internal/metrics"
	orderrepo "driphorizon/internal/repository/order"
	userrepo "driphorizon/internal/repository/user"
	checkoutsvc "driphorizon/internal/service/checkout"
	ordersvc "driphorizon/internal/service/order"
	usersvc "driphorizon/internal/service/user"
	"driphorizon/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if names := cfg.DefaultSecrets(); len(names) > 0 {
		logger.Printf("warning: using development defaults for %s; set them before deploying", strings.Join(names, ", "))
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	products := catalog.Default()
	if cfg.CatalogFile != "" {
		if products, err = catalog.LoadFile(cfg.CatalogFile); err != nil {
			logger.Fatalf("load catalog %s: %v", cfg.CatalogFile, err)
		}
	}
	logger.Printf("catalog ready products=%d", products.Len())

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.OrderEventsTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Printf("close event publisher: %v", err)
		}
	}()

	m := metrics.New()
	sessions := session.NewMemoryStore(cfg.SessionIdleTimeout)
	signer := session.NewSigner(cfg.SessionSecret)

	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:     products,
		Checkout:    checkoutsvc.New(products, sessions, orderRepo, publisher, m, logger),
		Orders:      ordersvc.New(orderRepo, publisher, m, logger),
		Users:       usersvc.New(userRepo, cfg.AdminUsername),
		Sessions:    sessions,
		Signer:      signer,
		Metrics:     m,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go sweepSessions(janitorCtx, sessions, cfg.SessionIdleTimeout, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// sweepSessions drops idle sessions until ctx is done.
func sweepSessions(ctx context.Context, store *session.MemoryStore, idle time.Duration, logger *log.Logger) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(max(idle/2, time.Minute))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				logger.Printf("session janitor: removed=%d live=%d", n, store.Len())
			}
		}
	}
}

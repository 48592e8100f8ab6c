package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/botfleet/console/internal/api/router"
	appconfig "github.com/botfleet/console/internal/config"
	"github.com/botfleet/console/internal/contacts"
	"github.com/botfleet/console/internal/gateway"
	"github.com/botfleet/console/internal/http/handlers"
	"github.com/botfleet/console/internal/observability/metrics"
	"github.com/botfleet/console/internal/ws"
	"github.com/botfleet/console/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting botfleet console",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	gatewayMetrics := metrics.NewGatewayMetrics(nil)
	campaignMetrics := metrics.NewCampaignMetrics(nil)

	gw := gateway.NewClient(cfg.PlatformBaseURL, cfg.PlatformAPIKey, logger,
		gateway.WithTimeout(cfg.PlatformTimeout),
		gateway.WithMetrics(gatewayMetrics),
	)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, contact cache disabled", "addr", cfg.RedisAddr, "error", err)
			rdb = nil
		}
	}
	contactCache := contacts.NewCache(gw, rdb, cfg.ContactCacheTTL, logger)

	hub := ws.NewHub(logger)
	go hub.Run()

	routerCfg := &router.Config{
		Logger:             logger,
		Session:            handlers.NewSessionHandler(gw, logger),
		Campaigns:          handlers.NewCampaignHandler(gw, contactCache, logger, campaignMetrics, hub, cfg.QueueFetchLimit),
		Configs:            handlers.NewConfigHandler(gw, logger),
		Contacts:           handlers.NewContactsHandler(contactCache, logger),
		Dashboard:          handlers.NewDashboardHandler(gw, logger),
		WSHandler:          hub.ServeWS,
		MetricsHandler:     promhttp.Handler(),
		AuthSecret:         cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	logger.Info("server stopped")
}

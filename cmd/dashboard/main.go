// Package main runs the trading-telemetry dashboard service: a poller
// that ingests the published spreadsheet CSV on an interval and an HTTP
// server that renders the result to browsers.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trading-dashboard/internal/config"
	"trading-dashboard/internal/feed"
	"trading-dashboard/internal/observability"
	"trading-dashboard/internal/poller"
	"trading-dashboard/internal/server"
)

func main() {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to YAML config file")
	feedURL := flag.String("feed-url", "", "Published CSV export URL (overrides config)")
	listenAddr := flag.String("listen", "", "HTTP listen address (overrides config)")
	pollInterval := flag.Duration("poll-interval", 0, "Poll interval (overrides config)")
	flag.Parse()

	logger := log.New(os.Stdout, "[dashboard] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *feedURL != "" {
		cfg.FeedURL = *feedURL
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *pollInterval != 0 {
		cfg.PollInterval = *pollInterval
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	metrics := observability.NewMetrics("")

	feedClient := feed.NewClient(cfg.FeedURL,
		feed.WithTimeout(cfg.FetchTimeout),
		feed.WithRelayPrefix(cfg.RelayPrefix),
	)

	srv := server.New(server.Options{
		Logger:         log.New(os.Stdout, "[server] ", log.LstdFlags),
		MetricsHandler: metrics.Handler(),
	})

	p := poller.New(poller.Options{
		Fetcher:     feedClient,
		Publisher:   srv,
		Interval:    cfg.PollInterval,
		SignalCount: cfg.SignalCount,
		ChartWidth:  cfg.ChartWidth,
		ChartHeight: cfg.ChartHeight,
		Metrics:     metrics,
		Logger:      log.New(os.Stdout, "[poller] ", log.LstdFlags),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Handler(),
	}

	go func() {
		logger.Printf("listening on %s, polling %s every %s", cfg.ListenAddr, cfg.FeedURL, cfg.PollInterval)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server: %v", err)
		}
	}()

	go p.Run(ctx)

	<-ctx.Done()
	logger.Printf("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
}

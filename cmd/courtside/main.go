package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/courtside/internal/api/rest"
	"github.com/fortuna/courtside/internal/api/websocket"
	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/config"
	"github.com/fortuna/courtside/internal/games"
	"github.com/fortuna/courtside/internal/ingest/espn"
	"github.com/fortuna/courtside/internal/metrics"
	"github.com/fortuna/courtside/internal/publisher"
	"github.com/fortuna/courtside/internal/replay"
	"github.com/fortuna/courtside/internal/scheduler"
	"github.com/fortuna/courtside/internal/service"
)

const (
	serviceName    = "courtside"
	serviceVersion = "1.0.0"
)

func main() {
	configPath := flag.String("config", os.Getenv("COURTSIDE_CONFIG"), "Path to a YAML config file")
	flag.Parse()

	log.Printf("Starting %s v%s - NBA game cards", serviceName, serviceVersion)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	registry := metrics.NewRegistry()
	espnClient := espn.New(cfg.ESPN.APIBase)

	fetcher, closeFetcher, err := replay.NewFetcher(cfg.Replay.FetchMode)
	if err != nil {
		log.Fatalf("Failed to create replay fetcher: %v", err)
	}
	defer closeFetcher()
	finder := replay.NewFinder(cfg.Replay.BaseURL, fetcher)
	log.Printf("✓ Replay finder: %s (%s)", cfg.Replay.BaseURL, cfg.Replay.FetchMode)

	assembler := games.NewAssembler(espnClient, finder,
		games.WithSportPath(cfg.ESPN.SportPath),
		games.WithObserver(registry),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsServer := websocket.NewServer()
	go wsServer.Run(ctx)

	opts := []service.Option{
		service.WithObserver(registry),
		service.WithBroadcaster(wsServer),
	}

	// Redis is optional; without it cards are only served over HTTP.
	if cfg.RedisURL != "" {
		redisPublisher, err := connectPublisher(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to initialize Redis publisher: %v", err)
		}
		defer redisPublisher.Close()
		opts = append(opts, service.WithPublisher(redisPublisher))
		log.Printf("✓ Publishing finished cards to %s", publisher.FinalCardsStream)
	}

	gameService := service.NewGameService(espnClient, assembler, service.Config{
		SportPath:  cfg.ESPN.SportPath,
		SeasonType: cfg.ESPN.SeasonType,
		Location:   cfg.Location(),
	}, opts...)

	var pollerStatus func() map[string]interface{}
	if cfg.Polling.Enabled {
		pollerConfig := scheduler.DefaultConfig()
		pollerConfig.PollInterval = cfg.Polling.Interval
		pollerConfig.Location = cfg.Location()
		poller := scheduler.NewPoller(gameService, pollerConfig)
		go poller.Start(ctx)
		pollerStatus = poller.GetStatus
		log.Println("✓ Poller started")
	}

	router := rest.NewRouter(gameService, backfill.NewRunner(gameService), rest.Options{
		Metrics:      registry.Handler(),
		Live:         wsServer,
		LiveHealth:   wsServer.HandleHealth,
		StaticDir:    cfg.StaticDir,
		PollerStatus: pollerStatus,
	})
	restServer := rest.NewServer(cfg.Port, router)
	go func() {
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ %s v%s started successfully", serviceName, serviceVersion)
	log.Printf("  REST API:  http://0.0.0.0:%s/api/games", cfg.Port)
	log.Printf("  WebSocket: ws://0.0.0.0:%s/ws/games", cfg.Port)
	log.Printf("  Metrics:   http://0.0.0.0:%s/metrics", cfg.Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Printf("Shutting down %s gracefully...", serviceName)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}

	log.Printf("%s stopped", serviceName)
}

// connectPublisher retries while Redis is still starting.
func connectPublisher(redisURL string) (*publisher.RedisPublisher, error) {
	const maxRetries = 10
	retryDelay := 2 * time.Second

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		p, err := publisher.NewRedisPublisher(redisURL)
		if err == nil {
			return p, nil
		}
		lastErr = err
		log.Printf("Redis publisher attempt %d/%d failed: %v (retrying in %v)", i+1, maxRetries, err, retryDelay)
		time.Sleep(retryDelay)
	}
	return nil, lastErr
}

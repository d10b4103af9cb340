package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"andon-console/config"
	"andon-console/internal/api"
	"andon-console/internal/backend"
	"andon-console/internal/console"
	"andon-console/internal/db"
	"andon-console/internal/menu"
	"andon-console/internal/notification"
	"andon-console/internal/paginate"
	"andon-console/internal/panel"
	"andon-console/internal/record"
	"andon-console/internal/selection"
	"andon-console/internal/store"
	"andon-console/internal/telemetry"
)

func main() {
	logger := log.New(os.Stdout, "andond ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	var resolver backend.Resolver
	if cfg.Backend.BaseURL == "" {
		if !cfg.Backend.MDNS.Enabled {
			logger.Fatalf("backend.base_url is empty and mdns discovery is disabled")
		}
		resolver = backend.NewMDNSResolver(cfg.Backend.MDNS)
		logger.Printf("backend will be discovered via mdns as %s", cfg.Backend.MDNS.Instance)
	}
	records := record.NewStore(backend.NewClient(&cfg.Backend, resolver))

	devices := api.Panel{
		Screen:   panel.NewScreen(),
		Buttons:  panel.NewButtonQueue(cfg.Console.ButtonQueueDepth),
		Switches: &panel.CallSwitches{},
		Lamps:    &panel.Lamps{},
	}

	controller := menu.New(records, selection.NewPersister(appStore), devices.Screen, menu.Options{
		Column:     cfg.Console.Column,
		WindowSize: cfg.Console.WindowSize,
		Mode:       paginate.ParseMode(cfg.Console.ScrollMode),
	})
	controller.Boot(ctx)
	logger.Println("persisted selections loaded")

	deps := console.Deps{
		Controller: controller,
		Records:    records,
		Display:    devices.Screen,
		Input:      devices.Buttons,
		Backlight:  devices.Screen,
		Switches:   devices.Switches,
		Lamps:      devices.Lamps,
	}

	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		workerPool.Start(ctx)
		deps.Alerts = workerPool
	} else {
		logger.Println("VAPID keys are not configured; call alerts will not be pushed")
	}

	var publisher *telemetry.Publisher
	if cfg.Telemetry.Enabled && cfg.Telemetry.URL != "" {
		publisher = telemetry.NewPublisher(&cfg.Telemetry)
		deps.Telemetry = publisher
		logger.Printf("telemetry enabled, sending to %s every %s", cfg.Telemetry.URL, cfg.Telemetry.Interval)
	}

	runner := console.New(deps, console.Options{
		ConsoleID:         cfg.Console.ID,
		PollInterval:      cfg.Console.PollInterval,
		IdlePolls:         cfg.Console.IdlePolls,
		TelemetryInterval: cfg.Telemetry.Interval,
	})
	consoleDone := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(consoleDone)
	}()

	handler := api.NewHandler(appStore, webpushOptions, runner, devices)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP server Shutdown: %v", err)
	}

	cancel()
	<-consoleDone
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Printf("telemetry close: %v", err)
		}
	}

	logger.Println("Console gracefully stopped")
}

// Soundview - Multiroom Audio Dashboard
//
// This is the main entry point for the Soundview daemon. It connects to
// the audio bridge's MQTT broker, mirrors the live player set, and serves
// the dashboard API: player and group reads, playback and grouping
// commands, and a realtime WebSocket channel pushing update envelopes to
// every connected viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/soundview/internal/api"
	"github.com/nerrad567/soundview/internal/bridge"
	"github.com/nerrad567/soundview/internal/control"
	"github.com/nerrad567/soundview/internal/discovery"
	"github.com/nerrad567/soundview/internal/infrastructure/config"
	"github.com/nerrad567/soundview/internal/infrastructure/logging"
	"github.com/nerrad567/soundview/internal/infrastructure/mqtt"
	"github.com/nerrad567/soundview/internal/player"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Soundview",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration; fall back to built-in defaults when no file exists
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Resolve the broker address via mDNS when none is configured
	if cfg.MQTT.Broker.Host == "" && cfg.Discovery.Enabled {
		host, port, findErr := discovery.Find(ctx, cfg.Discovery, log)
		if findErr != nil {
			return fmt.Errorf("discovering broker: %w", findErr)
		}
		cfg.MQTT.Broker.Host = host
		cfg.MQTT.Broker.Port = port
	}

	// Connect to the audio bridge's MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Start the control client: mirrors the bridge's player set
	controlClient, err := control.New(mqttClient, byte(cfg.MQTT.QoS))
	if err != nil {
		return fmt.Errorf("creating control client: %w", err)
	}
	controlClient.SetLogger(log)
	if startErr := controlClient.Start(); startErr != nil {
		return fmt.Errorf("starting control client: %w", startErr)
	}
	log.Info("control client started")

	// Dashboard views and command facade over the device set
	adapter, err := player.NewAdapter(controlClient)
	if err != nil {
		return fmt.Errorf("creating player adapter: %w", err)
	}
	commander, err := player.NewCommander(controlClient)
	if err != nil {
		return fmt.Errorf("creating player commander: %w", err)
	}

	// API server; the hub is created up front so the event bridge can use
	// it as its broadcast sink
	server, err := api.New(api.Deps{
		Config:    cfg.API,
		WS:        cfg.WebSocket,
		Logger:    log,
		Adapter:   adapter,
		Commander: commander,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	hub := server.Hub()

	// Event bridge: device callbacks to viewer envelopes
	eventBridge, err := bridge.New(controlClient, adapter, hub)
	if err != nil {
		return fmt.Errorf("creating event bridge: %w", err)
	}
	eventBridge.Start()
	log.Info("event bridge started")

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify connections are healthy
	if err := healthCheck(ctx, mqttClient, server); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. MQTT

	log.Info("Soundview stopped")
	return nil
}

// loadConfig loads configuration from the configured path, or built-in
// defaults when the path does not exist and was not explicitly set.
// SOUNDVIEW_CONFIG overrides the default path.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("SOUNDVIEW_CONFIG"); path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return config.Load(defaultConfigPath)
	}
	return config.Default()
}

// healthCheck verifies infrastructure connections are healthy.
func healthCheck(ctx context.Context, mqttClient *mqtt.Client, server *api.Server) error {
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

// iiod - industrial-I/O streaming daemon.
//
// This is the main entry point for the daemon. It assembles the device
// context from configuration, starts the streaming engine, and serves one
// command session on stdin/stdout. The daemon owns no socket: run it under
// an inetd-style supervisor (or socat) to expose it on a transport.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/openiio/iiod-core/internal/iio"
	"github.com/openiio/iiod-core/internal/infrastructure/config"
	"github.com/openiio/iiod-core/internal/infrastructure/influxdb"
	"github.com/openiio/iiod-core/internal/infrastructure/logging"
	"github.com/openiio/iiod-core/internal/infrastructure/mqtt"
	"github.com/openiio/iiod-core/internal/shell"
	"github.com/openiio/iiod-core/internal/stream"
	"github.com/openiio/iiod-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
)

// Default configuration file path
const defaultConfigPath = "configs/iiod.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cancel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual daemon logic, separated from main for testability.
func run(ctx context.Context, cancel context.CancelFunc) error {
	configPath := flag.String("config", "", "path to the configuration file")
	verbose := flag.Bool("v", false, "verbose session: prompt and human-readable errors")
	flag.Parse()

	log := logging.Default()
	log.Info("starting iiod", "version", version)

	cfg, err := config.Load(resolveConfigPath(*configPath))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"devices", len(cfg.Devices),
		"level", cfg.Logging.Level,
	)

	// Build the device context from configuration
	devices := make([]iio.Device, 0, len(cfg.Devices))
	for _, devCfg := range cfg.Devices {
		dev, devErr := iio.NewSimDevice(iio.SimConfig{
			ID:         devCfg.ID,
			Name:       devCfg.Name,
			SampleSize: devCfg.SampleSize,
			Waveform:   iio.Waveform(devCfg.Waveform),
			Value:      devCfg.Value,
			Seed:       devCfg.Seed,
			Attributes: devCfg.Attributes,
		})
		if devErr != nil {
			return fmt.Errorf("building device context: %w", devErr)
		}
		devices = append(devices, dev)
		log.Info("device enumerated", "id", dev.ID(), "name", dev.Name(), "sample_size", devCfg.SampleSize)
	}
	iioCtx := iio.NewContext(devices...)

	// Telemetry backends (both optional)
	monitorOpts := []telemetry.Option{telemetry.WithLogger(log)}

	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
		// #nosec G115 -- QoS validated to 0-2 by config
		monitorOpts = append(monitorOpts, telemetry.WithPublisher(mqttClient, byte(cfg.MQTT.QoS)))
	} else {
		log.Info("MQTT disabled")
	}

	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(ctx, cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
		monitorOpts = append(monitorOpts, telemetry.WithMetrics(influxClient))
	} else {
		log.Info("InfluxDB disabled")
	}

	monitor := telemetry.New(monitorOpts...)
	defer monitor.Close()

	// Streaming engine
	registry := stream.NewRegistry()
	registry.SetLogger(log)
	registry.SetMonitor(monitor)
	if cfg.Stream.ReadChunkBytes > 0 {
		registry.SetChunkBytes(cfg.Stream.ReadChunkBytes)
	}

	// One session on stdin/stdout; the supervisor owns the transport
	client := stream.NewClient(iioCtx, os.Stdin, os.Stdout, *verbose)
	session := shell.New(registry, client, version)
	session.SetLogger(log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return session.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		// Unblock the session's scanner if a signal arrived first.
		_ = os.Stdin.Close()
		return nil
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("session: %w", err)
	}

	log.Info("iiod stopped")
	return nil
}

// resolveConfigPath returns the configuration file path: the -config
// flag, the IIOD_CONFIG environment variable, or the default.
func resolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if path := os.Getenv("IIOD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// mqt-bench calibration service
//
// This is the main entry point for the calibration service. It imports
// quantum device calibration data from vendor sources, normalises it into a
// canonical model, and serves it over HTTP alongside an append-only snapshot
// archive. Import and archive events are announced on MQTT and aggregate
// figures are recorded in InfluxDB for drift tracking.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	_ "github.com/Drewniok/mqt-bench/calibrations"
	_ "github.com/Drewniok/mqt-bench/migrations"

	"github.com/Drewniok/mqt-bench/internal/api"
	"github.com/Drewniok/mqt-bench/internal/infrastructure/config"
	"github.com/Drewniok/mqt-bench/internal/infrastructure/database"
	"github.com/Drewniok/mqt-bench/internal/infrastructure/influxdb"
	"github.com/Drewniok/mqt-bench/internal/infrastructure/logging"
	"github.com/Drewniok/mqt-bench/internal/infrastructure/mqtt"
	"github.com/Drewniok/mqt-bench/internal/provider"
	"github.com/Drewniok/mqt-bench/internal/snapshot"
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
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting calibration service",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Point the import layer at an external calibration directory if configured
	if cfg.Calibration.Dir != "" {
		provider.SetCalibrationDir(cfg.Calibration.Dir)
		log.Info("using external calibration directory", "dir", cfg.Calibration.Dir)
	}

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise snapshot archive
	snapshots := snapshot.NewSQLiteRepository(db.DB)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
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
		mqttClient.SetLogger(log.With("component", "mqtt"))
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Import the configured catalogue at boot (optional)
	if cfg.Calibration.ImportOnStartup {
		if sweepErr := importSweep(ctx, cfg, log, snapshots, mqttClient, influxClient); sweepErr != nil {
			return fmt.Errorf("startup import sweep: %w", sweepErr)
		}
	}

	// Start API server
	server, err := api.New(api.Deps{
		Config:    cfg.API,
		WS:        cfg.WebSocket,
		Security:  cfg.Security,
		Logger:    log,
		Snapshots: snapshots,
		MQTT:      mqttClient,
		Influx:    influxClient,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, server, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("calibration service stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses MQTBENCH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("MQTBENCH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// importSweep imports every configured device, archives a snapshot of each,
// and publishes import events and summary metrics.
//
// A failure on one device aborts the sweep; a service booting with a broken
// calibration source is better caught than papered over.
func importSweep(ctx context.Context, cfg *config.Config, log *logging.Logger, snapshots snapshot.Repository, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	sanitize := cfg.Calibration.SanitizeOnImport

	for _, p := range provider.All() {
		if len(cfg.Calibration.Providers) > 0 && !slices.Contains(cfg.Calibration.Providers, p.Name()) {
			continue
		}

		for _, name := range p.DeviceNames() {
			start := time.Now()
			dev, err := provider.GetDevice(p, name, sanitize)
			elapsed := time.Since(start)

			if influxClient != nil {
				influxClient.WriteImportDuration(p.Name(), name, elapsed, err == nil)
			}
			if err != nil {
				return fmt.Errorf("importing %s/%s: %w", p.Name(), name, err)
			}

			snap, err := snapshot.New(p.Name(), dev, sanitize)
			if err != nil {
				return fmt.Errorf("encoding snapshot for %s: %w", name, err)
			}
			if err := snapshots.Save(ctx, snap); err != nil {
				return fmt.Errorf("archiving snapshot for %s: %w", name, err)
			}

			summary := dev.Summarize()
			publishImportEvent(log, mqttClient, snap, summary)
			if influxClient != nil {
				influxClient.WriteCalibrationSummary(p.Name(), name, summary, sanitize)
			}

			log.Info("device imported",
				"provider", p.Name(),
				"device", name,
				"num_qubits", dev.NumQubits,
				"sanitized", sanitize,
				"duration_ms", elapsed.Milliseconds(),
			)
		}
	}
	return nil
}

// publishImportEvent announces a completed import on the broker.
// Best-effort; the sweep does not depend on broker availability.
func publishImportEvent(log *logging.Logger, mqttClient *mqtt.Client, snap *snapshot.Snapshot, summary any) {
	if mqttClient == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"snapshot_id": snap.ID,
		"provider":    snap.Provider,
		"device":      snap.Device,
		"sanitized":   snap.Sanitized,
		"summary":     summary,
	})
	if err != nil {
		return
	}

	topic := mqtt.Topics{}.CalibrationImported(snap.Provider, snap.Device)
	if err := mqttClient.Publish(topic, payload, 1, false); err != nil {
		log.Warn("failed to publish import event", "topic", topic, "error", err)
	}
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - server: API server to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, server *api.Server, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

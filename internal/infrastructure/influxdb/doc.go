// Package influxdb provides InfluxDB connectivity for the calibration service.
//
// It wraps the official influxdb-client-go v2 library with service-specific
// patterns for connection management, metric writing, and health monitoring.
//
// # Purpose
//
// This package handles time-series data storage for:
//   - Calibration summary metrics (mean fidelities, decoherence times)
//   - Import pipeline timings
//
// Tracking summaries over successive imports makes calibration drift visible
// without storing every full snapshot in the time-series database; the
// complete documents live in the SQLite archive.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "mqtbench",
//	    Bucket: "metrics",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Write a calibration summary
//	client.WriteCalibrationSummary("ibm", dev.Name, dev.Summarize(), false)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// This reduces network overhead when sweeping a full device catalogue.
package influxdb

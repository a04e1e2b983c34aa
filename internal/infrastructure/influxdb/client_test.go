package influxdb_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Drewniok/mqt-bench/internal/device"
	"github.com/Drewniok/mqt-bench/internal/infrastructure/config"
	"github.com/Drewniok/mqt-bench/internal/infrastructure/influxdb"
)

// testConfig returns a configuration for the local dev InfluxDB.
// These values match docker-compose.yml.
func testConfig() config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           "http://127.0.0.1:8086",
		Token:         "mqtbench-dev-token",
		Org:           "mqtbench",
		Bucket:        "metrics",
		BatchSize:     100,
		FlushInterval: 1, // 1 second for faster test feedback
	}
}

// connectOrSkip connects to the local dev InfluxDB, skipping if unavailable.
func connectOrSkip(t *testing.T) *influxdb.Client {
	t.Helper()
	client, err := influxdb.Connect(testConfig())
	if err != nil {
		t.Skipf("InfluxDB not available, skipping integration test: %v", err)
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // Test cleanup
	return client
}

// trackErrors registers an error callback and returns a getter for the last
// asynchronous write error.
func trackErrors(client *influxdb.Client) func() error {
	var mu sync.Mutex
	var writeErr error
	client.SetOnError(func(err error) {
		mu.Lock()
		writeErr = err
		mu.Unlock()
	})
	return func() error {
		mu.Lock()
		defer mu.Unlock()
		return writeErr
	}
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestConnect(t *testing.T) {
	client := connectOrSkip(t)

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect()")
	}
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	_, err := influxdb.Connect(cfg)
	if err == nil {
		t.Fatal("Connect() should return error when disabled")
	}
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_InvalidURL(t *testing.T) {
	cfg := testConfig()
	cfg.URL = "http://127.0.0.1:59999" // Non-existent port

	_, err := influxdb.Connect(cfg)
	if err == nil {
		t.Fatal("Connect() should return error for invalid URL")
	}
}

// =============================================================================
// Health Check Tests
// =============================================================================

func TestHealthCheck(t *testing.T) {
	client := connectOrSkip(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestHealthCheck_Cancelled(t *testing.T) {
	client := connectOrSkip(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() should return error for cancelled context")
	}
}

// =============================================================================
// Write Tests
// =============================================================================

func TestWriteCalibrationSummary(t *testing.T) {
	client := connectOrSkip(t)
	lastErr := trackErrors(client)

	summary := device.Summary{
		NumQubits:            27,
		MeanT1:               1.2e-4,
		MeanT2:               8.9e-5,
		MeanReadoutFidelity:  0.974,
		MeanSingleQubitGateF: 0.9991,
		MeanTwoQubitGateF:    0.986,
	}
	client.WriteCalibrationSummary("ibm", "ibm_montreal", summary, false)
	client.Flush()

	time.Sleep(100 * time.Millisecond)

	if err := lastErr(); err != nil {
		t.Errorf("Write error = %v", err)
	}
}

func TestWriteImportDuration(t *testing.T) {
	client := connectOrSkip(t)
	lastErr := trackErrors(client)

	client.WriteImportDuration("oqc", "oqc_lucy", 42*time.Millisecond, true)
	client.Flush()

	time.Sleep(100 * time.Millisecond)

	if err := lastErr(); err != nil {
		t.Errorf("Write error = %v", err)
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestClose(t *testing.T) {
	client := connectOrSkip(t)

	client.WriteImportDuration("ibm", "ibm_washington", time.Millisecond, true)

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}
}

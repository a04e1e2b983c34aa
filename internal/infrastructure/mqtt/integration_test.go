//go:build integration

package mqtt

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Drewniok/mqt-bench/internal/infrastructure/config"
)

// Integration tests that need a running broker at 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -count=1 -v ./internal/infrastructure/mqtt/...

func integrationConfig(clientID string) config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: clientID,
			TLS:      false,
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func connectIntegration(t *testing.T, clientID string) *Client {
	t.Helper()
	client, err := Connect(integrationConfig(clientID))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // Test cleanup
	return client
}

// TestIntegration_OnlineStatusRetained verifies the retained status message
// a fresh subscriber sees after the service connects.
func TestIntegration_OnlineStatusRetained(t *testing.T) {
	connectIntegration(t, "mqtbench-int-status")

	// Give the OnConnect handler time to publish the status.
	time.Sleep(200 * time.Millisecond)

	watcher := connectIntegration(t, "mqtbench-int-status-watch")

	received := make(chan []byte, 1)
	var once sync.Once
	err := watcher.Subscribe(Topics{}.SystemStatus(), 1, func(_ string, payload []byte) error {
		once.Do(func() { received <- payload })
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	select {
	case payload := <-received:
		var status struct {
			Status   string `json:"status"`
			ClientID string `json:"client_id"`
		}
		if err := json.Unmarshal(payload, &status); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", payload, err)
		}
		if status.Status != "online" {
			t.Errorf("status = %q, want %q", status.Status, "online")
		}
		if status.ClientID != "mqtbench-int-status" {
			t.Errorf("client_id = %q, want %q", status.ClientID, "mqtbench-int-status")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no retained status message received")
	}
}

// TestIntegration_HandlerErrorLogged verifies that a handler error reaches
// the configured logger as a warning.
func TestIntegration_HandlerErrorLogged(t *testing.T) {
	pub := connectIntegration(t, "mqtbench-int-err-pub")
	sub := connectIntegration(t, "mqtbench-int-err-sub")

	logger := &recordingLogger{}
	sub.SetLogger(logger)

	topic := Topics{}.CalibrationImported("ibm", "ibm_washington")
	err := sub.Subscribe(topic, 1, func(string, []byte) error {
		return errors.New("stale payload")
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := pub.Publish(topic, []byte("{}"), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	deadline := time.After(5 * time.Second)
	for logger.warnCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("handler error never reached the logger")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// TestIntegration_HandlerPanicRecovered verifies a panicking handler is
// contained and reported instead of crashing the paho router.
func TestIntegration_HandlerPanicRecovered(t *testing.T) {
	pub := connectIntegration(t, "mqtbench-int-panic-pub")
	sub := connectIntegration(t, "mqtbench-int-panic-sub")

	logger := &recordingLogger{}
	sub.SetLogger(logger)

	topic := Topics{}.SnapshotArchived("iqm", "iqm_apollo")
	err := sub.Subscribe(topic, 1, func(string, []byte) error {
		panic("malformed summary")
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := pub.Publish(topic, []byte("{}"), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	deadline := time.After(5 * time.Second)
	for logger.errorCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("handler panic never reached the logger")
		case <-time.After(50 * time.Millisecond):
		}
	}

	// The subscriber must still be usable after the panic.
	if err := sub.HealthCheck(t.Context()); err != nil {
		t.Errorf("HealthCheck() after handler panic error = %v", err)
	}
}

// recordingLogger implements Logger and counts what it sees.
type recordingLogger struct {
	mu     sync.Mutex
	errors []string
	warns  []string
}

func (l *recordingLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	l.errors = append(l.errors, msg)
	l.mu.Unlock()
}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

func (l *recordingLogger) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

func (l *recordingLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warns)
}

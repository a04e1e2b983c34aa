package mqtt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Drewniok/mqt-bench/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "mqtbench-test",
			TLS:      false,
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// connectOrSkip connects to the local test broker, skipping the test if no
// broker is running at 127.0.0.1:1883.
func connectOrSkip(t *testing.T, cfg config.MQTTConfig) *Client {
	t.Helper()
	client, err := Connect(cfg)
	if err != nil {
		t.Skipf("no local MQTT broker available: %v", err)
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // Test cleanup
	return client
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestConnect(t *testing.T) {
	client := connectOrSkip(t, testConfig())

	if !client.IsConnected() {
		t.Error("IsConnected() = false, want true")
	}
}

func TestClose(t *testing.T) {
	client := connectOrSkip(t, testConfig())

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close(), want false")
	}
}

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on zero client error = %v, want nil", err)
	}
}

// =============================================================================
// HealthCheck Tests
// =============================================================================

func TestHealthCheck(t *testing.T) {
	client := connectOrSkip(t, testConfig())

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v, want nil", err)
	}
}

func TestHealthCheckNotConnected(t *testing.T) {
	client := &Client{}
	err := client.HealthCheck(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestHealthCheckCancelled(t *testing.T) {
	client := &Client{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() with cancelled context expected error")
	}
}

// =============================================================================
// Publish Validation Tests
// =============================================================================

func TestPublishValidation(t *testing.T) {
	client := &Client{}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{
			name:    "empty topic",
			topic:   "",
			payload: []byte("x"),
			qos:     1,
			wantErr: ErrInvalidTopic,
		},
		{
			name:    "invalid qos",
			topic:   Topics{}.SystemStatus(),
			payload: []byte("x"),
			qos:     3,
			wantErr: ErrInvalidQoS,
		},
		{
			name:    "oversized payload",
			topic:   Topics{}.SystemStatus(),
			payload: make([]byte, maxPayloadSize+1),
			qos:     1,
			wantErr: ErrPublishFailed,
		},
		{
			name:    "not connected",
			topic:   Topics{}.SystemStatus(),
			payload: []byte("x"),
			qos:     1,
			wantErr: ErrNotConnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}

	if err := client.Subscribe("", 1, func(string, []byte) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe() with empty topic error = %v, want ErrInvalidTopic", err)
	}
	if err := client.Subscribe("t", 3, func(string, []byte) error { return nil }); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Subscribe() with qos 3 error = %v, want ErrInvalidQoS", err)
	}
	if err := client.Subscribe("t", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe() with nil handler error = %v, want ErrSubscribeFailed", err)
	}
}

// =============================================================================
// Round-Trip Tests (require a local broker)
// =============================================================================

func TestPublishSubscribeRoundTrip(t *testing.T) {
	pubCfg := testConfig()
	pubCfg.Broker.ClientID = "mqtbench-test-pub"
	pub := connectOrSkip(t, pubCfg)

	subCfg := testConfig()
	subCfg.Broker.ClientID = "mqtbench-test-sub"
	sub := connectOrSkip(t, subCfg)

	topic := Topics{}.CalibrationImported("ibm", "ibm_montreal")
	received := make(chan []byte, 1)

	err := sub.Subscribe(topic, 1, func(_ string, payload []byte) error {
		received <- payload
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	want := []byte(`{"num_qubits":27}`)
	if err := pub.Publish(topic, want, 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case got := <-received:
		if string(got) != string(want) {
			t.Errorf("received %s, want %s", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestSubscribeWildcard(t *testing.T) {
	pubCfg := testConfig()
	pubCfg.Broker.ClientID = "mqtbench-test-wild-pub"
	pub := connectOrSkip(t, pubCfg)

	subCfg := testConfig()
	subCfg.Broker.ClientID = "mqtbench-test-wild-sub"
	sub := connectOrSkip(t, subCfg)

	var mu sync.Mutex
	var topics []string

	err := sub.Subscribe(Topics{}.AllCalibrationEvents(), 1, func(topic string, _ []byte) error {
		mu.Lock()
		topics = append(topics, topic)
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	published := []string{
		Topics{}.CalibrationImported("ibm", "ibm_montreal"),
		Topics{}.CalibrationImported("oqc", "oqc_lucy"),
		Topics{}.CalibrationImported("ionq", "ionq_aria1"),
	}
	for _, topic := range published {
		if err := pub.Publish(topic, []byte("{}"), 1, false); err != nil {
			t.Fatalf("Publish(%s) error = %v", topic, err)
		}
	}

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		n := len(topics)
		mu.Unlock()
		if n >= len(published) {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("received %d messages, want %d", n, len(published))
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	client := connectOrSkip(t, testConfig())

	topic := Topics{}.SnapshotArchived("iqm", "iqm_adonis")
	if err := client.Subscribe(topic, 1, func(string, []byte) error { return nil }); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if !client.HasSubscription(topic) {
		t.Error("HasSubscription() = false after Subscribe")
	}

	if err := client.Unsubscribe(topic); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if client.HasSubscription(topic) {
		t.Error("HasSubscription() = true after Unsubscribe")
	}
}

// =============================================================================
// Topic Builder Tests
// =============================================================================

func TestTopics(t *testing.T) {
	tests := []struct {
		name     string
		build    func() string
		expected string
	}{
		{
			name: "CalibrationImported",
			build: func() string {
				return Topics{}.CalibrationImported("ibm", "ibm_montreal")
			},
			expected: "mqtbench/calibration/ibm/ibm_montreal",
		},
		{
			name: "SnapshotArchived",
			build: func() string {
				return Topics{}.SnapshotArchived("oqc", "oqc_lucy")
			},
			expected: "mqtbench/snapshot/oqc/oqc_lucy",
		},
		{
			name: "SystemStatus",
			build: func() string {
				return Topics{}.SystemStatus()
			},
			expected: "mqtbench/system/status",
		},
		{
			name: "AllCalibrationEvents",
			build: func() string {
				return Topics{}.AllCalibrationEvents()
			},
			expected: "mqtbench/calibration/+/+",
		},
		{
			name: "AllSnapshotEvents",
			build: func() string {
				return Topics{}.AllSnapshotEvents()
			},
			expected: "mqtbench/snapshot/+/+",
		},
		{
			name: "ProviderCalibrationEvents",
			build: func() string {
				return Topics{}.ProviderCalibrationEvents("iqm")
			},
			expected: "mqtbench/calibration/iqm/+",
		},
		{
			name: "AllTopics",
			build: func() string {
				return Topics{}.AllTopics()
			},
			expected: "mqtbench/#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

// Package mqtt provides MQTT client connectivity for the calibration service.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The service publishes calibration import and snapshot archive events so
// downstream consumers (compilation pipelines, dashboards) can react to fresh
// device data without polling the HTTP API.
//
//	Calibration Service → MQTT Broker → Consumers
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all import events
//	err = client.Subscribe(mqtt.Topics{}.AllCalibrationEvents(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish an import event
//	topic := mqtt.Topics{}.CalibrationImported("ibm", "ibm_montreal")
//	client.Publish(topic, summaryJSON, 1, false)
package mqtt

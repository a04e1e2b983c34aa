package mqtt

import (
	"fmt"
)

// maxPayloadSize caps publishes at 1MB, in line with common broker limits.
// A full 127-qubit calibration summary is a few kilobytes.
const maxPayloadSize = 1 << 20

// Publish sends payload to topic and waits for broker acknowledgment.
//
// Import and archive events go out with qos 1 and retained false; only the
// status topic uses retained messages. Fails fast with ErrInvalidTopic,
// ErrInvalidQoS or ErrPublishFailed on bad input, ErrNotConnected when the
// broker is away.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

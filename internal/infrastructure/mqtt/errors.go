package mqtt

import "errors"

// Sentinel errors, checked with errors.Is.
var (
	// ErrNotConnected indicates the client is closed or the broker is away.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed indicates the initial connection attempt failed.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed indicates a publish was rejected or timed out.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed indicates a subscribe was rejected or timed out.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrUnsubscribeFailed indicates an unsubscribe was rejected or timed out.
	ErrUnsubscribeFailed = errors.New("mqtt: unsubscribe failed")

	// ErrInvalidQoS indicates a QoS level outside 0..2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrInvalidTopic indicates an empty topic.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")
)

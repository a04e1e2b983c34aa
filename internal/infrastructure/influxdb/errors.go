package influxdb

import "errors"

// Sentinel errors, checked with errors.Is. Write failures are not here:
// writes are async and surface through the SetOnError callback instead.
var (
	// ErrNotConnected indicates the client is closed or never connected.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed indicates the initial connection attempt failed.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrDisabled indicates the influxdb config section is disabled.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)

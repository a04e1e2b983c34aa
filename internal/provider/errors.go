package provider

import "errors"

// Sentinel errors for calibration import operations.
var (
	// ErrProviderNotFound is returned when no registered provider matches
	// the requested name.
	ErrProviderNotFound = errors.New("provider: not found")

	// ErrUnknownDevice is returned when a device name is not in the
	// provider's enumeration. Fatal to that call, never retried.
	ErrUnknownDevice = errors.New("provider: unknown device")

	// ErrMalformedCalibration is returned when raw calibration data is
	// missing a required key, has a wrong type, or references a qubit or
	// edge that is absent from the properties block.
	ErrMalformedCalibration = errors.New("provider: malformed calibration data")

	// ErrUnsupportedSource is returned when a live-object import encounters
	// an instruction the importer has no mapping for. Only the documented
	// exceptions (reset, delay) are skipped; anything else is an error
	// rather than silently dropped.
	ErrUnsupportedSource = errors.New("provider: unsupported instruction in calibration source")

	// ErrCalibrationUnavailable is returned when no calibration file can be
	// located for an enumerated device.
	ErrCalibrationUnavailable = errors.New("provider: calibration file unavailable")
)

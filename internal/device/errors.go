package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrValueNotAvailable) {
//	    // treat as unknown, fall back or skip
//	}
var (
	// ErrNoCalibration is returned when an accessor is called on a device
	// without attached calibration data.
	ErrNoCalibration = errors.New("device: no calibration data attached")

	// ErrValueNotAvailable is returned when a calibration table has no entry
	// for the requested qubit, pair, or gate. Absent means unknown, not zero.
	ErrValueNotAvailable = errors.New("device: calibration value not available")

	// ErrInvalidDevice is returned when the static device description fails
	// validation (empty name, non-positive qubit count, out-of-range edge).
	ErrInvalidDevice = errors.New("device: invalid device description")

	// ErrInvalidCalibration is returned when calibration data violates the
	// model invariants (index out of range, fidelity outside [0,1], negative
	// duration, or an edge key missing from the coupling map).
	ErrInvalidCalibration = errors.New("device: invalid calibration data")
)

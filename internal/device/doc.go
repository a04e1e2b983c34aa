// Package device provides the canonical quantum device model for MQT Bench.
//
// A Device is the normalised, vendor-independent description of a quantum
// computer: its size, native gate vocabulary, two-qubit connectivity, and the
// measured calibration data attached to it. Vendor importers (see
// internal/provider) populate this model from heterogeneous raw formats;
// downstream benchmark generation consumes it without knowing which vendor
// the data came from.
//
// # Key Types
//
//   - Device: static device description plus attached Calibration
//   - Calibration: per-qubit and per-edge fidelity/duration tables
//   - QubitPair: ordered two-qubit edge, the key type for two-qubit tables
//   - Summary: aggregate calibration statistics for metrics export
//
// # Units and Semantics
//
// All durations and decoherence times are SI seconds regardless of the
// vendor's native unit; all fidelities are probabilities in [0, 1]. The
// calibration tables are sparse: an absent key means "unknown", never
// "perfect" or "instant". Accessors return ErrValueNotAvailable for absent
// entries instead of a zero value, so callers cannot mistake missing data
// for a perfect gate.
//
// # Lifecycle
//
// A Device is populated entirely during one import call and never mutated
// afterwards, with one exception: Sanitize replaces the calibration
// wholesale with a cleaned copy (invalid entries dropped, missing entries
// imputed from table means). Devices are not shared across providers.
//
// # Thread Safety
//
// Devices are not synchronised. Imports construct fresh instances per call,
// so concurrent imports are safe; sharing a single Device across goroutines
// is safe only for reads.
package device

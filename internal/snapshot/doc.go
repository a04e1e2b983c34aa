// Package snapshot archives imported device calibrations.
//
// Every archived snapshot is the full canonical device document at import
// time, serialised as JSON, together with the provider, device name, qubit
// count and whether sanitisation was applied. Snapshots are immutable once
// written; the archive is append-only so calibration drift can be tracked
// across imports.
package snapshot

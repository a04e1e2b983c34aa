// Package provider imports vendor calibration data into the canonical
// device model.
//
// Each quantum hardware vendor publishes calibration data in its own format,
// units, and gate-set naming. A Provider knows one vendor: it enumerates the
// devices the vendor offers, declares the vendor's native gate vocabulary,
// and parses the vendor's raw calibration into a device.Device with SI units
// and probability fidelities.
//
// # Architecture
//
//	┌───────────────────────────────────────────────────────────────────┐
//	│                            provider                               │
//	│                                                                   │
//	│  ┌──────────────┐   ┌────────────────┐   ┌────────────────────┐   │
//	│  │   Provider   │   │    Registry    │   │  Vendor importers  │   │
//	│  │ (provider.go)│◀──│ (registry.go)  │   │ ibm.go  ibmopen.go │   │
//	│  │              │   │                │   │ ionq.go iqm.go     │   │
//	│  │ • contract   │   │ • All/ByName   │   │ oqc.go quantinuum  │   │
//	│  │ • GetDevice  │   │ • DeviceByName │   │ • JSON parsing     │   │
//	│  │ • derived ops│   │                │   │ • unit conversion  │   │
//	│  └──────────────┘   └────────────────┘   └────────────────────┘   │
//	└───────────────────────────────────────────────────────────────────┘
//
// # Usage
//
//	// Blank-import the embedded calibration files once, e.g. in main:
//	import _ "github.com/Drewniok/mqt-bench/calibrations"
//
//	p, err := provider.ByName("ibm")
//	dev, err := provider.GetDevice(p, "ibm_montreal", false)
//	gateSets, err := provider.AvailableBasisGates(p)
//
// Providers are stateless value types; all methods are safe for concurrent
// use. Nothing is cached: every GetDevice call re-parses the source, so
// repeated calls are idempotent but not memoised.
//
// # Calibration sources
//
// File-based importers resolve "{device}_calibration.json" from an optional
// override directory (SetCalibrationDir) first, then from the embedded
// calibration set registered by the calibrations package. Live-object
// importers (live.go) read from caller-supplied, already-fetched backend
// objects and perform no I/O.
package provider

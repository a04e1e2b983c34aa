// Package calibrations embeds the bundled calibration snapshots into the
// binary.
//
// This allows devices to be imported without any calibration files present
// on the filesystem - the snapshots are compiled into the executable.
// Importing this package for its side effect is enough:
//
//	import _ "github.com/Drewniok/mqt-bench/calibrations"
package calibrations

import (
	"embed"

	"github.com/Drewniok/mqt-bench/internal/provider"
)

//go:embed *.json
var calibrationFS embed.FS

func init() {
	// Register the embedded snapshots with the provider package.
	// The embed directive above captures all .json files in this directory.
	provider.CalibrationFS = calibrationFS
}

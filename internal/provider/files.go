package provider

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// CalibrationFS holds the embedded calibration files. The calibrations
// package sets it from its init function; importing that package for side
// effects is enough to make the bundled snapshots available.
var CalibrationFS fs.FS

var (
	calibrationDirMu sync.RWMutex
	calibrationDir   string
)

// SetCalibrationDir points file-based importers at a directory of calibration
// snapshots. Files found there take precedence over the embedded set; devices
// without a file in the directory fall back to the embedded copy. Passing an
// empty string restores embedded-only resolution.
func SetCalibrationDir(dir string) {
	calibrationDirMu.Lock()
	calibrationDir = dir
	calibrationDirMu.Unlock()
}

// readCalibration loads the raw calibration snapshot for a device, trying the
// override directory first and the embedded set second.
func readCalibration(deviceName string) ([]byte, error) {
	filename := deviceName + "_calibration.json"

	calibrationDirMu.RLock()
	dir := calibrationDir
	calibrationDirMu.RUnlock()

	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, filename))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrCalibrationUnavailable, filename, err)
		}
	}

	if CalibrationFS == nil {
		return nil, fmt.Errorf("%w: no calibration source configured for %q", ErrCalibrationUnavailable, deviceName)
	}
	data, err := fs.ReadFile(CalibrationFS, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCalibrationUnavailable, filename, err)
	}
	return data, nil
}

package provider

import "github.com/Drewniok/mqt-bench/internal/device"

// IBMOpenAccessProvider imports the open-access IBM devices. The snapshot
// format matches the premium IBM one except that the entangling gate is ecr,
// with edge tables eECR (error) and tECR (duration, ns).
type IBMOpenAccessProvider struct{}

// Name returns "ibm_open_access".
func (IBMOpenAccessProvider) Name() string { return "ibm_open_access" }

// DeviceNames returns the available open-access IBM devices.
// NOTE: update when adding new devices.
func (IBMOpenAccessProvider) DeviceNames() []string {
	return []string{"ibm_kyiv", "ibm_brisbane", "ibm_sherbrooke"}
}

// NativeGates returns the open-access IBM native gate set.
func (IBMOpenAccessProvider) NativeGates() []string {
	return []string{"id", "rz", "sx", "x", "ecr", "measure", "barrier"}
}

// ImportDevice loads and parses the calibration snapshot for an open-access
// IBM device.
func (IBMOpenAccessProvider) ImportDevice(name string) (*device.Device, error) {
	data, err := readCalibration(name)
	if err != nil {
		return nil, err
	}
	return parseIBMCalibration(data, "ecr")
}

package provider

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Drewniok/mqt-bench/internal/device"
)

// IBMProvider imports premium IBM devices from their calibration snapshots.
type IBMProvider struct{}

// Name returns "ibm".
func (IBMProvider) Name() string { return "ibm" }

// DeviceNames returns the available IBM devices.
// NOTE: update when adding new devices.
func (IBMProvider) DeviceNames() []string {
	return []string{"ibm_washington", "ibm_montreal"}
}

// NativeGates returns the IBM native gate set.
func (IBMProvider) NativeGates() []string {
	return []string{"id", "rz", "sx", "x", "cx", "measure", "barrier"}
}

// ImportDevice loads and parses the calibration snapshot for an IBM device.
func (IBMProvider) ImportDevice(name string) (*device.Device, error) {
	data, err := readCalibration(name)
	if err != nil {
		return nil, err
	}
	return parseIBMCalibration(data, "cx")
}

// ibmCalibrationFile is the raw on-disk layout shared by the premium and
// open-access IBM formats. Properties are keyed by decimal qubit index;
// scalar fields are pointers so an absent key is distinguishable from zero.
// The two-qubit tables live under the control qubit's block, keyed
// "{control}_{target}": eCX/tCX for premium devices, eECR/tECR for
// open-access ones.
type ibmCalibrationFile struct {
	Name         string                        `json:"name"`
	BasisGates   []string                      `json:"basis_gates"`
	NumQubits    int                           `json:"num_qubits"`
	Connectivity [][]int                       `json:"connectivity"`
	Properties   map[string]ibmQubitProperties `json:"properties"`
}

type ibmQubitProperties struct {
	T1   *float64           `json:"T1"` // us
	T2   *float64           `json:"T2"` // us
	ERO  *float64           `json:"eRO"`
	TRO  *float64           `json:"tRO"` // ns
	EID  *float64           `json:"eID"`
	ESX  *float64           `json:"eSX"`
	EX   *float64           `json:"eX"`
	ECX  map[string]float64 `json:"eCX"`
	TCX  map[string]float64 `json:"tCX"` // ns
	EECR map[string]float64 `json:"eECR"`
	TECR map[string]float64 `json:"tECR"` // ns
}

// parseIBMCalibration converts a raw IBM-format snapshot into the canonical
// model. twoQubitGate selects the entangling gate and with it which edge
// tables are read: "cx" reads eCX/tCX, "ecr" reads eECR/tECR.
func parseIBMCalibration(data []byte, twoQubitGate string) (*device.Device, error) {
	var raw ibmCalibrationFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCalibration, err)
	}
	if raw.Name == "" || raw.NumQubits <= 0 {
		return nil, fmt.Errorf("%w: missing device name or qubit count", ErrMalformedCalibration)
	}

	dev := &device.Device{
		Name:        raw.Name,
		NumQubits:   raw.NumQubits,
		BasisGates:  raw.BasisGates,
		Calibration: device.NewCalibration(),
	}
	cal := dev.Calibration

	for qubit := 0; qubit < raw.NumQubits; qubit++ {
		props, ok := raw.Properties[strconv.Itoa(qubit)]
		if !ok {
			return nil, fmt.Errorf("%w: no properties for qubit %d", ErrMalformedCalibration, qubit)
		}
		if props.T1 == nil || props.T2 == nil || props.ERO == nil || props.TRO == nil ||
			props.EID == nil || props.ESX == nil || props.EX == nil {
			return nil, fmt.Errorf("%w: incomplete properties for qubit %d", ErrMalformedCalibration, qubit)
		}

		cal.SingleQubitGateFidelity[qubit] = map[string]float64{
			"id": 1 - *props.EID,
			"rz": 1, // rz is always perfect
			"sx": 1 - *props.ESX,
			"x":  1 - *props.EX,
		}
		cal.ReadoutFidelity[qubit] = 1 - *props.ERO
		cal.ReadoutDuration[qubit] = *props.TRO * nanosecondsToSeconds
		cal.T1[qubit] = *props.T1 * microsecondsToSeconds
		cal.T2[qubit] = *props.T2 * microsecondsToSeconds
	}

	for _, edge := range raw.Connectivity {
		if len(edge) != 2 {
			return nil, fmt.Errorf("%w: connectivity entry %v is not a pair", ErrMalformedCalibration, edge)
		}
		pair := device.Pair(edge[0], edge[1])
		dev.CouplingMap = append(dev.CouplingMap, pair)

		props, ok := raw.Properties[strconv.Itoa(pair.Control)]
		if !ok {
			return nil, fmt.Errorf("%w: no properties for qubit %d", ErrMalformedCalibration, pair.Control)
		}
		errors, durations := props.ECX, props.TCX
		if twoQubitGate == "ecr" {
			errors, durations = props.EECR, props.TECR
		}

		key := pair.String()
		gateError, ok := errors[key]
		if !ok {
			return nil, fmt.Errorf("%w: qubit %d has no %s error for edge %s", ErrMalformedCalibration, pair.Control, twoQubitGate, key)
		}
		duration, ok := durations[key]
		if !ok {
			return nil, fmt.Errorf("%w: qubit %d has no %s duration for edge %s", ErrMalformedCalibration, pair.Control, twoQubitGate, key)
		}

		cal.TwoQubitGateFidelity[pair] = map[string]float64{twoQubitGate: 1 - gateError}
		cal.TwoQubitGateDuration[pair] = map[string]float64{twoQubitGate: duration * nanosecondsToSeconds}
	}

	return dev, nil
}

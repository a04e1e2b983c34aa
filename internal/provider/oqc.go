package provider

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Drewniok/mqt-bench/internal/device"
)

// OQCProvider imports Oxford Quantum Circuits devices.
//
// OQC snapshots report fidelities directly rather than as error rates: fRB is
// the randomized-benchmarking fidelity shared by all single-qubit gates, fRO
// the readout fidelity, fECR the per-edge entangling fidelity. No gate or
// readout durations are published, so the duration tables stay empty and
// those values read as unknown.
type OQCProvider struct{}

// Name returns "oqc".
func (OQCProvider) Name() string { return "oqc" }

// DeviceNames returns the available OQC devices.
// NOTE: update when adding new devices.
func (OQCProvider) DeviceNames() []string {
	return []string{"oqc_lucy"}
}

// NativeGates returns the OQC native gate set.
func (OQCProvider) NativeGates() []string {
	return []string{"rz", "sx", "x", "ecr", "measure", "barrier"}
}

type oqcCalibrationFile struct {
	Name         string   `json:"name"`
	BasisGates   []string `json:"basis_gates"`
	NumQubits    int      `json:"num_qubits"`
	Connectivity [][]int  `json:"connectivity"`
	Properties   struct {
		OneQubit map[string]oqcQubitProperties  `json:"one_qubit"`
		TwoQubit map[string]oqcTwoQubitProperty `json:"two_qubit"`
	} `json:"properties"`
}

type oqcQubitProperties struct {
	T1  *float64 `json:"T1"` // us
	T2  *float64 `json:"T2"` // us
	FRB *float64 `json:"fRB"`
	FRO *float64 `json:"fRO"`
}

type oqcTwoQubitProperty struct {
	FECR *float64 `json:"fECR"`
}

// ImportDevice loads and parses the calibration snapshot for an OQC device.
func (OQCProvider) ImportDevice(name string) (*device.Device, error) {
	data, err := readCalibration(name)
	if err != nil {
		return nil, err
	}

	var raw oqcCalibrationFile
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
		props, ok := raw.Properties.OneQubit[strconv.Itoa(qubit)]
		if !ok {
			return nil, fmt.Errorf("%w: no one_qubit properties for qubit %d", ErrMalformedCalibration, qubit)
		}
		if props.T1 == nil || props.T2 == nil || props.FRB == nil || props.FRO == nil {
			return nil, fmt.Errorf("%w: incomplete one_qubit properties for qubit %d", ErrMalformedCalibration, qubit)
		}

		// fRB applies uniformly to every single-qubit gate.
		cal.SingleQubitGateFidelity[qubit] = map[string]float64{
			"rz": *props.FRB,
			"sx": *props.FRB,
			"x":  *props.FRB,
		}
		cal.ReadoutFidelity[qubit] = *props.FRO
		cal.T1[qubit] = *props.T1 * microsecondsToSeconds
		cal.T2[qubit] = *props.T2 * microsecondsToSeconds
	}

	for _, edge := range raw.Connectivity {
		if len(edge) != 2 {
			return nil, fmt.Errorf("%w: connectivity entry %v is not a pair", ErrMalformedCalibration, edge)
		}
		pair := device.Pair(edge[0], edge[1])
		dev.CouplingMap = append(dev.CouplingMap, pair)

		key := fmt.Sprintf("%d-%d", pair.Control, pair.Target)
		props, ok := raw.Properties.TwoQubit[key]
		if !ok || props.FECR == nil {
			return nil, fmt.Errorf("%w: no two_qubit properties for edge %s", ErrMalformedCalibration, key)
		}
		cal.TwoQubitGateFidelity[pair] = map[string]float64{"ecr": *props.FECR}
	}

	return dev, nil
}

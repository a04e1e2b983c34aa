package provider

import (
	"encoding/json"
	"fmt"

	"github.com/Drewniok/mqt-bench/internal/device"
)

// IonQProvider imports IonQ trapped-ion devices.
//
// IonQ publishes aggregate statistics rather than per-qubit data: one mean
// fidelity for all single-qubit gates, one for the entangling gate, one for
// state preparation and measurement. The same mean is therefore recorded for
// every qubit and every edge. Timing values are already in SI seconds.
type IonQProvider struct{}

// Name returns "ionq".
func (IonQProvider) Name() string { return "ionq" }

// DeviceNames returns the available IonQ devices.
// NOTE: update when adding new devices.
func (IonQProvider) DeviceNames() []string {
	return []string{"ionq_harmony", "ionq_aria1"}
}

// NativeGates returns the IonQ native gate set.
func (IonQProvider) NativeGates() []string {
	return []string{"rxx", "rz", "ry", "rx", "measure", "barrier"}
}

type ionqStatistics struct {
	Mean *float64 `json:"mean"`
}

type ionqCalibrationFile struct {
	Name         string   `json:"name"`
	BasisGates   []string `json:"basis_gates"`
	NumQubits    int      `json:"num_qubits"`
	Connectivity [][]int  `json:"connectivity"`
	Fidelity     struct {
		OneQ ionqStatistics `json:"1q"`
		TwoQ ionqStatistics `json:"2q"`
		SPAM ionqStatistics `json:"spam"`
	} `json:"fidelity"`
	Timing struct {
		T1      *float64 `json:"t1"` // s
		T2      *float64 `json:"t2"` // s
		OneQ    *float64 `json:"1q"` // s
		TwoQ    *float64 `json:"2q"` // s
		Readout *float64 `json:"readout"` // s
	} `json:"timing"`
}

// ImportDevice loads and parses the calibration snapshot for an IonQ device.
func (IonQProvider) ImportDevice(name string) (*device.Device, error) {
	data, err := readCalibration(name)
	if err != nil {
		return nil, err
	}

	var raw ionqCalibrationFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCalibration, err)
	}
	if raw.Name == "" || raw.NumQubits <= 0 {
		return nil, fmt.Errorf("%w: missing device name or qubit count", ErrMalformedCalibration)
	}
	if raw.Fidelity.OneQ.Mean == nil || raw.Fidelity.TwoQ.Mean == nil || raw.Fidelity.SPAM.Mean == nil {
		return nil, fmt.Errorf("%w: incomplete fidelity statistics", ErrMalformedCalibration)
	}
	t := raw.Timing
	if t.T1 == nil || t.T2 == nil || t.OneQ == nil || t.TwoQ == nil || t.Readout == nil {
		return nil, fmt.Errorf("%w: incomplete timing data", ErrMalformedCalibration)
	}

	dev := &device.Device{
		Name:        raw.Name,
		NumQubits:   raw.NumQubits,
		BasisGates:  raw.BasisGates,
		Calibration: device.NewCalibration(),
	}
	cal := dev.Calibration

	for qubit := 0; qubit < raw.NumQubits; qubit++ {
		cal.SingleQubitGateFidelity[qubit] = map[string]float64{
			"rx": *raw.Fidelity.OneQ.Mean,
			"ry": *raw.Fidelity.OneQ.Mean,
			"rz": 1, // rz is always perfect
		}
		cal.SingleQubitGateDuration[qubit] = map[string]float64{
			"rx": *t.OneQ,
			"ry": *t.OneQ,
			"rz": 0, // rz is always instantaneous
		}
		cal.ReadoutFidelity[qubit] = *raw.Fidelity.SPAM.Mean
		cal.ReadoutDuration[qubit] = *t.Readout
		cal.T1[qubit] = *t.T1
		cal.T2[qubit] = *t.T2
	}

	for _, edge := range raw.Connectivity {
		if len(edge) != 2 {
			return nil, fmt.Errorf("%w: connectivity entry %v is not a pair", ErrMalformedCalibration, edge)
		}
		pair := device.Pair(edge[0], edge[1])
		dev.CouplingMap = append(dev.CouplingMap, pair)

		cal.TwoQubitGateFidelity[pair] = map[string]float64{"rxx": *raw.Fidelity.TwoQ.Mean}
		cal.TwoQubitGateDuration[pair] = map[string]float64{"rxx": *t.TwoQ}
	}

	return dev, nil
}

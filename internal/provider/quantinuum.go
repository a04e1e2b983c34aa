package provider

import (
	"encoding/json"
	"fmt"

	"github.com/Drewniok/mqt-bench/internal/device"
)

// QuantinuumProvider imports Quantinuum trapped-ion devices.
//
// Quantinuum publishes mean fidelities only, with no timing data at all, so
// every duration table plus T1 and T2 stay empty and read as unknown.
type QuantinuumProvider struct{}

// Name returns "quantinuum".
func (QuantinuumProvider) Name() string { return "quantinuum" }

// DeviceNames returns the available Quantinuum devices.
// NOTE: update when adding new devices.
func (QuantinuumProvider) DeviceNames() []string {
	return []string{"quantinuum_h2"}
}

// NativeGates returns the Quantinuum native gate set.
func (QuantinuumProvider) NativeGates() []string {
	return []string{"rzz", "rz", "ry", "rx", "measure", "barrier"}
}

type quantinuumCalibrationFile struct {
	Name         string   `json:"name"`
	BasisGates   []string `json:"basis_gates"`
	NumQubits    int      `json:"num_qubits"`
	Connectivity [][]int  `json:"connectivity"`
	Fidelity     struct {
		OneQ ionqStatistics `json:"1q"`
		TwoQ ionqStatistics `json:"2q"`
		SPAM ionqStatistics `json:"spam"`
	} `json:"fidelity"`
}

// ImportDevice loads and parses the calibration snapshot for a Quantinuum
// device.
func (QuantinuumProvider) ImportDevice(name string) (*device.Device, error) {
	data, err := readCalibration(name)
	if err != nil {
		return nil, err
	}

	var raw quantinuumCalibrationFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCalibration, err)
	}
	if raw.Name == "" || raw.NumQubits <= 0 {
		return nil, fmt.Errorf("%w: missing device name or qubit count", ErrMalformedCalibration)
	}
	if raw.Fidelity.OneQ.Mean == nil || raw.Fidelity.TwoQ.Mean == nil || raw.Fidelity.SPAM.Mean == nil {
		return nil, fmt.Errorf("%w: incomplete fidelity statistics", ErrMalformedCalibration)
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
		cal.ReadoutFidelity[qubit] = *raw.Fidelity.SPAM.Mean
	}

	for _, edge := range raw.Connectivity {
		if len(edge) != 2 {
			return nil, fmt.Errorf("%w: connectivity entry %v is not a pair", ErrMalformedCalibration, edge)
		}
		pair := device.Pair(edge[0], edge[1])
		dev.CouplingMap = append(dev.CouplingMap, pair)

		cal.TwoQubitGateFidelity[pair] = map[string]float64{"rzz": *raw.Fidelity.TwoQ.Mean}
	}

	return dev, nil
}

package provider

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Drewniok/mqt-bench/internal/device"
)

// IQMProvider imports IQM devices.
//
// IQM snapshots carry per-qubit error rates and decoherence times but a
// single global timing figure per operation class. All times, including T1
// and T2, are reported in nanoseconds. Edge calibration is keyed
// "{q1}-{q2}" in one direction only; the same values are mirrored onto the
// reverse edge because the cz gate is symmetric.
type IQMProvider struct{}

// Name returns "iqm".
func (IQMProvider) Name() string { return "iqm" }

// DeviceNames returns the available IQM devices.
// NOTE: update when adding new devices.
func (IQMProvider) DeviceNames() []string {
	return []string{"iqm_adonis", "iqm_apollo"}
}

// NativeGates returns the IQM native gate set.
func (IQMProvider) NativeGates() []string {
	return []string{"r", "cz", "measure", "barrier"}
}

type iqmCalibrationFile struct {
	Name         string   `json:"name"`
	BasisGates   []string `json:"basis_gates"`
	NumQubits    int      `json:"num_qubits"`
	Connectivity [][]int  `json:"connectivity"`
	Error        struct {
		OneQ    map[string]float64 `json:"one_q"`
		TwoQ    map[string]float64 `json:"two_q"`
		Readout map[string]float64 `json:"readout"`
	} `json:"error"`
	Timing struct {
		T1      map[string]float64 `json:"t1"` // ns
		T2      map[string]float64 `json:"t2"` // ns
		OneQ    *float64           `json:"one_q"` // ns
		TwoQ    *float64           `json:"two_q"` // ns
		Readout *float64           `json:"readout"` // ns
	} `json:"timing"`
}

// ImportDevice loads and parses the calibration snapshot for an IQM device.
func (IQMProvider) ImportDevice(name string) (*device.Device, error) {
	data, err := readCalibration(name)
	if err != nil {
		return nil, err
	}

	var raw iqmCalibrationFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCalibration, err)
	}
	if raw.Name == "" || raw.NumQubits <= 0 {
		return nil, fmt.Errorf("%w: missing device name or qubit count", ErrMalformedCalibration)
	}
	if raw.Timing.OneQ == nil || raw.Timing.TwoQ == nil || raw.Timing.Readout == nil {
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
		key := strconv.Itoa(qubit)
		oneQErr, okErr := raw.Error.OneQ[key]
		roErr, okRO := raw.Error.Readout[key]
		t1, okT1 := raw.Timing.T1[key]
		t2, okT2 := raw.Timing.T2[key]
		if !okErr || !okRO || !okT1 || !okT2 {
			return nil, fmt.Errorf("%w: incomplete properties for qubit %d", ErrMalformedCalibration, qubit)
		}

		cal.SingleQubitGateFidelity[qubit] = map[string]float64{"r": 1 - oneQErr}
		cal.SingleQubitGateDuration[qubit] = map[string]float64{"r": *raw.Timing.OneQ * nanosecondsToSeconds}
		cal.ReadoutFidelity[qubit] = 1 - roErr
		cal.ReadoutDuration[qubit] = *raw.Timing.Readout * nanosecondsToSeconds
		cal.T1[qubit] = t1 * nanosecondsToSeconds
		cal.T2[qubit] = t2 * nanosecondsToSeconds
	}

	for _, edge := range raw.Connectivity {
		if len(edge) != 2 {
			return nil, fmt.Errorf("%w: connectivity entry %v is not a pair", ErrMalformedCalibration, edge)
		}
		pair := device.Pair(edge[0], edge[1])
		dev.CouplingMap = append(dev.CouplingMap, pair)

		// Mirrored from the opposite direction already.
		if _, ok := cal.TwoQubitGateFidelity[pair]; ok {
			continue
		}

		key := fmt.Sprintf("%d-%d", pair.Control, pair.Target)
		twoQErr, ok := raw.Error.TwoQ[key]
		if !ok {
			return nil, fmt.Errorf("%w: no two_q error for edge %s", ErrMalformedCalibration, key)
		}

		fidelity := map[string]float64{"cz": 1 - twoQErr}
		duration := map[string]float64{"cz": *raw.Timing.TwoQ * nanosecondsToSeconds}
		cal.TwoQubitGateFidelity[pair] = fidelity
		cal.TwoQubitGateDuration[pair] = duration

		// cz is symmetric, record the reverse edge too.
		reverse := pair.Reverse()
		cal.TwoQubitGateFidelity[reverse] = map[string]float64{"cz": fidelity["cz"]}
		cal.TwoQubitGateDuration[reverse] = map[string]float64{"cz": duration["cz"]}
	}

	return dev, nil
}

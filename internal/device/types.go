package device

import (
	"encoding/json"
	"fmt"
)

// QubitPair is an ordered pair of qubit indices identifying a directed
// two-qubit edge. Direction matters: (0,1) and (1,0) are distinct edges and
// may carry different calibration values.
type QubitPair struct {
	Control int
	Target  int
}

// Pair is a convenience constructor for QubitPair.
func Pair(control, target int) QubitPair {
	return QubitPair{Control: control, Target: target}
}

// Reverse returns the pair with control and target swapped.
func (p QubitPair) Reverse() QubitPair {
	return QubitPair{Control: p.Target, Target: p.Control}
}

// String renders the pair in the "{control}_{target}" form used by IBM
// calibration files and by the JSON encoding of pair-keyed tables.
func (p QubitPair) String() string {
	return fmt.Sprintf("%d_%d", p.Control, p.Target)
}

// MarshalJSON encodes the pair as a two-element array, matching the
// connectivity shape of the vendor calibration file formats.
func (p QubitPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Control, p.Target})
}

// UnmarshalJSON decodes a two-element array into the pair.
func (p *QubitPair) UnmarshalJSON(data []byte) error {
	var edge []int
	if err := json.Unmarshal(data, &edge); err != nil {
		return fmt.Errorf("decoding qubit pair: %w", err)
	}
	if len(edge) != 2 {
		return fmt.Errorf("%w: qubit pair must have exactly 2 elements, got %d", ErrInvalidDevice, len(edge))
	}
	p.Control = edge[0]
	p.Target = edge[1]
	return nil
}

// Device is the canonical description of a quantum computer.
//
// It is constructed empty, populated entirely during one import call, and
// never mutated afterwards except by Sanitize, which replaces Calibration
// wholesale.
type Device struct {
	// Name is the vendor-assigned identifier, unique within a provider.
	Name string `json:"name"`

	// NumQubits is the number of physical qubits.
	NumQubits int `json:"num_qubits"`

	// BasisGates is the ordered native gate vocabulary of the device.
	BasisGates []string `json:"basis_gates"`

	// CouplingMap lists the directed edges on which a two-qubit gate is
	// physically supported.
	CouplingMap []QubitPair `json:"coupling_map"`

	// Calibration holds the measured noise data. Exclusively owned by this
	// device; nil if no calibration was attached.
	Calibration *Calibration `json:"calibration,omitempty"`
}

// SupportsPair reports whether the given edge appears in the coupling map.
func (d *Device) SupportsPair(p QubitPair) bool {
	for _, edge := range d.CouplingMap {
		if edge == p {
			return true
		}
	}
	return false
}

// DeepCopy creates a complete independent copy of the Device.
// All slice and map fields are cloned so modifications to the copy do not
// affect the original.
func (d *Device) DeepCopy() *Device {
	if d == nil {
		return nil
	}

	cpy := *d

	if d.BasisGates != nil {
		cpy.BasisGates = make([]string, len(d.BasisGates))
		copy(cpy.BasisGates, d.BasisGates)
	}
	if d.CouplingMap != nil {
		cpy.CouplingMap = make([]QubitPair, len(d.CouplingMap))
		copy(cpy.CouplingMap, d.CouplingMap)
	}
	cpy.Calibration = d.Calibration.DeepCopy()

	return &cpy
}

// T1 returns the T1 decoherence time of a qubit in seconds.
func (d *Device) T1(qubit int) (float64, error) {
	if d.Calibration == nil {
		return 0, ErrNoCalibration
	}
	v, ok := d.Calibration.T1[qubit]
	if !ok {
		return 0, fmt.Errorf("%w: T1 for qubit %d", ErrValueNotAvailable, qubit)
	}
	return v, nil
}

// T2 returns the T2 decoherence time of a qubit in seconds.
func (d *Device) T2(qubit int) (float64, error) {
	if d.Calibration == nil {
		return 0, ErrNoCalibration
	}
	v, ok := d.Calibration.T2[qubit]
	if !ok {
		return 0, fmt.Errorf("%w: T2 for qubit %d", ErrValueNotAvailable, qubit)
	}
	return v, nil
}

// ReadoutFidelity returns the measurement fidelity of a qubit.
func (d *Device) ReadoutFidelity(qubit int) (float64, error) {
	if d.Calibration == nil {
		return 0, ErrNoCalibration
	}
	v, ok := d.Calibration.ReadoutFidelity[qubit]
	if !ok {
		return 0, fmt.Errorf("%w: readout fidelity for qubit %d", ErrValueNotAvailable, qubit)
	}
	return v, nil
}

// ReadoutDuration returns the measurement duration of a qubit in seconds.
func (d *Device) ReadoutDuration(qubit int) (float64, error) {
	if d.Calibration == nil {
		return 0, ErrNoCalibration
	}
	v, ok := d.Calibration.ReadoutDuration[qubit]
	if !ok {
		return 0, fmt.Errorf("%w: readout duration for qubit %d", ErrValueNotAvailable, qubit)
	}
	return v, nil
}

// SingleQubitGateFidelity returns the fidelity of a single-qubit gate on a
// specific qubit.
func (d *Device) SingleQubitGateFidelity(gate string, qubit int) (float64, error) {
	if d.Calibration == nil {
		return 0, ErrNoCalibration
	}
	v, ok := d.Calibration.SingleQubitGateFidelity[qubit][gate]
	if !ok {
		return 0, fmt.Errorf("%w: fidelity of gate %q on qubit %d", ErrValueNotAvailable, gate, qubit)
	}
	return v, nil
}

// SingleQubitGateDuration returns the duration of a single-qubit gate on a
// specific qubit in seconds.
func (d *Device) SingleQubitGateDuration(gate string, qubit int) (float64, error) {
	if d.Calibration == nil {
		return 0, ErrNoCalibration
	}
	v, ok := d.Calibration.SingleQubitGateDuration[qubit][gate]
	if !ok {
		return 0, fmt.Errorf("%w: duration of gate %q on qubit %d", ErrValueNotAvailable, gate, qubit)
	}
	return v, nil
}

// TwoQubitGateFidelity returns the fidelity of a two-qubit gate on a
// specific directed edge.
func (d *Device) TwoQubitGateFidelity(gate string, pair QubitPair) (float64, error) {
	if d.Calibration == nil {
		return 0, ErrNoCalibration
	}
	v, ok := d.Calibration.TwoQubitGateFidelity[pair][gate]
	if !ok {
		return 0, fmt.Errorf("%w: fidelity of gate %q on edge %s", ErrValueNotAvailable, gate, pair)
	}
	return v, nil
}

// TwoQubitGateDuration returns the duration of a two-qubit gate on a
// specific directed edge in seconds.
func (d *Device) TwoQubitGateDuration(gate string, pair QubitPair) (float64, error) {
	if d.Calibration == nil {
		return 0, ErrNoCalibration
	}
	v, ok := d.Calibration.TwoQubitGateDuration[pair][gate]
	if !ok {
		return 0, fmt.Errorf("%w: duration of gate %q on edge %s", ErrValueNotAvailable, gate, pair)
	}
	return v, nil
}

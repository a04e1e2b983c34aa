package device

import (
	"fmt"
	"math"
)

// Validate checks the device description and its attached calibration
// against the model invariants:
//
//   - name non-empty, qubit count positive
//   - every coupling map edge references qubits < NumQubits
//   - every qubit index in any calibration table is < NumQubits
//   - every pair key of the two-qubit tables appears in the coupling map
//   - all fidelities are finite and in [0, 1]
//   - all durations and decoherence times are finite and >= 0
//
// The first violation found is returned wrapped in ErrInvalidDevice or
// ErrInvalidCalibration.
func (d *Device) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDevice)
	}
	if d.NumQubits <= 0 {
		return fmt.Errorf("%w: qubit count must be positive, got %d", ErrInvalidDevice, d.NumQubits)
	}

	for _, edge := range d.CouplingMap {
		if !d.qubitInRange(edge.Control) || !d.qubitInRange(edge.Target) {
			return fmt.Errorf("%w: coupling map edge %s out of range for %d qubits",
				ErrInvalidDevice, edge, d.NumQubits)
		}
	}

	if d.Calibration == nil {
		return nil
	}
	return d.validateCalibration()
}

// validateCalibration checks the calibration tables against the device.
func (d *Device) validateCalibration() error {
	c := d.Calibration

	if err := d.checkQubitTable("t1", c.T1, checkDuration); err != nil {
		return err
	}
	if err := d.checkQubitTable("t2", c.T2, checkDuration); err != nil {
		return err
	}
	if err := d.checkQubitTable("readout_fidelity", c.ReadoutFidelity, checkFidelity); err != nil {
		return err
	}
	if err := d.checkQubitTable("readout_duration", c.ReadoutDuration, checkDuration); err != nil {
		return err
	}

	if err := d.checkGateTable("single_qubit_gate_fidelity", c.SingleQubitGateFidelity, checkFidelity); err != nil {
		return err
	}
	if err := d.checkGateTable("single_qubit_gate_duration", c.SingleQubitGateDuration, checkDuration); err != nil {
		return err
	}

	if err := d.checkPairTable("two_qubit_gate_fidelity", c.TwoQubitGateFidelity, checkFidelity); err != nil {
		return err
	}
	return d.checkPairTable("two_qubit_gate_duration", c.TwoQubitGateDuration, checkDuration)
}

// checkQubitTable validates the indices and values of a qubit-keyed table.
func (d *Device) checkQubitTable(name string, table map[int]float64, check func(float64) bool) error {
	for qubit, v := range table {
		if !d.qubitInRange(qubit) {
			return fmt.Errorf("%w: %s references qubit %d, device has %d qubits",
				ErrInvalidCalibration, name, qubit, d.NumQubits)
		}
		if !check(v) {
			return fmt.Errorf("%w: %s[%d] = %v", ErrInvalidCalibration, name, qubit, v)
		}
	}
	return nil
}

// checkGateTable validates a qubit-keyed table of per-gate values.
func (d *Device) checkGateTable(name string, table map[int]map[string]float64, check func(float64) bool) error {
	for qubit, gates := range table {
		if !d.qubitInRange(qubit) {
			return fmt.Errorf("%w: %s references qubit %d, device has %d qubits",
				ErrInvalidCalibration, name, qubit, d.NumQubits)
		}
		for gate, v := range gates {
			if !check(v) {
				return fmt.Errorf("%w: %s[%d][%s] = %v", ErrInvalidCalibration, name, qubit, gate, v)
			}
		}
	}
	return nil
}

// checkPairTable validates a pair-keyed table of per-gate values. Every key
// must be an edge of the coupling map.
func (d *Device) checkPairTable(name string, table map[QubitPair]map[string]float64, check func(float64) bool) error {
	for pair, gates := range table {
		if !d.SupportsPair(pair) {
			return fmt.Errorf("%w: %s references edge %s not in coupling map",
				ErrInvalidCalibration, name, pair)
		}
		for gate, v := range gates {
			if !check(v) {
				return fmt.Errorf("%w: %s[%s][%s] = %v", ErrInvalidCalibration, name, pair, gate, v)
			}
		}
	}
	return nil
}

// qubitInRange reports whether the index is a valid qubit of this device.
func (d *Device) qubitInRange(qubit int) bool {
	return qubit >= 0 && qubit < d.NumQubits
}

// checkFidelity accepts probabilities in [0, 1].
func checkFidelity(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// checkDuration accepts finite non-negative times.
func checkDuration(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

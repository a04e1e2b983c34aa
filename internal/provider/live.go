package provider

import (
	"fmt"

	"github.com/Drewniok/mqt-bench/internal/device"
)

// Live-object imports. These read from caller-supplied handles to an
// already-fetched backend rather than from snapshot files, so they perform
// no I/O and all values are expected in SI units already.

// GateProperties describes one calibrated gate reported by a live backend
// properties object.
type GateProperties struct {
	Gate     string
	Qubits   []int
	Error    float64
	Duration float64 // s
}

// BackendProperties is the read surface of a live backend-properties object.
type BackendProperties interface {
	NumQubits() int
	T1(qubit int) float64
	T2(qubit int) float64
	ReadoutError(qubit int) float64
	ReadoutLength(qubit int) float64
	Gates() []GateProperties
}

// ImportBackendProperties converts a live backend-properties object into a
// calibration.
//
// Reset operations carry no circuit-level noise information and are skipped.
// Any other gate acting on more or fewer than two qubits fails with
// ErrUnsupportedSource rather than being silently dropped, and a gate naming
// a qubit outside the device fails with ErrMalformedCalibration.
func ImportBackendProperties(props BackendProperties) (*device.Calibration, error) {
	cal := device.NewCalibration()
	numQubits := props.NumQubits()

	for qubit := 0; qubit < numQubits; qubit++ {
		cal.T1[qubit] = props.T1(qubit)
		cal.T2[qubit] = props.T2(qubit)
		cal.ReadoutFidelity[qubit] = 1 - props.ReadoutError(qubit)
		cal.ReadoutDuration[qubit] = props.ReadoutLength(qubit)
		cal.SingleQubitGateFidelity[qubit] = make(map[string]float64)
		cal.SingleQubitGateDuration[qubit] = make(map[string]float64)
	}

	for _, gate := range props.Gates() {
		if gate.Gate == "reset" {
			continue
		}
		for _, qubit := range gate.Qubits {
			if qubit < 0 || qubit >= numQubits {
				return nil, fmt.Errorf("%w: gate %q targets qubit %d on a %d-qubit device", ErrMalformedCalibration, gate.Gate, qubit, numQubits)
			}
		}

		switch len(gate.Qubits) {
		case 1:
			qubit := gate.Qubits[0]
			cal.SingleQubitGateFidelity[qubit][gate.Gate] = 1 - gate.Error
			cal.SingleQubitGateDuration[qubit][gate.Gate] = gate.Duration
		case 2:
			pair := device.Pair(gate.Qubits[0], gate.Qubits[1])
			if cal.TwoQubitGateFidelity[pair] == nil {
				cal.TwoQubitGateFidelity[pair] = make(map[string]float64)
			}
			cal.TwoQubitGateFidelity[pair][gate.Gate] = 1 - gate.Error

			if cal.TwoQubitGateDuration[pair] == nil {
				cal.TwoQubitGateDuration[pair] = make(map[string]float64)
			}
			cal.TwoQubitGateDuration[pair][gate.Gate] = gate.Duration
		default:
			return nil, fmt.Errorf("%w: gate %q acts on %d qubits", ErrUnsupportedSource, gate.Gate, len(gate.Qubits))
		}
	}

	return cal, nil
}

// QubitProperties holds the decoherence times a live target reports for one
// qubit.
type QubitProperties struct {
	T1 float64 // s
	T2 float64 // s
}

// TargetInstruction is one calibrated instruction from a live transpilation
// target.
type TargetInstruction struct {
	Name     string
	Qubits   []int
	Error    float64
	Duration float64 // s
}

// Target is the read surface of a live transpilation target.
type Target interface {
	NumQubits() int
	QubitProperties(qubit int) QubitProperties
	CouplingMap() []device.QubitPair
	Instructions() []TargetInstruction
}

// ImportTarget converts a live transpilation target into a calibration.
//
// Reset and delay instructions are skipped; measure feeds the readout
// tables. The two-qubit tables are seeded from the target's coupling map so
// every edge is present even before its instructions are seen. Instructions
// on more than two qubits fail with ErrUnsupportedSource; instructions
// naming no qubits or a qubit outside the device fail with
// ErrMalformedCalibration.
func ImportTarget(target Target) (*device.Calibration, error) {
	cal := device.NewCalibration()
	numQubits := target.NumQubits()

	for qubit := 0; qubit < numQubits; qubit++ {
		props := target.QubitProperties(qubit)
		cal.T1[qubit] = props.T1
		cal.T2[qubit] = props.T2
		cal.SingleQubitGateFidelity[qubit] = make(map[string]float64)
		cal.SingleQubitGateDuration[qubit] = make(map[string]float64)
	}

	for _, pair := range target.CouplingMap() {
		cal.TwoQubitGateFidelity[pair] = make(map[string]float64)
		cal.TwoQubitGateDuration[pair] = make(map[string]float64)
	}

	for _, ins := range target.Instructions() {
		if ins.Name == "reset" || ins.Name == "delay" {
			continue
		}
		if len(ins.Qubits) == 0 {
			return nil, fmt.Errorf("%w: instruction %q names no qubits", ErrMalformedCalibration, ins.Name)
		}
		for _, qubit := range ins.Qubits {
			if qubit < 0 || qubit >= numQubits {
				return nil, fmt.Errorf("%w: instruction %q targets qubit %d on a %d-qubit device", ErrMalformedCalibration, ins.Name, qubit, numQubits)
			}
		}

		switch {
		case ins.Name == "measure":
			qubit := ins.Qubits[0]
			cal.ReadoutFidelity[qubit] = 1 - ins.Error
			cal.ReadoutDuration[qubit] = ins.Duration
		case len(ins.Qubits) == 1:
			qubit := ins.Qubits[0]
			cal.SingleQubitGateFidelity[qubit][ins.Name] = 1 - ins.Error
			cal.SingleQubitGateDuration[qubit][ins.Name] = ins.Duration
		case len(ins.Qubits) == 2:
			pair := device.Pair(ins.Qubits[0], ins.Qubits[1])
			if cal.TwoQubitGateFidelity[pair] == nil {
				cal.TwoQubitGateFidelity[pair] = make(map[string]float64)
				cal.TwoQubitGateDuration[pair] = make(map[string]float64)
			}
			cal.TwoQubitGateFidelity[pair][ins.Name] = 1 - ins.Error
			cal.TwoQubitGateDuration[pair][ins.Name] = ins.Duration
		default:
			return nil, fmt.Errorf("%w: instruction %q acts on %d qubits", ErrUnsupportedSource, ins.Name, len(ins.Qubits))
		}
	}

	return cal, nil
}

// Backend is a live, already-connected device handle.
type Backend interface {
	Name() string
	NumQubits() int
	OperationNames() []string
	CouplingMap() []device.QubitPair
	Target() Target
}

// ImportBackend builds a complete Device from a live backend handle using
// its transpilation target as the calibration source.
func ImportBackend(backend Backend) (*device.Device, error) {
	cal, err := ImportTarget(backend.Target())
	if err != nil {
		return nil, err
	}
	return &device.Device{
		Name:        backend.Name(),
		NumQubits:   backend.NumQubits(),
		BasisGates:  backend.OperationNames(),
		CouplingMap: backend.CouplingMap(),
		Calibration: cal,
	}, nil
}

package device

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Calibration holds the measured noise and timing characteristics of a
// device, normalised to canonical units (seconds, probabilities in [0,1]).
//
// All tables are sparse maps. An absent key means the vendor did not report
// that value; it must be treated as unknown, never defaulted to zero, since
// a zero would read as "perfect" (error) or "instant" (duration).
// JSON encoding is handled by MarshalJSON/UnmarshalJSON below, which render
// the pair-keyed tables with "{control}_{target}" object keys.
type Calibration struct {
	// T1 and T2 map qubit index to decoherence times in seconds.
	T1 map[int]float64
	T2 map[int]float64

	// ReadoutFidelity and ReadoutDuration map qubit index to measurement
	// fidelity (probability) and duration (seconds).
	ReadoutFidelity map[int]float64
	ReadoutDuration map[int]float64

	// SingleQubitGateFidelity and SingleQubitGateDuration map qubit index to
	// per-gate values.
	SingleQubitGateFidelity map[int]map[string]float64
	SingleQubitGateDuration map[int]map[string]float64

	// TwoQubitGateFidelity and TwoQubitGateDuration map directed edges to
	// per-gate values. Every key must be an edge of the owning device's
	// coupling map.
	TwoQubitGateFidelity map[QubitPair]map[string]float64
	TwoQubitGateDuration map[QubitPair]map[string]float64
}

// NewCalibration creates a Calibration with all tables initialised empty.
func NewCalibration() *Calibration {
	return &Calibration{
		T1:                      make(map[int]float64),
		T2:                      make(map[int]float64),
		ReadoutFidelity:         make(map[int]float64),
		ReadoutDuration:         make(map[int]float64),
		SingleQubitGateFidelity: make(map[int]map[string]float64),
		SingleQubitGateDuration: make(map[int]map[string]float64),
		TwoQubitGateFidelity:    make(map[QubitPair]map[string]float64),
		TwoQubitGateDuration:    make(map[QubitPair]map[string]float64),
	}
}

// DeepCopy creates a complete independent copy of the calibration tables.
func (c *Calibration) DeepCopy() *Calibration {
	if c == nil {
		return nil
	}

	cpy := NewCalibration()
	for q, v := range c.T1 {
		cpy.T1[q] = v
	}
	for q, v := range c.T2 {
		cpy.T2[q] = v
	}
	for q, v := range c.ReadoutFidelity {
		cpy.ReadoutFidelity[q] = v
	}
	for q, v := range c.ReadoutDuration {
		cpy.ReadoutDuration[q] = v
	}
	for q, gates := range c.SingleQubitGateFidelity {
		cpy.SingleQubitGateFidelity[q] = copyGateMap(gates)
	}
	for q, gates := range c.SingleQubitGateDuration {
		cpy.SingleQubitGateDuration[q] = copyGateMap(gates)
	}
	for p, gates := range c.TwoQubitGateFidelity {
		cpy.TwoQubitGateFidelity[p] = copyGateMap(gates)
	}
	for p, gates := range c.TwoQubitGateDuration {
		cpy.TwoQubitGateDuration[p] = copyGateMap(gates)
	}
	return cpy
}

// copyGateMap clones a gate-name → value map.
func copyGateMap(m map[string]float64) map[string]float64 {
	cpy := make(map[string]float64, len(m))
	for gate, v := range m {
		cpy[gate] = v
	}
	return cpy
}

// Summary holds aggregate calibration statistics for one device, used for
// metrics export and import event payloads.
type Summary struct {
	NumQubits            int     `json:"num_qubits"`
	MeanT1               float64 `json:"mean_t1"`
	MeanT2               float64 `json:"mean_t2"`
	MeanReadoutFidelity  float64 `json:"mean_readout_fidelity"`
	MeanSingleQubitGateF float64 `json:"mean_single_qubit_gate_fidelity"`
	MeanTwoQubitGateF    float64 `json:"mean_two_qubit_gate_fidelity"`
}

// Summarize computes aggregate statistics over the calibration tables.
// Tables with no entries contribute zero means.
func (d *Device) Summarize() Summary {
	s := Summary{NumQubits: d.NumQubits}
	if d.Calibration == nil {
		return s
	}

	s.MeanT1 = meanOverQubits(d.Calibration.T1)
	s.MeanT2 = meanOverQubits(d.Calibration.T2)
	s.MeanReadoutFidelity = meanOverQubits(d.Calibration.ReadoutFidelity)

	var sum float64
	var n int
	for _, gates := range d.Calibration.SingleQubitGateFidelity {
		for _, v := range gates {
			sum += v
			n++
		}
	}
	if n > 0 {
		s.MeanSingleQubitGateF = sum / float64(n)
	}

	sum, n = 0, 0
	for _, gates := range d.Calibration.TwoQubitGateFidelity {
		for _, v := range gates {
			sum += v
			n++
		}
	}
	if n > 0 {
		s.MeanTwoQubitGateF = sum / float64(n)
	}

	return s
}

// meanOverQubits computes the mean of a qubit-indexed table, or 0 if empty.
func meanOverQubits(table map[int]float64) float64 {
	if len(table) == 0 {
		return 0
	}
	var sum float64
	for _, v := range table {
		sum += v
	}
	return sum / float64(len(table))
}

// calibrationJSON is the wire form of Calibration. The pair-keyed tables
// need string keys ("{control}_{target}") because JSON object keys must be
// strings; integer-keyed maps are handled natively by encoding/json.
type calibrationJSON struct {
	T1                      map[int]float64               `json:"t1"`
	T2                      map[int]float64               `json:"t2"`
	ReadoutFidelity         map[int]float64               `json:"readout_fidelity"`
	ReadoutDuration         map[int]float64               `json:"readout_duration"`
	SingleQubitGateFidelity map[int]map[string]float64    `json:"single_qubit_gate_fidelity"`
	SingleQubitGateDuration map[int]map[string]float64    `json:"single_qubit_gate_duration"`
	TwoQubitGateFidelity    map[string]map[string]float64 `json:"two_qubit_gate_fidelity"`
	TwoQubitGateDuration    map[string]map[string]float64 `json:"two_qubit_gate_duration"`
}

// MarshalJSON encodes the calibration with "{control}_{target}" keys for the
// two-qubit tables.
func (c *Calibration) MarshalJSON() ([]byte, error) {
	out := calibrationJSON{
		T1:                      c.T1,
		T2:                      c.T2,
		ReadoutFidelity:         c.ReadoutFidelity,
		ReadoutDuration:         c.ReadoutDuration,
		SingleQubitGateFidelity: c.SingleQubitGateFidelity,
		SingleQubitGateDuration: c.SingleQubitGateDuration,
		TwoQubitGateFidelity:    encodePairTable(c.TwoQubitGateFidelity),
		TwoQubitGateDuration:    encodePairTable(c.TwoQubitGateDuration),
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the wire form back into pair-keyed tables.
func (c *Calibration) UnmarshalJSON(data []byte) error {
	var in calibrationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decoding calibration: %w", err)
	}

	*c = Calibration{
		T1:                      orEmpty(in.T1),
		T2:                      orEmpty(in.T2),
		ReadoutFidelity:         orEmpty(in.ReadoutFidelity),
		ReadoutDuration:         orEmpty(in.ReadoutDuration),
		SingleQubitGateFidelity: orEmptyNested(in.SingleQubitGateFidelity),
		SingleQubitGateDuration: orEmptyNested(in.SingleQubitGateDuration),
	}

	var err error
	if c.TwoQubitGateFidelity, err = decodePairTable(in.TwoQubitGateFidelity); err != nil {
		return err
	}
	if c.TwoQubitGateDuration, err = decodePairTable(in.TwoQubitGateDuration); err != nil {
		return err
	}
	return nil
}

// encodePairTable converts pair keys to their "{control}_{target}" string form.
func encodePairTable(table map[QubitPair]map[string]float64) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(table))
	for pair, gates := range table {
		out[pair.String()] = gates
	}
	return out
}

// decodePairTable parses "{control}_{target}" string keys back into pairs.
func decodePairTable(table map[string]map[string]float64) (map[QubitPair]map[string]float64, error) {
	out := make(map[QubitPair]map[string]float64, len(table))
	for key, gates := range table {
		pair, err := parsePairKey(key)
		if err != nil {
			return nil, err
		}
		out[pair] = gates
	}
	return out, nil
}

// parsePairKey parses a "{control}_{target}" edge key.
func parsePairKey(key string) (QubitPair, error) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return QubitPair{}, fmt.Errorf("%w: malformed edge key %q", ErrInvalidCalibration, key)
	}
	control, err := strconv.Atoi(parts[0])
	if err != nil {
		return QubitPair{}, fmt.Errorf("%w: malformed edge key %q", ErrInvalidCalibration, key)
	}
	target, err := strconv.Atoi(parts[1])
	if err != nil {
		return QubitPair{}, fmt.Errorf("%w: malformed edge key %q", ErrInvalidCalibration, key)
	}
	return Pair(control, target), nil
}

// orEmpty returns the map or an initialised empty map if nil.
func orEmpty(m map[int]float64) map[int]float64 {
	if m == nil {
		return make(map[int]float64)
	}
	return m
}

// orEmptyNested returns the nested map or an initialised empty map if nil.
func orEmptyNested(m map[int]map[string]float64) map[int]map[string]float64 {
	if m == nil {
		return make(map[int]map[string]float64)
	}
	return m
}

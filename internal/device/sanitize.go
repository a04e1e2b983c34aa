package device

import "math"

// Sanitize replaces the device's calibration wholesale with a cleaned copy:
//
//  1. Entries that are non-finite, out of range for their kind, or keyed by
//     a qubit/edge the device does not have are dropped. A fidelity of
//     exactly zero is treated as unmeasured and dropped too; a duration of
//     zero is kept (virtual gates are legitimately instantaneous).
//  2. Missing entries are imputed with the mean of the remaining valid
//     entries of the same table (per gate name for gate tables), for every
//     qubit in range and every edge of the coupling map.
//
// A table with no valid entries at all stays empty: imputation never invents
// data where none was measured, so downstream code still sees "unknown"
// rather than a fabricated value.
//
// Sanitize is a no-op on devices without calibration.
func (d *Device) Sanitize() {
	if d.Calibration == nil {
		return
	}
	c := d.Calibration
	clean := NewCalibration()

	clean.T1 = d.sanitizeQubitTable(c.T1, validTime)
	clean.T2 = d.sanitizeQubitTable(c.T2, validTime)
	clean.ReadoutFidelity = d.sanitizeQubitTable(c.ReadoutFidelity, validFidelity)
	clean.ReadoutDuration = d.sanitizeQubitTable(c.ReadoutDuration, validDuration)

	clean.SingleQubitGateFidelity = d.sanitizeGateTable(c.SingleQubitGateFidelity, validFidelity)
	clean.SingleQubitGateDuration = d.sanitizeGateTable(c.SingleQubitGateDuration, validDuration)

	clean.TwoQubitGateFidelity = d.sanitizePairTable(c.TwoQubitGateFidelity, validFidelity)
	clean.TwoQubitGateDuration = d.sanitizePairTable(c.TwoQubitGateDuration, validDuration)

	d.Calibration = clean
}

// sanitizeQubitTable drops invalid entries, then imputes the table mean for
// every qubit of the device. Returns an empty table if nothing was valid.
func (d *Device) sanitizeQubitTable(table map[int]float64, valid func(float64) bool) map[int]float64 {
	clean := make(map[int]float64)
	var sum float64
	for qubit, v := range table {
		if d.qubitInRange(qubit) && valid(v) {
			clean[qubit] = v
			sum += v
		}
	}
	if len(clean) == 0 {
		return clean
	}

	mean := sum / float64(len(clean))
	for qubit := 0; qubit < d.NumQubits; qubit++ {
		if _, ok := clean[qubit]; !ok {
			clean[qubit] = mean
		}
	}
	return clean
}

// sanitizeGateTable drops invalid entries, then imputes per-gate means for
// every qubit of the device. Gates with no valid value anywhere are omitted.
func (d *Device) sanitizeGateTable(table map[int]map[string]float64, valid func(float64) bool) map[int]map[string]float64 {
	clean := make(map[int]map[string]float64)
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for qubit, gates := range table {
		if !d.qubitInRange(qubit) {
			continue
		}
		for gate, v := range gates {
			if !valid(v) {
				continue
			}
			if clean[qubit] == nil {
				clean[qubit] = make(map[string]float64)
			}
			clean[qubit][gate] = v
			sums[gate] += v
			counts[gate]++
		}
	}
	if len(counts) == 0 {
		return clean
	}

	for qubit := 0; qubit < d.NumQubits; qubit++ {
		if clean[qubit] == nil {
			clean[qubit] = make(map[string]float64)
		}
		for gate, n := range counts {
			if _, ok := clean[qubit][gate]; !ok {
				clean[qubit][gate] = sums[gate] / float64(n)
			}
		}
	}
	return clean
}

// sanitizePairTable drops invalid entries, then imputes per-gate means for
// every edge of the coupling map.
func (d *Device) sanitizePairTable(table map[QubitPair]map[string]float64, valid func(float64) bool) map[QubitPair]map[string]float64 {
	clean := make(map[QubitPair]map[string]float64)
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for pair, gates := range table {
		if !d.SupportsPair(pair) {
			continue
		}
		for gate, v := range gates {
			if !valid(v) {
				continue
			}
			if clean[pair] == nil {
				clean[pair] = make(map[string]float64)
			}
			clean[pair][gate] = v
			sums[gate] += v
			counts[gate]++
		}
	}
	if len(counts) == 0 {
		return clean
	}

	for _, pair := range d.CouplingMap {
		if clean[pair] == nil {
			clean[pair] = make(map[string]float64)
		}
		for gate, n := range counts {
			if _, ok := clean[pair][gate]; !ok {
				clean[pair][gate] = sums[gate] / float64(n)
			}
		}
	}
	return clean
}

// validFidelity accepts measured probabilities; exactly zero is treated as
// unmeasured.
func validFidelity(v float64) bool {
	return !math.IsNaN(v) && v > 0 && v <= 1
}

// validDuration accepts finite non-negative times, including zero.
func validDuration(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// validTime accepts finite strictly positive decoherence times.
func validTime(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

package provider

import (
	"errors"
	"math"
	"testing"

	"github.com/Drewniok/mqt-bench/internal/device"
)

// =============================================================================
// Registry Tests
// =============================================================================

func TestNames(t *testing.T) {
	want := []string{"ibm", "ibm_open_access", "ionq", "iqm", "oqc", "quantinuum"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("Names() has %d entries, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], name)
		}
	}
}

func TestByName(t *testing.T) {
	p, err := ByName("iqm")
	if err != nil {
		t.Fatalf("ByName(iqm) error = %v", err)
	}
	if p.Name() != "iqm" {
		t.Errorf("Name() = %q, want iqm", p.Name())
	}

	if _, err := ByName("rigetti"); !errors.Is(err, ErrProviderNotFound) {
		t.Errorf("ByName(rigetti) error = %v, want ErrProviderNotFound", err)
	}
}

func TestAllDeviceNames(t *testing.T) {
	names := AllDeviceNames()
	if len(names) != 11 {
		t.Errorf("AllDeviceNames() has %d entries, want 11", len(names))
	}
	if names[0] != "ibm_washington" {
		t.Errorf("AllDeviceNames()[0] = %q, want ibm_washington", names[0])
	}
}

func TestGetDevice_UnknownName(t *testing.T) {
	// The name check runs before any file access, so no calibration source
	// is needed here.
	_, err := GetDevice(IBMProvider{}, "ibm_nowhere", false)
	if !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("GetDevice() error = %v, want ErrUnknownDevice", err)
	}
}

// =============================================================================
// IBM Format Tests
// =============================================================================

// ibmFixture is a minimal two-qubit premium-format snapshot with one directed
// edge per direction.
const ibmFixture = `{
	"name": "ibm_test",
	"basis_gates": ["id", "rz", "sx", "x", "cx", "measure", "barrier"],
	"num_qubits": 2,
	"connectivity": [[0, 1], [1, 0]],
	"properties": {
		"0": {
			"T1": 50.0, "T2": 40.0, "eRO": 0.02, "tRO": 5000.0,
			"eID": 0.001, "eSX": 0.002, "eX": 0.003,
			"eCX": {"0_1": 0.01}, "tCX": {"0_1": 300.0}
		},
		"1": {
			"T1": 60.0, "T2": 45.0, "eRO": 0.03, "tRO": 5100.0,
			"eID": 0.002, "eSX": 0.003, "eX": 0.004,
			"eCX": {"1_0": 0.012}, "tCX": {"1_0": 320.0}
		}
	}
}`

func TestParseIBMCalibration(t *testing.T) {
	dev, err := parseIBMCalibration([]byte(ibmFixture), "cx")
	if err != nil {
		t.Fatalf("parseIBMCalibration() error = %v", err)
	}

	if dev.Name != "ibm_test" || dev.NumQubits != 2 {
		t.Errorf("identity = %s/%d, want ibm_test/2", dev.Name, dev.NumQubits)
	}
	if len(dev.CouplingMap) != 2 {
		t.Fatalf("coupling map has %d edges, want 2", len(dev.CouplingMap))
	}

	// Microseconds become seconds
	if v, _ := dev.T1(0); math.Abs(v-50e-6) > 1e-15 {
		t.Errorf("T1(0) = %v, want 50e-6", v)
	}
	// Readout error rate becomes fidelity, duration ns becomes s
	if v, _ := dev.ReadoutFidelity(0); math.Abs(v-0.98) > 1e-12 {
		t.Errorf("ReadoutFidelity(0) = %v, want 0.98", v)
	}
	if v, _ := dev.ReadoutDuration(0); math.Abs(v-5e-6) > 1e-15 {
		t.Errorf("ReadoutDuration(0) = %v, want 5e-6", v)
	}
	// Gate error rates become fidelities; rz is always perfect
	if v, _ := dev.SingleQubitGateFidelity("x", 0); math.Abs(v-0.997) > 1e-12 {
		t.Errorf("SingleQubitGateFidelity(x, 0) = %v, want 0.997", v)
	}
	if v, _ := dev.SingleQubitGateFidelity("rz", 1); v != 1 {
		t.Errorf("SingleQubitGateFidelity(rz, 1) = %v, want 1", v)
	}
	// Two-qubit values live under the control qubit's block
	if v, _ := dev.TwoQubitGateFidelity("cx", device.Pair(0, 1)); math.Abs(v-0.99) > 1e-12 {
		t.Errorf("TwoQubitGateFidelity(cx, 0_1) = %v, want 0.99", v)
	}
	if v, _ := dev.TwoQubitGateDuration("cx", device.Pair(1, 0)); math.Abs(v-320e-9) > 1e-15 {
		t.Errorf("TwoQubitGateDuration(cx, 1_0) = %v, want 320e-9", v)
	}

	if err := dev.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

// ibmECRFixture carries distinct eECR and tECR values so a mixed-up table
// read would be caught.
const ibmECRFixture = `{
	"name": "ibm_ecr_test",
	"basis_gates": ["id", "rz", "sx", "x", "ecr", "measure", "barrier"],
	"num_qubits": 2,
	"connectivity": [[0, 1]],
	"properties": {
		"0": {
			"T1": 50.0, "T2": 40.0, "eRO": 0.02, "tRO": 5000.0,
			"eID": 0.001, "eSX": 0.002, "eX": 0.003,
			"eECR": {"0_1": 0.008}, "tECR": {"0_1": 450.0}
		},
		"1": {
			"T1": 60.0, "T2": 45.0, "eRO": 0.03, "tRO": 5100.0,
			"eID": 0.002, "eSX": 0.003, "eX": 0.004
		}
	}
}`

func TestParseIBMCalibration_ECR(t *testing.T) {
	dev, err := parseIBMCalibration([]byte(ibmECRFixture), "ecr")
	if err != nil {
		t.Fatalf("parseIBMCalibration() error = %v", err)
	}

	if v, _ := dev.TwoQubitGateFidelity("ecr", device.Pair(0, 1)); math.Abs(v-0.992) > 1e-12 {
		t.Errorf("TwoQubitGateFidelity(ecr, 0_1) = %v, want 0.992", v)
	}
	// The duration must come from tECR, not tCX
	if v, _ := dev.TwoQubitGateDuration("ecr", device.Pair(0, 1)); math.Abs(v-450e-9) > 1e-15 {
		t.Errorf("TwoQubitGateDuration(ecr, 0_1) = %v, want 450e-9", v)
	}
}

func TestParseIBMCalibration_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid JSON", `{`},
		{"missing name", `{"num_qubits": 2}`},
		{"missing qubit properties", `{
			"name": "x", "num_qubits": 2, "connectivity": [],
			"properties": {"0": {"T1": 1, "T2": 1, "eRO": 0, "tRO": 1,
				"eID": 0, "eSX": 0, "eX": 0}}
		}`},
		{"incomplete qubit properties", `{
			"name": "x", "num_qubits": 1, "connectivity": [],
			"properties": {"0": {"T1": 1}}
		}`},
		{"edge without error entry", `{
			"name": "x", "num_qubits": 2, "connectivity": [[0, 1]],
			"properties": {
				"0": {"T1": 1, "T2": 1, "eRO": 0, "tRO": 1, "eID": 0, "eSX": 0, "eX": 0},
				"1": {"T1": 1, "T2": 1, "eRO": 0, "tRO": 1, "eID": 0, "eSX": 0, "eX": 0}
			}
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseIBMCalibration([]byte(tt.data), "cx"); !errors.Is(err, ErrMalformedCalibration) {
				t.Errorf("parseIBMCalibration() error = %v, want ErrMalformedCalibration", err)
			}
		})
	}
}

package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Drewniok/mqt-bench/internal/device"
)

// WriteCalibrationSummary records the aggregate calibration figures of one
// imported device as a calibration_summary point, tagged by provider and
// device. A sequence of these points is the drift history the dashboards
// graph. Non-blocking; dropped silently when the client is not connected.
func (c *Client) WriteCalibrationSummary(provider, deviceName string, summary device.Summary, sanitized bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"calibration_summary",
		map[string]string{
			"provider": provider,
			"device":   deviceName,
		},
		map[string]interface{}{
			"num_qubits":            summary.NumQubits,
			"mean_t1":               summary.MeanT1,
			"mean_t2":               summary.MeanT2,
			"mean_readout_fidelity": summary.MeanReadoutFidelity,
			"mean_1q_fidelity":      summary.MeanSingleQubitGateF,
			"mean_2q_fidelity":      summary.MeanTwoQubitGateF,
			"sanitized":             sanitized,
		},
		time.Now(),
	)
	c.writeAPI.WritePoint(point)
}

// WriteImportDuration records how long one device import took, failures
// included. Spikes here usually mean a slow calibration source or a parser
// regression.
func (c *Client) WriteImportDuration(provider, deviceName string, elapsed time.Duration, success bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"import_duration",
		map[string]string{
			"provider": provider,
			"device":   deviceName,
		},
		map[string]interface{}{
			"elapsed_ms": float64(elapsed.Milliseconds()),
			"success":    success,
		},
		time.Now(),
	)
	c.writeAPI.WritePoint(point)
}

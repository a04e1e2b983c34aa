package provider

// Unit conversion factors applied during import. The canonical model is SI
// seconds throughout; vendor files report decoherence times in microseconds
// and gate or readout durations in nanoseconds unless noted otherwise per
// importer.
const (
	microsecondsToSeconds = 1e-6
	nanosecondsToSeconds  = 1e-9
)

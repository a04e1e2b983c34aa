// Package logging wraps log/slog for the calibration service.
//
// Every entry carries service and version attributes, and components tag
// their entries with logger.With, so a sweep over eleven devices produces
// log lines that filter cleanly by component, provider and device:
//
//	log := logging.New(cfg.Logging, version)
//	importLog := log.With("component", "importer")
//	importLog.Info("device imported", "provider", "ibm", "device", "ibm_montreal")
//
// Format, level and destination come from the logging section of
// config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json for ingestion, text for a dev console
//	  output: "stdout"   # stdout, stderr
//
// Never log tokens or credentials. Log a prefix or a length when a value
// must be traceable.
package logging

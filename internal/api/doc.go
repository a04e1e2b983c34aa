// Package api implements the HTTP REST API and WebSocket server for the
// calibration service.
//
// This package provides:
//   - REST endpoints for the provider catalogue and device imports
//   - Snapshot archive endpoints (create, list, fetch, latest)
//   - WebSocket hub for real-time import event broadcasts
//   - JWT authentication on mutating routes
//   - Middleware stack (request ID, logging, recovery, CORS)
//   - TLS support for production deployments
//
// # Architecture
//
// The API server sits between consumers (compilation pipelines, dashboards,
// research tooling) and the import layer + snapshot archive. Reads import
// calibration data on demand; archive writes persist a snapshot and announce
// it on the MQTT bus, which is relayed to WebSocket clients.
//
// # Security
//
// Mutating routes require a JWT bearer token signed with the configured
// secret. Tokens are issued by an external identity service; this server only
// verifies them. WebSocket connections authenticate with the same token
// passed as a query parameter.
//
// # Graceful Degradation
//
// The server operates without MQTT and InfluxDB: imports and archive reads
// work, only event broadcast and drift metrics are absent.
package api

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Drewniok/mqt-bench/internal/infrastructure/mqtt"
	"github.com/Drewniok/mqt-bench/internal/provider"
	"github.com/Drewniok/mqt-bench/internal/snapshot"
)

// handleCreateSnapshot imports a device and archives the result.
//
// The archived document is the full canonical Device as imported at request
// time. An archive event is published to the broker and, when InfluxDB is
// configured, the summary is recorded for drift tracking.
//
// Query parameters:
//   - sanitize: when true, the calibration is cleaned before archiving
func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	p, err := provider.ByName(chi.URLParam(r, "provider"))
	if err != nil {
		writeNotFound(w, "provider not found")
		return
	}

	sanitize := sanitizeParam(r)
	dev, err := provider.GetDevice(p, chi.URLParam(r, "device"), sanitize)
	if err != nil {
		if errors.Is(err, provider.ErrUnknownDevice) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("device import failed", "provider", p.Name(), "error", err)
		writeInternalError(w, "failed to import device")
		return
	}

	snap, err := snapshot.New(p.Name(), dev, sanitize)
	if err != nil {
		s.logger.Error("snapshot encoding failed", "device", dev.Name, "error", err)
		writeInternalError(w, "failed to encode snapshot")
		return
	}

	if err := s.snapshots.Save(r.Context(), snap); err != nil {
		s.logger.Error("snapshot save failed", "device", dev.Name, "error", err)
		writeInternalError(w, "failed to save snapshot")
		return
	}

	s.logger.Info("calibration snapshot archived",
		"snapshot_id", snap.ID,
		"provider", snap.Provider,
		"device", snap.Device,
		"sanitized", snap.Sanitized,
		"subject", r.Context().Value(ctxKeySubject),
	)

	s.publishSnapshotArchived(snap)
	if s.influx != nil {
		s.influx.WriteCalibrationSummary(snap.Provider, snap.Device, dev.Summarize(), snap.Sanitized)
	}

	writeJSON(w, http.StatusCreated, snap)
}

// publishSnapshotArchived announces an archived snapshot on the broker.
// Best-effort; archive success does not depend on broker availability.
func (s *Server) publishSnapshotArchived(snap *snapshot.Snapshot) {
	if s.mqtt == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"snapshot_id": snap.ID,
		"provider":    snap.Provider,
		"device":      snap.Device,
		"num_qubits":  snap.NumQubits,
		"sanitized":   snap.Sanitized,
		"created_at":  snap.CreatedAt,
	})
	if err != nil {
		return
	}

	topic := mqtt.Topics{}.SnapshotArchived(snap.Provider, snap.Device)
	if err := s.mqtt.Publish(topic, payload, 1, false); err != nil {
		s.logger.Warn("failed to publish snapshot event", "topic", topic, "error", err)
	}
}

// handleListSnapshots returns snapshot metadata, newest first.
//
// Query parameters:
//   - provider: filter by provider name
//   - device: filter by device name
//   - limit: maximum number of results
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	filter := snapshot.Filter{
		Provider: r.URL.Query().Get("provider"),
		Device:   r.URL.Query().Get("device"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	snapshots, err := s.snapshots.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("snapshot list failed", "error", err)
		writeInternalError(w, "failed to list snapshots")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"snapshots": snapshots, "count": len(snapshots)})
}

// handleLatestSnapshot returns the most recent snapshot for a device,
// payload included. Both provider and device query parameters are required.
func (s *Server) handleLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	providerName := r.URL.Query().Get("provider")
	deviceName := r.URL.Query().Get("device")
	if providerName == "" || deviceName == "" {
		writeBadRequest(w, "provider and device query parameters are required")
		return
	}

	snap, err := s.snapshots.Latest(r.Context(), providerName, deviceName)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			writeNotFound(w, "no snapshots for device")
			return
		}
		s.logger.Error("snapshot lookup failed", "error", err)
		writeInternalError(w, "failed to load snapshot")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// handleGetSnapshot returns a single snapshot by ID, payload included.
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshots.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			writeNotFound(w, "snapshot not found")
			return
		}
		s.logger.Error("snapshot lookup failed", "error", err)
		writeInternalError(w, "failed to load snapshot")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

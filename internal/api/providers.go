package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Drewniok/mqt-bench/internal/provider"
)

// providerSummary is the catalogue listing entry for a provider.
type providerSummary struct {
	Name        string   `json:"name"`
	Devices     []string `json:"devices"`
	NativeGates []string `json:"native_gates"`
}

// providerDetail extends the summary with figures derived from the full
// device catalogue.
type providerDetail struct {
	providerSummary
	MaxQubits  int        `json:"max_qubits"`
	BasisGates [][]string `json:"basis_gates"`
}

// handleListProviders returns the registered provider catalogue.
func (s *Server) handleListProviders(w http.ResponseWriter, _ *http.Request) {
	providers := provider.All()
	out := make([]providerSummary, 0, len(providers))
	for _, p := range providers {
		out = append(out, providerSummary{
			Name:        p.Name(),
			Devices:     p.DeviceNames(),
			NativeGates: p.NativeGates(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"providers": out, "count": len(out)})
}

// handleGetProvider returns a single provider with derived catalogue figures.
// This imports every device of the provider, so it is noticeably heavier
// than the listing endpoint.
func (s *Server) handleGetProvider(w http.ResponseWriter, r *http.Request) {
	p, err := provider.ByName(chi.URLParam(r, "provider"))
	if err != nil {
		writeNotFound(w, "provider not found")
		return
	}

	maxQubits, err := provider.MaxQubits(p)
	if err != nil {
		s.logger.Error("failed to derive provider figures", "provider", p.Name(), "error", err)
		writeInternalError(w, "failed to load provider catalogue")
		return
	}
	basisGates, err := provider.AvailableBasisGates(p)
	if err != nil {
		s.logger.Error("failed to derive provider figures", "provider", p.Name(), "error", err)
		writeInternalError(w, "failed to load provider catalogue")
		return
	}

	writeJSON(w, http.StatusOK, providerDetail{
		providerSummary: providerSummary{
			Name:        p.Name(),
			Devices:     p.DeviceNames(),
			NativeGates: p.NativeGates(),
		},
		MaxQubits:  maxQubits,
		BasisGates: basisGates,
	})
}

// handleListProviderDevices imports and returns every device of a provider.
//
// Query parameters:
//   - sanitize: when true, each calibration is cleaned before return
func (s *Server) handleListProviderDevices(w http.ResponseWriter, r *http.Request) {
	p, err := provider.ByName(chi.URLParam(r, "provider"))
	if err != nil {
		writeNotFound(w, "provider not found")
		return
	}

	devices, err := provider.AvailableDevices(p, sanitizeParam(r))
	if err != nil {
		s.logger.Error("device import failed", "provider", p.Name(), "error", err)
		writeInternalError(w, "failed to import devices")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetProviderDevice imports and returns a single device.
func (s *Server) handleGetProviderDevice(w http.ResponseWriter, r *http.Request) {
	p, err := provider.ByName(chi.URLParam(r, "provider"))
	if err != nil {
		writeNotFound(w, "provider not found")
		return
	}

	dev, err := provider.GetDevice(p, chi.URLParam(r, "device"), sanitizeParam(r))
	if err != nil {
		if errors.Is(err, provider.ErrUnknownDevice) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("device import failed", "provider", p.Name(), "error", err)
		writeInternalError(w, "failed to import device")
		return
	}

	writeJSON(w, http.StatusOK, dev)
}

// handleListDeviceNames returns the device names of all registered providers.
func (s *Server) handleListDeviceNames(w http.ResponseWriter, _ *http.Request) {
	names := provider.AllDeviceNames()
	writeJSON(w, http.StatusOK, map[string]any{"devices": names, "count": len(names)})
}

// handleGetDevice imports a device by name without knowing its provider.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	dev, err := provider.DeviceByName(chi.URLParam(r, "device"), sanitizeParam(r))
	if err != nil {
		if errors.Is(err, provider.ErrUnknownDevice) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("device import failed", "error", err)
		writeInternalError(w, "failed to import device")
		return
	}

	writeJSON(w, http.StatusOK, dev)
}

// sanitizeParam reads the optional sanitize query parameter.
// Absent or unparsable values mean false; raw calibration is the default.
func sanitizeParam(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("sanitize"))
	if err != nil {
		return false
	}
	return v
}

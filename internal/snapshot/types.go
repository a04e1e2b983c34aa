package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Drewniok/mqt-bench/internal/device"
)

// Snapshot is one archived calibration import.
type Snapshot struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	Device    string    `json:"device"`
	NumQubits int       `json:"num_qubits"`
	Sanitized bool      `json:"sanitized"`
	CreatedAt time.Time `json:"created_at"`

	// Payload is the canonical device document as imported. Omitted from
	// list responses to keep them small.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// New builds a snapshot from a freshly imported device.
func New(providerName string, dev *device.Device, sanitized bool) (*Snapshot, error) {
	payload, err := json.Marshal(dev)
	if err != nil {
		return nil, fmt.Errorf("encoding device %q: %w", dev.Name, err)
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		Provider:  providerName,
		Device:    dev.Name,
		NumQubits: dev.NumQubits,
		Sanitized: sanitized,
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}, nil
}

// Decode unmarshals the archived payload back into a device.
func (s *Snapshot) Decode() (*device.Device, error) {
	var dev device.Device
	if err := json.Unmarshal(s.Payload, &dev); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", s.ID, err)
	}
	return &dev, nil
}

package provider

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/Drewniok/mqt-bench/internal/device"
)

// Provider is the per-vendor import contract.
//
// Implementations are stateless value types: they own no data and act purely
// as factories for Devices. The derived catalogue operations (GetDevice,
// AvailableDevices, AvailableBasisGates, MaxQubits) are shared free
// functions over this contract rather than per-vendor code.
type Provider interface {
	// Name returns the unique short provider identifier (e.g. "ibm").
	Name() string

	// DeviceNames returns the fixed enumeration of devices this vendor
	// offers. It must be consulted before any import.
	DeviceNames() []string

	// NativeGates returns the vendor's canonical gate vocabulary. Purely
	// declarative; used by downstream compilation, not enforced here.
	NativeGates() []string

	// ImportDevice parses the vendor's raw calibration for the named device
	// into a populated Device. Implementations perform the vendor-specific
	// format, unit, and gate-name normalisation.
	ImportDevice(name string) (*device.Device, error)
}

// GetDevice imports a device by name, optionally sanitizing its calibration.
//
// The name is validated against the provider's enumeration first; an
// unlisted name fails with ErrUnknownDevice without touching any source.
// On any import failure no partial Device is returned.
func GetDevice(p Provider, name string, sanitize bool) (*device.Device, error) {
	if !slices.Contains(p.DeviceNames(), name) {
		return nil, fmt.Errorf("%w: %q is not offered by provider %q", ErrUnknownDevice, name, p.Name())
	}

	dev, err := p.ImportDevice(name)
	if err != nil {
		return nil, fmt.Errorf("importing %q: %w", name, err)
	}

	if sanitize {
		dev.Sanitize()
	}
	return dev, nil
}

// AvailableDevices imports every device the provider enumerates.
func AvailableDevices(p Provider, sanitize bool) ([]*device.Device, error) {
	names := p.DeviceNames()
	devices := make([]*device.Device, 0, len(names))
	for _, name := range names {
		dev, err := GetDevice(p, name, sanitize)
		if err != nil {
			return nil, err
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

// AvailableBasisGates returns the deduplicated basis gate sets across all of
// the provider's devices, in a stable order.
//
// This imports every device on each call; nothing is cached. Acceptable for
// the small device catalogues involved here.
func AvailableBasisGates(p Provider) ([][]string, error) {
	devices, err := AvailableDevices(p, false)
	if err != nil {
		return nil, err
	}

	seen := make(map[string][]string)
	for _, dev := range devices {
		seen[strings.Join(dev.BasisGates, ",")] = dev.BasisGates
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	gateSets := make([][]string, 0, len(keys))
	for _, key := range keys {
		gateSets = append(gateSets, seen[key])
	}
	return gateSets, nil
}

// MaxQubits returns the largest qubit count offered by the provider.
// Like AvailableBasisGates this re-imports every device on each call.
func MaxQubits(p Provider) (int, error) {
	devices, err := AvailableDevices(p, false)
	if err != nil {
		return 0, err
	}

	maxQubits := 0
	for _, dev := range devices {
		if dev.NumQubits > maxQubits {
			maxQubits = dev.NumQubits
		}
	}
	return maxQubits, nil
}

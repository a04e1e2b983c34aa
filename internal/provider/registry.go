package provider

import (
	"errors"
	"fmt"

	"github.com/Drewniok/mqt-bench/internal/device"
)

// registered lists all known providers in stable order.
// NOTE: update when adding a new vendor importer.
var registered = []Provider{
	IBMProvider{},
	IBMOpenAccessProvider{},
	IonQProvider{},
	IQMProvider{},
	OQCProvider{},
	QuantinuumProvider{},
}

// All returns every registered provider.
func All() []Provider {
	out := make([]Provider, len(registered))
	copy(out, registered)
	return out
}

// Names returns the names of all registered providers.
func Names() []string {
	names := make([]string, 0, len(registered))
	for _, p := range registered {
		names = append(names, p.Name())
	}
	return names
}

// ByName returns the provider with the given name, or ErrProviderNotFound.
func ByName(name string) (Provider, error) {
	for _, p := range registered {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, name)
}

// AllDeviceNames returns the device names of every registered provider,
// grouped by provider registration order.
func AllDeviceNames() []string {
	var names []string
	for _, p := range registered {
		names = append(names, p.DeviceNames()...)
	}
	return names
}

// DeviceByName searches all registered providers for a device with the
// given name and imports it. Returns ErrUnknownDevice if no provider
// enumerates the name; import failures from the owning provider are
// surfaced as-is.
func DeviceByName(name string, sanitize bool) (*device.Device, error) {
	for _, p := range registered {
		dev, err := GetDevice(p, name, sanitize)
		if err != nil {
			if errors.Is(err, ErrUnknownDevice) {
				continue
			}
			return nil, err
		}
		return dev, nil
	}
	return nil, fmt.Errorf("%w: %q not offered by any registered provider", ErrUnknownDevice, name)
}

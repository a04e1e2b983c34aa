package mqtt

import "fmt"

// Topic prefixes for the calibration service.
//
// Scheme: mqtbench/{category}/{provider}/{device}
const (
	// TopicPrefix is the base for all service topics.
	TopicPrefix = "mqtbench"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "mqtbench/system"

	// TopicPrefixCalibration is the base for calibration import events.
	TopicPrefixCalibration = "mqtbench/calibration"

	// TopicPrefixSnapshot is the base for snapshot archive events.
	TopicPrefixSnapshot = "mqtbench/snapshot"
)

// Topics provides builders for the service's MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	topic := topics.CalibrationImported("ibm", "ibm_montreal")
//	// Returns: "mqtbench/calibration/ibm/ibm_montreal"
type Topics struct{}

// CalibrationImported returns the topic for device import events. The
// payload is the calibration summary of the imported device.
//
// Example: mqtbench/calibration/ibm/ibm_montreal
func (Topics) CalibrationImported(provider, deviceName string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixCalibration, provider, deviceName)
}

// SnapshotArchived returns the topic for snapshot archive events.
//
// Example: mqtbench/snapshot/ibm/ibm_montreal
func (Topics) SnapshotArchived(provider, deviceName string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixSnapshot, provider, deviceName)
}

// SystemStatus returns the service status topic. Used for the LWT and the
// retained online/offline messages.
//
// Example: mqtbench/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllCalibrationEvents returns a pattern matching all import events.
//
// Pattern: mqtbench/calibration/+/+
func (Topics) AllCalibrationEvents() string {
	return fmt.Sprintf("%s/+/+", TopicPrefixCalibration)
}

// AllSnapshotEvents returns a pattern matching all archive events.
//
// Pattern: mqtbench/snapshot/+/+
func (Topics) AllSnapshotEvents() string {
	return fmt.Sprintf("%s/+/+", TopicPrefixSnapshot)
}

// ProviderCalibrationEvents returns a pattern matching all import events for
// one provider.
//
// Pattern: mqtbench/calibration/{provider}/+
func (Topics) ProviderCalibrationEvents(provider string) string {
	return fmt.Sprintf("%s/%s/+", TopicPrefixCalibration, provider)
}

// AllTopics returns a pattern matching every service topic.
// Use with caution - this receives ALL traffic.
//
// Pattern: mqtbench/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}

package mqtt

import "fmt"

// Topic prefixes for the daemon's event hierarchy.
//
// Device topics use the scheme iiod/device/{device_id}/{event}.
const (
	// TopicPrefix is the base for all daemon topics.
	TopicPrefix = "iiod"

	// TopicPrefixDevice is the base for per-device event topics.
	TopicPrefixDevice = "iiod/device"
)

// Topics provides builders for the daemon's MQTT topics. Using these
// helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	topics.DeviceOpened("iio:device0")
//	// Returns: "iiod/device/iio:device0/opened"
type Topics struct{}

// Status returns the retained daemon status topic.
//
// Example: iiod/status
func (Topics) Status() string {
	return fmt.Sprintf("%s/status", TopicPrefix)
}

// DeviceOpened returns the topic announcing a device entry creation.
//
// Example: iiod/device/iio:device0/opened
func (Topics) DeviceOpened(deviceID string) string {
	return fmt.Sprintf("%s/%s/opened", TopicPrefixDevice, deviceID)
}

// DeviceClosed returns the topic announcing a device entry teardown.
//
// Example: iiod/device/iio:device0/closed
func (Topics) DeviceClosed(deviceID string) string {
	return fmt.Sprintf("%s/%s/closed", TopicPrefixDevice, deviceID)
}

// DeviceError returns the topic announcing a device read failure.
//
// Example: iiod/device/iio:device0/error
func (Topics) DeviceError(deviceID string) string {
	return fmt.Sprintf("%s/%s/error", TopicPrefixDevice, deviceID)
}

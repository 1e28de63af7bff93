// Package mqtt publishes daemon events to an MQTT broker.
//
// The daemon is a pure publisher: entry lifecycle events (device opened,
// device closed, read errors) and the retained daemon status go out on the
// iiod/ topic hierarchy; nothing is subscribed to. Connection management,
// including automatic reconnection with exponential backoff and a Last
// Will marking the daemon offline, is handled by the wrapped paho client.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
package mqtt

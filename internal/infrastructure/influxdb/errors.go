package influxdb

import "errors"

// Errors returned by the InfluxDB client.
var (
	// ErrDisabled is returned by Connect when InfluxDB is disabled in
	// the configuration.
	ErrDisabled = errors.New("influxdb: disabled in configuration")

	// ErrConnectionFailed is returned when the server cannot be reached
	// or reports itself unhealthy.
	ErrConnectionFailed = errors.New("influxdb: connection failed")
)

// Package influxdb records streaming telemetry in InfluxDB.
//
// The daemon writes one point per hardware read (bytes, samples,
// subscriber count) and one per streaming session lifecycle event. Writes
// go through the non-blocking batched API, so a slow or absent InfluxDB
// never stalls a reader goroutine.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
package influxdb

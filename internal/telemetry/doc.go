// Package telemetry fans streaming-engine lifecycle notifications out to
// the configured observability backends.
//
// The Monitor implements stream.Monitor. Per-read metrics go straight to
// InfluxDB (whose write API is already non-blocking and batched); entry
// lifecycle events are published to MQTT from a dedicated goroutine fed by
// a bounded queue, because the engine invokes the monitor under its
// registry mutex and must never wait on a broker. When the queue is full
// events are dropped and counted, not blocked on.
//
// Both backends are optional; a Monitor with neither is a no-op.
package telemetry

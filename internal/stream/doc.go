// Package stream implements the device-multiplexing read engine at the
// heart of the daemon.
//
// Any number of clients may concurrently request raw samples from the same
// device. The engine opens each physical device at most once: the first
// request creates a registry entry and a dedicated reader goroutine, later
// requests attach to the existing entry as subscribers. Each hardware read
// is distributed to every subscriber in one pass, so all overlapping
// subscribers observe byte-identical substreams. When the last subscriber
// has been served, the reader removes the entry, closes the device and
// exits.
//
// Locking discipline:
//   - The registry mutex is always acquired before any entry's subscriber
//     mutex, never the reverse.
//   - No goroutine holds the subscriber mutex across a hardware read, so
//     slow I/O never blocks subscribers joining or leaving.
//   - The reader decides to terminate while holding the registry mutex,
//     which prevents a concurrent request from attaching to an entry that
//     is about to be torn down.
//
// A subscriber's completion is a single-fire channel carrying a terminal
// status in its slot; the requesting goroutine blocks on it and owns the
// subscriber storage across the wait. The reader only ever writes into it.
package stream

// Package iio defines the device model consumed by the streaming engine.
//
// This package provides:
//   - The Device interface every hardware backend implements
//   - The Context, an enumerated set of devices with id/name lookup
//   - POSIX errno mapping for the daemon's wire-level status codes
//   - A simulated backend for configuration-driven test rigs
//
// A Device exposes a stream of fixed-size samples plus a set of named
// attributes. The streaming engine opens a device at most once, reads raw
// sample bytes from it on a dedicated goroutine, and closes it when the last
// subscriber departs. Attribute access does not require the device to be
// open.
//
// Thread Safety:
//   - Context is immutable after construction and safe for concurrent use.
//   - Device implementations must tolerate concurrent attribute access, but
//     ReadRaw is only ever called from a single goroutine at a time.
package iio

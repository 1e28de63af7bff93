package stream

import (
	"fmt"
	"sync"

	"github.com/openiio/iiod-core/internal/iio"
)

// Logger defines the logging interface used by the engine.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Monitor receives engine lifecycle notifications, typically for telemetry.
// Implementations must not block: ReadCompleted fires once per hardware
// read and DeviceOpened is invoked under the registry mutex.
type Monitor interface {
	// DeviceOpened fires when a registry entry is created and its device
	// opened.
	DeviceOpened(deviceID string, sampleSize int)

	// DeviceClosed fires after the reader has torn the entry down.
	// status is zero for a normal exit, a negative errno if the reader
	// stopped on a device error.
	DeviceClosed(deviceID string, status int)

	// ReadCompleted fires after each hardware read has been distributed.
	ReadCompleted(deviceID string, bytes, samples, subscribers int)
}

// noopMonitor is a monitor that does nothing.
type noopMonitor struct{}

func (noopMonitor) DeviceOpened(string, int)            {}
func (noopMonitor) DeviceClosed(string, int)            {}
func (noopMonitor) ReadCompleted(string, int, int, int) {}

// DefaultChunkBytes bounds how many bytes one reader iteration may request
// from the hardware. The cap keeps large reads responsive: a subscriber
// joining or leaving waits at most one chunk, not one full request.
const DefaultChunkBytes = 1024

// devEntry is the registry record for one actively-streamed device.
//
// The entry is owned by its reader goroutine from the moment it is
// inserted; the registry map holds a lookup reference only. All
// subscribers of an entry share its sample size.
type devEntry struct {
	dev        iio.Device
	sampleSize int

	// mu guards subs. Never held across a hardware read.
	mu   sync.Mutex
	subs []*subscriber
}

// Registry is the process-wide mapping from device handle to its streaming
// entry. It serialises entry creation, lookup and removal, guarding the
// at-most-one-entry-per-device invariant.
//
// All public methods are safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	entries map[iio.Device]*devEntry

	chunk   int
	logger  Logger
	monitor Monitor
}

// NewRegistry creates an empty registry with the default per-iteration
// byte budget.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[iio.Device]*devEntry),
		chunk:   DefaultChunkBytes,
		logger:  noopLogger{},
		monitor: noopMonitor{},
	}
}

// SetLogger sets the logger for the registry and its reader goroutines.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// SetMonitor sets the telemetry monitor.
func (r *Registry) SetMonitor(monitor Monitor) {
	r.monitor = monitor
}

// SetChunkBytes overrides the per-iteration byte budget.
func (r *Registry) SetChunkBytes(n int) {
	if n > 0 {
		r.chunk = n
	}
}

// ActiveDevices returns the number of devices currently streaming.
func (r *Registry) ActiveDevices() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// lookupOrCreate returns the entry for dev, creating it if absent. On
// creation the device is opened and the reader goroutine launched; the
// entry is live in the map before the mutex is released, so no duplicate
// can ever be inserted.
//
// The caller must hold r.mu and must link a subscriber before releasing
// it: the reader tears down an entry it observes empty.
func (r *Registry) lookupOrCreate(dev iio.Device, sampleSize int) (*devEntry, error) {
	if e, ok := r.entries[dev]; ok {
		// Two clients reading the same device must agree on the
		// sample size for the lifetime of the entry.
		if e.sampleSize != sampleSize {
			return nil, fmt.Errorf("device %q: sample size %d conflicts with active readers at %d: %w",
				dev.ID(), sampleSize, e.sampleSize, iio.ErrInvalidArgument)
		}
		return e, nil
	}

	if err := dev.Open(); err != nil {
		return nil, fmt.Errorf("device %q: open: %w", dev.ID(), err)
	}

	e := &devEntry{dev: dev, sampleSize: sampleSize}
	r.entries[dev] = e
	go r.readLoop(e)

	r.logger.Debug("device entry created", "device", dev.ID(), "sample_size", sampleSize)
	r.monitor.DeviceOpened(dev.ID(), sampleSize)
	return e, nil
}

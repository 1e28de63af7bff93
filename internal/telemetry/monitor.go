package telemetry

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openiio/iiod-core/internal/infrastructure/mqtt"
)

// eventQueueSize bounds the MQTT publish backlog. Entry lifecycle events
// are rare; a small queue absorbs a broker hiccup without holding memory.
const eventQueueSize = 64

// EventPublisher is the MQTT surface the monitor needs.
type EventPublisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// MetricWriter is the InfluxDB surface the monitor needs.
type MetricWriter interface {
	WriteStreamRead(deviceID string, bytes, samples, subscribers int)
	WriteStreamSession(deviceID, event string, status int)
}

// Logger is the logging interface used by the monitor.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// event is one queued MQTT publication.
type event struct {
	topic   string
	payload []byte
}

// Monitor implements stream.Monitor over the configured backends.
type Monitor struct {
	pub     EventPublisher
	metrics MetricWriter
	qos     byte
	logger  Logger

	events  chan event
	dropped atomic.Uint64

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithPublisher attaches an MQTT event publisher.
func WithPublisher(pub EventPublisher, qos byte) Option {
	return func(m *Monitor) {
		m.pub = pub
		m.qos = qos
	}
}

// WithMetrics attaches an InfluxDB metric writer.
func WithMetrics(metrics MetricWriter) Option {
	return func(m *Monitor) {
		m.metrics = metrics
	}
}

// WithLogger attaches a logger.
func WithLogger(logger Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// New builds a monitor and starts its publish worker.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		logger: noopLogger{},
		events: make(chan event, eventQueueSize),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.wg.Add(1)
	go m.publishLoop()
	return m
}

// publishLoop drains queued events to the broker.
func (m *Monitor) publishLoop() {
	defer m.wg.Done()
	for ev := range m.events {
		if m.pub == nil {
			continue
		}
		if err := m.pub.Publish(ev.topic, ev.payload, m.qos, false); err != nil {
			m.logger.Warn("event publish failed", "topic", ev.topic, "error", err)
		}
	}
}

// enqueue hands an event to the publish worker without ever blocking the
// caller.
func (m *Monitor) enqueue(topic string, payload any) {
	if m.pub == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		m.logger.Warn("event marshal failed", "topic", topic, "error", err)
		return
	}
	select {
	case m.events <- event{topic: topic, payload: data}:
	default:
		m.dropped.Add(1)
		m.logger.Debug("event queue full, dropping", "topic", topic)
	}
}

// Dropped returns how many events were discarded because the queue was
// full.
func (m *Monitor) Dropped() uint64 {
	return m.dropped.Load()
}

// Close stops the publish worker after draining the queue.
func (m *Monitor) Close() {
	m.closeOnce.Do(func() {
		close(m.events)
	})
	m.wg.Wait()
}

// DeviceOpened implements stream.Monitor.
func (m *Monitor) DeviceOpened(deviceID string, sampleSize int) {
	if m.metrics != nil {
		m.metrics.WriteStreamSession(deviceID, "opened", 0)
	}
	m.enqueue(mqtt.Topics{}.DeviceOpened(deviceID), map[string]any{
		"device":      deviceID,
		"sample_size": sampleSize,
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}

// DeviceClosed implements stream.Monitor.
func (m *Monitor) DeviceClosed(deviceID string, status int) {
	if m.metrics != nil {
		m.metrics.WriteStreamSession(deviceID, "closed", status)
	}
	topic := mqtt.Topics{}.DeviceClosed(deviceID)
	if status < 0 {
		topic = mqtt.Topics{}.DeviceError(deviceID)
	}
	m.enqueue(topic, map[string]any{
		"device": deviceID,
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadCompleted implements stream.Monitor.
func (m *Monitor) ReadCompleted(deviceID string, bytes, samples, subscribers int) {
	if m.metrics != nil {
		m.metrics.WriteStreamRead(deviceID, bytes, samples, subscribers)
	}
}

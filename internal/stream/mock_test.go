package stream

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/openiio/iiod-core/internal/iio"
)

// readResult is one scripted hardware read.
type readResult struct {
	data []byte
	err  error
}

// mockDevice is a scriptable test device.
//
// With a reads channel, every ReadRaw blocks until the test feeds it a
// result, which makes interleavings deterministic. Without one, ReadRaw
// fills the buffer from a rolling byte counter and returns immediately.
type mockDevice struct {
	id   string
	name string

	// reads scripts the hardware; nil selects counter auto-fill.
	reads chan readResult
	// started receives one signal per ReadRaw call, before it blocks.
	started chan struct{}

	attrWriteErr error

	mu      sync.Mutex
	opens   int
	closes  int
	open    bool
	counter byte
	attrs   map[string]string
}

func newMockDevice(id string) *mockDevice {
	return &mockDevice{
		id:    id,
		name:  "mock-" + id,
		attrs: make(map[string]string),
	}
}

// newGatedMockDevice scripts reads through a channel of the given capacity.
func newGatedMockDevice(id string, capacity int) *mockDevice {
	d := newMockDevice(id)
	d.reads = make(chan readResult, capacity)
	d.started = make(chan struct{}, 64)
	return d
}

func (d *mockDevice) ID() string   { return d.id }
func (d *mockDevice) Name() string { return d.name }

func (d *mockDevice) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		return unix.EBUSY
	}
	d.open = true
	d.opens++
	return nil
}

func (d *mockDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return unix.EBADF
	}
	d.open = false
	d.closes++
	return nil
}

func (d *mockDevice) ReadRaw(buf []byte) (int, error) {
	if d.started != nil {
		d.started <- struct{}{}
	}
	if d.reads == nil {
		d.mu.Lock()
		for i := range buf {
			buf[i] = d.counter
			d.counter++
		}
		d.mu.Unlock()
		return len(buf), nil
	}
	res := <-d.reads
	if res.err != nil {
		return 0, res.err
	}
	return copy(buf, res.data), nil
}

func (d *mockDevice) AttrRead(attr string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	value, ok := d.attrs[attr]
	if !ok {
		return "", unix.ENOENT
	}
	return value, nil
}

func (d *mockDevice) AttrWrite(attr, value string) (int, error) {
	if d.attrWriteErr != nil {
		return 0, d.attrWriteErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attrs[attr] = value
	return len(value), nil
}

func (d *mockDevice) openCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

func (d *mockDevice) closeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

// safeBuffer is a concurrency-tolerant sink.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	return out
}

// failingSink accepts failAfter bytes, then rejects every write with
// EPIPE, the way a sink whose peer vanished would.
type failingSink struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	failAfter int
}

func (s *failingSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf.Len()+len(p) > s.failAfter {
		return 0, unix.EPIPE
	}
	return s.buf.Write(p)
}

// newTestClient builds a client whose sink buffer is one byte wide, so
// every multi-byte protocol write reaches the sink (and surfaces its
// errors) immediately. A single-byte write stays buffered until the next
// write or flush.
func newTestClient(ctx *iio.Context, sink io.Writer, verbose bool) *Client {
	c := NewClient(ctx, bytes.NewReader(nil), sink, verbose)
	c.Out = bufio.NewWriterSize(sink, 1)
	return c
}

// subscriberCount observes a device's subscriber list under both locks.
func subscriberCount(r *Registry, dev iio.Device) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[dev]
	if !ok {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

// readOutcome carries a ReadDev result across goroutines.
type readOutcome struct {
	n   int
	err error
}

// startRead launches ReadDev on its own goroutine.
func startRead(r *Registry, c *Client, id string, nb, sampleSize int) chan readOutcome {
	out := make(chan readOutcome, 1)
	go func() {
		n, err := r.ReadDev(c, id, nb, sampleSize)
		out <- readOutcome{n: n, err: err}
	}()
	return out
}

// header renders the non-verbose status line for n.
func header(n int) string {
	return fmt.Sprintf("%d\n", n)
}

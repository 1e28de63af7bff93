package stream

import (
	"fmt"

	"github.com/openiio/iiod-core/internal/iio"
)

// readLoop is the reader goroutine bound to one device entry. It runs the
// hardware-read loop while subscribers exist, distributes every read to
// all of them in one pass, and tears the entry down when the list empties
// or the device fails.
//
// The loop must exit holding the registry mutex and not the subscriber
// mutex: termination is decided under the registry mutex so that a
// concurrent request cannot attach to an entry that is about to die.
func (r *Registry) readLoop(e *devEntry) {
	maxSamples := r.chunk / e.sampleSize
	if maxSamples < 1 {
		// A sample wider than the byte budget still has to make
		// progress one sample at a time.
		maxSamples = 1
	}

	// ret carries the last hardware status across iterations: a byte
	// count, or a negative errno that the next iteration turns into a
	// teardown.
	ret := 0
	var readErr error

	for {
		r.mu.Lock()

		if ret < 0 {
			break
		}

		e.mu.Lock()
		if len(e.subs) == 0 {
			e.mu.Unlock()
			break
		}
		nbSamples := maxSamples
		for _, s := range e.subs {
			if s.remaining < nbSamples {
				nbSamples = s.remaining
			}
		}
		e.mu.Unlock()

		buf := make([]byte, nbSamples*e.sampleSize)

		r.mu.Unlock()

		// Hardware read with no locks held: a slow device must not
		// block joins or departures.
		n, err := e.dev.ReadRaw(buf)
		if err != nil {
			ret, readErr = iio.Status(err), err
		} else {
			ret, readErr = n, nil
		}

		e.mu.Lock()
		got := 0
		if ret > 0 {
			got = ret / e.sampleSize
		}

		kept := e.subs[:0]
		for _, s := range e.subs {
			if !s.verbose {
				fmt.Fprintf(s.out, "%d\n", ret)
			} else if ret < 0 {
				fmt.Fprintf(s.out, "ERROR reading device: %s\n", iio.Strerror(readErr))
			}
			if ret < 0 {
				// Left linked: teardown signals the error status.
				kept = append(kept, s)
				continue
			}

			// A subscriber linked after nbSamples was fixed may be
			// owed fewer samples than this read produced; it gets
			// fed from the next iteration instead.
			if got > s.remaining {
				kept = append(kept, s)
				continue
			}

			written, werr := writeAll(s.out, buf[:ret])
			s.remaining -= written / e.sampleSize
			if werr != nil {
				s.finish(iio.Status(werr))
				r.logger.Debug("subscriber sink failed",
					"device", e.dev.ID(), "error", werr)
				continue
			}
			if s.remaining == 0 {
				s.finish(0)
				continue
			}
			kept = append(kept, s)
		}
		// Drop unlinked tail references so finished subscribers can
		// be collected.
		for i := len(kept); i < len(e.subs); i++ {
			e.subs[i] = nil
		}
		e.subs = kept
		remaining := len(e.subs)
		e.mu.Unlock()

		r.monitor.ReadCompleted(e.dev.ID(), max(ret, 0), got, remaining)
	}

	// Teardown. The registry mutex is held from the break above until
	// the entry is out of the map.
	status := 0
	if ret < 0 {
		status = ret
	}

	e.mu.Lock()
	for _, s := range e.subs {
		s.finish(status)
	}
	e.subs = nil
	e.mu.Unlock()

	delete(r.entries, e.dev)
	r.mu.Unlock()

	if err := e.dev.Close(); err != nil {
		r.logger.Warn("device close failed", "device", e.dev.ID(), "error", err)
	}
	r.logger.Debug("reader finished", "device", e.dev.ID(), "status", status)
	r.monitor.DeviceClosed(e.dev.ID(), status)
}

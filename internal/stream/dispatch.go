package stream

import (
	"fmt"
	"io"

	"github.com/openiio/iiod-core/internal/iio"
)

// WriteStatus emits the per-command status framing for err on the client's
// sink: a human-readable error line in verbose mode, the signed errno
// otherwise. The sink is not flushed.
func WriteStatus(c *Client, err error) {
	if c.Verbose {
		fmt.Fprintf(c.Out, "ERROR: %s\n", iio.Strerror(err))
	} else {
		fmt.Fprintf(c.Out, "%d\n", iio.Status(err))
	}
}

// writeAll writes the whole of buf to w, reporting how many bytes made it
// out before any error.
func writeAll(w io.Writer, buf []byte) (int, error) {
	written := 0
	for written < len(buf) {
		n, err := w.Write(buf[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

// ReadDev services a "read nb samples" command: it resolves the device,
// attaches the client as a subscriber to the shared reader, and blocks
// until the subscriber has been served in full or failed.
//
// On success it returns nb*sampleSize. Structural failures (unknown
// device, sample-size conflict, open failure) are framed on the sink per
// the client's verbosity and returned as the negative wire status plus the
// error. Streaming failures are framed by the reader itself.
func (r *Registry) ReadDev(c *Client, id string, nb, sampleSize int) (int, error) {
	dev, ok := c.Ctx.Lookup(id)
	if !ok {
		err := fmt.Errorf("device %q: %w", id, iio.ErrNoDevice)
		WriteStatus(c, err)
		return iio.Status(err), err
	}
	if nb < 0 || sampleSize < 1 {
		err := fmt.Errorf("read %q: bad sample count %d or size %d: %w",
			id, nb, sampleSize, iio.ErrInvalidArgument)
		WriteStatus(c, err)
		return iio.Status(err), err
	}
	return r.readBuffer(c, dev, nb, sampleSize)
}

// readBuffer attaches a subscriber for nb samples of dev to the shared
// entry and waits for its completion signal.
func (r *Registry) readBuffer(c *Client, dev iio.Device, nb, sampleSize int) (int, error) {
	r.mu.Lock()
	e, err := r.lookupOrCreate(dev, sampleSize)
	if err != nil {
		r.mu.Unlock()
		WriteStatus(c, err)
		return iio.Status(err), err
	}

	// Link at the head while still under the registry mutex: the reader
	// only tears an entry down when it observes the list empty under
	// both locks, so the new subscriber pins the entry alive.
	sub := newSubscriber(c, nb)
	e.mu.Lock()
	e.subs = append(e.subs, nil)
	copy(e.subs[1:], e.subs)
	e.subs[0] = sub
	e.mu.Unlock()
	r.mu.Unlock()

	r.logger.Debug("subscriber linked",
		"client", c.ID, "device", dev.ID(), "samples", nb)

	<-sub.done

	if err := c.Out.Flush(); err != nil {
		r.logger.Debug("sink flush failed", "client", c.ID, "error", err)
	}

	if sub.status < 0 {
		err := fmt.Errorf("device %q: read: %w", dev.ID(), iio.StatusError(sub.status))
		return sub.status, err
	}
	return nb * sampleSize, nil
}

// ReadDevAttr services an attribute read: a header line carrying the byte
// count (or an error status), then the attribute bytes and a newline.
func (r *Registry) ReadDevAttr(c *Client, id, attr string) (int, error) {
	dev, ok := c.Ctx.Lookup(id)
	if !ok {
		err := fmt.Errorf("device %q: %w", id, iio.ErrNoDevice)
		WriteStatus(c, err)
		return iio.Status(err), err
	}

	value, err := dev.AttrRead(attr)
	if err != nil {
		WriteStatus(c, err)
		return iio.Status(err), err
	}

	fmt.Fprintf(c.Out, "%d\n", len(value))
	n, werr := writeAll(c.Out, []byte(value))
	if werr != nil {
		return iio.Status(werr), fmt.Errorf("device %q: attribute payload: %w", id, werr)
	}
	_ = c.Out.WriteByte('\n')
	return n, nil
}

// WriteDevAttr services an attribute write and frames the device's result.
func (r *Registry) WriteDevAttr(c *Client, id, attr, value string) (int, error) {
	dev, ok := c.Ctx.Lookup(id)
	if !ok {
		err := fmt.Errorf("device %q: %w", id, iio.ErrNoDevice)
		WriteStatus(c, err)
		return iio.Status(err), err
	}

	n, err := dev.AttrWrite(attr, value)
	if err != nil {
		WriteStatus(c, err)
		return iio.Status(err), err
	}
	fmt.Fprintf(c.Out, "%d\n", n)
	return n, nil
}

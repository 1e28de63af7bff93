package stream

import (
	"bufio"
	"io"

	"github.com/google/uuid"

	"github.com/openiio/iiod-core/internal/iio"
)

// Client is the per-connection record handed to the dispatcher by the
// outer session loop. The sink is buffered; the engine flushes it when a
// streaming read completes, the session loop flushes it after every
// command.
//
// Stop is written by the dispatcher (on EXIT) and read by the session loop
// only. The engine itself never consults it.
type Client struct {
	// ID correlates log lines belonging to one session.
	ID string

	In      io.Reader
	Out     *bufio.Writer
	Verbose bool
	Stop    bool

	// Ctx is the enumerated device set commands resolve against.
	Ctx *iio.Context
}

// NewClient builds a client record around an input source and output sink.
func NewClient(ctx *iio.Context, in io.Reader, out io.Writer, verbose bool) *Client {
	return &Client{
		ID:      uuid.NewString(),
		In:      in,
		Out:     bufio.NewWriter(out),
		Verbose: verbose,
		Ctx:     ctx,
	}
}

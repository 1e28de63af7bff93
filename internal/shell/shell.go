package shell

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/openiio/iiod-core/internal/iio"
	"github.com/openiio/iiod-core/internal/stream"
)

// prompt is written (unterminated, flushed) before each command in
// verbose mode.
const prompt = "iio-daemon > "

// Logger is the logging interface used by sessions.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Session drives one client through the command loop.
type Session struct {
	registry *stream.Registry
	client   *stream.Client
	version  string
	logger   Logger
}

// New creates a session for client against the given engine.
func New(registry *stream.Registry, client *stream.Client, version string) *Session {
	return &Session{
		registry: registry,
		client:   client,
		version:  version,
		logger:   noopLogger{},
	}
}

// SetLogger sets the session logger.
func (s *Session) SetLogger(logger Logger) {
	s.logger = logger
}

// Run executes the command loop until the client asks to stop or its input
// source is exhausted. Scanner failures on the input source are returned;
// command failures are framed to the client and logged only.
func (s *Session) Run() error {
	c := s.client
	scanner := bufio.NewScanner(c.In)

	s.logger.Info("session started", "client", c.ID, "verbose", c.Verbose)

	for !c.Stop {
		if c.Verbose {
			fmt.Fprint(c.Out, prompt)
			c.Out.Flush()
		}
		if !scanner.Scan() {
			break
		}
		s.dispatch(scanner.Text())
		if err := c.Out.Flush(); err != nil {
			s.logger.Warn("sink flush failed", "client", c.ID, "error", err)
		}
	}

	s.logger.Info("session finished", "client", c.ID)
	return scanner.Err()
}

// dispatch parses and executes one command line.
func (s *Session) dispatch(line string) {
	c := s.client
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch strings.ToUpper(fields[0]) {
	case "READBUF":
		if len(fields) != 4 {
			s.reject(line)
			return
		}
		nb, err1 := strconv.Atoi(fields[2])
		size, err2 := strconv.Atoi(fields[3])
		if err1 != nil || err2 != nil {
			s.reject(line)
			return
		}
		n, err := s.registry.ReadDev(c, fields[1], nb, size)
		s.logResult("READBUF", n, err)

	case "READ":
		if len(fields) != 3 {
			s.reject(line)
			return
		}
		n, err := s.registry.ReadDevAttr(c, fields[1], fields[2])
		s.logResult("READ", n, err)

	case "WRITE":
		if len(fields) < 4 {
			s.reject(line)
			return
		}
		value := strings.Join(fields[3:], " ")
		n, err := s.registry.WriteDevAttr(c, fields[1], fields[2], value)
		s.logResult("WRITE", n, err)

	case "PRINT":
		for _, dev := range c.Ctx.Devices() {
			fmt.Fprintf(c.Out, "%s\t%s\n", dev.ID(), dev.Name())
		}

	case "VERSION":
		fmt.Fprintf(c.Out, "%s\n", s.version)

	case "HELP":
		s.help()

	case "EXIT", "QUIT":
		c.Stop = true

	default:
		s.reject(line)
	}
}

// reject frames a malformed or unknown command.
func (s *Session) reject(line string) {
	s.logger.Debug("rejected command", "client", s.client.ID, "line", line)
	stream.WriteStatus(s.client, iio.ErrInvalidArgument)
}

func (s *Session) help() {
	out := s.client.Out
	fmt.Fprintln(out, "Available commands:")
	fmt.Fprintln(out, "\tHELP: print this help message")
	fmt.Fprintln(out, "\tEXIT: close the session")
	fmt.Fprintln(out, "\tPRINT: list the devices of the context")
	fmt.Fprintln(out, "\tVERSION: print the daemon version")
	fmt.Fprintln(out, "\tREADBUF <device> <nb_samples> <sample_size>: stream raw samples")
	fmt.Fprintln(out, "\tREAD <device> <attribute>: read a device attribute")
	fmt.Fprintln(out, "\tWRITE <device> <attribute> <value>: write a device attribute")
}

// logResult records a dispatcher outcome. Errors were already framed on
// the client's sink by the engine.
func (s *Session) logResult(verb string, n int, err error) {
	if err != nil {
		s.logger.Debug("command failed", "client", s.client.ID, "verb", verb, "error", err)
		return
	}
	s.logger.Debug("command complete", "client", s.client.ID, "verb", verb, "result", n)
}

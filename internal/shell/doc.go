// Package shell runs the interactive command session of the daemon.
//
// A session reads one command per line from the client's input source and
// routes it to the streaming engine's dispatcher. The protocol is the
// daemon's classic verb set:
//
//	READBUF <device> <nb_samples> <sample_size>
//	READ    <device> <attribute>
//	WRITE   <device> <attribute> <value...>
//	PRINT
//	VERSION
//	HELP
//	EXIT | QUIT
//
// Devices are addressed by id or name. In verbose mode the session emits
// the "iio-daemon > " prompt before each command and renders errors as
// human-readable lines; otherwise errors are answered with a signed numeric
// status line. READBUF, READ and WRITE frame their results with a numeric
// header line in either mode; PRINT, VERSION and HELP answer with plain
// text, and EXIT and blank lines produce no output.
//
// The session does not own a socket. It operates on whatever input source
// and output sink the caller hands it — stdin/stdout under a supervisor,
// a pipe pair in tests.
package shell

package iio

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// Wire-level error values. The daemon reports POSIX errnos to its clients,
// so the sentinels are plain errno values from golang.org/x/sys/unix —
// a client sees the same code a kernel driver would have produced.
var (
	// ErrNoDevice is returned when an id or name does not resolve.
	ErrNoDevice error = unix.ENODEV

	// ErrInvalidArgument is returned on malformed requests, including a
	// sample-size mismatch against an existing subscriber set.
	ErrInvalidArgument error = unix.EINVAL

	// ErrNoMemory is returned when a buffer cannot be allocated.
	ErrNoMemory error = unix.ENOMEM

	// ErrBusy is returned when opening a device that is already open.
	ErrBusy error = unix.EBUSY

	// ErrNotOpen is returned when closing or reading a device that is
	// not open.
	ErrNotOpen error = unix.EBADF

	// ErrNoAttr is returned when a named attribute does not exist.
	ErrNoAttr error = unix.ENOENT
)

// Status converts an error to the signed integer carried on the wire:
// zero for nil, the negated errno when one is present in the chain, and
// -EIO for anything unclassified.
func Status(err error) int {
	if err == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return -int(errno)
	}
	return -int(unix.EIO)
}

// StatusError converts a negative wire status back into its errno error.
// Non-negative statuses yield nil.
func StatusError(status int) error {
	if status >= 0 {
		return nil
	}
	return syscall.Errno(-status)
}

// errnoText carries strerror(3)-style descriptions for the errnos the
// daemon emits. syscall.Errno.Error() lower-cases its messages; clients of
// the original protocol expect the libc capitalisation, so the common codes
// are spelled out here.
var errnoText = map[syscall.Errno]string{
	unix.EPERM:     "Operation not permitted",
	unix.ENOENT:    "No such file or directory",
	unix.EINTR:     "Interrupted system call",
	unix.EIO:       "Input/output error",
	unix.ENXIO:     "No such device or address",
	unix.EAGAIN:    "Resource temporarily unavailable",
	unix.ENOMEM:    "Cannot allocate memory",
	unix.EACCES:    "Permission denied",
	unix.EBUSY:     "Device or resource busy",
	unix.ENODEV:    "No such device",
	unix.EINVAL:    "Invalid argument",
	unix.EBADF:     "Bad file descriptor",
	unix.EPIPE:     "Broken pipe",
	unix.ENOSYS:    "Function not implemented",
	unix.ETIMEDOUT: "Connection timed out",
}

// Strerror returns the human-readable description of the errno carried by
// err, for the verbose error framing. Errors without an errno in their
// chain are described as I/O errors.
func Strerror(err error) string {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		errno = unix.EIO
	}
	if text, ok := errnoText[errno]; ok {
		return text
	}
	return errno.Error()
}

// Package logging provides structured logging for the daemon.
//
// It wraps log/slog with level-based filtering, JSON or text output, and
// default fields identifying the service. Because the daemon's clients
// converse on stdout, logs default to stderr.
//
// Usage:
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("device opened", "device", "iio:device0")
//
//	sessionLog := log.With("client", clientID)
package logging

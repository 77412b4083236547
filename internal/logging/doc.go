// Package logging constructs the slog loggers used throughout captionsync.
//
// Two output formats are supported: a human-oriented console format and plain
// JSON. Field-key constants keep structured attributes consistent across
// components; WithComponent tags a logger with the emitting component name.
package logging

// File: internal/corelog/corelog.go
// Package corelog wraps the standard log package the way the teacher's
// facade/server/examples call log.Printf/log.Fatalf directly: one
// package-level *log.Logger, swappable for tests or alternate sinks.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package corelog

import (
	"io"
	"log"
	"os"
)

var logger = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)

// SetOutput redirects every subsequent log call to w, e.g. for tests that
// want to assert on log content instead of writing to stderr.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Printf logs an informational line.
func Printf(format string, args ...any) {
	logger.Printf(format, args...)
}

// Fatalf logs and terminates the process, the way the teacher's
// examples/*/main.go use log.Fatalf for unrecoverable startup errors.
func Fatalf(format string, args ...any) {
	logger.Fatalf(format, args...)
}

// Printf-style warning, distinguished only by the caller's prefix
// convention (the teacher does not carry structured levels, so this
// module doesn't invent one either).
func Warnf(format string, args ...any) {
	logger.Printf("WARN: "+format, args...)
}

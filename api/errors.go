// File: api/errors.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Closed error taxonomy for the transport/media core. Every fallible
// operation returns an error wrapping one of these kinds so callers can
// classify it with errors.As instead of string matching.

package api

import "fmt"

// ErrorKind enumerates the closed taxonomy of §4.9.
type ErrorKind int

const (
	ErrKindUnknown ErrorKind = iota
	ErrKindInvalidArgument
	ErrKindNotInitialized
	ErrKindAlreadyAttached
	ErrKindNotAttached
	ErrKindNoFreeChunk
	ErrKindQueueFull
	ErrKindBusy
	ErrKindChecksumIssue
	ErrKindHwCompletionIssue
	ErrKindUnsupported
	ErrKindInsufficientBar1
	ErrKindSignal
	ErrKindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindInvalidArgument:
		return "InvalidArgument"
	case ErrKindNotInitialized:
		return "NotInitialized"
	case ErrKindAlreadyAttached:
		return "AlreadyAttached"
	case ErrKindNotAttached:
		return "NotAttached"
	case ErrKindNoFreeChunk:
		return "NoFreeChunk"
	case ErrKindQueueFull:
		return "QueueFull"
	case ErrKindBusy:
		return "Busy"
	case ErrKindChecksumIssue:
		return "ChecksumIssue"
	case ErrKindHwCompletionIssue:
		return "HwCompletionIssue"
	case ErrKindUnsupported:
		return "Unsupported"
	case ErrKindInsufficientBar1:
		return "InsufficientBar1"
	case ErrKindSignal:
		return "Signal"
	case ErrKindTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Retryable reports whether the core's inner loops should retry on this
// kind rather than surface it to the application (§4.3, §7).
func (k ErrorKind) Retryable() bool {
	switch k {
	case ErrKindNoFreeChunk, ErrKindQueueFull, ErrKindBusy:
		return true
	default:
		return false
	}
}

// FatalToStream reports whether this kind requires the owning stream to be
// torn down while leaving sibling streams unaffected (§4.3, §7).
func (k ErrorKind) FatalToStream() bool {
	return k == ErrKindHwCompletionIssue
}

// Soft reports whether this kind is a per-packet soft error that only
// updates counters and is never raised as an exception (§4.9, §7).
func (k ErrorKind) Soft() bool {
	return k == ErrKindChecksumIssue
}

// CoreError is the concrete error type returned by this module's fallible
// operations, carrying a classification code and optional debugging context.
type CoreError struct {
	Kind    ErrorKind
	Message string
	Context map[string]any
}

func (e *CoreError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (context: %+v)", e.Kind, e.Message, e.Context)
}

// NewError constructs a CoreError of the given kind.
func NewError(kind ErrorKind, message string) *CoreError {
	return &CoreError{Kind: kind, Message: message}
}

// WithContext attaches a key/value pair for diagnostics, returning e for
// chaining.
func (e *CoreError) WithContext(key string, value any) *CoreError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Is supports errors.Is against a bare ErrorKind sentinel comparison by
// matching on Kind, since CoreError instances carry distinct messages.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Signal is the sentinel used throughout the core for cooperative shutdown;
// it bubbles up without being logged as an error (§4.3, §7).
var Signal = NewError(ErrKindSignal, "cooperative shutdown requested")

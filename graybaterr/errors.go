// Package graybaterr defines the typed error kinds surfaced by the core:
// directory misses, context mismatches, collective desync, substrate
// failures and invalid configuration. No kind is retried here; retry, if
// any, belongs to the substrate.
package graybaterr

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Kind classifies a core failure.
type Kind int

const (
	// DirectoryMiss indicates a lookup of a vertex or host that isn't
	// present in the Name Service directory: an unannounced graph or a
	// mapping mismatch.
	DirectoryMiss Kind = iota
	// ContextMismatch indicates an operation referenced a context of
	// which the local peer isn't a member.
	ContextMismatch
	// CollectiveDesync indicates the substrate detected a tag or size
	// mismatch among collective participants.
	CollectiveDesync
	// SubstrateFailure wraps a transport, serialization or resource
	// error surfaced verbatim from the policy layer.
	SubstrateFailure
	// ConfigInvalid indicates a configuration record was rejected at
	// construction time.
	ConfigInvalid
)

func (k Kind) String() string {
	switch k {
	case DirectoryMiss:
		return "DirectoryMiss"
	case ContextMismatch:
		return "ContextMismatch"
	case CollectiveDesync:
		return "CollectiveDesync"
	case SubstrateFailure:
		return "SubstrateFailure"
	case ConfigInvalid:
		return "ConfigInvalid"
	default:
		return "Unknown"
	}
}

// Error is a typed, wrapped core failure. It preserves its cause for
// xerrors.As/Is and %+v frame printing.
type Error struct {
	Kind  Kind
	Msg   string
	cause error
	frame xerrors.Frame
}

// New builds an Error of the given kind with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, frame: xerrors.Caller(1)}
}

// Wrap builds an Error of the given kind around cause.
func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, cause: cause, frame: xerrors.Caller(1)}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	e.frame.Format(p)
	return e.cause
}

func (e *Error) Format(f fmt.State, c rune) { xerrors.FormatError(e, f, c) }

// Is lets errors.Is(err, graybaterr.Sentinel(graybaterr.DirectoryMiss))
// work: any *Error target matches when its Kind equals e's.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel returns a bare *Error of the given kind, suitable as a
// comparison target for errors.Is.
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }

// DirectoryMissf builds a DirectoryMiss error.
func DirectoryMissf(format string, args ...interface{}) *Error {
	return New(DirectoryMiss, fmt.Sprintf(format, args...))
}

// ContextMismatchf builds a ContextMismatch error.
func ContextMismatchf(format string, args ...interface{}) *Error {
	return New(ContextMismatch, fmt.Sprintf(format, args...))
}

// ConfigInvalidf builds a ConfigInvalid error.
func ConfigInvalidf(format string, args ...interface{}) *Error {
	return New(ConfigInvalid, fmt.Sprintf(format, args...))
}

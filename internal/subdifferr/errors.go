// Package subdifferr defines the typed errors the driver turns into
// process exit codes, adapted from tig's internal/errors package: the
// same Type/Message/Code shape, but Code here is a process exit status
// (spec.md §6 "Exit codes") rather than an HTTP status, and there is no
// JSON serialization since nothing here crosses a wire.
package subdifferr

import "fmt"

type Kind string

const (
	KindIO            Kind = "IO"
	KindConfiguration Kind = "CONFIGURATION"
	KindAmbiguity     Kind = "AMBIGUITY"
	KindInternal      Kind = "INTERNAL"
)

// Error is the typed error every fallible operation in the pipeline
// returns. Internal errors are programmer mistakes (a violated
// invariant the core is supposed to maintain on its own) and are never
// expected to surface to a user; everything else is a condition
// spec.md §7 classifies as "data-driven" and maps to exit code 2.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// ExitCode maps the error's Kind to the process exit status spec.md §6
// specifies: IO, Configuration, and Ambiguity all abort with 2;
// Internal errors are a bug and are never meant to reach the driver's
// exit-code switch (they are expected to panic before they get there).
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindIO, KindConfiguration, KindAmbiguity:
		return 2
	default:
		panic("subdifferr: internal error reached ExitCode: " + e.Message)
	}
}

func IO(format string, args ...any) *Error {
	return &Error{Kind: KindIO, Message: fmt.Sprintf(format, args...)}
}

func Configurationf(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

func Ambiguity(message string) *Error {
	return &Error{Kind: KindAmbiguity, Message: message}
}

func Internalf(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

package allocator

import (
	"fmt"
	"runtime"
)

// errorCategory classifies an AllocatorError, adapted from a compiler
// front end's StandardError/ErrorCategory taxonomy. Only categorySystem
// (fatal) and categoryInternal (assertInvariant) are ever produced;
// categoryValidation is defined but unused, since invalid input returns nil
// or no-ops without an error.
type errorCategory string

const (
	categorySystem     errorCategory = "SYSTEM"     // OS primitive failure.
	categoryValidation errorCategory = "VALIDATION" // invalid input shape.
	categoryInternal   errorCategory = "INTERNAL"   // a broken invariant.
)

// AllocatorError is the error type the allocator's fatal-abort hook
// receives. Invalid input never produces one of these — those calls just
// return nil or no-op, silently.
type AllocatorError struct {
	Category errorCategory
	Message  string
	Caller   string
	Err      error
}

func (e *AllocatorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s (caller: %s): %v", e.Category, e.Message, e.Caller, e.Err)
	}

	return fmt.Sprintf("[%s] %s (caller: %s)", e.Category, e.Message, e.Caller)
}

func (e *AllocatorError) Unwrap() error {
	return e.Err
}

func newAllocatorError(category errorCategory, message string, cause error) *AllocatorError {
	caller := "unknown"

	if pc, _, _, ok := runtime.Caller(2); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &AllocatorError{
		Category: category,
		Message:  message,
		Caller:   caller,
		Err:      cause,
	}
}

// fatal reports an OS primitive failure: a break extension or mapping
// request denied by the kernel. There is no recovery path; the default
// hook panics, but a Config.OnFatal can translate that into whatever the
// host program needs (os.Exit, a supervisor restart, ...).
func (a *Allocator) fatal(message string, cause error) {
	err := newAllocatorError(categorySystem, message, cause)

	if a.config.OnFatal != nil {
		a.config.OnFatal(err)

		return
	}

	panic(err)
}

// assertInvariant reports an internal inconsistency: a list loop, a
// negative computed size, a block on the wrong list. These are treated as
// programming errors: assert in debug builds, undefined behaviour
// otherwise. A runtime check that does nothing unless Config.Debug is set.
func (a *Allocator) assertInvariant(ok bool, message string) {
	if ok || !a.config.Debug {
		return
	}

	panic(newAllocatorError(categoryInternal, message, nil))
}

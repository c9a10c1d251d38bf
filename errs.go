// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import "fmt"

type constError string

func (e constError) Error() string {
	return string(e)
}

// Error kinds. Specific errors below wrap one of these so callers can match
// the whole class with [errors.Is].
const (
	ErrConfiguration  = constError("configuration error")
	ErrScheduling     = constError("scheduling error")
	ErrRuntimeFailure = constError("runtime failure")
)

const ErrEmptyDraw = constError("draw from empty set")
const ErrElementNotFound = constError("element not in set")

const ErrDuplicateLocus = constError("duplicate locus name")
const ErrMissingParameter = constError("missing parameter")
const ErrSingletonLocus = constError("singleton locus membership is fixed")
const ErrElementKind = constError("element kind does not match locus")

const ErrEventInPast = constError("event time is before the current simulation time")
const ErrUnknownEvent = constError("no posted event with that id")

// RunError carries a failure raised by an event handler out to the run
// boundary. The engine stops stepping as soon as a handler fails; the
// remainder of the run is abandoned.
type RunError struct {
	Time  float64 // simulation time at which the handler failed
	Event string  // event name, if one was given
	Err   error
}

func (e *RunError) Error() string {
	if e.Event != "" {
		return fmt.Sprintf("%v: event %q failed at t=%v: %v", ErrRuntimeFailure, e.Event, e.Time, e.Err)
	}
	return fmt.Sprintf("%v: event failed at t=%v: %v", ErrRuntimeFailure, e.Time, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Is reports ErrRuntimeFailure as a match so callers need not know the
// concrete type.
func (e *RunError) Is(target error) bool {
	return target == ErrRuntimeFailure
}

package domain

import (
	"errors"
	"fmt"
)

// ErrProjectNotFound is returned by a store when no project has been persisted.
var ErrProjectNotFound = errors.New("project not found")

// ErrMalformedProject is returned by a store when the persisted project cannot be decoded
// or violates the document invariants.
var ErrMalformedProject = errors.New("malformed project")

// ErrFatalStartup wraps load failures that must abort the process.
var ErrFatalStartup = errors.New("fatal startup error")

// ErrPersistence wraps a failed write-through save. It is fatal to the owning actor.
var ErrPersistence = errors.New("persistence failure")

// ErrActorStopped is returned to callers whose request cannot be answered because
// the project actor has terminated.
var ErrActorStopped = errors.New("project actor stopped")

// ErrVolumeOutOfRange is returned when a patch carries a volume outside [MinVolume, MaxVolume].
var ErrVolumeOutOfRange = errors.New("volume out of range")

// ErrSourceUnavailable is returned by a volume source that cannot produce a reading.
var ErrSourceUnavailable = errors.New("volume source unavailable")

// ErrSubscriberAttached is returned when a second subscriber tries to attach to the event hub.
var ErrSubscriberAttached = errors.New("event subscriber already attached")

// ErrHubClosed is returned when publishing to or subscribing on a closed event hub.
var ErrHubClosed = errors.New("event hub closed")

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Field path, e.g. scenes[0].sounds[1].volume
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is / errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGraphState indicates a structural invariant is broken.
	ErrInvalidGraphState = errors.New("invalid graph state")
	ErrNoActiveSelection = errors.New("no active selection")
	ErrEmptySelection    = errors.New("selection matched no elements")
	// ErrInvalidReference is returned for IDs that do not resolve to a record.
	ErrInvalidReference  = errors.New("invalid reference")
	ErrMissingAttribute  = errors.New("missing attribute")
	ErrNoMovableElements = errors.New("no movable elements in selection")
	ErrNoEdges           = errors.New("graph has no edges")
	// ErrEmptyBatch is returned by batch inserts given nothing to insert.
	ErrEmptyBatch        = errors.New("nothing to add")
	// ErrNodeReferenced is returned under the forbid delete policy.
	ErrNodeReferenced    = errors.New("node is referenced by edges")
	ErrReservedAttribute = errors.New("reserved attribute name")
	ErrDuplicateTrigger  = errors.New("trigger already registered")
	ErrUnknownTrigger    = errors.New("unknown trigger")
)

// OpError records the logical operation that failed. The graph returned
// alongside it is the unchanged receiver.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opErr(op string, err error) error {
	var oe *OpError
	if errors.As(err, &oe) {
		return err
	}
	return &OpError{Op: op, Err: err}
}

// TriggerError is returned when a deferred action fails after the
// triggering mutation was committed and logged.
type TriggerError struct {
	Cause   string // operation that fired the trigger
	Trigger string
	Err     error
}

func (e *TriggerError) Error() string {
	return fmt.Sprintf("trigger %q after %s: %v", e.Trigger, e.Cause, e.Err)
}

func (e *TriggerError) Unwrap() error { return e.Err }

package engine

import (
	"errors"
	"fmt"
)

// Engine errors.
var (
	// ErrNotStarted indicates Tick was called before any mode was selected.
	ErrNotStarted = errors.New("engine: no mode selected")

	// ErrUnknownMode indicates a switch to an index or ID outside the registry.
	ErrUnknownMode = errors.New("engine: unknown mode")

	// ErrRegistrySize indicates the engine was built with the wrong number
	// of modes.
	ErrRegistrySize = errors.New("engine: wrong number of modes")

	// ErrDuplicateMode indicates two registered modes share an ID.
	ErrDuplicateMode = errors.New("engine: duplicate mode id")

	// ErrInvalidDt indicates a negative or non-finite frame delta.
	ErrInvalidDt = errors.New("engine: dt must be finite and non-negative")

	// ErrModePanic indicates a mode panicked during a lifecycle call.
	ErrModePanic = errors.New("engine: mode panicked")

	// ErrNoState indicates New was given a nil state or clock.
	ErrNoState = errors.New("engine: global state and clock are required")
)

// ModeError records a failure from a mode's Init, Update or Draw. The
// mode that produced it is halted until it is switched to again.
type ModeError struct {
	ModeID string
	Phase  string
	Frame  int
	Err    error
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("mode %s: %s at frame %d: %v", e.ModeID, e.Phase, e.Frame, e.Err)
}

func (e *ModeError) Unwrap() error {
	return e.Err
}

package scene

import (
	"errors"
	"fmt"
)

// Domain errors shared by modes and the engine.
var (
	// ErrConfiguration indicates a mode's dimensions or params are unusable
	// at init. Modes fail fast rather than misbehave in Update.
	ErrConfiguration = errors.New("scene: invalid mode configuration")

	// ErrParameterBounds indicates a global or mode parameter outside its
	// valid range.
	ErrParameterBounds = errors.New("scene: parameter out of valid bounds")

	// ErrUnknownParam indicates SetParam was called with a name the mode
	// does not expose.
	ErrUnknownParam = errors.New("scene: unknown parameter")

	// ErrViewport indicates a non-positive viewport dimension.
	ErrViewport = errors.New("scene: viewport dimensions must be positive")
)

// ConfigError wraps a configuration failure with the offending param.
type ConfigError struct {
	Mode    string
	Param   string
	Value   float64
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%g: %v", e.Mode, e.Param, e.Value, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

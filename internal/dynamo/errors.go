package dynamo

import "errors"

// Domain errors for the boundary layers (config, registry, storage). The
// numerical core never returns errors.
var (
	// ErrUnknownSystem indicates a system name that is not registered.
	ErrUnknownSystem = errors.New("dynamo: unknown system")

	// ErrUnknownParam indicates a parameter name the system does not define.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrParameterBounds indicates a parameter value outside its documented domain.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDimensionMismatch indicates a state of the wrong length for a system.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrInvalidConfig indicates a run configuration that cannot be executed.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrRunNotFound indicates a stored run id that does not exist.
	ErrRunNotFound = errors.New("dynamo: run not found")
)

// ParamError wraps ErrUnknownParam with the offending name.
type ParamError struct {
	System string
	Name   string
}

func (e *ParamError) Error() string {
	return "dynamo: unknown parameter " + e.Name + " for " + e.System
}

func (e *ParamError) Unwrap() error {
	return ErrUnknownParam
}

package cpu

import "errors"

var (
	ErrNoSceneData     = errors.New("cpu tracer: no scene data attached")
	ErrNoCamera        = errors.New("cpu tracer: scene defines no camera")
	ErrAlreadyAttached = errors.New("cpu tracer: tracer already attached to a scene")
	ErrInvalidFrame    = errors.New("cpu tracer: frame dimensions must be > 0")
)

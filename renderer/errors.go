package renderer

import "errors"

var (
	ErrNoTracers         = errors.New("renderer: no tracers attached")
	ErrSceneNotDefined   = errors.New("renderer: no scene defined")
	ErrCameraNotDefined  = errors.New("renderer: no camera defined")
	ErrInvalidFrameDims  = errors.New("renderer: frame dimensions must be >= 2")
	ErrInvalidSampleRate = errors.New("renderer: samples per pixel must be > 0")
	ErrInvalidTraceDepth = errors.New("renderer: max trace depth must be > 0")
	ErrInterrupted       = errors.New("renderer: interrupted while rendering")
)

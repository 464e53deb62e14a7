package renderer

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of samples to trace per pixel.
	SamplesPerPixel uint32

	// Maximum recursion depth for traced rays.
	MaxDepth uint32

	// Number of cpu tracers to spawn. Values <= 0 select one tracer per
	// hardware thread.
	NumWorkers int

	// Exposure for tonemapping. Values <= 0 select the neutral exposure.
	Exposure float32

	// Base seed for the per-block random number generators. Renders with
	// equal options and seeds are reproducible.
	Seed uint64
}

// Check option values and apply defaults.
func (o *Options) validate() error {
	if o.FrameW < 2 || o.FrameH < 2 {
		return ErrInvalidFrameDims
	}
	if o.SamplesPerPixel == 0 {
		return ErrInvalidSampleRate
	}
	if o.MaxDepth == 0 {
		return ErrInvalidTraceDepth
	}
	if o.Exposure <= 0 {
		o.Exposure = 1.0
	}
	return nil
}

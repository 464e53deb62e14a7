package renderer

import "image"

type Renderer interface {
	// Render frame.
	Render() error

	// Abort an in-progress render. Render returns ErrInterrupted.
	Interrupt()

	// Get the rendered frame as a tonemapped sRGB image.
	Frame() *image.RGBA

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

package tracer

import (
	"time"

	"github.com/achilleasa/borealis/scene"
	"github.com/achilleasa/borealis/types"
)

// A unit of work that is processed by a tracer. Requests describe a
// contiguous block of frame rows; tracers stream each completed row back
// through RowChan as soon as it is available.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The number of emitted rays per traced pixel.
	SamplesPerPixel uint32

	// Maximum recursion depth for traced rays.
	MaxDepth uint32

	// A seed value for the tracer's random number generator. Tracers must
	// derive all randomness for the block from this seed so that repeated
	// requests with equal seeds produce equal output.
	Seed uint64

	// Number of sequential rendered frames from the current camera position.
	FrameCount uint32

	// Completed rows are streamed over this channel.
	RowChan chan<- RowResult

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// A single completed frame row in linear radiance values.
type RowResult struct {
	// Frame row index.
	Y uint32

	// One radiance sample average per pixel, left to right.
	Pixels []types.Vec3
}

// Tracer statistics for the last rendered block.
type Stats struct {
	// The rendered block height.
	BlockH uint32

	// The time taken to render the last block.
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracer's computation speed estimate compared to a baseline
	// single-threaded implementation.
	SpeedEstimate() float32

	// Attach the tracer to a scene and frame dimensions. Setup must be
	// called before the first block is enqueued.
	Setup(sc *scene.Scene, frameW, frameH uint32) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last block statistics.
	Stats() *Stats

	// Shutdown and cleanup tracer.
	Close()
}

package renderer

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/achilleasa/borealis/log"
	"github.com/achilleasa/borealis/scene"
	"github.com/achilleasa/borealis/tracer"
	"github.com/achilleasa/borealis/tracer/cpu"
)

// Gamma value for the linear to sRGB conversion applied when the accumulated
// radiance is written to the output frame.
const displayGamma = 2.2

type defaultRenderer struct {
	logger log.Logger

	sceneData *scene.Scene
	scheduler tracer.BlockScheduler
	tracers   []tracer.Tracer
	options   Options

	// Last frame block assignment per tracer.
	blockAssignments []uint32

	// Linear radiance sums per pixel and the number of samples accumulated
	// into them so far. The buffer holds 3 floats per pixel in row order.
	accumBuffer  []float32
	accumSamples uint32

	// Tonemapped output.
	frameBuffer *image.RGBA

	// Channels for collecting completed rows and errors. The row channel
	// is buffered for a full frame so that in-flight blocks can always
	// drain even after the consumer has bailed out early.
	rowChan chan tracer.RowResult
	errChan chan error

	interruptOnce sync.Once
	interruptChan chan struct{}

	// Number of sequential frames rendered from the current scene state.
	frameCount uint32

	stats FrameStats
}

// Create a new renderer using the specified block scheduler, spawning one cpu
// tracer per worker.
func New(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	numWorkers := opts.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	tracers := make([]tracer.Tracer, numWorkers)
	for idx := range tracers {
		tracers[idx] = cpu.NewTracer(fmt.Sprintf("cpu-%d", idx))
	}

	return NewDefault(sc, scheduler, tracers, opts)
}

// Create a new renderer using the specified block scheduler and tracer pool.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, tracers []tracer.Tracer, opts Options) (Renderer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if len(tracers) == 0 {
		return nil, ErrNoTracers
	}

	sc.Camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	r := &defaultRenderer{
		logger:        log.New("renderer"),
		sceneData:     sc,
		scheduler:     scheduler,
		tracers:       tracers,
		options:       opts,
		accumBuffer:   make([]float32, opts.FrameW*opts.FrameH*3),
		frameBuffer:   image.NewRGBA(image.Rect(0, 0, int(opts.FrameW), int(opts.FrameH))),
		rowChan:       make(chan tracer.RowResult, opts.FrameH),
		errChan:       make(chan error, len(tracers)),
		interruptChan: make(chan struct{}),
	}

	for _, tr := range tracers {
		if err := tr.Setup(sc, opts.FrameW, opts.FrameH); err != nil {
			r.Close()
			return nil, err
		}
	}

	r.logger.Noticef("attached %d tracers for a %dx%d frame", len(tracers), opts.FrameW, opts.FrameH)
	return r, nil
}

// Render a full frame, tracing all requested samples in a single pass.
func (r *defaultRenderer) Render() error {
	return r.renderFrame(r.options.SamplesPerPixel)
}

// Get the rendered frame as a tonemapped sRGB image.
func (r *defaultRenderer) Frame() *image.RGBA {
	return r.frameBuffer
}

// Abort an in-progress render.
func (r *defaultRenderer) Interrupt() {
	r.interruptOnce.Do(func() {
		close(r.interruptChan)
	})
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
}

// Render a single frame pass tracing samplesPerPass samples per pixel and
// accumulate the result. The frame is split into contiguous row blocks by the
// scheduler with one block per tracer; completed rows stream back in
// arbitrary order and the accumulation loop below is their sole consumer.
func (r *defaultRenderer) renderFrame(samplesPerPass uint32) error {
	startTime := time.Now()

	r.blockAssignments = r.scheduler.Schedule(r.tracers, r.options.FrameH)

	var blockY uint32
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		tr.Enqueue(tracer.BlockRequest{
			BlockY:          blockY,
			BlockH:          blockH,
			SamplesPerPixel: samplesPerPass,
			MaxDepth:        r.options.MaxDepth,
			Seed:            blockSeed(r.options.Seed, r.frameCount, blockY),
			FrameCount:      r.frameCount,
			RowChan:         r.rowChan,
			ErrChan:         r.errChan,
		})
		blockY += blockH
	}

	// A frame is complete when every row has been received; block
	// boundaries carry no meaning on the consumer side.
	pendingRows := r.options.FrameH
	for pendingRows > 0 {
		select {
		case row := <-r.rowChan:
			r.accumulateRow(row, samplesPerPass)
			pendingRows--
		case err := <-r.errChan:
			return err
		case <-r.interruptChan:
			return ErrInterrupted
		}
	}

	r.accumSamples += samplesPerPass
	r.frameCount++

	r.updateFrameBuffer()
	r.collectStats(time.Since(startTime))
	return nil
}

// Fold a completed row into the accumulation buffer. Tracers report the
// per-pixel sample average so the values are weighted back into sums before
// accumulating.
func (r *defaultRenderer) accumulateRow(row tracer.RowResult, samplesPerPass uint32) {
	weight := float32(samplesPerPass)
	base := int(row.Y) * int(r.options.FrameW) * 3
	for x, pixel := range row.Pixels {
		offset := base + x*3
		r.accumBuffer[offset] += pixel[0] * weight
		r.accumBuffer[offset+1] += pixel[1] * weight
		r.accumBuffer[offset+2] += pixel[2] * weight
	}
}

// Convert the accumulated linear radiance to the sRGB output frame, applying
// exposure scaling and gamma correction.
func (r *defaultRenderer) updateFrameBuffer() {
	if r.accumSamples == 0 {
		return
	}

	scale := r.options.Exposure / float32(r.accumSamples)
	invGamma := 1.0 / float64(displayGamma)

	pixCount := int(r.options.FrameW) * int(r.options.FrameH)
	for pix := 0; pix < pixCount; pix++ {
		for c := 0; c < 3; c++ {
			v := math.Pow(float64(r.accumBuffer[pix*3+c]*scale), invGamma)
			if v > 1 {
				v = 1
			} else if v < 0 || math.IsNaN(v) {
				v = 0
			}
			r.frameBuffer.Pix[pix*4+c] = uint8(v*255.0 + 0.5)
		}
		r.frameBuffer.Pix[pix*4+3] = 0xff
	}
}

// Discard all accumulated samples. Called when the camera moves and the
// radiance sums no longer describe the visible scene.
func (r *defaultRenderer) resetAccumulation() {
	for idx := range r.accumBuffer {
		r.accumBuffer[idx] = 0
	}
	r.accumSamples = 0
}

func (r *defaultRenderer) collectStats(renderTime time.Duration) {
	r.stats.RenderTime = renderTime
	r.stats.Tracers = r.stats.Tracers[:0]
	for idx, tr := range r.tracers {
		stats := tr.Stats()
		r.stats.Tracers = append(r.stats.Tracers, TracerStat{
			Id:           tr.Id(),
			BlockH:       r.blockAssignments[idx],
			FramePercent: float32(r.blockAssignments[idx]) * 100.0 / float32(r.options.FrameH),
			RenderTime:   stats.RenderTime,
		})
	}
}

// Derive a block seed from the base seed, frame counter and block row. The
// mix ensures distinct rng streams for neighboring blocks and frames even
// with small base seeds.
func blockSeed(base uint64, frameCount, blockY uint32) uint64 {
	seed := base + uint64(frameCount)<<32 + uint64(blockY) + 1
	seed ^= seed >> 33
	seed *= 0xff51afd7ed558ccd
	seed ^= seed >> 33
	return seed
}

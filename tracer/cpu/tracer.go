package cpu

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/achilleasa/borealis/log"
	"github.com/achilleasa/borealis/scene"
	"github.com/achilleasa/borealis/tracer"
	"github.com/achilleasa/borealis/types"
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// The attached scene and frame dimensions.
	sceneData *scene.Scene
	frameW    uint32
	frameH    uint32

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for the last rendered block.
	stats *tracer.Stats
}

// Create a new cpu tracer. Each tracer runs a single worker goroutine; the
// renderer spawns one tracer per hardware thread.
func NewTracer(id string) tracer.Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		// Buffered by one so that a new frame's request can be posted
		// while the worker is still publishing stats for the previous one
		blockReqChan: make(chan tracer.BlockRequest, 1),
		stats:        &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate. All cpu workers are assumed to be
// symmetric so they share a baseline estimate.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return 1.0
}

// Attach the tracer to a scene and spawn its worker.
func (tr *cpuTracer) Setup(sc *scene.Scene, frameW, frameH uint32) error {
	tr.Lock()
	defer tr.Unlock()

	if tr.sceneData != nil {
		return ErrAlreadyAttached
	}
	if sc == nil {
		return ErrNoSceneData
	}
	if sc.Camera == nil {
		return ErrNoCamera
	}
	if frameW == 0 || frameH == 0 {
		return ErrInvalidFrame
	}

	tr.sceneData = sc
	tr.frameW = frameW
	tr.frameH = frameH

	tr.startWorker()
	return nil
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		// drop the request if worker is not listening
		tr.logger.Error("request processor did not receive block request")
	}
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-tr.closeChan
		close(tr.closeChan)
		tr.closeChan = nil
	}

	tr.sceneData = nil
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	if tr.closeChan != nil {
		return
	}
	tr.closeChan = make(chan struct{})

	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		close(readyChan)
		for {
			select {
			case blockReq := <-tr.blockReqChan:
				if err := tr.renderBlock(&blockReq); err != nil {
					blockReq.ErrChan <- err
					continue
				}
			case <-tr.closeChan:
				// Ack close
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render a block of rows, streaming each completed row to the requester. All
// randomness derives from the per-block seed so that repeated requests with
// the same seed reproduce the same output.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cpu tracer: block at row %d panicked: %v", blockReq.BlockY, r)
		}
	}()

	if tr.sceneData == nil {
		return ErrNoSceneData
	}

	startTime := time.Now()
	rng := rand.New(rand.NewSource(int64(blockReq.Seed)))
	camera := tr.sceneData.Camera

	invSamples := 1.0 / float32(blockReq.SamplesPerPixel)
	uScale := 1.0 / float32(tr.frameW-1)
	vScale := 1.0 / float32(tr.frameH-1)

	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		pixels := make([]types.Vec3, tr.frameW)

		// Image rows grow downwards while viewport t grows upwards
		vBase := float32(tr.frameH-1-y) * vScale
		for x := uint32(0); x < tr.frameW; x++ {
			uBase := float32(x) * uScale

			var color types.Vec3
			for sample := uint32(0); sample < blockReq.SamplesPerPixel; sample++ {
				u := uBase + rng.Float32()*uScale
				v := vBase + rng.Float32()*vScale
				r := camera.GetRay(rng, u, v)
				color = color.Add(rayColor(rng, tr.sceneData, r, blockReq.MaxDepth))
			}
			pixels[x] = color.Mul(invSamples)
		}

		// Publish stats before streaming the final row; the send on
		// RowChan is what makes them visible to the consumer.
		if y == blockReq.BlockY+blockReq.BlockH-1 {
			tr.stats.BlockH = blockReq.BlockH
			tr.stats.RenderTime = time.Since(startTime)
		}

		blockReq.RowChan <- tracer.RowResult{Y: y, Pixels: pixels}
	}

	return nil
}

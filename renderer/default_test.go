package renderer

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/achilleasa/borealis/scene"
	"github.com/achilleasa/borealis/tracer"
	"github.com/achilleasa/borealis/types"
)

func makeTestScene() *scene.Scene {
	sc := scene.New()
	sc.Camera = scene.NewCamera(60)
	return sc
}

func validOptions() Options {
	return Options{
		FrameW:          8,
		FrameH:          8,
		SamplesPerPixel: 1,
		MaxDepth:        4,
	}
}

func TestNewDefaultValidation(t *testing.T) {
	sc := makeTestScene()
	tracers := []tracer.Tracer{newMockBlockTracer(0)}

	type spec struct {
		sc      *scene.Scene
		tracers []tracer.Tracer
		mutate  func(*Options)
		expErr  error
	}
	specs := []spec{
		{nil, tracers, func(o *Options) {}, ErrSceneNotDefined},
		{scene.New(), tracers, func(o *Options) {}, ErrCameraNotDefined},
		{sc, nil, func(o *Options) {}, ErrNoTracers},
		{sc, tracers, func(o *Options) { o.FrameW = 0 }, ErrInvalidFrameDims},
		{sc, tracers, func(o *Options) { o.FrameH = 1 }, ErrInvalidFrameDims},
		{sc, tracers, func(o *Options) { o.SamplesPerPixel = 0 }, ErrInvalidSampleRate},
		{sc, tracers, func(o *Options) { o.MaxDepth = 0 }, ErrInvalidTraceDepth},
	}

	for index, s := range specs {
		opts := validOptions()
		s.mutate(&opts)
		if _, err := NewDefault(s.sc, tracer.NaiveScheduler(), s.tracers, opts); err != s.expErr {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestRenderAccumulatesAllRows(t *testing.T) {
	sc := makeTestScene()
	opts := validOptions()
	opts.SamplesPerPixel = 2

	// Two tracers that emit their rows in reverse order; the consumer must
	// still place every row at its own index.
	tracers := []tracer.Tracer{newMockBlockTracer(0.25), newMockBlockTracer(0.75)}
	r, err := NewDefault(sc, tracer.NaiveScheduler(), tracers, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err = r.Render(); err != nil {
		t.Fatalf("expected render to complete; got %v", err)
	}

	frame := r.Frame()
	bounds := frame.Bounds()
	if bounds.Dx() != int(opts.FrameW) || bounds.Dy() != int(opts.FrameH) {
		t.Fatalf("expected a %dx%d frame; got %dx%d", opts.FrameW, opts.FrameH, bounds.Dx(), bounds.Dy())
	}

	// Each mock tracer fills its rows with a radiance level derived from
	// the row index so misplaced or missing rows are detectable.
	for y := 0; y < int(opts.FrameH); y++ {
		exp := expectedDisplayValue(mockRowRadiance(uint32(y)), 1.0)
		for x := 0; x < int(opts.FrameW); x++ {
			got := frame.RGBAAt(x, y)
			if absDiffU8(got.R, exp) > 1 || absDiffU8(got.G, exp) > 1 || absDiffU8(got.B, exp) > 1 {
				t.Fatalf("pixel (%d, %d): expected channel value %d; got %v", x, y, exp, got)
			}
			if got.A != 0xff {
				t.Fatalf("pixel (%d, %d): expected opaque alpha; got %d", x, y, got.A)
			}
		}
	}
}

func TestRenderPropagatesTracerErrors(t *testing.T) {
	sc := makeTestScene()

	failing := newMockBlockTracer(0.5)
	failing.fail = true
	tracers := []tracer.Tracer{failing, newMockBlockTracer(0.5)}

	r, err := NewDefault(sc, tracer.NaiveScheduler(), tracers, validOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err = r.Render(); err == nil {
		t.Fatal("expected render to report the tracer error")
	}
}

func TestRenderInterrupt(t *testing.T) {
	sc := makeTestScene()

	// A tracer that never produces rows keeps Render blocked until the
	// interrupt fires.
	stalled := newMockBlockTracer(1)
	stalled.stall = true

	r, err := NewDefault(sc, tracer.NaiveScheduler(), []tracer.Tracer{stalled}, validOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	go func() {
		time.Sleep(10 * time.Millisecond)
		r.Interrupt()
	}()

	if err = r.Render(); err != ErrInterrupted {
		t.Fatalf("expected ErrInterrupted; got %v", err)
	}
}

// Radiance level a mock tracer reports for every pixel of a given row.
func mockRowRadiance(y uint32) float32 {
	return float32(y+1) / 16.0
}

// The display channel value the renderer should emit for a linear radiance
// level at the given exposure.
func expectedDisplayValue(radiance, exposure float32) uint8 {
	v := math.Pow(float64(radiance*exposure), 1.0/displayGamma)
	if v > 1 {
		v = 1
	}
	return uint8(v*255.0 + 0.5)
}

func absDiffU8(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

var errMockTracer = errors.New("mock tracer failure")

type mockBlockTracer struct {
	speed float32
	stats *tracer.Stats
	fail  bool
	stall bool
}

func newMockBlockTracer(speed float32) *mockBlockTracer {
	return &mockBlockTracer{speed: speed, stats: &tracer.Stats{}}
}

func (mt *mockBlockTracer) Id() string {
	return "mock"
}

func (mt *mockBlockTracer) SpeedEstimate() float32 {
	return mt.speed
}

func (mt *mockBlockTracer) Setup(_ *scene.Scene, _, _ uint32) error {
	return nil
}

func (mt *mockBlockTracer) Enqueue(req tracer.BlockRequest) {
	go func() {
		if mt.fail {
			req.ErrChan <- errMockTracer
			return
		}
		if mt.stall {
			return
		}

		// Stats must be visible before the final row arrives
		mt.stats.BlockH = req.BlockH

		// Emit rows bottom-up to exercise out of order placement
		for y := int(req.BlockY+req.BlockH) - 1; y >= int(req.BlockY); y-- {
			pixels := make([]types.Vec3, 8)
			radiance := mockRowRadiance(uint32(y))
			for x := range pixels {
				pixels[x] = types.XYZ(radiance, radiance, radiance)
			}
			req.RowChan <- tracer.RowResult{Y: uint32(y), Pixels: pixels}
		}
	}()
}

func (mt *mockBlockTracer) Stats() *tracer.Stats {
	return mt.stats
}

func (mt *mockBlockTracer) Close() {
}

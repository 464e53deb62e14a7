package cpu

import (
	"testing"

	"github.com/achilleasa/borealis/scene"
	"github.com/achilleasa/borealis/tracer"
	"github.com/achilleasa/borealis/types"
)

func makeTestScene() *scene.Scene {
	sc := scene.New()
	sc.AddSphere(scene.NewSphere(types.XYZ(0, 0, -2), 0.5, scene.NewLambertian(types.XYZ(0.8, 0.3, 0.3))))
	sc.Camera = scene.NewCamera(60)
	sc.Camera.Position = types.XYZ(0, 0, 0)
	sc.Camera.LookAt = types.XYZ(0, 0, -1)
	sc.Camera.SetupProjection(1.0)
	return sc
}

func TestTracerSetupValidation(t *testing.T) {
	sc := makeTestScene()

	tr := NewTracer("cpu-0")
	defer tr.Close()

	if err := tr.Setup(nil, 16, 16); err != ErrNoSceneData {
		t.Fatalf("expected ErrNoSceneData; got %v", err)
	}
	if err := tr.Setup(scene.New(), 16, 16); err != ErrNoCamera {
		t.Fatalf("expected ErrNoCamera; got %v", err)
	}
	if err := tr.Setup(sc, 0, 16); err != ErrInvalidFrame {
		t.Fatalf("expected ErrInvalidFrame; got %v", err)
	}
	if err := tr.Setup(sc, 16, 16); err != nil {
		t.Fatalf("expected setup to succeed; got %v", err)
	}
	if err := tr.Setup(sc, 16, 16); err != ErrAlreadyAttached {
		t.Fatalf("expected ErrAlreadyAttached; got %v", err)
	}
}

func renderBlockRows(t *testing.T, tr tracer.Tracer, req tracer.BlockRequest) map[uint32][]types.Vec3 {
	rowChan := make(chan tracer.RowResult, req.BlockH)
	errChan := make(chan error, 1)
	req.RowChan = rowChan
	req.ErrChan = errChan

	tr.Enqueue(req)

	rows := make(map[uint32][]types.Vec3, req.BlockH)
	for uint32(len(rows)) < req.BlockH {
		select {
		case row := <-rowChan:
			rows[row.Y] = row.Pixels
		case err := <-errChan:
			t.Fatalf("block render failed: %v", err)
		}
	}
	return rows
}

func TestTracerRendersRequestedRows(t *testing.T) {
	const frameW, frameH = 8, 8

	tr := NewTracer("cpu-0")
	defer tr.Close()
	if err := tr.Setup(makeTestScene(), frameW, frameH); err != nil {
		t.Fatal(err)
	}

	req := tracer.BlockRequest{
		BlockY:          2,
		BlockH:          3,
		SamplesPerPixel: 4,
		MaxDepth:        8,
		Seed:            1234,
	}
	rows := renderBlockRows(t, tr, req)

	for y := req.BlockY; y < req.BlockY+req.BlockH; y++ {
		pixels, exists := rows[y]
		if !exists {
			t.Fatalf("expected a result for row %d", y)
		}
		if len(pixels) != frameW {
			t.Fatalf("expected %d pixels for row %d; got %d", frameW, y, len(pixels))
		}
	}

	// Receiving the final row guarantees the stats for the block are
	// already published
	stats := tr.Stats()
	if stats.BlockH != req.BlockH {
		t.Fatalf("expected stats to report %d rendered rows; got %d", req.BlockH, stats.BlockH)
	}
	if stats.RenderTime <= 0 {
		t.Fatalf("expected a positive render time; got %v", stats.RenderTime)
	}
}

func TestTracerOutputIsSeedDeterministic(t *testing.T) {
	const frameW, frameH = 8, 8

	req := tracer.BlockRequest{
		BlockY:          0,
		BlockH:          frameH,
		SamplesPerPixel: 2,
		MaxDepth:        4,
		Seed:            42,
	}

	renderOnce := func() map[uint32][]types.Vec3 {
		tr := NewTracer("cpu-0")
		defer tr.Close()
		if err := tr.Setup(makeTestScene(), frameW, frameH); err != nil {
			t.Fatal(err)
		}
		return renderBlockRows(t, tr, req)
	}

	first := renderOnce()
	second := renderOnce()
	for y, pixels := range first {
		for x := range pixels {
			if pixels[x] != second[y][x] {
				t.Fatalf("expected equal seeds to reproduce pixel (%d, %d); got %v and %v", x, y, pixels[x], second[y][x])
			}
		}
	}
}

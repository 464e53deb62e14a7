package cmd

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/achilleasa/borealis/renderer"
	"github.com/achilleasa/borealis/tracer"
	"github.com/achilleasa/borealis/tracer/cpu"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Assemble renderer options from the cli flags.
func rendererOptions(ctx *cli.Context) renderer.Options {
	return renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		MaxDepth:        uint32(ctx.Int("depth")),
		NumWorkers:      ctx.Int("workers"),
		Exposure:        float32(ctx.Float64("exposure")),
		Seed:            uint64(ctx.Int64("seed")),
	}
}

// Spawn one cpu tracer per requested worker.
func makeTracers(numWorkers int) []tracer.Tracer {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	tracers := make([]tracer.Tracer, numWorkers)
	for idx := range tracers {
		tracers[idx] = cpu.NewTracer(fmt.Sprintf("cpu-%d", idx))
	}
	return tracers
}

// Render a still frame and export it as a png file.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := setupScene(ctx)
	if err != nil {
		return err
	}

	opts := rendererOptions(ctx)
	r, err := renderer.New(sc, tracer.NaiveScheduler(), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	// Abort cleanly on ctrl-c
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		logger.Notice("interrupt received; aborting render")
		r.Interrupt()
	}()

	logger.Notice("rendering frame")
	start := time.Now()
	if err = r.Render(); err != nil {
		return err
	}
	logger.Noticef("rendered frame in %d ms", time.Since(start).Nanoseconds()/1000000)
	displayFrameStats(r.Stats())

	// Export PNG
	imgFile := ctx.String("out")
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = png.Encode(f, r.Frame()); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", imgFile)

	return nil
}

// Render a continuously refined view of the scene in an opengl window.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	// The glfw event loop must run on the main thread
	runtime.LockOSThread()

	sc, err := setupScene(ctx)
	if err != nil {
		return err
	}

	opts := rendererOptions(ctx)
	r, err := renderer.NewInteractive(sc, tracer.PerfectScheduler(), makeTracers(opts.NumWorkers), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Render()
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}

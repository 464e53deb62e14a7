package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/borealis/scene"
	"github.com/achilleasa/borealis/scene/bvh"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Description"})
	for _, gen := range scene.Generators() {
		table.Append([]string{gen.Name, gen.Description})
	}
	table.Render()

	logger.Noticef("built-in scenes\n%s", buf.String())
	return nil
}

// Build the scene selected by the cli arguments and compile its acceleration
// structure.
func setupScene(ctx *cli.Context) (*scene.Scene, error) {
	sceneName := ctx.Args().First()
	if sceneName == "" {
		sceneName = "one-weekend"
	}

	gen, exists := scene.GeneratorByName(sceneName)
	if !exists {
		return nil, fmt.Errorf("unknown scene %q; run the scenes command for the available ones", sceneName)
	}

	sc := gen.Create(ctx.Int64("seed"))
	sc.Build(bvh.SurfaceAreaHeuristic, 2)
	return sc, nil
}

package main

import (
	"os"

	"github.com/achilleasa/borealis/cmd"
	"github.com/urfave/cli"
)

func renderFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 512,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 512,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "spp",
			Value: 16,
			Usage: "samples per pixel",
		},
		cli.IntFlag{
			Name:  "depth",
			Value: 32,
			Usage: "maximum trace depth per ray",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "number of cpu tracers; 0 selects one per hardware thread",
		},
		cli.Float64Flag{
			Name:  "exposure",
			Value: 1.0,
			Usage: "camera exposure for tone-mapping",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 42,
			Usage: "seed for scene generation and sampling",
		},
	}
	return append(flags, extra...)
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "borealis"
	app.Usage = "render procedural sphere scenes using path tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:   "render",
			Usage:  "render scene",
			Action: nil,
			Subcommands: []cli.Command{
				{
					Name:  "frame",
					Usage: "render single frame",
					Description: `
Render a single frame of a built-in scene and save it as a png file. The scene
is selected by name; run the scenes command for the available ones.`,
					ArgsUsage: "[scene-name]",
					Flags: renderFlags(
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
					),
					Action: cmd.RenderFrame,
				},
				{
					Name:  "interactive",
					Usage: "render interactive view of the scene",
					Description: `
Open a window displaying a progressively refined render of a built-in scene.
The arrow keys move the camera and dragging with the left mouse button rotates
it; both restart the sample accumulation. Tab toggles the scheduler overlay
and escape exits.`,
					ArgsUsage: "[scene-name]",
					Flags:     renderFlags(),
					Action:    cmd.RenderInteractive,
				},
			},
		},
	}

	app.Run(os.Args)
}

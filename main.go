/*
Vectorgrid is a single page animated vector field: a grid of cells, each
carrying a small oriented shape, driven by a library of waveform animators
(waves, radial pulses, noise flow, flocking). The simulation runs server-side
and pushes idempotent view updates to the browser over a websocket; the page
sends back interaction events (clicks become pulses, resizes regenerate the
grid). Both an SVG and a raster canvas backend render the same snapshots,
deriving their geometry from one shared set of shape formulas.
*/

package main

import (
	"context"
	"flag"
	"fmt"

	"vectorgrid/config"
	"vectorgrid/controls"
	"vectorgrid/geometry"
	"vectorgrid/server"
	"vectorgrid/simulation"
)

var (
	dbg      *bool
	host     *string
	port     *string
	confPath *string
	addr     string
)

func init() {
	dbg = flag.Bool("debug", false, "debug mode")
	host = flag.String("host", "", "The host ip")
	port = flag.String("port", "8080", "The host port")
	confPath = flag.String("config", "./config.yaml", "Path to the config file")
}

// display applies the surface defaults: the browser reports its real size
// over the websocket, but the first page render needs something sane.
func display(cfg *config.Config, debug bool) server.Display {
	d := server.Display{
		Style:       cfg.Style,
		Width:       cfg.Surface.Width,
		Height:      cfg.Surface.Height,
		DeviceScale: cfg.Surface.DeviceScale,
		Renderer:    cfg.Surface.Renderer,
		Debug:       debug,
	}
	if d.Width <= 0 {
		d.Width = 1280
	}
	if d.Height <= 0 {
		d.Height = 720
	}
	return d
}

func runApp() (err error) {
	var cfg *config.Config
	if cfg, err = config.FromYaml(*confPath); err != nil {
		return
	}
	if *dbg {
		fmt.Print(cfg.Dump())
	}

	var gridProps controls.Props
	if gridProps, err = cfg.Grid.Props(); err != nil {
		return
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Resolve the initial layout the same way later selector changes will.
	disp := display(cfg, *dbg)
	eff := controls.NewStore(gridProps, nil).Effective()
	layout := geometry.Compute(float64(disp.Width), float64(disp.Height), eff.Settings, eff.Ratio)

	var controller *simulation.Controller
	if controller, err = simulation.NewController(layout, cfg.Animation); err != nil {
		return
	}
	go controller.Run(appCtx)

	srv := server.NewServer(appCtx, addr, controller, disp, cfg.Animation, gridProps)
	err = srv.Serve()
	return
}

func main() {
	flag.Parse()
	addr = *host + ":" + *port
	if err := runApp(); err != nil {
		fmt.Println(err)
	}
}

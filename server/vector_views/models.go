// vector_views holds the view components that present a live vector field:
// an SVG grid view, a raster canvas view, and a stats readout. All three
// consume the same Frame view-model and emit ele-updates for the page.
package vector_views

import (
	"vectorgrid/shapes"
	"vectorgrid/simulation"
)

// Frame is the view-model: one snapshot of the field plus the display state
// needed to draw it. Frames are idempotent; applying only the latest one
// fully specifies the page.
type Frame struct {
	Vectors []simulation.Vector
	Style   shapes.Style
	// Surface size in CSS pixels.
	Width  int
	Height int
	// Renderer selects which backend view is active: "svg" or "canvas".
	Renderer string
	// DeviceScale is the client's device-pixel ratio, applied by the canvas view.
	DeviceScale float64
	// T is the animation clock, for time-dependent color functions.
	T float64

	FPS    float64
	Drops  int64
	Faults int64

	// Debug enables the diagnostic readouts; without it an empty grid renders
	// as an empty, valid page.
	Debug bool
}

const (
	RendererSVG    = "svg"
	RendererCanvas = "canvas"
)

// displayOp emits the visibility toggle each backend view applies to its
// container so that exactly one of the two is shown.
func displayOp(active bool) string {
	if active {
		return "display:block"
	}
	return "display:none"
}

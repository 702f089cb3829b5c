package vector_views

import (
	"fmt"
	"html/template"
	"log"

	channerics "github.com/niceyeti/channerics/channels"

	"vectorgrid/render"
	"vectorgrid/server/fastview"
)

// CanvasView renders the vector grid through the raster backend: each frame
// is drawn server-side into an RGBA surface, PNG-encoded, and pushed as the
// src of an img element. Unlike the SVG view there is no retained structure;
// every frame is a full clear-and-redraw.
type CanvasView struct {
	id      string
	updates <-chan []fastview.EleUpdate
	// raster is rebuilt when the surface size or device scale changes.
	// Mutated only from the convert goroutine.
	raster      *render.Raster
	width       int
	height      int
	deviceScale float64
}

func NewCanvasView(
	done <-chan struct{},
	frames <-chan Frame,
) (cv *CanvasView) {
	cv = &CanvasView{id: "canvasview"}
	cv.updates = channerics.Convert(done, frames, cv.onUpdate)
	return
}

func (cv *CanvasView) Updates() <-chan []fastview.EleUpdate {
	return cv.updates
}

func (cv *CanvasView) onUpdate(f Frame) (ops []fastview.EleUpdate) {
	active := f.Renderer == RendererCanvas
	ops = append(ops, fastview.EleUpdate{
		EleId: cv.id,
		Ops:   []fastview.Op{{Key: "style", Value: displayOp(active)}},
	})
	if !active {
		// Skip the draw and encode work while hidden.
		return
	}

	if cv.raster == nil || cv.width != f.Width || cv.height != f.Height || cv.deviceScale != f.DeviceScale {
		cv.width, cv.height, cv.deviceScale = f.Width, f.Height, f.DeviceScale
		cv.raster = render.NewRaster(f.Width, f.Height, f.DeviceScale)
		ops = append(ops, fastview.EleUpdate{
			EleId: cv.id + "-img",
			Ops: []fastview.Op{
				{Key: "width", Value: fmt.Sprintf("%d", f.Width)},
				{Key: "height", Value: fmt.Sprintf("%d", f.Height)},
			},
		})
	}

	img := cv.raster.Draw(f.Vectors, f.Style, f.T)
	uri, err := render.DataURI(img)
	if err != nil {
		// Encoding failure drops this frame; the next redraw recovers.
		log.Printf("canvas frame encode: %v", err)
		return
	}

	return append(ops, fastview.EleUpdate{
		EleId: cv.id + "-img",
		Ops:   []fastview.Op{{Key: "src", Value: uri}},
	})
}

// Parse adds the canvas view's template: an img sized to the surface whose
// src carries each rendered frame.
func (cv *CanvasView) Parse(
	t *template.Template,
) (name string, err error) {
	name = cv.id
	_, err = t.Parse(
		`{{ define "` + name + `" }}
		<div id="` + cv.id + `" style="display:none">
			<img id="` + cv.id + `-img" alt="vector field"
				width="{{ .Width }}" height="{{ .Height }}"
				style="background:#101418;" />
		</div>
		{{ end }}`)
	return
}

package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"
	"testing"

	"vectorgrid/geometry"
	"vectorgrid/shapes"
	"vectorgrid/simulation"

	. "github.com/smartystreets/goconvey/convey"
)

func snapshotFor(rows, cols int) []simulation.Vector {
	layout := geometry.Compute(200, 200, geometry.Settings{Rows: rows, Cols: cols, Spacing: 50}, geometry.Ratio{Mode: geometry.RatioAuto})
	snap := make([]simulation.Vector, len(layout.Cells))
	for i, cell := range layout.Cells {
		snap[i] = simulation.Vector{
			Cell:   cell,
			Angle:  float64(i) * 0.3,
			Length: 1,
			Width:  1,
		}
	}
	return snap
}

func TestBackendEquivalence(t *testing.T) {
	Convey("When both backends place the same shape", t, func() {
		// The SVG transform and the raster affine must agree on the shape's
		// visual center and angle within the output precision.
		cases := []struct {
			angle, lf, wf float64
			origin        shapes.Origin
		}{
			{0, 1, 1, shapes.OriginCenter},
			{math.Pi / 3, 1, 1, shapes.OriginStart},
			{-math.Pi / 4, 1.5, 0.8, shapes.OriginEnd},
			{2.9, 0.5, 2, shapes.OriginStart},
		}

		const baseLength = 24.0
		pivot := shapes.Point{X: 100, Y: 80}

		for _, tc := range cases {
			offset := shapes.LocalOffset(tc.origin, baseLength)

			// The raster maps the shape-local center (0,0) through Apply;
			// Place computes the same center from the scaled length.
			rasterCenter := shapes.Apply(pivot, tc.angle, tc.lf, tc.wf, offset, shapes.Point{})
			place := shapes.Place(pivot.X, pivot.Y, tc.angle, baseLength*tc.lf, tc.origin)

			So(rasterCenter.X, ShouldAlmostEqual, place.Center.X, 1e-5)
			So(rasterCenter.Y, ShouldAlmostEqual, place.Center.Y, 1e-5)

			// The SVG transform carries the same pivot, angle and factors.
			tr := shapes.SVGTransform(pivot, tc.angle, tc.lf, tc.wf, offset)
			So(tr, ShouldContainSubstring, "translate(100 80)")
			So(tr, ShouldContainSubstring, fmt.Sprintf("rotate(%v)", shapes.Degrees(tc.angle)))
		}
	})
}

func TestRasterDraw(t *testing.T) {
	Convey("When the raster backend draws a snapshot", t, func() {
		raster := NewRaster(200, 200, 1)
		style := shapes.Style{
			Shape:  shapes.Arrow,
			Length: 30,
			Width:  6,
			Color:  shapes.ColorSpec{Mode: shapes.ColorSolid, Solid: "#ff0000"},
		}
		img := raster.Draw(snapshotFor(2, 2), style, 0)

		Convey("The surface is fully sized and painted", func() {
			So(img.Bounds().Dx(), ShouldEqual, 200)
			So(img.Bounds().Dy(), ShouldEqual, 200)

			painted := 0
			bg := color.RGBA{R: 0x10, G: 0x14, B: 0x18, A: 0xff}
			for y := 0; y < 200; y++ {
				for x := 0; x < 200; x++ {
					if img.RGBAAt(x, y) != bg {
						painted++
					}
				}
			}
			So(painted, ShouldBeGreaterThan, 0)
		})

		Convey("Device pixel ratio scales the backing image", func() {
			hi := NewRaster(200, 200, 2)
			img2 := hi.Draw(snapshotFor(2, 2), style, 0)
			So(img2.Bounds().Dx(), ShouldEqual, 400)
			So(img2.Bounds().Dy(), ShouldEqual, 400)
		})

		Convey("An empty snapshot yields a valid background-only frame", func() {
			blank := raster.Draw(nil, style, 0)
			So(blank.Bounds().Dx(), ShouldEqual, 200)
		})
	})
}

func TestDataURI(t *testing.T) {
	Convey("When a frame is packaged for an img element", t, func() {
		raster := NewRaster(50, 50, 1)
		img := raster.Draw(snapshotFor(1, 1), shapes.Style{}.Normalize(), 0)

		uri, err := DataURI(img)
		So(err, ShouldBeNil)
		So(uri, ShouldStartWith, "data:image/png;base64,")
	})
}

func TestWriteSVG(t *testing.T) {
	Convey("When a snapshot renders as a standalone document", t, func() {
		var buf bytes.Buffer
		snap := snapshotFor(2, 3)
		WriteSVG(&buf, snap, shapes.Style{Shape: shapes.Triangle, Length: 20, Width: 4}, 200, 200, 1.5)

		doc := buf.String()
		So(doc, ShouldContainSubstring, "<svg")
		So(doc, ShouldContainSubstring, "</svg>")
		So(strings.Count(doc, "<path"), ShouldEqual, len(snap))
		So(doc, ShouldContainSubstring, "transform=")
	})
}

// render hosts the backends that turn a vector snapshot into a drawn
// surface: a raster canvas (imperative clear-and-redraw into an RGBA image)
// and a standalone SVG document writer. Both derive their geometry from the
// shapes package; neither owns its own angle-to-path logic.
package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/vector"

	"vectorgrid/shapes"
	"vectorgrid/simulation"
)

// Raster is the canvas backend. It redraws the full surface every frame and
// handles its own device-pixel-ratio scaling.
type Raster struct {
	width      int
	height     int
	scale      float64
	background color.RGBA
}

// NewRaster sizes a raster backend in CSS pixels; deviceScale is the
// device-pixel ratio applied to the backing image.
func NewRaster(width, height int, deviceScale float64) *Raster {
	if deviceScale <= 0 {
		deviceScale = 1
	}
	return &Raster{
		width:      width,
		height:     height,
		scale:      deviceScale,
		background: color.RGBA{R: 0x10, G: 0x14, B: 0x18, A: 0xff},
	}
}

// Draw clears the surface and paints every vector in the snapshot. The
// animation clock t feeds time-dependent color functions.
func (r *Raster) Draw(snap []simulation.Vector, style shapes.Style, t float64) *image.RGBA {
	style = style.Normalize()

	pw := int(float64(r.width) * r.scale)
	ph := int(float64(r.height) * r.scale)
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)

	cmds := shapes.Commands(style.Shape, style.Length, style.Width, style.StrokeCap)
	offset := shapes.LocalOffset(style.Origin, style.Length)

	for i := range snap {
		v := &snap[i]
		fill := style.Color.ResolveRGBA(shapes.Sample{
			Row:   v.Row,
			Col:   v.Col,
			NormX: v.NormX,
			NormY: v.NormY,
			Angle: v.Angle,
			T:     t,
		})
		r.fillPath(img, cmds, shapes.Point{X: v.X, Y: v.Y}, v.Angle, v.Length, v.Width, offset, fill)
	}
	return img
}

// fillPath rasterizes one shape outline through the shared affine. The
// device scale multiplies last so geometry stays in CSS-pixel terms.
func (r *Raster) fillPath(
	img *image.RGBA,
	cmds []shapes.PathCmd,
	pivot shapes.Point,
	angle, lengthFactor, widthFactor, offset float64,
	fill color.RGBA,
) {
	z := vector.NewRasterizer(img.Bounds().Dx(), img.Bounds().Dy())

	at := func(p shapes.Point) (float32, float32) {
		m := shapes.Apply(pivot, angle, lengthFactor, widthFactor, offset, p)
		return float32(m.X * r.scale), float32(m.Y * r.scale)
	}

	for _, cmd := range cmds {
		switch cmd.Op {
		case 'M':
			x, y := at(cmd.Pts[0])
			z.MoveTo(x, y)
		case 'L':
			x, y := at(cmd.Pts[0])
			z.LineTo(x, y)
		case 'Q':
			bx, by := at(cmd.Pts[0])
			cx, cy := at(cmd.Pts[1])
			z.QuadTo(bx, by, cx, cy)
		case 'C':
			bx, by := at(cmd.Pts[0])
			cx, cy := at(cmd.Pts[1])
			dx, dy := at(cmd.Pts[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		case 'Z':
			z.ClosePath()
		}
	}

	z.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{})
}

// EncodePNG serializes a drawn frame.
func EncodePNG(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURI packages a drawn frame for an <img> src attribute.
func DataURI(img *image.RGBA) (string, error) {
	raw, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw), nil
}

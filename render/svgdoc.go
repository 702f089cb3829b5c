package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"vectorgrid/shapes"
	"vectorgrid/simulation"
)

// WriteSVG renders a snapshot as a standalone SVG document, for the
// snapshot endpoint and for headless capture. It shares every geometry
// formula with the live views: same path data, same transform affine.
func WriteSVG(w io.Writer, snap []simulation.Vector, style shapes.Style, width, height int, t float64) {
	style = style.Normalize()

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#101418")

	pathData := shapes.PathString(shapes.Commands(style.Shape, style.Length, style.Width, style.StrokeCap))
	offset := shapes.LocalOffset(style.Origin, style.Length)

	for i := range snap {
		v := &snap[i]
		fill := style.Color.Resolve(shapes.Sample{
			Row:   v.Row,
			Col:   v.Col,
			NormX: v.NormX,
			NormY: v.NormY,
			Angle: v.Angle,
			T:     t,
		})
		transform := shapes.SVGTransform(
			shapes.Point{X: v.X, Y: v.Y}, v.Angle, v.Length, v.Width, offset)
		canvas.Path(pathData, fmt.Sprintf(`fill="%s" transform="%s"`, fill, transform))
	}
	canvas.End()
}

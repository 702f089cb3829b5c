package vector_views

import (
	"fmt"
	"html/template"
	"strings"

	channerics "github.com/niceyeti/channerics/channels"

	"vectorgrid/server/fastview"
	"vectorgrid/shapes"
)

// FieldView renders the vector grid as a retained-mode SVG: each cell owns a
// group element whose transform and fill are patched per frame, so the path
// data is written once and never resent. Structural changes (resize, shape or
// style changes) rebuild the group's children wholesale.
type FieldView struct {
	id      string
	updates <-chan []fastview.EleUpdate
	// lastKey fingerprints the DOM structure the client currently holds.
	// Mutated only from the convert goroutine.
	lastKey string
}

func NewFieldView(
	done <-chan struct{},
	frames <-chan Frame,
) (fv *FieldView) {
	fv = &FieldView{id: "fieldview"}
	fv.updates = channerics.Convert(done, frames, fv.onUpdate)
	return
}

func (fv *FieldView) Updates() <-chan []fastview.EleUpdate {
	return fv.updates
}

// customContent returns the per-cell custom markup if the style carries one
// that passes validation, else empty to select the built-in path.
func customContent(style shapes.Style) string {
	if style.Shape != shapes.Custom || style.CustomSVG == "" {
		return ""
	}
	if err := shapes.ValidateMarkup(style.CustomSVG); err != nil {
		return ""
	}
	return style.CustomSVG
}

// structureKey fingerprints everything that alters the cell elements
// themselves rather than their per-frame attributes.
func structureKey(f Frame) string {
	style := f.Style.Normalize()
	return fmt.Sprintf("%dx%d n%d %s %s %s %g %g %s",
		f.Width, f.Height, len(f.Vectors),
		style.Shape, style.StrokeCap, style.Origin,
		style.Length, style.Width, customContent(style))
}

func (fv *FieldView) cellID(row, col int) string {
	return fmt.Sprintf("%s-vec-%d-%d", fv.id, row, col)
}

// cellMarkup builds the full child markup of the field group: one transformed
// group per vector containing either the canonical shape path or validated
// custom markup.
func (fv *FieldView) cellMarkup(f Frame) string {
	style := f.Style.Normalize()
	custom := customContent(style)
	pathData := shapes.PathString(shapes.Commands(style.Shape, style.Length, style.Width, style.StrokeCap))
	offset := shapes.LocalOffset(style.Origin, style.Length)

	var b strings.Builder
	for i := range f.Vectors {
		v := &f.Vectors[i]
		id := fv.cellID(v.Row, v.Col)
		transform := shapes.SVGTransform(
			shapes.Point{X: v.X, Y: v.Y}, v.Angle, v.Length, v.Width, offset)

		fmt.Fprintf(&b, `<g id="%s" transform="%s">`, id, transform)
		if custom != "" {
			b.WriteString(custom)
		} else {
			fill := style.Color.Resolve(shapes.Sample{
				Row:   v.Row,
				Col:   v.Col,
				NormX: v.NormX,
				NormY: v.NormY,
				Angle: v.Angle,
				T:     f.T,
			})
			fmt.Fprintf(&b, `<path id="%s-shape" d="%s" fill="%s"/>`, id, pathData, fill)
		}
		b.WriteString(`</g>`)
	}
	return b.String()
}

// onUpdate returns the set of view updates needed for the SVG to reflect the
// passed frame.
func (fv *FieldView) onUpdate(f Frame) (ops []fastview.EleUpdate) {
	active := f.Renderer != RendererCanvas
	ops = append(ops, fastview.EleUpdate{
		EleId: fv.id,
		Ops:   []fastview.Op{{Key: "style", Value: displayOp(active)}},
	})
	if !active {
		// Leave lastKey stale so reactivation rebuilds if needed.
		return
	}

	if key := structureKey(f); key != fv.lastKey {
		fv.lastKey = key
		return append(ops,
			fastview.EleUpdate{
				EleId: fv.id + "-svg",
				Ops: []fastview.Op{
					{Key: "width", Value: fmt.Sprintf("%d", f.Width)},
					{Key: "height", Value: fmt.Sprintf("%d", f.Height)},
				},
			},
			fastview.EleUpdate{
				EleId: fv.id + "-group",
				Ops:   []fastview.Op{{Key: "innerHTML", Value: fv.cellMarkup(f)}},
			})
	}

	style := f.Style.Normalize()
	custom := customContent(style)
	offset := shapes.LocalOffset(style.Origin, style.Length)

	for i := range f.Vectors {
		v := &f.Vectors[i]
		id := fv.cellID(v.Row, v.Col)
		transform := shapes.SVGTransform(
			shapes.Point{X: v.X, Y: v.Y}, v.Angle, v.Length, v.Width, offset)
		ops = append(ops, fastview.EleUpdate{
			EleId: id,
			Ops:   []fastview.Op{{Key: "transform", Value: transform}},
		})

		if custom == "" {
			fill := style.Color.Resolve(shapes.Sample{
				Row:   v.Row,
				Col:   v.Col,
				NormX: v.NormX,
				NormY: v.NormY,
				Angle: v.Angle,
				T:     f.T,
			})
			ops = append(ops, fastview.EleUpdate{
				EleId: id + "-shape",
				Ops:   []fastview.Op{{Key: "fill", Value: fill}},
			})
		}
	}
	return
}

// Parse adds the field view's template to the parent: the svg scaffold plus
// the initial cell markup, generated by the same code the rebuild path uses.
func (fv *FieldView) Parse(
	t *template.Template,
) (name string, err error) {
	name = fv.id
	addedMap := template.FuncMap{
		"fieldCells": func(f Frame) template.HTML {
			// Custom markup is validated and all else is generated, so this
			// bypass of contextual escaping is contained.
			return template.HTML(fv.cellMarkup(f))
		},
	}
	_, err = t.Funcs(addedMap).Parse(
		`{{ define "` + name + `" }}
		<div id="` + fv.id + `" style="display:block">
			<svg id="` + fv.id + `-svg" xmlns="http://www.w3.org/2000/svg"
				width="{{ .Width }}" height="{{ .Height }}"
				style="background:#101418;">
				<g id="` + fv.id + `-group">{{ fieldCells . }}</g>
			</svg>
		</div>
		{{ end }}`)
	return
}

// shapes defines the shape-geometry formulas shared by both renderers.
// The SVG view and the raster canvas derive their draw instructions from the
// same command lists produced here, so the two backends cannot drift apart.
// All emitted coordinates pass through Round to pin floating point output to
// a fixed precision; both backends and both render passes therefore agree.
package shapes

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects the vector glyph drawn at each cell.
type Kind string

const (
	Line       Kind = "line"
	Arrow      Kind = "arrow"
	Dot        Kind = "dot"
	Triangle   Kind = "triangle"
	Semicircle Kind = "semicircle"
	Curve      Kind = "curve"
	Custom     Kind = "custom"
)

// Origin selects the rotation origin along the shape's main axis.
type Origin string

const (
	OriginCenter Origin = "center"
	OriginStart  Origin = "start"
	OriginEnd    Origin = "end"
)

// Cap is the stroke cap style applied to line-like shapes.
type Cap string

const (
	CapButt   Cap = "butt"
	CapRound  Cap = "round"
	CapSquare Cap = "square"
)

// Precision is the number of decimal digits retained in emitted coordinates.
const Precision = 5

var precisionScale = math.Pow(10, Precision)

// Round pins a coordinate to the fixed output precision.
func Round(v float64) float64 {
	return math.Round(v*precisionScale) / precisionScale
}

// Point is a 2D pixel coordinate.
type Point struct {
	X, Y float64
}

// PathCmd is one draw instruction in shape-local coordinates: the shape lies
// along the +x axis, centered on its rotation origin. Op is one of
// 'M' (move), 'L' (line), 'Q' (quadratic), 'C' (cubic), 'Z' (close); Pts
// holds 1, 1, 2 or 3 points respectively and none for 'Z'.
type PathCmd struct {
	Op  byte
	Pts []Point
}

// Commands returns the canonical outline for a shape of the given pixel
// length and width. Shapes are closed filled outlines so that SVG fill and
// raster fill produce the same coverage. Custom shapes have no canonical
// outline and fall back to Arrow.
func Commands(k Kind, length, width float64, capStyle Cap) []PathCmd {
	switch k {
	case Arrow, Custom:
		return arrowCmds(length, width)
	case Dot:
		return circleCmds(Point{}, width)
	case Triangle:
		return triangleCmds(length, width)
	case Semicircle:
		return semicircleCmds(length)
	case Curve:
		return curveCmds(length, width)
	default:
		return lineCmds(length, width, capStyle)
	}
}

// lineCmds is a stroked segment expressed as its filled outline, honoring
// the cap style.
func lineCmds(length, width float64, capStyle Cap) []PathCmd {
	h := length / 2
	w := width / 2
	if capStyle == CapSquare {
		h += w
	}

	cmds := []PathCmd{
		{Op: 'M', Pts: []Point{{-h, -w}}},
		{Op: 'L', Pts: []Point{{h, -w}}},
	}
	if capStyle == CapRound {
		cmds = append(cmds, PathCmd{Op: 'Q', Pts: []Point{{h + w*arcBulge, 0}, {h, w}}})
	} else {
		cmds = append(cmds, PathCmd{Op: 'L', Pts: []Point{{h, w}}})
	}
	cmds = append(cmds, PathCmd{Op: 'L', Pts: []Point{{-h, w}}})
	if capStyle == CapRound {
		cmds = append(cmds, PathCmd{Op: 'Q', Pts: []Point{{-h - w*arcBulge, 0}, {-h, -w}}})
	}
	return append(cmds, PathCmd{Op: 'Z'})
}

// arcBulge places the quadratic control point so the cap approximates a
// semicircle (control distance 2r gives a close parabolic fit).
const arcBulge = 2.0

func arrowCmds(length, width float64) []PathCmd {
	h := length / 2
	shaft := width / 2
	head := math.Max(width*1.8, length*0.3)
	barb := head / 2

	return []PathCmd{
		{Op: 'M', Pts: []Point{{-h, -shaft}}},
		{Op: 'L', Pts: []Point{{h - head, -shaft}}},
		{Op: 'L', Pts: []Point{{h - head, -barb}}},
		{Op: 'L', Pts: []Point{{h, 0}}},
		{Op: 'L', Pts: []Point{{h - head, barb}}},
		{Op: 'L', Pts: []Point{{h - head, shaft}}},
		{Op: 'L', Pts: []Point{{-h, shaft}}},
		{Op: 'Z'},
	}
}

// circleCmds approximates a circle of radius r with four cubic segments
// (standard kappa control offset).
func circleCmds(c Point, r float64) []PathCmd {
	const kappa = 0.5522847498307936
	k := r * kappa
	return []PathCmd{
		{Op: 'M', Pts: []Point{{c.X + r, c.Y}}},
		{Op: 'C', Pts: []Point{{c.X + r, c.Y + k}, {c.X + k, c.Y + r}, {c.X, c.Y + r}}},
		{Op: 'C', Pts: []Point{{c.X - k, c.Y + r}, {c.X - r, c.Y + k}, {c.X - r, c.Y}}},
		{Op: 'C', Pts: []Point{{c.X - r, c.Y - k}, {c.X - k, c.Y - r}, {c.X, c.Y - r}}},
		{Op: 'C', Pts: []Point{{c.X + k, c.Y - r}, {c.X + r, c.Y - k}, {c.X + r, c.Y}}},
		{Op: 'Z'},
	}
}

func triangleCmds(length, width float64) []PathCmd {
	h := length / 2
	base := math.Max(width, length*0.4)
	return []PathCmd{
		{Op: 'M', Pts: []Point{{h, 0}}},
		{Op: 'L', Pts: []Point{{-h, -base / 2}}},
		{Op: 'L', Pts: []Point{{-h, base / 2}}},
		{Op: 'Z'},
	}
}

// semicircleCmds is a half disc with the flat edge along the y axis,
// bulging toward +x.
func semicircleCmds(length float64) []PathCmd {
	r := length / 2
	const kappa = 0.5522847498307936
	k := r * kappa
	return []PathCmd{
		{Op: 'M', Pts: []Point{{0, -r}}},
		{Op: 'C', Pts: []Point{{k, -r}, {r, -k}, {r, 0}}},
		{Op: 'C', Pts: []Point{{r, k}, {k, r}, {0, r}}},
		{Op: 'Z'},
	}
}

// curveCmds is an S-shaped band: two offset quadratic edges joined into a
// closed ribbon of the given width.
func curveCmds(length, width float64) []PathCmd {
	h := length / 2
	w := width / 2
	bend := length / 4
	return []PathCmd{
		{Op: 'M', Pts: []Point{{-h, -w}}},
		{Op: 'Q', Pts: []Point{{0, -bend - w}, {h, -w}}},
		{Op: 'L', Pts: []Point{{h, w}}},
		{Op: 'Q', Pts: []Point{{0, -bend + w}, {-h, w}}},
		{Op: 'Z'},
	}
}

// PathString renders commands as SVG path data with rounded coordinates.
func PathString(cmds []PathCmd) string {
	var b strings.Builder
	for i, cmd := range cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(cmd.Op)
		for _, p := range cmd.Pts {
			fmt.Fprintf(&b, " %v %v", Round(p.X), Round(p.Y))
		}
	}
	return b.String()
}

// Placement is where a shape lands on the surface: the pivot the rotation is
// applied about, the shape's visual center after rotation, and the angle.
// Both backends must place the shape so Center and Angle agree.
type Placement struct {
	Pivot  Point
	Center Point
	Angle  float64
}

// Place computes a shape's placement from a cell's base position, its
// current angle, the scaled pixel length, and the rotation origin. The base
// position is always the pivot; start/end origins shift the visual center
// along the rotated main axis.
func Place(x, y, angle, length float64, origin Origin) Placement {
	cx, cy := x, y
	switch origin {
	case OriginStart:
		cx = x + math.Cos(angle)*length/2
		cy = y + math.Sin(angle)*length/2
	case OriginEnd:
		cx = x - math.Cos(angle)*length/2
		cy = y - math.Sin(angle)*length/2
	}
	return Placement{
		Pivot:  Point{Round(x), Round(y)},
		Center: Point{Round(cx), Round(cy)},
		Angle:  Round(angle),
	}
}

// Degrees converts radians to degrees, rounded to output precision, for the
// SVG rotate() transform.
func Degrees(rad float64) float64 {
	return Round(rad * 180 / math.Pi)
}

// LocalOffset is the shape-local x shift implied by the rotation origin: the
// outline is canonically centered, so start/end origins push it half the
// base length along the main axis.
func LocalOffset(origin Origin, baseLength float64) float64 {
	switch origin {
	case OriginStart:
		return baseLength / 2
	case OriginEnd:
		return -baseLength / 2
	default:
		return 0
	}
}

// SVGTransform renders the per-cell affine as an SVG transform list:
// translate to the pivot, rotate, scale by the dynamic factors, then shift
// by the origin offset. Length/width factors live in the transform so the
// path data never changes between frames.
func SVGTransform(pivot Point, angle, lengthFactor, widthFactor, offset float64) string {
	return fmt.Sprintf("translate(%v %v) rotate(%v) scale(%v %v) translate(%v 0)",
		Round(pivot.X), Round(pivot.Y),
		Degrees(angle),
		Round(lengthFactor), Round(widthFactor),
		Round(offset))
}

// Apply maps a shape-local point through the identical affine the SVG
// transform expresses. The raster backend uses this; if the two ever
// disagree, renderer equivalence is broken.
func Apply(pivot Point, angle, lengthFactor, widthFactor, offset float64, p Point) Point {
	x := (p.X + offset) * lengthFactor
	y := p.Y * widthFactor
	sin, cos := math.Sincos(angle)
	return Point{
		X: pivot.X + x*cos - y*sin,
		Y: pivot.Y + x*sin + y*cos,
	}
}

package shapes

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Sample is the per-cell, per-frame input to color resolution.
type Sample struct {
	Row, Col     int
	NormX, NormY float64
	Angle        float64
	T            float64
}

// ColorFunc computes a color per cell per frame. It must be pure: same
// sample, same color.
type ColorFunc func(Sample) string

// ColorMode selects how cell colors are produced.
type ColorMode string

const (
	ColorSolid    ColorMode = "solid"
	ColorGradient ColorMode = "gradient"
	ColorFunction ColorMode = "function"
)

// ColorSpec is the polymorphic color configuration: a constant, a two-stop
// gradient across the grid diagonal, or a pure per-cell function.
type ColorSpec struct {
	Mode  ColorMode `mapstructure:"mode" yaml:"mode"`
	Solid string    `mapstructure:"solid" yaml:"solid"`
	From  string    `mapstructure:"from" yaml:"from"`
	To    string    `mapstructure:"to" yaml:"to"`
	Fn    ColorFunc `mapstructure:"-" yaml:"-"`
}

const fallbackColor = "#4aa3df"

// Resolve returns the hex color for one cell. Malformed hex inputs degrade
// to the fallback color rather than failing the frame.
func (cs ColorSpec) Resolve(s Sample) string {
	switch cs.Mode {
	case ColorGradient:
		from, err1 := colorful.Hex(orDefault(cs.From, "#1f6feb"))
		to, err2 := colorful.Hex(orDefault(cs.To, "#f78166"))
		if err1 != nil || err2 != nil {
			return fallbackColor
		}
		pos := clamp01((s.NormX + s.NormY) / 2)
		return from.BlendHcl(to, pos).Clamped().Hex()
	case ColorFunction:
		if cs.Fn != nil {
			return cs.Fn(s)
		}
		return fallbackColor
	default:
		if cs.Solid == "" {
			return fallbackColor
		}
		if _, err := colorful.Hex(cs.Solid); err != nil {
			return fallbackColor
		}
		return cs.Solid
	}
}

// ResolveRGBA returns the resolved color as an image color for the raster
// backend, so both backends derive from the same hex resolution.
func (cs ColorSpec) ResolveRGBA(s Sample) color.RGBA {
	c, err := colorful.Hex(cs.Resolve(s))
	if err != nil {
		c, _ = colorful.Hex(fallbackColor)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Style aggregates the vector styling configuration consumed by both
// renderers.
type Style struct {
	Shape     Kind      `mapstructure:"shape" yaml:"shape"`
	CustomSVG string    `mapstructure:"customSVG" yaml:"customSVG"`
	Color     ColorSpec `mapstructure:"color" yaml:"color"`
	StrokeCap Cap       `mapstructure:"strokeCap" yaml:"strokeCap"`
	Origin    Origin    `mapstructure:"origin" yaml:"origin"`
	Length    float64   `mapstructure:"length" yaml:"length"`
	Width     float64   `mapstructure:"width" yaml:"width"`
}

// Normalize fills defaults so a zero Style still renders.
func (st Style) Normalize() Style {
	if st.Shape == "" {
		st.Shape = Arrow
	}
	if st.StrokeCap == "" {
		st.StrokeCap = CapButt
	}
	if st.Origin == "" {
		st.Origin = OriginCenter
	}
	if st.Length <= 0 {
		st.Length = 24
	}
	if st.Width <= 0 {
		st.Width = 3
	}
	return st
}

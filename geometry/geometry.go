// geometry computes grid layouts: how many rows and columns of vector cells
// fit a container under a target aspect ratio, and where each cell sits.
// Everything here is a pure function of its inputs; the simulation recomputes
// the layout whenever the container dimensions or grid settings change.
package geometry

import (
	"fmt"
	"math"
)

const (
	// Fraction of the container the grid may occupy, leaving a visible margin.
	usableFraction = 0.9

	// Default row density when manual mode specifies neither axis.
	DefaultDensity = 10

	// Fallback spacing when settings resolve to a non-positive value.
	defaultSpacing = 40
)

// Settings are the user-editable grid parameters.
// Rows/Cols apply in manual mode only; a zero value on either axis means
// "derive this axis from the other axis and the aspect ratio".
type Settings struct {
	Rows    int
	Cols    int
	Spacing float64
	Margin  float64
}

// RatioMode selects how the target aspect ratio is determined.
type RatioMode string

const (
	RatioAuto   RatioMode = "auto"
	RatioFixed  RatioMode = "fixed"
	RatioCustom RatioMode = "custom"
)

// Ratio is the aspect-ratio configuration: auto, one of the fixed named
// ratios, or a custom width:height pair.
type Ratio struct {
	Mode RatioMode
	W    int
	H    int
}

var namedRatios = map[string]Ratio{
	"1:1":  {Mode: RatioFixed, W: 1, H: 1},
	"4:3":  {Mode: RatioFixed, W: 4, H: 3},
	"16:9": {Mode: RatioFixed, W: 16, H: 9},
	"21:9": {Mode: RatioFixed, W: 21, H: 9},
}

// NamedRatio resolves one of the fixed ratio names, or "auto".
func NamedRatio(name string) (Ratio, error) {
	if name == "auto" || name == "" {
		return Ratio{Mode: RatioAuto}, nil
	}
	if r, ok := namedRatios[name]; ok {
		return r, nil
	}
	return Ratio{}, fmt.Errorf("unknown aspect ratio %q", name)
}

// CustomRatio returns a custom ratio, clamping both terms to a minimum of 1
// and rounding to integers. Malformed input is recovered, never rejected.
func CustomRatio(w, h float64) Ratio {
	return Ratio{
		Mode: RatioCustom,
		W:    clampTerm(w),
		H:    clampTerm(h),
	}
}

func clampTerm(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}

// Cell is one grid position. The base position is immutable once computed;
// only the simulation's dynamic per-vector state changes between frames.
type Cell struct {
	ID   string
	Row  int
	Col  int
	X    float64
	Y    float64
	// Normalized coordinates in [0,1], for position-dependent animations.
	NormX float64
	NormY float64
}

// Layout is the resolved grid: dimensions plus the full cell set.
type Layout struct {
	Rows    int
	Cols    int
	Width   float64
	Height  float64
	Spacing float64
	Margin  float64
	Cells   []Cell
}

// Compute resolves a layout for the given container dimensions, settings and
// ratio. Non-positive spacing and negative margins are clamped rather than
// rejected; rows and cols always resolve to at least 1 when any space exists.
func Compute(width, height float64, s Settings, r Ratio) Layout {
	spacing := s.Spacing
	if spacing <= 0 {
		spacing = defaultSpacing
	}
	margin := math.Max(s.Margin, 0)

	usableW := width*usableFraction - 2*margin
	usableH := height*usableFraction - 2*margin

	var rows, cols int
	switch {
	case s.Rows > 0 || s.Cols > 0:
		rows, cols = manualAxes(s.Rows, s.Cols, r)
	case r.Mode == RatioAuto:
		cols = axisCount(usableW, spacing)
		rows = axisCount(usableH, spacing)
	default:
		rows, cols = ratioAxes(usableW, usableH, spacing, r)
	}

	rows = maxInt(rows, 1)
	cols = maxInt(cols, 1)

	return Layout{
		Rows:    rows,
		Cols:    cols,
		Width:   width,
		Height:  height,
		Spacing: spacing,
		Margin:  margin,
		Cells:   placeCells(rows, cols, width, height, spacing),
	}
}

// axisCount is the number of cells that fit one dimension at the given spacing.
func axisCount(usable, spacing float64) int {
	return int(math.Floor(usable / spacing))
}

// ratioAxes computes rows/cols for a fixed or custom target ratio. Whichever
// container dimension is the binding constraint under the target ratio is
// computed first; the other axis is derived from the ratio.
func ratioAxes(usableW, usableH, spacing float64, r Ratio) (rows, cols int) {
	target := float64(r.W) / float64(r.H)

	cols = axisCount(usableW, spacing)
	rows = int(math.Floor(float64(cols) / target))

	// If the derived height overflows, height is the binding constraint:
	// recompute from it instead.
	if float64(rows)*spacing > usableH {
		rows = axisCount(usableH, spacing)
		cols = int(math.Floor(float64(rows) * target))
	}
	return rows, cols
}

// manualAxes applies the manual-mode fill rule: a zero axis is derived from
// the fixed axis and the target ratio; ratio auto falls back to square.
func manualAxes(manualRows, manualCols int, r Ratio) (rows, cols int) {
	rows, cols = manualRows, manualCols
	target := 1.0
	if r.Mode != RatioAuto && r.H > 0 {
		target = float64(r.W) / float64(r.H)
	}

	switch {
	case rows == 0 && cols == 0:
		rows = DefaultDensity
		cols = int(math.Round(float64(rows) * target))
	case rows == 0:
		rows = int(math.Round(float64(cols) / target))
	case cols == 0:
		cols = int(math.Round(float64(rows) * target))
	}
	return rows, cols
}

// placeCells positions rows*cols cells centered within the container.
func placeCells(rows, cols int, width, height, spacing float64) []Cell {
	gridW := float64(cols-1) * spacing
	gridH := float64(rows-1) * spacing
	originX := (width - gridW) / 2
	originY := (height - gridH) / 2

	cells := make([]Cell, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cells = append(cells, Cell{
				ID:    fmt.Sprintf("%d-%d", row, col),
				Row:   row,
				Col:   col,
				X:     originX + float64(col)*spacing,
				Y:     originY + float64(row)*spacing,
				NormX: norm(col, cols),
				NormY: norm(row, rows),
			})
		}
	}
	return cells
}

// norm maps index i of n positions onto [0,1]; a single position sits at 0.5.
func norm(i, n int) float64 {
	if n <= 1 {
		return 0.5
	}
	return float64(i) / float64(n-1)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

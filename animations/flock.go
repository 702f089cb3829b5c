package animations

import "math"

func init() {
	Register("flock", func(p Props) Animator {
		return &flock{
			radius:     p.PerceptionRadius,
			separation: p.Separation,
			alignment:  p.Alignment,
			cohesion:   p.Cohesion,
		}
	})
}

// flock steers each cell by the classic separation/alignment/cohesion rules
// over its neighbors within the perception radius (normalized coordinates).
// It requires Observe to be called with the full previous-frame snapshot
// before per-cell evaluation, so every cell reacts to the same field state.
type flock struct {
	radius     float64
	separation float64
	alignment  float64
	cohesion   float64

	prev []State
}

func (fl *flock) Observe(prev []State) {
	fl.prev = prev
}

func (fl *flock) Target(s State, f Frame) Target {
	var (
		alignX, alignY float64
		centX, centY   float64
		sepX, sepY     float64
		neighbors      int
	)

	for i := range fl.prev {
		n := &fl.prev[i]
		if n.Row == s.Row && n.Col == s.Col {
			continue
		}
		dx, dy := n.NormX-s.NormX, n.NormY-s.NormY
		dist := math.Hypot(dx, dy)
		if dist > fl.radius || dist == 0 {
			continue
		}
		neighbors++

		alignX += math.Cos(n.Angle)
		alignY += math.Sin(n.Angle)

		centX += dx
		centY += dy

		// Closer neighbors repel harder.
		sepX -= dx / (dist * dist)
		sepY -= dy / (dist * dist)
	}

	if neighbors == 0 {
		return Target{Angle: s.Angle}
	}

	inv := 1 / float64(neighbors)
	x := fl.alignment*alignX*inv + fl.cohesion*centX*inv + fl.separation*sepX*inv*0.01
	y := fl.alignment*alignY*inv + fl.cohesion*centY*inv + fl.separation*sepY*inv*0.01
	if x == 0 && y == 0 {
		return Target{Angle: s.Angle}
	}
	return Target{Angle: math.Atan2(y, x)}
}

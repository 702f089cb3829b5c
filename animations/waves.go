package animations

import "math"

func init() {
	Register("smoothWaves", func(p Props) Animator {
		return &smoothWaves{
			frequency: p.WaveFrequency,
			amplitude: Radians(p.WaveAmplitude),
			waveType:  p.WaveType,
			scale:     p.PatternScale,
			base:      Radians(p.BaseAngle),
		}
	})
}

// smoothWaves sweeps a weighted combination of sine and cosine terms across
// the grid. The wave type selects which spatial coordinate drives the phase.
type smoothWaves struct {
	frequency float64
	amplitude float64
	waveType  string
	scale     float64
	base      float64
}

func (w *smoothWaves) Target(s State, f Frame) Target {
	cx, cy := s.NormX-0.5, s.NormY-0.5

	var phase float64
	switch w.waveType {
	case "horizontal":
		phase = s.NormX * w.scale
	case "vertical":
		phase = s.NormY * w.scale
	case "radial":
		phase = math.Hypot(cx, cy) * 2 * w.scale
	case "circular":
		// Cells orbit the grid center; the wave terms wobble the tangent.
		tangent := math.Atan2(cy, cx) + math.Pi/2
		wobble := w.amplitude * 0.25 * math.Sin(f.T*w.frequency*2*math.Pi)
		return Target{Angle: w.base + tangent + wobble}
	default: // diagonal
		phase = (s.NormX + s.NormY) * w.scale
	}

	t := f.T * w.frequency
	primary := math.Sin(2*math.Pi*(phase+t))
	secondary := math.Cos(2*math.Pi*(phase*0.5-t*0.7))
	angle := w.base + w.amplitude*(0.75*primary+0.25*secondary)
	return Target{Angle: angle}
}

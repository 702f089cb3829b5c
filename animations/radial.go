package animations

import "math"

func init() {
	Register("radialPulse", func(p Props) Animator {
		return &radialPulse{
			speed:      p.Speed,
			wavelength: p.Wavelength,
			amplitude:  Radians(p.WaveAmplitude),
			base:       Radians(p.BaseAngle),
		}
	})
}

// radialPulse emanates rings from the grid center. Cells point outward along
// the ring normal, wobbled by the passing wavefront; the wavefront also
// drives a dynamic length factor so rings read as moving crests.
type radialPulse struct {
	speed      float64
	wavelength float64
	amplitude  float64
	base       float64
}

func (r *radialPulse) Target(s State, f Frame) Target {
	cx, cy := s.NormX-0.5, s.NormY-0.5
	dist := math.Hypot(cx, cy)

	crest := math.Sin(2*math.Pi*(dist/r.wavelength) - f.T*r.speed*2*math.Pi)
	outward := math.Atan2(cy, cx)

	return Target{
		Angle:     r.base + outward + r.amplitude*crest*0.5,
		Length:    0.6 + 0.4*(crest+1)/2,
		HasLength: true,
	}
}

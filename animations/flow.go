package animations

import (
	"math"

	"github.com/aquilax/go-perlin"
)

func init() {
	Register("flowField", func(p Props) Animator {
		return &flowField{
			noise:      perlin.NewPerlin(2, 2, 3, p.Seed),
			scale:      p.NoiseScale,
			speed:      p.Speed,
			turbulence: p.Turbulence,
			base:       Radians(p.BaseAngle),
		}
	})
}

// flowField derives angles from a Perlin noise field sampled at each cell's
// normalized position, with time as the third noise dimension so the field
// drifts continuously. Turbulence scales how many full turns the noise range
// maps onto; a second, finer octave perturbs width for visual grain.
type flowField struct {
	noise      *perlin.Perlin
	scale      float64
	speed      float64
	turbulence float64
	base       float64
}

func (ff *flowField) Target(s State, f Frame) Target {
	t := f.T * ff.speed * 0.1
	n := ff.noise.Noise3D(s.NormX*ff.scale, s.NormY*ff.scale, t)
	grain := ff.noise.Noise3D(s.NormX*ff.scale*4, s.NormY*ff.scale*4, t)

	return Target{
		Angle:    ff.base + n*math.Pi*ff.turbulence,
		Width:    1 + 0.5*grain,
		HasWidth: true,
	}
}

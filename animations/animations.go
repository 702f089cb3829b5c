// animations is the library of per-cell animation functions. Each animation
// type maps a cell's position and the current frame time to a target angle,
// and optionally to dynamic length/width factors. The simulation eases the
// live state toward these targets; nothing here mutates cells.
package animations

import (
	"fmt"
	"math"
	"sort"
)

// Frame carries the time inputs for one evaluation pass. T and DT are in
// seconds and already scaled by the simulation's time scale.
type Frame struct {
	T  float64
	DT float64
}

// State is the read-only view of one cell as animators see it.
type State struct {
	Row, Col     int
	X, Y         float64
	NormX, NormY float64
	Angle        float64
}

// Target is an animator's output for one cell. Angles are radians. Length
// and width factors apply only when the corresponding Has flag is set;
// otherwise the simulation holds its configured values.
type Target struct {
	Angle     float64
	Length    float64
	Width     float64
	HasLength bool
	HasWidth  bool
}

// Animator computes per-cell targets. Implementations must be safe to call
// for every cell within one frame, and continuous in time unless the type is
// explicitly event-driven.
type Animator interface {
	Target(s State, f Frame) Target
}

// NeighborAware animators additionally receive a consistent snapshot of the
// whole previous-frame cell set before per-cell evaluation begins. The
// snapshot is read-only; a frame never mixes updated and stale neighbors.
type NeighborAware interface {
	Observe(prev []State)
}

// Props is the parameter bag shared by all animation types; each type reads
// the fields it understands. Angles in Props are degrees for config
// friendliness and converted to radians at construction.
type Props struct {
	WaveFrequency float64 `mapstructure:"waveFrequency" yaml:"waveFrequency"`
	WaveAmplitude float64 `mapstructure:"waveAmplitude" yaml:"waveAmplitude"`
	WaveType      string  `mapstructure:"waveType" yaml:"waveType"`
	PatternScale  float64 `mapstructure:"patternScale" yaml:"patternScale"`
	BaseAngle     float64 `mapstructure:"baseAngle" yaml:"baseAngle"`

	Speed      float64 `mapstructure:"speed" yaml:"speed"`
	Wavelength float64 `mapstructure:"wavelength" yaml:"wavelength"`

	NoiseScale float64 `mapstructure:"noiseScale" yaml:"noiseScale"`
	Turbulence float64 `mapstructure:"turbulence" yaml:"turbulence"`
	Seed       int64   `mapstructure:"seed" yaml:"seed"`

	Interval float64 `mapstructure:"interval" yaml:"interval"`

	PerceptionRadius float64 `mapstructure:"perceptionRadius" yaml:"perceptionRadius"`
	Separation       float64 `mapstructure:"separation" yaml:"separation"`
	Alignment        float64 `mapstructure:"alignment" yaml:"alignment"`
	Cohesion         float64 `mapstructure:"cohesion" yaml:"cohesion"`
}

// Defaults fills zero-valued fields that would otherwise degenerate
// (zero frequency, zero scale, etc). Returns a copy.
func (p Props) Defaults() Props {
	if p.WaveFrequency == 0 {
		p.WaveFrequency = 1
	}
	if p.WaveAmplitude == 0 {
		p.WaveAmplitude = 45
	}
	if p.PatternScale == 0 {
		p.PatternScale = 1
	}
	if p.Speed == 0 {
		p.Speed = 1
	}
	if p.Wavelength == 0 {
		p.Wavelength = 0.35
	}
	if p.NoiseScale == 0 {
		p.NoiseScale = 1.5
	}
	if p.Turbulence == 0 {
		p.Turbulence = 1
	}
	if p.Seed == 0 {
		p.Seed = 1
	}
	if p.Interval == 0 {
		p.Interval = 2
	}
	if p.PerceptionRadius == 0 {
		p.PerceptionRadius = 0.25
	}
	if p.Separation == 0 {
		p.Separation = 1
	}
	if p.Alignment == 0 {
		p.Alignment = 1
	}
	if p.Cohesion == 0 {
		p.Cohesion = 1
	}
	return p
}

// Factory builds an animator from a parameter bag.
type Factory func(p Props) Animator

var registry = map[string]Factory{}

// Register adds an animation type to the registry. Each type's source file
// registers itself in init.
func Register(name string, f Factory) {
	registry[name] = f
}

// New constructs the named animator, with defaulted props.
func New(name string, p Props) (Animator, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown animation type %q", name)
	}
	return f(p.Defaults()), nil
}

// Types lists the registered animation type names, sorted.
func Types() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NormalizeAngle wraps an angle into (-pi, pi].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Radians converts config degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

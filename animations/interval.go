package animations

import (
	"math"
	"math/rand"
)

func init() {
	Register("randomInterval", func(p Props) Animator {
		return &randomInterval{
			interval: p.Interval,
			rng:      rand.New(rand.NewSource(p.Seed)),
			cells:    map[cellKey]*intervalState{},
		}
	})
}

type cellKey struct{ row, col int }

type intervalState struct {
	target     float64
	nextSwitch float64
}

// randomInterval re-randomizes each cell's target at independent random
// intervals. This is the one intentionally discontinuous type; the
// simulation's easing smooths the jumps into swings.
type randomInterval struct {
	interval float64
	rng      *rand.Rand
	cells    map[cellKey]*intervalState
}

func (ri *randomInterval) Target(s State, f Frame) Target {
	key := cellKey{s.Row, s.Col}
	st, ok := ri.cells[key]
	if !ok {
		st = &intervalState{
			target:     ri.randomAngle(),
			nextSwitch: f.T + ri.randomDelay(),
		}
		ri.cells[key] = st
	}

	if f.T >= st.nextSwitch {
		st.target = ri.randomAngle()
		st.nextSwitch = f.T + ri.randomDelay()
	}
	return Target{Angle: st.target}
}

func (ri *randomInterval) randomAngle() float64 {
	return ri.rng.Float64()*2*math.Pi - math.Pi
}

// Delays are spread over [0.5, 1.5) of the configured interval so cells
// don't switch in lockstep.
func (ri *randomInterval) randomDelay() float64 {
	return ri.interval * (0.5 + ri.rng.Float64())
}

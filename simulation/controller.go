// simulation owns the animated per-cell state and advances it frame by
// frame. The Controller is the single writer of the vector array; renderers
// and views only ever see snapshots. Regenerating the grid (a resize)
// replaces the whole array and discards in-flight pulses.
package simulation

import (
	"context"
	"sync"
	"time"

	"vectorgrid/animations"
	"vectorgrid/geometry"
	"vectorgrid/perf"

	"github.com/charmbracelet/harmonica"
	channerics "github.com/niceyeti/channerics/channels"
)

// Vector is one animated cell: immutable placement from the geometry layout
// plus the dynamic orientation and style factors mutated each frame.
type Vector struct {
	geometry.Cell
	InitialAngle float64
	Angle        float64
	Length       float64
	Width        float64
}

// Settings are the animation parameters for the controller. Zero values are
// normalized to sane defaults rather than rejected.
type Settings struct {
	AnimationType    string           `mapstructure:"animationType" yaml:"animationType"`
	Props            animations.Props `mapstructure:"props" yaml:"props"`
	Easing           float64          `mapstructure:"easing" yaml:"easing"`
	TimeScale        float64          `mapstructure:"timeScale" yaml:"timeScale"`
	DynamicLength    bool             `mapstructure:"dynamicLength" yaml:"dynamicLength"`
	DynamicWidth     bool             `mapstructure:"dynamicWidth" yaml:"dynamicWidth"`
	DynamicIntensity float64          `mapstructure:"dynamicIntensity" yaml:"dynamicIntensity"`
	Paused           bool             `mapstructure:"paused" yaml:"paused"`
	// Throttle is the minimum interval between effective updates; frames
	// arriving faster are dropped, never queued.
	Throttle time.Duration `mapstructure:"throttle" yaml:"throttle"`
	// FrameInterval paces the loop ticker.
	FrameInterval time.Duration `mapstructure:"frameInterval" yaml:"frameInterval"`
	// BaseAngle (degrees) is the initial angle of freshly generated cells.
	BaseAngle float64 `mapstructure:"baseAngle" yaml:"baseAngle"`
}

const defaultFrameInterval = 16 * time.Millisecond

func (s Settings) normalized() Settings {
	if s.AnimationType == "" {
		s.AnimationType = "smoothWaves"
	}
	if s.Easing <= 0 || s.Easing > 1 {
		s.Easing = 0.1
	}
	if s.TimeScale <= 0 {
		s.TimeScale = 1
	}
	if s.DynamicIntensity < 0 {
		s.DynamicIntensity = 0
	} else if s.DynamicIntensity > 1 {
		s.DynamicIntensity = 1
	}
	if s.FrameInterval <= 0 {
		s.FrameInterval = defaultFrameInterval
	}
	return s
}

// pulse is a one-shot perturbation decaying under a spring toward zero, so
// it fades over subsequent frames instead of popping.
type pulse struct {
	pos, vel float64
	// Normalized origin and radius of effect; radius <= 0 affects all cells.
	originX, originY float64
	radius           float64
}

// Pulse spring tuning: underdamped enough to wobble once, settled quickly.
var pulseSpring = harmonica.NewSpring(harmonica.FPS(60), 3.0, 0.35)

const pulseSettled = 0.005

// Controller advances the vector grid once per frame: it evaluates the
// animation function per cell, eases the live state toward the targets, and
// publishes snapshots for the renderers.
type Controller struct {
	mu       sync.RWMutex
	vectors  []Vector
	anim     animations.Animator
	settings Settings
	elapsed  float64
	pulses   []pulse

	updates chan []Vector
	monitor *perf.Monitor
}

// NewController builds a controller over the given layout. The animation
// type must exist in the registry.
func NewController(layout geometry.Layout, s Settings) (*Controller, error) {
	s = s.normalized()
	anim, err := animations.New(s.AnimationType, s.Props)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		anim:     anim,
		settings: s,
		updates:  make(chan []Vector),
		monitor:  perf.NewMonitor(),
	}
	c.vectors = generate(layout, s)
	return c, nil
}

// generate creates the dynamic state array for a layout. Angles start at
// the configured base; length/width factors start at their resting value.
func generate(layout geometry.Layout, s Settings) []Vector {
	base := animations.Radians(s.BaseAngle)
	vectors := make([]Vector, len(layout.Cells))
	for i, cell := range layout.Cells {
		vectors[i] = Vector{
			Cell:         cell,
			InitialAngle: base,
			Angle:        base,
			Length:       1,
			Width:        1,
		}
	}
	return vectors
}

// Updates is the snapshot channel consumed by the view pipeline. Closed when
// Run returns.
func (c *Controller) Updates() <-chan []Vector {
	return c.updates
}

// Perf exposes the loop's telemetry.
func (c *Controller) Perf() *perf.Monitor {
	return c.monitor
}

// Run drives the frame loop until the context is cancelled. Cancellation
// tears down the ticker and closes the updates channel; nothing dangles.
func (c *Controller) Run(ctx context.Context) {
	defer close(c.updates)

	last := time.Now()
	for range channerics.NewTicker(ctx.Done(), c.frameInterval()) {
		now := time.Now()

		if throttle := c.throttle(); throttle > 0 && now.Sub(last) < throttle {
			c.monitor.RecordDrop()
			continue
		}

		dt := now.Sub(last).Seconds()
		last = now

		if !c.Advance(dt) {
			continue
		}

		// A congested consumer drops the snapshot; the next frame supersedes
		// it anyway since snapshots are idempotent.
		select {
		case c.updates <- c.Snapshot():
		case <-ctx.Done():
			return
		default:
			c.monitor.RecordDrop()
		}
	}
}

func (c *Controller) frameInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.FrameInterval
}

func (c *Controller) throttle() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Throttle
}

// Advance computes one frame step of dt wall seconds. Returns false when
// paused or when there is nothing to animate. All new states are computed
// from the previous frame's snapshot before any are committed, so
// neighbor-aware animators never observe a half-updated grid.
func (c *Controller) Advance(dt float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.settings.Paused {
		return false
	}
	if len(c.vectors) == 0 {
		// Empty grids are valid; report an empty snapshot, never fail.
		return true
	}

	scaled := dt * c.settings.TimeScale
	c.elapsed += scaled
	frame := animations.Frame{T: c.elapsed, DT: scaled}

	prev := make([]animations.State, len(c.vectors))
	for i := range c.vectors {
		prev[i] = stateOf(&c.vectors[i])
	}
	if na, ok := c.anim.(animations.NeighborAware); ok {
		na.Observe(prev)
	}

	c.advancePulses()

	next := make([]Vector, len(c.vectors))
	copy(next, c.vectors)
	for i := range next {
		v := &next[i]

		target, ok := c.safeTarget(prev[i], frame)
		if !ok {
			// The animator faulted for this cell: hold the previous angle
			// for the frame.
			target = animations.Target{Angle: v.Angle}
		}

		angle := target.Angle + c.pulseOffset(v)
		diff := animations.NormalizeAngle(angle - v.Angle)
		v.Angle = animations.NormalizeAngle(v.Angle + diff*c.settings.Easing)

		v.Length += (c.restingFactor(target.Length, target.HasLength, c.settings.DynamicLength) - v.Length) * c.settings.Easing
		v.Width += (c.restingFactor(target.Width, target.HasWidth, c.settings.DynamicWidth) - v.Width) * c.settings.Easing
	}
	c.vectors = next

	c.monitor.RecordFrame(dt)
	return true
}

// restingFactor blends a dynamic factor toward 1 by the configured
// intensity, or holds the resting value when the dynamic flag is off.
func (c *Controller) restingFactor(value float64, has, enabled bool) float64 {
	if !enabled || !has {
		return 1
	}
	blended := 1 + (value-1)*c.settings.DynamicIntensity
	if blended < 0 {
		return 0
	}
	return blended
}

func (c *Controller) safeTarget(s animations.State, f animations.Frame) (t animations.Target, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.monitor.RecordFault()
			ok = false
		}
	}()
	t = c.anim.Target(s, f)
	return t, true
}

func stateOf(v *Vector) animations.State {
	return animations.State{
		Row:   v.Row,
		Col:   v.Col,
		X:     v.X,
		Y:     v.Y,
		NormX: v.NormX,
		NormY: v.NormY,
		Angle: v.Angle,
	}
}

// Snapshot returns a copy of the current animated state; callers may not
// mutate controller state through it.
func (c *Controller) Snapshot() []Vector {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := make([]Vector, len(c.vectors))
	copy(snap, c.vectors)
	return snap
}

// Elapsed returns the scaled animation clock, for color sampling.
func (c *Controller) Elapsed() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.elapsed
}

// TogglePause flips the pause flag and returns the new value. The loop keeps
// ticking while paused so resume is immediate; state advancement stops.
func (c *Controller) TogglePause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.Paused = !c.settings.Paused
	return c.settings.Paused
}

// Pulse applies a one-shot decaying perturbation. Strength is radians of
// peak deflection; origin is in normalized coordinates; radius <= 0 affects
// every cell.
func (c *Controller) Pulse(strength, originX, originY, radius float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pulses = append(c.pulses, pulse{
		pos:     strength,
		originX: originX,
		originY: originY,
		radius:  radius,
	})
}

func (c *Controller) advancePulses() {
	live := c.pulses[:0]
	for _, p := range c.pulses {
		p.pos, p.vel = pulseSpring.Update(p.pos, p.vel, 0)
		if abs(p.pos) > pulseSettled || abs(p.vel) > pulseSettled {
			live = append(live, p)
		}
	}
	c.pulses = live
}

// pulseOffset is the summed deflection all live pulses exert on one cell,
// attenuated linearly to the pulse radius.
func (c *Controller) pulseOffset(v *Vector) float64 {
	var offset float64
	for _, p := range c.pulses {
		if p.radius <= 0 {
			offset += p.pos
			continue
		}
		dx, dy := v.NormX-p.originX, v.NormY-p.originY
		dist := dx*dx + dy*dy
		r2 := p.radius * p.radius
		if dist >= r2 {
			continue
		}
		offset += p.pos * (1 - dist/r2)
	}
	return offset
}

// Resize regenerates the cell set for a new layout. The old array is
// abandoned wholesale and in-flight pulses are discarded; a resize wins over
// any interaction in progress.
func (c *Controller) Resize(layout geometry.Layout) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors = generate(layout, c.settings)
	c.pulses = nil
}

// Configure swaps the animation settings. An unknown animation type leaves
// the previous animator in place and returns the error.
func (c *Controller) Configure(s Settings) error {
	s = s.normalized()
	anim, err := animations.New(s.AnimationType, s.Props)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.anim = anim
	c.settings = s
	return nil
}

// Paused reports the pause flag.
func (c *Controller) Paused() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Paused
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// perf samples the frame loop independently of the rendering path: frame
// rate as an exponential moving average, plus drop and fault counters.
// Writers are the simulation loop; readers are the stats view and handlers.
package perf

import (
	"sync/atomic"

	"vectorgrid/atomic_float"
)

// Smoothing factor for the frame-rate moving average.
const emaWeight = 0.1

// Monitor is a lock-free telemetry sink for the frame loop.
type Monitor struct {
	fps     *atomic_float.AtomicFloat64
	frames  int64
	drops   int64
	faults  int64
}

func NewMonitor() *Monitor {
	return &Monitor{
		fps: atomic_float.NewAtomicFloat64(0),
	}
}

// RecordFrame folds one effective frame's delta (seconds) into the rate
// average. Contended updates are dropped, not retried; this is sampling.
func (m *Monitor) RecordFrame(dt float64) {
	atomic.AddInt64(&m.frames, 1)
	if dt <= 0 {
		return
	}
	instant := 1 / dt
	prev := m.fps.AtomicRead()
	if prev == 0 {
		m.fps.AtomicSet(instant)
		return
	}
	m.fps.AtomicSet(prev*(1-emaWeight) + instant*emaWeight)
}

// FPS returns the smoothed frames-per-second estimate.
func (m *Monitor) FPS() float64 {
	return m.fps.AtomicRead()
}

// Frames returns the count of effective (non-dropped) frames.
func (m *Monitor) Frames() int64 {
	return atomic.LoadInt64(&m.frames)
}

// RecordDrop counts a frame skipped by the throttle or a congested consumer.
func (m *Monitor) RecordDrop() {
	atomic.AddInt64(&m.drops, 1)
}

func (m *Monitor) Drops() int64 {
	return atomic.LoadInt64(&m.drops)
}

// RecordFault counts a recovered per-cell animator failure.
func (m *Monitor) RecordFault() {
	atomic.AddInt64(&m.faults, 1)
}

func (m *Monitor) Faults() int64 {
	return atomic.LoadInt64(&m.faults)
}

package atomic_float

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// AtomicFloat64 encapsulates a float64 for non-locking atomic operations.
// The frame loop publishes telemetry (frame rate, drop counts) every tick;
// readers sample it from request handlers. A CAS over the float's bit
// pattern avoids a mutex on this hot path.
type AtomicFloat64 struct {
	val float64
}

// NewAtomicFloat64 encapsulates a float64 for atomic operations.
func NewAtomicFloat64(val float64) *AtomicFloat64 {
	return &AtomicFloat64{
		val: val,
	}
}

// AtomicRead atomically reads the float64, ensuring the value is
// synchronized with main memory rather than a stale local copy.
func (af *AtomicFloat64) AtomicRead() (value float64) {
	uintVal := atomic.LoadUint64((*uint64)(unsafe.Pointer(&af.val)))
	return math.Float64frombits(uintVal)
}

// AtomicAdd atomically adds to the float64.
// If the pointee changes between the read and the swap the update is not
// retried; the caller decides whether to drop or recompute. For telemetry
// sampling, dropping a contended update is the right call.
func (af *AtomicFloat64) AtomicAdd(addend float64) (newVal float64, succeeded bool) {
	old := af.AtomicRead()
	newVal = old + addend
	succeeded = atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(&af.val)),
		math.Float64bits(old),
		math.Float64bits(newVal))
	return
}

// AtomicSet sets the float64, returns true on success.
func (af *AtomicFloat64) AtomicSet(newVal float64) (succeeded bool) {
	old := af.AtomicRead()
	succeeded = atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(&af.val)),
		math.Float64bits(old),
		math.Float64bits(newVal))
	return
}

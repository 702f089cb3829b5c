package animations

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	Convey("When animators are constructed from the registry", t, func() {
		Convey("All registered types construct", func() {
			for _, name := range Types() {
				anim, err := New(name, Props{})
				So(err, ShouldBeNil)
				So(anim, ShouldNotBeNil)
			}
		})

		Convey("Unknown types are rejected", func() {
			_, err := New("doesNotExist", Props{})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestContinuity(t *testing.T) {
	Convey("When continuous animators advance by small time steps", t, func() {
		state := State{Row: 3, Col: 4, NormX: 0.3, NormY: 0.7}

		// randomInterval is excluded: it is event-driven by contract.
		for _, name := range []string{"smoothWaves", "radialPulse", "flowField"} {
			anim, err := New(name, Props{})
			So(err, ShouldBeNil)

			Convey("Small dt produces small angle change for "+name, func() {
				prev := anim.Target(state, Frame{T: 1.0}).Angle
				next := anim.Target(state, Frame{T: 1.001, DT: 0.001}).Angle
				So(math.Abs(NormalizeAngle(next-prev)), ShouldBeLessThan, 0.05)
			})

			Convey("Identical inputs produce identical output for "+name, func() {
				a := anim.Target(state, Frame{T: 2.5})
				b := anim.Target(state, Frame{T: 2.5})
				So(b, ShouldResemble, a)
			})
		}
	})
}

func TestSmoothWaves(t *testing.T) {
	Convey("When smoothWaves evaluates", t, func() {
		Convey("The base angle offsets all wave types", func() {
			for _, waveType := range []string{"diagonal", "horizontal", "vertical", "radial", "circular"} {
				plain, _ := New("smoothWaves", Props{WaveType: waveType, WaveAmplitude: 30})
				offset, _ := New("smoothWaves", Props{WaveType: waveType, WaveAmplitude: 30, BaseAngle: 90})

				s := State{NormX: 0.25, NormY: 0.75}
				f := Frame{T: 1.2}
				diff := NormalizeAngle(offset.Target(s, f).Angle - plain.Target(s, f).Angle)
				So(diff, ShouldAlmostEqual, math.Pi/2, 1e-9)
			}
		})

		Convey("Amplitude bounds the swing around the base angle", func() {
			anim, _ := New("smoothWaves", Props{WaveAmplitude: 30})
			for i := 0; i < 200; i++ {
				a := anim.Target(State{NormX: 0.5, NormY: 0.5}, Frame{T: float64(i) * 0.05}).Angle
				So(math.Abs(a), ShouldBeLessThanOrEqualTo, Radians(30)+1e-9)
			}
		})
	})
}

func TestRadialPulse(t *testing.T) {
	Convey("When radialPulse evaluates", t, func() {
		anim, _ := New("radialPulse", Props{})

		Convey("A dynamic length factor is produced and stays positive", func() {
			for i := 0; i < 100; i++ {
				target := anim.Target(State{NormX: 0.8, NormY: 0.2}, Frame{T: float64(i) * 0.1})
				So(target.HasLength, ShouldBeTrue)
				So(target.Length, ShouldBeGreaterThan, 0)
			}
		})
	})
}

func TestFlock(t *testing.T) {
	Convey("When the flock animator evaluates", t, func() {
		anim, _ := New("flock", Props{PerceptionRadius: 0.5})
		fl := anim.(NeighborAware)

		Convey("Without an observed snapshot the cell holds its angle", func() {
			target := anim.Target(State{Angle: 1.25}, Frame{T: 1})
			So(target.Angle, ShouldEqual, 1.25)
		})

		Convey("Aligned neighbors pull the cell toward their heading", func() {
			prev := []State{
				{Row: 0, Col: 0, NormX: 0.4, NormY: 0.5, Angle: math.Pi / 2},
				{Row: 0, Col: 1, NormX: 0.6, NormY: 0.5, Angle: math.Pi / 2},
				{Row: 1, Col: 0, NormX: 0.5, NormY: 0.4, Angle: 0},
			}
			fl.Observe(prev)

			target := anim.Target(prev[2], Frame{T: 1})
			So(target.Angle, ShouldNotEqual, 0)
		})

		Convey("Observation does not mutate the snapshot", func() {
			prev := []State{
				{Row: 0, Col: 0, NormX: 0.4, NormY: 0.5, Angle: 1},
				{Row: 0, Col: 1, NormX: 0.6, NormY: 0.5, Angle: 2},
			}
			fl.Observe(prev)
			_ = anim.Target(prev[0], Frame{T: 1})
			So(prev[0].Angle, ShouldEqual, 1.0)
			So(prev[1].Angle, ShouldEqual, 2.0)
		})
	})
}

func TestRandomInterval(t *testing.T) {
	Convey("When randomInterval evaluates", t, func() {
		anim, _ := New("randomInterval", Props{Interval: 1, Seed: 7})
		s := State{Row: 2, Col: 3}

		Convey("The target holds steady between switches", func() {
			first := anim.Target(s, Frame{T: 0}).Angle
			So(anim.Target(s, Frame{T: 0.1}).Angle, ShouldEqual, first)
			So(anim.Target(s, Frame{T: 0.4}).Angle, ShouldEqual, first)
		})

		Convey("The target eventually switches", func() {
			first := anim.Target(s, Frame{T: 0}).Angle
			So(anim.Target(s, Frame{T: 10}).Angle, ShouldNotEqual, first)
		})
	})
}

func TestNormalizeAngle(t *testing.T) {
	Convey("When angles are normalized", t, func() {
		So(NormalizeAngle(0), ShouldEqual, 0.0)
		So(NormalizeAngle(2*math.Pi), ShouldAlmostEqual, 0, 1e-12)
		So(NormalizeAngle(3*math.Pi), ShouldAlmostEqual, math.Pi, 1e-12)
		So(NormalizeAngle(-3*math.Pi/2), ShouldAlmostEqual, math.Pi/2, 1e-12)
		So(NormalizeAngle(math.Pi), ShouldAlmostEqual, math.Pi, 1e-12)
	})
}

package controls

import (
	"testing"

	"vectorgrid/geometry"

	. "github.com/smartystreets/goconvey/convey"
)

func newRecorded(initial Props) (*Store, *[]Effective) {
	notified := &[]Effective{}
	store := NewStore(initial, func(e Effective) {
		*notified = append(*notified, e)
	})
	return store, notified
}

func TestManualFill(t *testing.T) {
	Convey("When manual mode resolves its axes", t, func() {
		cases := []struct {
			rows, cols         int
			wantRows, wantCols int
		}{
			{5, 0, 5, 0},
			{0, 8, 0, 8},
			{0, 0, geometry.DefaultDensity, 0},
			{5, 8, 5, 8},
		}

		for _, tc := range cases {
			store, notified := newRecorded(Props{ActiveMode: ModeManual})
			store.Dispatch(Action{
				Type:     UpdateSettings,
				Settings: geometry.Settings{Rows: tc.rows, Cols: tc.cols, Spacing: 40},
			})

			So(len(*notified), ShouldEqual, 1)
			eff := (*notified)[0]
			So(eff.Settings.Rows, ShouldEqual, tc.wantRows)
			So(eff.Settings.Cols, ShouldEqual, tc.wantCols)
		}
	})

	Convey("When manual mode stages a fixed ratio", t, func() {
		store, _ := newRecorded(Props{ActiveMode: ModeManual})
		ratio, err := geometry.NamedRatio("16:9")
		So(err, ShouldBeNil)
		store.Dispatch(Action{Type: UpdateRatio, Ratio: ratio})
		store.Dispatch(Action{Type: UpdateSettings, Settings: geometry.Settings{Rows: 5, Spacing: 40}})

		Convey("The zero axis derives from the staged ratio, not a square fallback", func() {
			eff := store.Effective()
			So(eff.Ratio.Mode, ShouldEqual, geometry.RatioFixed)

			layout := geometry.Compute(2000, 2000, eff.Settings, eff.Ratio)
			So(layout.Rows, ShouldEqual, 5)
			So(layout.Cols, ShouldEqual, 9)
		})

		Convey("A staged custom ratio resolves the same way", func() {
			store.Dispatch(Action{Type: UpdateCustomRatio, CustomW: 2, CustomH: 1})
			store.Dispatch(Action{Type: UpdateRatio, Ratio: geometry.Ratio{Mode: geometry.RatioCustom}})

			eff := store.Effective()
			So(eff.Ratio.W, ShouldEqual, 2)
			So(eff.Ratio.H, ShouldEqual, 1)
			So(geometry.Compute(2000, 2000, eff.Settings, eff.Ratio).Cols, ShouldEqual, 10)
		})
	})

	Convey("The staged settings keep what the user typed", t, func() {
		// The fill rule shapes only the effective output; switching away and
		// back must restore the raw values.
		store, _ := newRecorded(Props{ActiveMode: ModeManual})
		store.Dispatch(Action{Type: UpdateSettings, Settings: geometry.Settings{Rows: 0, Cols: 0, Spacing: 40}})

		So(store.State().Manual.Settings.Rows, ShouldEqual, 0)
		So(store.Effective().Settings.Rows, ShouldEqual, geometry.DefaultDensity)
	})
}

func TestCustomRatio(t *testing.T) {
	Convey("When a malformed custom ratio is dispatched", t, func() {
		store, notified := newRecorded(Props{ActiveMode: ModeAspectRatio})
		store.Dispatch(Action{Type: UpdateCustomRatio, CustomW: 0.4, CustomH: -2})

		Convey("Both terms clamp to 1", func() {
			stored := store.State().AspectRatio.CustomRatio
			So(stored.W, ShouldEqual, 1)
			So(stored.H, ShouldEqual, 1)
			So(len(*notified), ShouldEqual, 1)
		})
	})

	Convey("When the active ratio is custom", t, func() {
		store, _ := newRecorded(Props{ActiveMode: ModeAspectRatio})
		store.Dispatch(Action{Type: UpdateCustomRatio, CustomW: 3, CustomH: 2})
		store.Dispatch(Action{Type: UpdateRatio, Ratio: geometry.Ratio{Mode: geometry.RatioCustom}})

		Convey("The effective ratio is the validated custom pair", func() {
			eff := store.Effective()
			So(eff.Ratio.Mode, ShouldEqual, geometry.RatioCustom)
			So(eff.Ratio.W, ShouldEqual, 3)
			So(eff.Ratio.H, ShouldEqual, 2)
		})
	})
}

func TestModeSwitching(t *testing.T) {
	Convey("When the user configures two modes and switches between them", t, func() {
		store, notified := newRecorded(Props{ActiveMode: ModeDensity})
		store.Dispatch(Action{Type: UpdateSettings, Settings: geometry.Settings{Spacing: 25}})
		store.Dispatch(Action{Type: SetActiveMode, Mode: ModeManual})
		store.Dispatch(Action{Type: UpdateSettings, Settings: geometry.Settings{Rows: 4, Cols: 4, Spacing: 60}})

		Convey("Each mode keeps its own staged settings", func() {
			So(store.State().Density.Settings.Spacing, ShouldEqual, 25)
			So(store.State().Manual.Settings.Spacing, ShouldEqual, 60)
		})

		Convey("Switching back restores the earlier configuration", func() {
			store.Dispatch(Action{Type: SetActiveMode, Mode: ModeDensity})
			eff := store.Effective()
			So(eff.Settings.Spacing, ShouldEqual, 25)
			// Density mode never fixes the axis counts.
			So(eff.Settings.Rows, ShouldEqual, 0)
			So(eff.Settings.Cols, ShouldEqual, 0)
		})

		Convey("Every transition notified", func() {
			So(len(*notified), ShouldEqual, 3)
		})
	})
}

func TestSyncFromProps(t *testing.T) {
	Convey("When a sync echoes back the currently derived values", t, func() {
		initial := Props{
			ActiveMode: ModeAspectRatio,
			Settings:   geometry.Settings{Spacing: 40},
			Ratio:      geometry.Ratio{Mode: geometry.RatioAuto},
		}
		store, notified := newRecorded(initial)
		before := store.State()

		store.Dispatch(Action{Type: SyncFromProps, Props: initial})

		Convey("No state change and no re-notification occur", func() {
			So(store.State(), ShouldResemble, before)
			So(len(*notified), ShouldEqual, 0)
		})
	})

	Convey("When a sync carries genuinely new props", t, func() {
		store, notified := newRecorded(Props{ActiveMode: ModeAspectRatio, Settings: geometry.Settings{Spacing: 40}})

		store.Dispatch(Action{Type: SyncFromProps, Props: Props{
			ActiveMode: ModeManual,
			Settings:   geometry.Settings{Rows: 6, Spacing: 40},
		}})

		Convey("The selector re-seeds and notifies", func() {
			So(store.State().ActiveMode, ShouldEqual, ModeManual)
			So(len(*notified), ShouldEqual, 1)
			So((*notified)[0].Settings.Rows, ShouldEqual, 6)
		})
	})

	Convey("When a full reset is dispatched", t, func() {
		store, notified := newRecorded(Props{ActiveMode: ModeManual, Settings: geometry.Settings{Rows: 3}})
		store.Dispatch(Action{Type: UpdateSettings, Settings: geometry.Settings{Rows: 9, Spacing: 10}})

		store.Dispatch(Action{Type: InitState, Props: Props{
			ActiveMode: ModeDensity,
			Settings:   geometry.Settings{Spacing: 50},
		}})

		Convey("All modes are wholly replaced", func() {
			So(store.State().ActiveMode, ShouldEqual, ModeDensity)
			So(store.State().Manual.Settings.Rows, ShouldEqual, 0)
			So(store.State().Manual.Settings.Spacing, ShouldEqual, 50)
			So(len(*notified), ShouldEqual, 2)
		})
	})
}

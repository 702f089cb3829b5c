package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"vectorgrid/controls"
	"vectorgrid/geometry"
	"vectorgrid/shapes"

	. "github.com/smartystreets/goconvey/convey"
)

const sampleYaml = `
kind: vectorgrid
def:
  grid:
    mode: manual
    rows: 5
    cols: 0
    spacing: 40
    ratio: custom
    customRatio: {w: 0.4, h: -2}
  surface:
    width: 1280
    height: 720
    renderer: svg
    deviceScale: 2
  style:
    shape: triangle
    length: 20
    width: 4
    strokeCap: round
    origin: start
    color:
      mode: gradient
      from: "#4aa3df"
      to: "#d76a6a"
  animation:
    animationType: flowField
    easing: 0.15
    timeScale: 1.5
    dynamicWidth: true
    frameInterval: 16ms
    throttle: 50ms
    props:
      noiseScale: 2.5
      turbulence: 0.8
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFromYaml(t *testing.T) {
	Convey("When a full config file is loaded", t, func() {
		cfg, err := FromYaml(writeConfig(t, sampleYaml))
		So(err, ShouldBeNil)

		Convey("The surface and style sections map through", func() {
			So(cfg.Surface.Width, ShouldEqual, 1280)
			So(cfg.Surface.DeviceScale, ShouldEqual, 2.0)
			So(cfg.Style.Shape, ShouldEqual, shapes.Triangle)
			So(cfg.Style.StrokeCap, ShouldEqual, shapes.CapRound)
			So(cfg.Style.Color.Mode, ShouldEqual, shapes.ColorGradient)
		})

		Convey("The animation section decodes durations and props", func() {
			So(cfg.Animation.AnimationType, ShouldEqual, "flowField")
			So(cfg.Animation.FrameInterval, ShouldEqual, 16*time.Millisecond)
			So(cfg.Animation.Throttle, ShouldEqual, 50*time.Millisecond)
			So(cfg.Animation.Props.NoiseScale, ShouldEqual, 2.5)
			So(cfg.Animation.DynamicWidth, ShouldBeTrue)
		})

		Convey("The grid section resolves selector props with validation", func() {
			props, err := cfg.Grid.Props()
			So(err, ShouldBeNil)
			So(props.ActiveMode, ShouldEqual, controls.ModeManual)
			So(props.Settings.Rows, ShouldEqual, 5)
			So(props.Ratio.Mode, ShouldEqual, geometry.RatioCustom)
			// Malformed custom terms clamp to 1.
			So(props.CustomRatio.W, ShouldEqual, 1)
			So(props.CustomRatio.H, ShouldEqual, 1)
		})
	})

	Convey("When the file is missing", t, func() {
		_, err := FromYaml(filepath.Join(t.TempDir(), "config.yaml"))
		So(err, ShouldNotBeNil)
	})

	Convey("When the grid mode is unknown", t, func() {
		cfg, err := FromYaml(writeConfig(t, `
kind: vectorgrid
def:
  grid:
    mode: diagonal
`))
		So(err, ShouldBeNil)
		_, err = cfg.Grid.Props()
		So(err, ShouldNotBeNil)
	})

	Convey("When no grid mode is given", t, func() {
		cfg, err := FromYaml(writeConfig(t, `
kind: vectorgrid
def:
  grid:
    spacing: 30
`))
		So(err, ShouldBeNil)
		props, err := cfg.Grid.Props()
		So(err, ShouldBeNil)
		So(props.ActiveMode, ShouldEqual, controls.ModeDensity)
	})
}

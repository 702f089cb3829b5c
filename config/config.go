// config loads the application's YAML configuration: grid sizing, surface
// and style settings, and animation parameters.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"vectorgrid/controls"
	"vectorgrid/geometry"
	"vectorgrid/shapes"
	"vectorgrid/simulation"
)

// OuterConfig is the envelope: a kind selector around the typed definition.
type OuterConfig struct {
	Kind string `mapstructure:"kind"`
	Def  Config `mapstructure:"def"`
}

// Config is the full application configuration. Animation durations (e.g.
// "16ms") decode through viper's string-to-duration hook.
type Config struct {
	Grid      GridConfig          `mapstructure:"grid"`
	Surface   SurfaceConfig       `mapstructure:"surface"`
	Style     shapes.Style        `mapstructure:"style"`
	Animation simulation.Settings `mapstructure:"animation"`
}

// GridConfig selects the sizing mode and stages its parameters.
type GridConfig struct {
	Mode    string  `mapstructure:"mode"`
	Rows    int     `mapstructure:"rows"`
	Cols    int     `mapstructure:"cols"`
	Spacing float64 `mapstructure:"spacing"`
	Margin  float64 `mapstructure:"margin"`
	// Ratio is auto, a named ratio (1:1, 4:3, 16:9, 21:9), or custom.
	Ratio       string      `mapstructure:"ratio"`
	CustomRatio RatioConfig `mapstructure:"customRatio"`
}

type RatioConfig struct {
	W float64 `mapstructure:"w"`
	H float64 `mapstructure:"h"`
}

// Props resolves the grid configuration into selector seed props.
func (g GridConfig) Props() (controls.Props, error) {
	mode := controls.Mode(g.Mode)
	switch mode {
	case controls.ModeAspectRatio, controls.ModeDensity, controls.ModeManual:
	case "":
		mode = controls.ModeDensity
	default:
		return controls.Props{}, fmt.Errorf("unknown grid mode %q", g.Mode)
	}

	ratio := geometry.Ratio{Mode: geometry.RatioAuto}
	if g.Ratio == "custom" {
		ratio = geometry.Ratio{Mode: geometry.RatioCustom}
	} else if g.Ratio != "" {
		var err error
		if ratio, err = geometry.NamedRatio(g.Ratio); err != nil {
			return controls.Props{}, err
		}
	}

	return controls.Props{
		ActiveMode: mode,
		Settings: geometry.Settings{
			Rows:    g.Rows,
			Cols:    g.Cols,
			Spacing: g.Spacing,
			Margin:  g.Margin,
		},
		Ratio:       ratio,
		CustomRatio: geometry.CustomRatio(g.CustomRatio.W, g.CustomRatio.H),
	}, nil
}

// SurfaceConfig sizes the rendering surface before the first browser resize
// report arrives.
type SurfaceConfig struct {
	Width       int     `mapstructure:"width"`
	Height      int     `mapstructure:"height"`
	Renderer    string  `mapstructure:"renderer"`
	DeviceScale float64 `mapstructure:"deviceScale"`
}

// FromYaml loads the config file and decodes the envelope into the typed
// configuration.
func FromYaml(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}

	outerConfig := &OuterConfig{}
	if err := vp.Unmarshal(outerConfig); err != nil {
		return nil, err
	}

	return &outerConfig.Def, nil
}

// Dump renders the loaded configuration back as YAML, for startup logging.
func (c *Config) Dump() string {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return err.Error()
	}
	return string(raw)
}

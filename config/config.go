// Package config loads the engine's TOML configuration and watches it for
// live changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the file read when no path is given.
const DefaultPath = "kiln.toml"

type Config struct {
	// Scene is the scene file, relative to Assets.
	Scene string `toml:"scene"`
	// Assets is a directory or zip archive.
	Assets   string `toml:"assets"`
	Debug    bool   `toml:"debug"`
	LogLevel string `toml:"log_level"`

	Window Window `toml:"window"`
	Camera Camera `toml:"camera"`
	Light  Light  `toml:"light"`
	Render Render `toml:"render"`
}

type Window struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

// Camera holds the initial camera and controller settings. Angles are in
// degrees.
type Camera struct {
	Position    [3]float32 `toml:"position"`
	Yaw         float32    `toml:"yaw"`
	Pitch       float32    `toml:"pitch"`
	Fovy        float32    `toml:"fovy"`
	Near        float32    `toml:"near"`
	Far         float32    `toml:"far"`
	Speed       float32    `toml:"speed"`
	Sensitivity float32    `toml:"sensitivity"`
}

type Light struct {
	Direction [3]float32 `toml:"direction"`
	Color     [3]float32 `toml:"color"`
}

type Render struct {
	// Scale is the render resolution relative to the window, in (0, 1].
	Scale float32 `toml:"render_scale"`
}

func Default() Config {
	return Config{
		Scene:    "scene.json",
		Assets:   "res",
		LogLevel: "info",
		Window: Window{
			Title:     "kiln",
			Width:     480,
			Height:    272,
			Resizable: true,
		},
		Camera: Camera{
			Position:    [3]float32{0, 5, 10},
			Yaw:         -90,
			Pitch:       -20,
			Fovy:        45,
			Near:        0.1,
			Far:         100,
			Speed:       4,
			Sensitivity: 0.4,
		},
		Light: Light{
			Direction: [3]float32{-0.4, -1, -0.6},
			Color:     [3]float32{1, 1, 1},
		},
		Render: Render{Scale: 1},
	}
}

// Load reads path over the defaults. Unknown keys are an error. A missing
// file returns an error wrapping fs.ErrNotExist.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("config: %s", strict.String())
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Fovy <= 0 || c.Camera.Fovy >= 180 {
		errs = append(errs, fmt.Errorf("camera.fovy %g must be in (0, 180)", c.Camera.Fovy))
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("camera near %g and far %g need 0 < near < far", c.Camera.Near, c.Camera.Far))
	}
	if c.Render.Scale <= 0 || c.Render.Scale > 1 {
		errs = append(errs, fmt.Errorf("render.render_scale %g must be in (0, 1]", c.Render.Scale))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Level parses LogLevel. An empty level is info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

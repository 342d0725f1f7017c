// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/monet/internal/engine/camera"
	"github.com/Faultbox/monet/internal/logger"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Frame    FrameConfig    `yaml:"frame"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	ClearColor [4]float32 `yaml:"clear_color,flow"` // RGBA, 0..1
}

// CameraConfig places the eye of the initial scene.
type CameraConfig struct {
	Position   [3]float32 `yaml:"position,flow"`
	Target     [3]float32 `yaml:"target,flow"`
	Up         [3]float32 `yaml:"up,flow"`
	FOVDegrees float32    `yaml:"fov_degrees"`
	MoveSpeed  float32    `yaml:"move_speed"` // units per second
}

// FrameConfig tunes the frame loop.
type FrameConfig struct {
	Workers        int `yaml:"workers"`          // 0 = GOMAXPROCS
	MaxDrainRounds int `yaml:"max_drain_rounds"` // 0 = actor default
	FPSLimit       int `yaml:"fps_limit"`        // 0 = unlimited
}

// DebugConfig holds debug aids.
type DebugConfig struct {
	Overlay       bool   `yaml:"overlay"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			ClearColor: [4]float32{1, 1, 1, 1},
		},
		Camera: CameraConfig{
			Position:   [3]float32{-5, -5, 5},
			Target:     [3]float32{0, 0, 0},
			Up:         [3]float32{0, 0, 1},
			FOVDegrees: 54,
			MoveSpeed:  5,
		},
		Frame: FrameConfig{
			Workers:        0,
			MaxDrainRounds: 0,
			FPSLimit:       0,
		},
		Debug: DebugConfig{
			Overlay:       true,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Eye returns the configured camera.
func (c *Config) Eye() camera.Eye {
	return camera.Eye{
		Position:    mgl32.Vec3(c.Camera.Position),
		Target:      mgl32.Vec3(c.Camera.Target),
		Up:          mgl32.Vec3(c.Camera.Up),
		FieldOfView: mgl32.DegToRad(c.Camera.FOVDegrees),
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	}
	for i, v := range c.Graphics.ClearColor {
		if v < 0 || v > 1 || math32.IsNaN(v) {
			return fmt.Errorf("%w: clear_color[%d] = %v", ErrInvalid, i, v)
		}
	}
	if err := c.Eye().Validate(); err != nil {
		return fmt.Errorf("%w: camera: %w", ErrInvalid, err)
	}
	if c.Camera.MoveSpeed < 0 {
		return fmt.Errorf("%w: camera.move_speed = %v", ErrInvalid, c.Camera.MoveSpeed)
	}
	if c.Frame.Workers < 0 || c.Frame.MaxDrainRounds < 0 || c.Frame.FPSLimit < 0 {
		return fmt.Errorf("%w: frame settings must not be negative", ErrInvalid)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Graphics.ClearColor != [4]float32{1, 1, 1, 1} {
		t.Errorf("expected white clear color, got %v", cfg.Graphics.ClearColor)
	}

	if cfg.Camera.Position != [3]float32{-5, -5, 5} {
		t.Errorf("expected camera at (-5,-5,5), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.Up != [3]float32{0, 0, 1} {
		t.Errorf("expected +Z up, got %v", cfg.Camera.Up)
	}

	if cfg.Frame.Workers != 0 {
		t.Errorf("expected workers 0, got %d", cfg.Frame.Workers)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestEye(t *testing.T) {
	cfg := Default()
	cfg.Camera.FOVDegrees = 90

	eye := cfg.Eye()
	if eye.Position != (mgl32.Vec3{-5, -5, 5}) {
		t.Errorf("unexpected position %v", eye.Position)
	}
	if !mgl32.FloatEqual(eye.FieldOfView, mgl32.DegToRad(90)) {
		t.Errorf("expected fov pi/2, got %v", eye.FieldOfView)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }},
		{"clear color out of range", func(c *Config) { c.Graphics.ClearColor[2] = 1.5 }},
		{"eye on target", func(c *Config) { c.Camera.Target = c.Camera.Position }},
		{"zero up", func(c *Config) { c.Camera.Up = [3]float32{} }},
		{"fov too wide", func(c *Config) { c.Camera.FOVDegrees = 200 }},
		{"negative speed", func(c *Config) { c.Camera.MoveSpeed = -1 }},
		{"negative workers", func(c *Config) { c.Frame.Workers = -2 }},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  clear_color: [0, 0, 0.2, 1]

camera:
  position: [10, 0, 3]
  target: [0, 0, 0]
  fov_degrees: 70
  move_speed: 12

frame:
  workers: 4
  max_drain_rounds: 64
  fps_limit: 144

debug:
  overlay: false
  screenshot_dir: "/tmp/shots"

logging:
  level: "debug"
  log_file: "monet.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.ClearColor != [4]float32{0, 0, 0.2, 1} {
		t.Errorf("unexpected clear color %v", cfg.Graphics.ClearColor)
	}

	if cfg.Camera.Position != [3]float32{10, 0, 3} {
		t.Errorf("unexpected camera position %v", cfg.Camera.Position)
	}
	if cfg.Camera.Up != [3]float32{0, 0, 1} {
		t.Errorf("expected up to keep its default, got %v", cfg.Camera.Up)
	}
	if cfg.Camera.MoveSpeed != 12 {
		t.Errorf("expected move speed 12, got %v", cfg.Camera.MoveSpeed)
	}

	if cfg.Frame.Workers != 4 || cfg.Frame.MaxDrainRounds != 64 || cfg.Frame.FPSLimit != 144 {
		t.Errorf("unexpected frame config %+v", cfg.Frame)
	}

	if cfg.Debug.Overlay {
		t.Error("expected overlay to be false")
	}
	if cfg.Debug.ScreenshotDir != "/tmp/shots" {
		t.Errorf("unexpected screenshot dir %s", cfg.Debug.ScreenshotDir)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "monet.log" {
		t.Errorf("expected log file 'monet.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/monet.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: -1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadFile(configPath)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(FileName, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Debug.Overlay {
					t.Error("expected overlay to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "workers flag",
			setup: func() { *flagWorkers = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Frame.Workers != 0 {
					t.Errorf("expected workers 0, got %d", cfg.Frame.Workers)
				}
			},
			teardown: func() { *flagWorkers = -1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			cfg.Frame.Workers = 3
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)

	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Graphics.ClearColor = [4]float32{0.5, 0.5, 0.5, 1}
	cfg.Frame.FPSLimit = 30
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Graphics.ClearColor != cfg.Graphics.ClearColor {
		t.Errorf("clear color not preserved: %v", loaded.Graphics.ClearColor)
	}
	if loaded.Frame.FPSLimit != 30 {
		t.Errorf("fps limit not preserved: %d", loaded.Frame.FPSLimit)
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *Config) { reloaded <- cfg })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)

	// An invalid edit is skipped.
	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(3 * settle)
	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected reloaded level debug, got %s", cfg.Logging.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

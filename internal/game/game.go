// Package game wires the window, the GL device and the actor system into
// the interactive viewer.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/monet/internal/actor"
	"github.com/Faultbox/monet/internal/config"
	"github.com/Faultbox/monet/internal/engine/debug"
	"github.com/Faultbox/monet/internal/engine/gpu"
	"github.com/Faultbox/monet/internal/engine/input"
	"github.com/Faultbox/monet/internal/engine/picking"
	"github.com/Faultbox/monet/internal/engine/renderer"
	"github.com/Faultbox/monet/internal/engine/scene"
	"github.com/Faultbox/monet/internal/engine/window"
	"github.com/Faultbox/monet/internal/game/entity"
	"github.com/Faultbox/monet/internal/game/loop"
	"github.com/Faultbox/monet/internal/logger"
)

// MainScene is the scene the viewer shows.
const MainScene scene.ID = 0

// Title is the window title.
const Title = "Monet"

// Game is the viewer instance. Every method must run on the main thread.
type Game struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	device   *gpu.Device
	input    *input.Input
	system   *actor.System
	renderer *renderer.Renderer
	driver   *loop.Driver

	handle      actor.Address
	handleZ     float32
	screenshots *debug.ScreenshotCapture

	configPath string
	reloads    chan *config.Config
}

// New creates the window, device, renderer and example scene.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:         cfg,
		log:         logger.Named("game"),
		screenshots: debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "monet"),
		reloads:     make(chan *config.Config, 1),
	}

	g.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("workers", cfg.Frame.Workers),
	)

	var err error
	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Logger:     logger.Named("window"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The device needs the GL context the window just made current.
	g.device, err = gpu.New(g.window, gpu.Options{
		Overlay: cfg.Debug.Overlay,
		Logger:  logger.Named("gpu"),
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	g.input = input.New()

	g.system = actor.NewSystem(actor.Options{
		Workers:   cfg.Frame.Workers,
		MaxRounds: cfg.Frame.MaxDrainRounds,
		Logger:    logger.Named("actor"),
	})
	g.renderer = renderer.New(g.device, renderer.Options{
		ClearColor: cfg.Graphics.ClearColor,
		Logger:     logger.Named("renderer"),
	})
	rendererAddr := g.system.RegisterPinned("renderer", g.renderer)

	eye := cfg.Eye()
	g.driver = loop.New(g.system, rendererAddr, MainScene, eye, logger.Named("loop"))

	if err := g.populate(rendererAddr); err != nil {
		g.Close()
		return nil, err
	}

	g.log.Info("viewer initialized")
	return g, nil
}

// populate creates the main scene and registers the example renderables.
func (g *Game) populate(rendererAddr actor.Address) error {
	eye := g.cfg.Eye()
	msgs := []actor.Message{renderer.AddScene{SceneID: MainScene, Eye: &eye}}

	handleCfg := entity.DefaultHandleConfig()
	g.handleZ = handleCfg.Height
	g.handle = g.system.Register("handle", entity.NewHandle(handleCfg))

	for _, addr := range []actor.Address{
		g.system.Register("grid", entity.NewGrid(entity.DefaultGridConfig())),
		g.system.Register("marker", entity.NewMarker(entity.DefaultMarkerConfig())),
		g.handle,
	} {
		msgs = append(msgs, renderer.RegisterRenderable{SceneID: MainScene, Addr: addr})
	}

	for _, msg := range msgs {
		if err := g.system.Send(rendererAddr, msg); err != nil {
			return err
		}
	}
	if err := g.system.Drain(context.Background()); err != nil {
		return fmt.Errorf("populating scene: %w", err)
	}
	return nil
}

// WatchConfig reloads path while Run is active. Reloads change the log
// level, clear color, overlay, vsync, screenshot directory and camera.
func (g *Game) WatchConfig(path string) {
	g.configPath = path
}

// Run runs the frame loop until the window closes or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if g.configPath != "" {
		go func() {
			err := config.Watch(ctx, g.configPath, func(c *config.Config) {
				// Keep only the newest pending reload.
				select {
				case <-g.reloads:
				default:
				}
				g.reloads <- c
			})
			if err != nil {
				g.log.Warn("config watch stopped", zap.Error(err))
			}
		}()
	}

	if err := g.driver.Setup(ctx); err != nil {
		return err
	}

	stats := loop.NewStats(time.Now())
	limiter := loop.NewLimiter(g.cfg.Frame.FPSLimit)
	var dt time.Duration

	g.log.Info("starting frame loop")

	for {
		if ctx.Err() != nil {
			break
		}

		if g.input.Update() {
			break
		}
		g.handleEvents()
		g.applyReload()

		move := g.input.Movement()
		if move != (mgl32.Vec3{}) {
			step := g.cfg.Camera.MoveSpeed * float32(dt.Seconds())
			if err := g.driver.MoveEye(move.Normalize().Mul(step)); err != nil {
				return err
			}
		}

		if err := g.driver.Frame(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			return err
		}

		var updated bool
		dt, updated = stats.Tick(time.Now())
		if updated {
			g.log.Debug("fps", zap.Float64("fps", stats.FPS()))
			g.window.SetTitle(Title + "  " + stats.Text())
			if err := g.driver.SetDebugText(stats.Text()); err != nil {
				return err
			}
		}

		limiter.Wait(ctx.Done())
	}

	g.log.Info("frame loop stopped", zap.Uint64("frames", g.driver.Frames()))
	return nil
}

// handleEvents routes discrete input: screenshots, overlay toggling and
// pointer drags on the ground plane.
func (g *Game) handleEvents() {
	for _, ev := range g.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			w, h := g.window.DrawableSize()
			g.log.Debug("window resized",
				zap.Int("width", ev.Width),
				zap.Int("height", ev.Height),
				zap.Int("drawable_width", w),
				zap.Int("drawable_height", h),
			)

		case input.EventMouseDown:
			if ev.Button == sdl.BUTTON_LEFT {
				g.sendDrag(entity.DragStart, ev.MouseX, ev.MouseY)
			}

		case input.EventMouseUp:
			if ev.Button == sdl.BUTTON_LEFT {
				g.sendDrag(entity.DragEnd, ev.MouseX, ev.MouseY)
			}
		}
	}

	if g.input.IsKeyPressed(sdl.SCANCODE_F12) {
		g.device.CaptureNext(g.saveScreenshot)
	}
	if g.input.IsKeyPressed(sdl.SCANCODE_F3) {
		g.device.SetOverlay(!g.device.Overlay())
	}

	if d, ok := g.input.Drag(); ok {
		g.sendDrag(entity.DragMove, d.To[0], d.To[1])
	}
}

func (g *Game) sendDrag(phase entity.DragPhase, x, y int) {
	w, h := g.window.GetSize()
	eye := g.driver.Eye()
	p, ok := picking.GroundPoint(float32(x), float32(y), w, h, eye.ViewMatrix(), eye.ProjectionMatrix(w, h), g.handleZ)
	if !ok {
		return
	}
	if err := g.driver.Send(g.handle, entity.Drag{Phase: phase, Point: p}); err != nil {
		g.log.Warn("drag not delivered", zap.Error(err))
	}
}

func (g *Game) saveScreenshot(pixels []byte, width, height int) {
	path, err := g.screenshots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		g.log.Error("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

func (g *Game) applyReload() {
	var c *config.Config
	select {
	case c = <-g.reloads:
	default:
		return
	}

	if err := logger.SetLevel(c.Logging.Level); err != nil {
		g.log.Warn("keeping log level", zap.Error(err))
	}
	g.renderer.SetClearColor(c.Graphics.ClearColor)
	g.device.SetOverlay(c.Debug.Overlay)
	if c.Graphics.VSync != g.cfg.Graphics.VSync {
		g.window.SetVSync(c.Graphics.VSync)
	}
	g.screenshots.SetOutputDir(c.Debug.ScreenshotDir)

	// An edited camera section snaps the eye back to the configured placement.
	if c.Camera.Position != g.cfg.Camera.Position || c.Camera.Target != g.cfg.Camera.Target ||
		c.Camera.Up != g.cfg.Camera.Up || c.Camera.FOVDegrees != g.cfg.Camera.FOVDegrees {
		if err := g.driver.SetEye(c.Eye()); err != nil {
			g.log.Warn("keeping camera", zap.Error(err))
		}
	}

	// Window size and frame settings apply on restart.
	g.cfg.Graphics.ClearColor = c.Graphics.ClearColor
	g.cfg.Graphics.VSync = c.Graphics.VSync
	g.cfg.Camera = c.Camera
	g.cfg.Debug = c.Debug
	g.cfg.Logging = c.Logging

	g.log.Info("config applied")
}

// Close tears everything down in reverse order of creation.
func (g *Game) Close() {
	g.log.Info("closing viewer")

	if g.renderer != nil {
		// Closes the device too.
		g.renderer.Close()
	} else if g.device != nil {
		g.device.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

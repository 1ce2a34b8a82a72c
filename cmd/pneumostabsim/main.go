package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pneumostabsim/pneumostabsim/common"
	"github.com/pneumostabsim/pneumostabsim/engine"
	"github.com/pneumostabsim/pneumostabsim/engine/bridge"
	"github.com/pneumostabsim/pneumostabsim/engine/camera"
	"github.com/pneumostabsim/pneumostabsim/engine/config"
	"github.com/pneumostabsim/pneumostabsim/engine/hud"
	"github.com/pneumostabsim/pneumostabsim/engine/logging"
	"github.com/pneumostabsim/pneumostabsim/engine/profiler"
	"github.com/pneumostabsim/pneumostabsim/engine/renderer"
	"github.com/pneumostabsim/pneumostabsim/engine/window"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

type options struct {
	configDir string
	payloads  []string
	headless  bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, *pflag.FlagSet, error) {
	var opts options
	fs := pflag.NewFlagSet("pneumostabsim", pflag.ContinueOnError)
	fs.StringVar(&opts.configDir, "config-dir", ".", "directory containing "+config.FileName)
	fs.StringArrayVar(&opts.payloads, "payload", nil, "JSON update envelope file to apply at startup (repeatable)")
	fs.BoolVar(&opts.headless, "headless", false, "apply payloads, auto-fit and print the camera snapshot without opening a window")
	fs.String("log-level", "info", "log level: trace, debug, info, warn, error")
	fs.String("log-file", "", "also write logs to this file")
	fs.Int("width", 1280, "initial window width")
	fs.Int("height", 720, "initial window height")
	fs.Float64("tick-rate", engine.DefaultTickRate, "fixed update rate in Hz")
	fs.Bool("profile", false, "log frame rate and memory statistics")
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	return opts, fs, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configDir, fs)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var extra []io.Writer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		extra = append(extra, f)
	}
	logger := logging.New(stderr, cfg.LogLevel, extra...)
	logger.Info().Str("loglevel", logger.GetLevel().String()).Msg("Logging set up")

	cc := camera.NewCameraController(append(cfg.ControllerOptions(),
		camera.WithLogger(logger.With().Str("component", "camera").Logger()),
	)...)

	for _, path := range opts.payloads {
		if _, err := bridge.ApplyFile(cc, path, logger); err != nil {
			return err
		}
	}

	if opts.headless {
		cc.AutoFitFrame(camera.DefaultMarginFactor)
		return printSnapshot(stdout, cc.Snapshot())
	}
	return runWindowed(cfg, cc, logger)
}

func printSnapshot(w io.Writer, s camera.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func runWindowed(cfg config.Config, cc camera.CameraController, logger zerolog.Logger) error {
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	rend, err := renderer.NewRenderer(win.SurfaceDescriptor(), win.Width(), win.Height(),
		renderer.WithLogger(logger.With().Str("component", "renderer").Logger()),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer rend.Release()

	overlay := hud.New(hud.WithLogger(logger))
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithLogger(logger),
		engine.WithTickRate(cfg.Engine.TickRate),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithProfiler(profiler.NewProfiler(profiler.WithLogger(logger.With().Str("component", "profiler").Logger()))),
	)

	wireInput(win, cc)
	win.SetResizeCallback(func(width, height int) {
		if err := rend.Resize(width, height); err != nil {
			logger.Error().Err(err).Msg("resize")
		}
		cc.Input().SetViewportHeight(float64(height))
	})
	cc.Input().SetViewportHeight(float64(win.Height()))

	var stats profiler.Stats
	refreshTitle := func() {
		win.SetTitle(overlay.Title(cfg.Window.Title, cc.Snapshot(), stats))
	}
	cc.SetToggleHudCallback(func() {
		if overlay.Toggle() {
			eng.EnableProfiler()
		} else if !cfg.Engine.Profiling {
			eng.DisableProfiler()
		}
		refreshTitle()
	})
	eng.SetStatsCallback(func(s profiler.Stats) {
		stats = s
		refreshTitle()
		overlay.Log(cc.Snapshot(), stats)
	})

	lines := sceneLines{rig: cc.Rig()}
	eng.SetTickCallback(func(step time.Duration) {
		cc.Tick(step.Seconds())
	})
	eng.SetFrameCallback(func(dt time.Duration) {
		if err := lines.sync(rend, cc.Geometry(), cc.Pivot()); err != nil {
			logger.Error().Err(err).Msg("line upload")
		}
		uniform := cc.Frame(dt.Seconds()).Uniform(rend.Aspect())
		if cc.IsMoving() {
			uniform.Moving = 1
		}
		if err := rend.Render(uniform); err != nil {
			logger.Debug().Err(err).Msg("frame skipped")
		}
	})

	logger.Info().Int("width", win.Width()).Int("height", win.Height()).Msg("window ready")
	eng.Run()
	eng.Quit()
	return nil
}

// wireInput routes window events to the camera input controller.
func wireInput(win window.Window, cc camera.CameraController) {
	in := cc.Input()
	win.SetMouseDownCallback(in.HandlePress)
	win.SetMouseUpCallback(in.HandleRelease)
	win.SetMouseMoveCallback(in.HandleMove)
	win.SetScrollCallback(func(_, dy float64) {
		in.HandleWheel(dy)
	})
	win.SetDoubleClickCallback(func(button common.MouseButton, _, _ float64) {
		if button == common.MouseButtonLeft {
			in.HandleDoubleClick()
		}
	})
	win.SetKeyDownCallback(func(key int, mods uint32) {
		in.HandleKey(key, mods)
	})
}

// sceneLines rebuilds the wireframe when the geometry or pivot changes.
type sceneLines struct {
	rig   *camera.Rig
	built bool
	key   [7]float64
}

func (s *sceneLines) sync(rend renderer.Renderer, g camera.Geometry, pivot mgl64.Vec3) error {
	key := [7]float64{g.FrameLength, g.TrackWidth, g.FrameHeight, g.BeamSize, pivot[0], pivot[1], pivot[2]}
	if s.built && key == s.key {
		return nil
	}
	s.built, s.key = true, key
	return rend.SetLines(renderer.SceneLines(g, pivot, s.rig.ToSceneVector))
}

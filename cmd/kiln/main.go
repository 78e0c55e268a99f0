// Command kiln loads a scene and renders it in a window, or headlessly for a
// fixed number of frames.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/plus3/kiln/asset"
	"github.com/plus3/kiln/config"
	debugebiten "github.com/plus3/kiln/debugui/ebiten"
	"github.com/plus3/kiln/engine"
	"github.com/plus3/kiln/gpu"
	"github.com/plus3/kiln/gpu/ebitengpu"
	"github.com/plus3/kiln/gpu/headless"
	"github.com/plus3/kiln/input"
	"github.com/plus3/kiln/platform/desktop"
	"github.com/plus3/kiln/scene"
)

type flags struct {
	config   string
	scene    string
	assets   string
	headless bool
	frames   int
	debug    bool
	watch    bool
	logLevel string
	report   bool
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", config.DefaultPath, "Path to the TOML config file.")
	flag.StringVar(&f.scene, "scene", "", "Scene file inside the asset root. Overrides the config.")
	flag.StringVar(&f.assets, "assets", "", "Asset directory or zip archive. Overrides the config.")
	flag.BoolVar(&f.headless, "headless", false, "Render with the in-memory backend instead of a window.")
	flag.IntVar(&f.frames, "frames", 120, "Number of frames to render in headless mode.")
	flag.BoolVar(&f.debug, "debug", false, "Show the debug overlay. F1 toggles it.")
	flag.BoolVar(&f.watch, "watch", false, "Reload the config file when it changes.")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error. Overrides the config.")
	flag.BoolVar(&f.report, "report", false, "Print a frame statistics report on exit.")
	flag.Parse()

	if err := run(f); err != nil {
		slog.Error("kiln failed", "err", err)
		os.Exit(1)
	}
}

func loadConfig(f flags) (config.Config, error) {
	cfg, err := config.Load(f.config)
	if errors.Is(err, fs.ErrNotExist) && f.config == config.DefaultPath {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return config.Config{}, err
	}
	if f.scene != "" {
		cfg.Scene = f.scene
	}
	if f.assets != "" {
		cfg.Assets = f.assets
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.debug {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}

func run(f flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	assets, err := asset.Open(cfg.Assets)
	if err != nil {
		return err
	}
	defer assets.Close()

	var (
		device  gpu.Device
		surface gpu.Surface
		window  *ebitengpu.Backend
	)
	if f.headless {
		backend := headless.New(headless.Options{})
		device, surface = backend.Device(), backend.Surface()
	} else {
		window = ebitengpu.New()
		device, surface = window.Device(), window.Surface()
	}

	report := &Report{Scene: cfg.Scene, Assets: assets.String(), Headless: f.headless}
	runtime.ReadMemStats(&report.MemStatsStart)

	loadStart := time.Now()
	storage, err := scene.NewLoader(scene.Options{Device: device, Assets: assets, Logger: logger}).Load(ctx, cfg.Scene)
	if err != nil {
		return err
	}
	report.LoadTime = time.Since(loadStart)
	report.Entities = storage.Len()

	var updates <-chan config.Config
	if f.watch {
		watcher, err := config.Watch(f.config, logger)
		if err != nil {
			storage.Release()
			return err
		}
		defer watcher.Close()
		updates = watcher.Updates()
	}

	e, err := engine.New(engine.Options{
		Device:        device,
		Surface:       surface,
		Storage:       storage,
		Config:        cfg,
		ConfigUpdates: updates,
		Logger:        logger,
	})
	if err != nil {
		storage.Release()
		return err
	}
	defer e.Close()

	runStart := time.Now()
	if f.headless {
		err = e.Run(ctx, input.NewScript(input.Frames(f.frames, 1.0/60)...))
	} else {
		var overlay *debugebiten.ImguiBackend
		if cfg.Debug {
			overlay = debugebiten.New(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
		}
		err = desktop.New(desktop.Options{
			Engine:  e,
			Surface: window.Surface(),
			Window:  cfg.Window,
			Overlay: overlay,
			Logger:  logger,
		}).Run()
	}
	report.TotalTime = time.Since(runStart)
	report.Frames = e.Stats()
	report.Systems = e.Scheduler().GetStats()
	report.FrameTime = NewStats(report.Frames.FrameTimes)
	runtime.ReadMemStats(&report.MemStatsEnd)
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted")
		err = nil
	}
	if err != nil {
		return err
	}

	if f.report {
		if err := report.Generate(os.Stdout); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}
	return nil
}

// Package engine drives the per-frame lifecycle: it folds input into the
// camera, runs the simulation systems and renders every drawable entity.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/kiln/camera"
	"github.com/plus3/kiln/component"
	"github.com/plus3/kiln/config"
	"github.com/plus3/kiln/ecs"
	"github.com/plus3/kiln/gpu"
)

// ErrFatal wraps errors that end the frame loop.
var ErrFatal = errors.New("engine: fatal")

type Options struct {
	Device  gpu.Device
	Surface gpu.Surface
	// Storage is the loaded scene. The engine owns it from here on.
	Storage *ecs.Storage
	// Config supplies window size, camera, light and render scale.
	Config config.Config
	// ConfigUpdates, if set, is drained at the start of every frame.
	ConfigUpdates <-chan config.Config
	// Systems run after the built-in spin system on every update.
	Systems []ecs.System
	Logger  *slog.Logger
}

type renderable struct {
	Model     *component.Model
	Transform *component.Transform
	Material  *component.Material
}

type skybox struct {
	Cubemap *component.Cubemap
}

// Engine owns the store, the camera and the surface for the lifetime of a
// window.
type Engine struct {
	device  gpu.Device
	queue   gpu.Queue
	surface gpu.Surface
	format  gpu.TextureFormat
	logger  *slog.Logger

	storage     *ecs.Storage
	scheduler   *ecs.Scheduler
	renderables *ecs.Query[renderable]
	skyboxes    *ecs.Query[skybox]

	camera     camera.Camera
	projection camera.Projection
	controller *camera.Controller
	uniform    camera.Uniform
	light      camera.LightUniform

	cameraBuffer   gpu.Buffer
	lightBuffer    gpu.Buffer
	cameraGroup    gpu.BindGroup
	meshPipeline   gpu.Pipeline
	skyboxPipeline gpu.Pipeline
	depth          gpu.Texture

	width, height int
	renderScale   float32
	updates       <-chan config.Config

	phase  Phase
	stats  Stats
	times  frameTimes
	closed bool
}

// New creates the engine's GPU resources and configures the surface at the
// configured window size.
func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Storage == nil {
		opts.Storage = ecs.NewStorage(component.NewRegistry())
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	format, err := gpu.ChooseSurfaceFormat(opts.Surface.Capabilities().Formats)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e := &Engine{
		device:      opts.Device,
		queue:       opts.Device.Queue(),
		surface:     opts.Surface,
		format:      format,
		logger:      opts.Logger,
		storage:     opts.Storage,
		camera:      camera.New(mgl32.Vec3(cfg.Camera.Position), cfg.Camera.Yaw, cfg.Camera.Pitch),
		projection:  camera.NewProjection(cfg.Window.Width, cfg.Window.Height, cfg.Camera.Fovy, cfg.Camera.Near, cfg.Camera.Far),
		controller:  camera.NewController(cfg.Camera.Speed, cfg.Camera.Sensitivity),
		light:       lightUniform(cfg.Light),
		width:       cfg.Window.Width,
		height:      cfg.Window.Height,
		renderScale: cfg.Render.Scale,
		updates:     opts.ConfigUpdates,
	}
	e.uniform = camera.NewUniform(e.camera, e.projection)

	if err := e.createResources(); err != nil {
		e.releaseResources()
		return nil, fmt.Errorf("engine: %w", err)
	}
	if err := e.configure(); err != nil {
		e.releaseResources()
		return nil, fmt.Errorf("engine: %w", err)
	}

	e.scheduler = ecs.NewScheduler(e.storage)
	e.scheduler.Register(&SpinSystem{})
	for _, system := range opts.Systems {
		e.scheduler.Register(system)
	}
	e.renderables = ecs.NewQuery[renderable](e.storage)
	e.skyboxes = ecs.NewQuery[skybox](e.storage)

	e.logger.Info("engine started", "width", e.width, "height", e.height, "format", format.String(), "entities", e.storage.Len())
	return e, nil
}

func lightUniform(l config.Light) camera.LightUniform {
	return camera.LightUniform{Direction: mgl32.Vec3(l.Direction), Color: mgl32.Vec3(l.Color)}
}

func (e *Engine) createResources() error {
	var err error
	e.cameraBuffer, err = e.device.CreateBuffer(gpu.BufferDescriptor{
		Label:    "camera uniform",
		Usage:    gpu.BufferUsageUniform | gpu.BufferUsageCopyDst,
		Contents: e.uniform.Bytes(),
	})
	if err != nil {
		return fmt.Errorf("create camera uniform: %w", err)
	}
	e.lightBuffer, err = e.device.CreateBuffer(gpu.BufferDescriptor{
		Label:    "light uniform",
		Usage:    gpu.BufferUsageUniform | gpu.BufferUsageCopyDst,
		Contents: e.light.Bytes(),
	})
	if err != nil {
		return fmt.Errorf("create light uniform: %w", err)
	}
	e.cameraGroup, err = e.device.CreateBindGroup(gpu.BindGroupDescriptor{
		Label: "camera",
		Entries: []gpu.BindGroupEntry{
			{Binding: 0, Buffer: e.cameraBuffer},
			{Binding: 1, Buffer: e.lightBuffer},
		},
	})
	if err != nil {
		return fmt.Errorf("create camera bind group: %w", err)
	}
	e.meshPipeline, e.skyboxPipeline, err = createPipelines(e.device, e.format)
	return err
}

func (e *Engine) releaseResources() {
	for _, r := range []interface{ Release() }{e.depth, e.meshPipeline, e.skyboxPipeline, e.cameraGroup, e.lightBuffer, e.cameraBuffer} {
		if r != nil {
			r.Release()
		}
	}
	e.depth, e.meshPipeline, e.skyboxPipeline, e.cameraGroup, e.lightBuffer, e.cameraBuffer = nil, nil, nil, nil, nil, nil
}

// Close releases the scene's GPU resources and the engine's own. It is safe
// to call more than once.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.storage.Release()
	e.releaseResources()
	e.logger.Info("engine closed", "frames", e.stats.Frames)
}

func (e *Engine) Storage() *ecs.Storage          { return e.storage }
func (e *Engine) Scheduler() *ecs.Scheduler      { return e.scheduler }
func (e *Engine) Camera() *camera.Camera         { return &e.camera }
func (e *Engine) Projection() camera.Projection  { return e.projection }
func (e *Engine) Controller() *camera.Controller { return e.controller }
func (e *Engine) Light() camera.LightUniform     { return e.light }
func (e *Engine) Format() gpu.TextureFormat      { return e.format }
func (e *Engine) Phase() Phase                   { return e.phase }
func (e *Engine) Size() (width, height int)      { return e.width, e.height }
func (e *Engine) Depth() gpu.Texture             { return e.depth }

// RenderSize is the surface size after render scaling.
func (e *Engine) RenderSize() (width, height int) {
	return scaled(e.width, e.renderScale), scaled(e.height, e.renderScale)
}

func (e *Engine) Stats() Stats {
	s := e.stats
	s.FrameTimes = e.times.slice()
	return s
}

func scaled(n int, scale float32) int {
	return max(1, int(float32(n)*scale+0.5))
}

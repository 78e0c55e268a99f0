package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/plus3/kiln/camera"
	"github.com/plus3/kiln/gpu"
	"github.com/plus3/kiln/input"
)

var clearColor = gpu.Color{R: 0, G: 0, B: 0, A: 1}

// configure sizes the surface and depth buffer to the current window size
// after render scaling.
func (e *Engine) configure() error {
	w, h := e.RenderSize()
	if e.depth != nil {
		e.depth.Release()
		e.depth = nil
	}
	depth, err := e.device.CreateTexture(gpu.TextureDescriptor{
		Label:  "depth",
		Width:  w,
		Height: h,
		Layers: 1,
		Format: DepthFormat,
		Usage:  gpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	e.depth = depth
	err = e.surface.Configure(e.device, gpu.SurfaceConfiguration{
		Format:      e.format,
		Width:       w,
		Height:      h,
		PresentMode: gpu.PresentModeFifo,
	})
	if err != nil {
		return fmt.Errorf("configure surface: %w", err)
	}
	return nil
}

// Resize adopts a new window size. A zero width or height is ignored.
func (e *Engine) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	e.width, e.height = width, height
	e.projection.Resize(width, height)
	if err := e.configure(); err != nil {
		return fmt.Errorf("engine: resize %dx%d: %w", width, height, err)
	}
	e.stats.Resizes++
	e.logger.Debug("resized", "width", width, "height", height)
	return nil
}

// Input routes ev to the camera controller and reports whether it was
// handled.
func (e *Engine) Input(ev input.Event) bool {
	e.phase = PhaseInput
	switch ev := ev.(type) {
	case input.KeyEvent:
		return e.controller.ProcessKeyboard(ev.Key, ev.State)
	case input.MouseMotionEvent:
		e.controller.ProcessMouse(ev.DX, ev.DY)
		return true
	}
	return false
}

// applyUpdates takes the live-tunable settings from any pending config.
func (e *Engine) applyUpdates() error {
	if e.updates == nil {
		return nil
	}
	for {
		select {
		case cfg, ok := <-e.updates:
			if !ok {
				e.updates = nil
				return nil
			}
			e.controller.SetSpeed(cfg.Camera.Speed)
			e.controller.SetSensitivity(cfg.Camera.Sensitivity)
			e.light = lightUniform(cfg.Light)
			if err := e.queue.WriteBuffer(e.lightBuffer, 0, e.light.Bytes()); err != nil {
				return fmt.Errorf("write light uniform: %w", err)
			}
			if cfg.Render.Scale > 0 && cfg.Render.Scale <= 1 && cfg.Render.Scale != e.renderScale {
				e.renderScale = cfg.Render.Scale
				if err := e.configure(); err != nil {
					return err
				}
			}
			e.logger.Info("config applied", "speed", cfg.Camera.Speed, "sensitivity", cfg.Camera.Sensitivity)
		default:
			return nil
		}
	}
}

// Update advances the camera by dt seconds, uploads the camera uniform and
// runs the systems.
func (e *Engine) Update(dt float64) error {
	e.phase = PhaseUpdate
	e.controller.UpdateCamera(&e.camera, dt)
	e.uniform.Update(e.camera, e.projection)
	if err := e.queue.WriteBuffer(e.cameraBuffer, 0, e.uniform.Bytes()); err != nil {
		return fmt.Errorf("%w: write camera uniform: %w", ErrFatal, err)
	}
	e.scheduler.Once(dt)
	return nil
}

// Render draws and presents one frame. Recoverable surface conditions are
// absorbed here. The returned error, if any, wraps ErrFatal.
func (e *Engine) Render() error {
	e.phase = PhaseRender
	defer func() { e.phase = PhaseIdle }()

	err := e.render()
	switch {
	case err == nil:
		e.stats.Frames++
		return nil
	case gpu.NeedsReconfigure(err):
		e.stats.Recovered++
		e.logger.Debug("surface reconfigured", "err", err)
		if err := e.Resize(e.width, e.height); err != nil {
			return fmt.Errorf("%w: %w", ErrFatal, err)
		}
		return nil
	case errors.Is(err, gpu.ErrSurfaceTimeout):
		e.stats.Dropped++
		e.logger.Warn("frame dropped", "err", err)
		return nil
	case errors.Is(err, gpu.ErrOutOfMemory):
		e.logger.Error("out of gpu memory", "err", err)
	}
	return fmt.Errorf("%w: %w", ErrFatal, err)
}

func (e *Engine) render() (err error) {
	frame, err := e.surface.CurrentTexture()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			frame.Discard()
		}
	}()
	encoder, err := e.device.CreateCommandEncoder("frame")
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	pass := encoder.BeginRenderPass(gpu.RenderPassDescriptor{
		Label: "main",
		Color: gpu.ColorAttachment{Target: frame.Texture(), Load: gpu.LoadOpClear, Clear: clearColor},
		Depth: &gpu.DepthAttachment{Target: e.depth, Load: gpu.LoadOpClear, Clear: 1},
	})

	draws := e.drawSkyboxes(pass) + e.drawModels(pass)

	if err := pass.End(); err != nil {
		return fmt.Errorf("end pass: %w", err)
	}
	commands, err := encoder.Finish()
	if err != nil {
		return fmt.Errorf("finish commands: %w", err)
	}
	if err := e.queue.Submit(commands); err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	e.phase = PhasePresent
	frame.Present()
	e.stats.DrawCalls = draws
	return nil
}

func (e *Engine) drawSkyboxes(pass gpu.RenderPass) int {
	e.skyboxes.Execute()
	if e.skyboxes.Len() == 0 {
		return 0
	}
	draws := 0
	pass.SetPipeline(e.skyboxPipeline)
	pass.SetBindGroup(1, e.cameraGroup)
	for sky := range e.skyboxes.Values() {
		pass.SetBindGroup(0, sky.Cubemap.BindGroup)
		pass.SetVertexBuffer(0, sky.Cubemap.VertexBuffer)
		pass.Draw(sky.Cubemap.VertexCount, 1)
		draws++
	}
	return draws
}

func (e *Engine) drawModels(pass gpu.RenderPass) int {
	e.renderables.Execute()
	if e.renderables.Len() == 0 {
		return 0
	}
	draws := 0
	pass.SetPipeline(e.meshPipeline)
	pass.SetBindGroup(1, e.cameraGroup)
	for r := range e.renderables.Values() {
		pass.SetPushConstants(gpu.ShaderStageVertex, 0, r.Transform.PushConstants())
		pass.SetBindGroup(0, r.Material.BindGroup)
		for _, mesh := range r.Model.Meshes {
			pass.SetVertexBuffer(0, mesh.VertexBuffer)
			pass.SetIndexBuffer(mesh.IndexBuffer, gpu.IndexFormatUint32)
			pass.DrawIndexed(mesh.IndexCount, 1)
			draws++
		}
	}
	return draws
}

// Frame runs Input through Present once: pending config is applied, the
// simulation advances by dt seconds and the scene is drawn.
func (e *Engine) Frame(dt float64) error {
	start := time.Now()
	defer func() { e.times.add(time.Since(start)) }()

	e.phase = PhaseInput
	if err := e.applyUpdates(); err != nil {
		return fmt.Errorf("%w: %w", ErrFatal, err)
	}
	if err := e.Update(dt); err != nil {
		return err
	}
	return e.Render()
}

// Uniform is the camera data last uploaded.
func (e *Engine) Uniform() camera.Uniform {
	return e.uniform
}

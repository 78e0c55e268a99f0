package headless

import (
	"fmt"

	"github.com/plus3/kiln/gpu"
)

// Surface hands out an offscreen texture of the configured size. Failures
// queued with FailAcquire are returned by CurrentTexture first, in order.
type Surface struct {
	caps           gpu.SurfaceCapabilities
	Configurations []gpu.SurfaceConfiguration
	Acquired       int
	Presented      int
	Discarded      int
	failures       []error
	target         *Texture
}

var _ gpu.Surface = (*Surface)(nil)

func (s *Surface) Capabilities() gpu.SurfaceCapabilities { return s.caps }

// FailAcquire queues errors for the next CurrentTexture calls.
func (s *Surface) FailAcquire(errs ...error) {
	s.failures = append(s.failures, errs...)
}

func (s *Surface) Configure(device gpu.Device, config gpu.SurfaceConfiguration) error {
	if config.Width <= 0 || config.Height <= 0 {
		return fmt.Errorf("headless: configure surface %dx%d", config.Width, config.Height)
	}
	d, ok := device.(*Device)
	if !ok {
		return fmt.Errorf("headless: foreign device %T", device)
	}
	if s.target != nil {
		s.target.Release()
	}
	tex, err := d.CreateTexture(gpu.TextureDescriptor{
		Label:  "surface",
		Width:  config.Width,
		Height: config.Height,
		Layers: 1,
		Format: config.Format,
		Usage:  gpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	s.target = tex.(*Texture)
	s.Configurations = append(s.Configurations, config)
	return nil
}

// Config returns the current configuration.
func (s *Surface) Config() (gpu.SurfaceConfiguration, bool) {
	if len(s.Configurations) == 0 {
		return gpu.SurfaceConfiguration{}, false
	}
	return s.Configurations[len(s.Configurations)-1], true
}

func (s *Surface) CurrentTexture() (gpu.SurfaceTexture, error) {
	if len(s.failures) > 0 {
		err := s.failures[0]
		s.failures = s.failures[1:]
		return nil, err
	}
	if s.target == nil {
		return nil, gpu.ErrSurfaceOutdated
	}
	s.Acquired++
	return &surfaceTexture{surface: s, texture: s.target}, nil
}

type surfaceTexture struct {
	surface *Surface
	texture *Texture
}

func (t *surfaceTexture) Texture() gpu.Texture { return t.texture }

func (t *surfaceTexture) Present() {
	t.surface.Presented++
}

func (t *surfaceTexture) Discard() {
	t.surface.Discarded++
}

package ebitengpu

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/kiln/gpu"
)

// Surface renders into an offscreen image of the configured size and, on
// Present, scales it onto the screen image of the current Draw callback.
type Surface struct {
	screen *ebiten.Image
	config gpu.SurfaceConfiguration
	target *Texture
}

var _ gpu.Surface = (*Surface)(nil)

// SetScreen hands the surface the image of the current Draw callback. It is
// cleared again by Present.
func (s *Surface) SetScreen(screen *ebiten.Image) {
	s.screen = screen
}

func (s *Surface) Capabilities() gpu.SurfaceCapabilities {
	return gpu.SurfaceCapabilities{
		Formats:      []gpu.TextureFormat{gpu.TextureFormatRGBA8UnormSrgb, gpu.TextureFormatRGBA8Unorm},
		PresentModes: []gpu.PresentMode{gpu.PresentModeFifo},
	}
}

func (s *Surface) Configure(device gpu.Device, config gpu.SurfaceConfiguration) error {
	if config.Width <= 0 || config.Height <= 0 {
		return fmt.Errorf("ebitengpu: configure surface %dx%d", config.Width, config.Height)
	}
	if config.PresentMode != gpu.PresentModeFifo {
		return fmt.Errorf("ebitengpu: present mode %s is not supported", config.PresentMode)
	}

	if s.target != nil && s.target.Width() == config.Width && s.target.Height() == config.Height {
		s.config = config
		return nil
	}
	if s.target != nil {
		s.target.Release()
	}
	s.target = &Texture{
		desc: gpu.TextureDescriptor{
			Label:  "surface",
			Width:  config.Width,
			Height: config.Height,
			Layers: 1,
			Format: config.Format,
			Usage:  gpu.TextureUsageRenderAttachment,
		},
		images: []*ebiten.Image{ebiten.NewImage(config.Width, config.Height)},
	}
	s.config = config
	ebiten.SetVsyncEnabled(true)
	return nil
}

func (s *Surface) CurrentTexture() (gpu.SurfaceTexture, error) {
	if s.target == nil {
		return nil, gpu.ErrSurfaceOutdated
	}
	if s.screen == nil {
		return nil, gpu.ErrSurfaceTimeout
	}
	return &surfaceTexture{surface: s}, nil
}

type surfaceTexture struct {
	surface *Surface
}

func (t *surfaceTexture) Texture() gpu.Texture {
	return t.surface.target
}

func (t *surfaceTexture) Present() {
	s := t.surface
	if s.screen == nil || s.target == nil {
		return
	}
	src := s.target.images[0]
	sw, sh := s.screen.Bounds().Dx(), s.screen.Bounds().Dy()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(s.target.Width()), float64(sh)/float64(s.target.Height()))
	op.Filter = ebiten.FilterLinear
	s.screen.DrawImage(src, op)
	s.screen = nil
}

// Discard leaves the screen untouched; Ebitengine keeps showing the last
// presented frame.
func (t *surfaceTexture) Discard() {
	t.surface.screen = nil
}

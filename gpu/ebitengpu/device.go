// Package ebitengpu implements the gpu boundary on top of Ebitengine.
//
// Ebitengine has no programmable vertex stage, so this backend does not
// compile WGSL. It recognises the engine's built-in programs by shader name
// ("mesh" and "skybox"), runs their vertex work on the CPU and hands the
// resulting screen-space triangles to Image.DrawTriangles. Depth testing is
// approximated by sorting triangles back to front per render pass.
package ebitengpu

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/kiln/gpu"
)

// Backend pairs the Ebitengine device with its window surface.
type Backend struct {
	device  *Device
	surface *Surface
}

// New returns a backend. Call Surface().SetScreen from the game's Draw
// callback before rendering into it.
func New() *Backend {
	device := &Device{}
	device.queue = &queue{device: device}
	return &Backend{device: device, surface: &Surface{}}
}

func (b *Backend) Device() *Device   { return b.device }
func (b *Backend) Surface() *Surface { return b.surface }

// Device creates CPU-side buffers and Ebitengine images.
type Device struct {
	queue *queue
	white *ebiten.Image
}

var _ gpu.Device = (*Device)(nil)

func (d *Device) whiteImage() *ebiten.Image {
	if d.white == nil {
		d.white = ebiten.NewImage(1, 1)
		d.white.Fill(color.White)
	}
	return d.white
}

func (d *Device) CreateBuffer(desc gpu.BufferDescriptor) (gpu.Buffer, error) {
	return &Buffer{label: desc.Label, usage: desc.Usage, data: append([]byte(nil), desc.Contents...)}, nil
}

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("ebitengpu: texture %q has size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	if desc.Layers == 0 {
		desc.Layers = 1
	}
	t := &Texture{desc: desc}
	if !desc.Format.IsDepth() {
		t.images = make([]*ebiten.Image, desc.Layers)
	}
	return t, nil
}

func (d *Device) CreateSampler(desc gpu.SamplerDescriptor) (gpu.Sampler, error) {
	return &Sampler{desc: desc}, nil
}

func (d *Device) CreateBindGroup(desc gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	g := &BindGroup{label: desc.Label}
	for _, e := range desc.Entries {
		switch {
		case e.Buffer != nil:
			b, ok := e.Buffer.(*Buffer)
			if !ok {
				return nil, fmt.Errorf("ebitengpu: bind group %q: foreign buffer %T", desc.Label, e.Buffer)
			}
			g.buffers = append(g.buffers, b)
		case e.Texture != nil:
			t, ok := e.Texture.(*Texture)
			if !ok {
				return nil, fmt.Errorf("ebitengpu: bind group %q: foreign texture %T", desc.Label, e.Texture)
			}
			g.texture = t
		case e.Sampler != nil:
			s, ok := e.Sampler.(*Sampler)
			if !ok {
				return nil, fmt.Errorf("ebitengpu: bind group %q: foreign sampler %T", desc.Label, e.Sampler)
			}
			g.sampler = s
		}
	}
	return g, nil
}

func (d *Device) CreateRenderPipeline(desc gpu.PipelineDescriptor) (gpu.Pipeline, error) {
	program, ok := programs[desc.Shader.Name]
	if !ok {
		return nil, fmt.Errorf("ebitengpu: pipeline %q: no emulation for shader %q", desc.Label, desc.Shader.Name)
	}
	if len(desc.VertexLayouts) == 0 {
		return nil, fmt.Errorf("ebitengpu: pipeline %q has no vertex layout", desc.Label)
	}
	p := &Pipeline{desc: desc, program: program, position: -1, uv: -1, normal: -1}
	layout := desc.VertexLayouts[0]
	p.stride = layout.Stride
	for _, attr := range layout.Attributes {
		switch attr.ShaderLocation {
		case 0:
			p.position = attr.Offset
		case 1:
			p.uv = attr.Offset
		case 2:
			p.normal = attr.Offset
		}
	}
	if p.position < 0 {
		return nil, fmt.Errorf("ebitengpu: pipeline %q has no position attribute at location 0", desc.Label)
	}
	return p, nil
}

func (d *Device) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	return &encoder{label: label}, nil
}

func (d *Device) Queue() gpu.Queue { return d.queue }

type Buffer struct {
	label string
	usage gpu.BufferUsage
	data  []byte
}

func (b *Buffer) Label() string          { return b.label }
func (b *Buffer) Size() int              { return len(b.data) }
func (b *Buffer) Usage() gpu.BufferUsage { return b.usage }
func (b *Buffer) Release()               { b.data = nil }

// Texture keeps one Ebitengine image per layer. Depth textures have none.
type Texture struct {
	desc   gpu.TextureDescriptor
	images []*ebiten.Image
}

func (t *Texture) Label() string             { return t.desc.Label }
func (t *Texture) Width() int                { return t.desc.Width }
func (t *Texture) Height() int               { return t.desc.Height }
func (t *Texture) Layers() int               { return t.desc.Layers }
func (t *Texture) Format() gpu.TextureFormat { return t.desc.Format }

func (t *Texture) Release() {
	for i, img := range t.images {
		if img != nil {
			img.Deallocate()
			t.images[i] = nil
		}
	}
}

func (t *Texture) layer(i int) *ebiten.Image {
	if i < 0 || i >= len(t.images) {
		return nil
	}
	return t.images[i]
}

type Sampler struct {
	desc gpu.SamplerDescriptor
}

func (s *Sampler) Release() {}

func (s *Sampler) filter() ebiten.Filter {
	if s == nil || s.desc.MagFilter == gpu.FilterNearest {
		return ebiten.FilterNearest
	}
	return ebiten.FilterLinear
}

// address maps the sampler's address mode. Ebitengine has no clamp-to-edge,
// so clamping samplers get clamped source coordinates instead.
func (s *Sampler) address() (ebiten.Address, bool) {
	if s != nil && s.desc.AddressMode == gpu.AddressRepeat {
		return ebiten.AddressRepeat, false
	}
	return ebiten.AddressUnsafe, true
}

type BindGroup struct {
	label   string
	buffers []*Buffer
	texture *Texture
	sampler *Sampler
}

func (g *BindGroup) Release() {}

func (g *BindGroup) buffer(i int) []byte {
	if g == nil || i >= len(g.buffers) {
		return nil
	}
	return g.buffers[i].data
}

// Pipeline resolves the vertex layout once so programs can read attributes
// by byte offset.
type Pipeline struct {
	desc     gpu.PipelineDescriptor
	program  program
	stride   int
	position int
	uv       int
	normal   int
}

func (p *Pipeline) Label() string { return p.desc.Label }
func (p *Pipeline) Release()      {}

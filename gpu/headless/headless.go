// Package headless is an in-memory gpu backend. It keeps every uploaded byte,
// records every command, and lets callers script surface failures, which makes
// it the device of choice for tests and windowless runs.
package headless

import (
	"fmt"

	"github.com/kamstrup/intmap"
	"github.com/plus3/kiln/gpu"
)

// Options configures a Backend.
type Options struct {
	// Formats is what the surface reports as supported, in preference order.
	Formats []gpu.TextureFormat
}

// Backend pairs a Device with a Surface.
type Backend struct {
	device  *Device
	surface *Surface
}

// New returns a backend whose surface reports the given formats, or
// BGRA8Unorm and BGRA8UnormSrgb if none are given.
func New(opts Options) *Backend {
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []gpu.TextureFormat{gpu.TextureFormatBGRA8Unorm, gpu.TextureFormatBGRA8UnormSrgb}
	}
	device := &Device{
		live:  intmap.New[uint32, *resource](64),
		queue: &Queue{},
	}
	return &Backend{
		device: device,
		surface: &Surface{
			caps: gpu.SurfaceCapabilities{
				Formats:      formats,
				PresentModes: []gpu.PresentMode{gpu.PresentModeFifo, gpu.PresentModeImmediate},
			},
		},
	}
}

func (b *Backend) Device() *Device   { return b.device }
func (b *Backend) Surface() *Surface { return b.surface }

type resource struct {
	device   *Device
	id       uint32
	kind     string
	label    string
	released bool
}

func (r *resource) Label() string { return r.label }

func (r *resource) Release() {
	if r.released {
		return
	}
	r.released = true
	r.device.live.Del(r.id)
}

// Released reports whether Release was called.
func (r *resource) Released() bool { return r.released }

// Device records resource creation and tracks which resources are still alive.
type Device struct {
	live    *intmap.Map[uint32, *resource]
	nextId  uint32
	created int
	failing map[string]error
	queue   *Queue
}

var _ gpu.Device = (*Device)(nil)

// FailNext makes the next creation of kind ("buffer", "texture", "sampler",
// "bind group", "pipeline" or "command encoder") fail with err.
func (d *Device) FailNext(kind string, err error) {
	if d.failing == nil {
		d.failing = make(map[string]error)
	}
	d.failing[kind] = err
}

// Live returns the number of created resources not yet released.
func (d *Device) Live() int { return d.live.Len() }

// Created returns the number of resources ever created.
func (d *Device) Created() int { return d.created }

func (d *Device) injected(kind, label string) error {
	err, ok := d.failing[kind]
	if !ok {
		return nil
	}
	delete(d.failing, kind)
	return fmt.Errorf("headless: create %s %q: %w", kind, label, err)
}

func (d *Device) newResource(kind, label string) (*resource, error) {
	if err := d.injected(kind, label); err != nil {
		return nil, err
	}
	d.nextId++
	d.created++
	r := &resource{device: d, id: d.nextId, kind: kind, label: label}
	d.live.Put(r.id, r)
	return r, nil
}

func (d *Device) CreateBuffer(desc gpu.BufferDescriptor) (gpu.Buffer, error) {
	r, err := d.newResource("buffer", desc.Label)
	if err != nil {
		return nil, err
	}
	return &Buffer{resource: r, usage: desc.Usage, data: append([]byte(nil), desc.Contents...)}, nil
}

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("headless: texture %q has size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	if desc.Layers == 0 {
		desc.Layers = 1
	}
	if desc.ViewDimension == gpu.ViewDimensionCube && desc.Layers != 6 {
		return nil, fmt.Errorf("headless: cube texture %q has %d layers", desc.Label, desc.Layers)
	}
	r, err := d.newResource("texture", desc.Label)
	if err != nil {
		return nil, err
	}
	return &Texture{resource: r, desc: desc, layers: make([][]byte, desc.Layers)}, nil
}

func (d *Device) CreateSampler(desc gpu.SamplerDescriptor) (gpu.Sampler, error) {
	r, err := d.newResource("sampler", desc.Label)
	if err != nil {
		return nil, err
	}
	return &Sampler{resource: r, Desc: desc}, nil
}

func (d *Device) CreateBindGroup(desc gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	for _, e := range desc.Entries {
		n := 0
		if e.Buffer != nil {
			n++
		}
		if e.Texture != nil {
			n++
		}
		if e.Sampler != nil {
			n++
		}
		if n != 1 {
			return nil, fmt.Errorf("headless: bind group %q binding %d must bind exactly one resource", desc.Label, e.Binding)
		}
	}
	r, err := d.newResource("bind group", desc.Label)
	if err != nil {
		return nil, err
	}
	return &BindGroup{resource: r, Desc: desc}, nil
}

func (d *Device) CreateRenderPipeline(desc gpu.PipelineDescriptor) (gpu.Pipeline, error) {
	if desc.Shader.Source == "" {
		return nil, fmt.Errorf("headless: pipeline %q has no shader source", desc.Label)
	}
	r, err := d.newResource("pipeline", desc.Label)
	if err != nil {
		return nil, err
	}
	return &Pipeline{resource: r, Desc: desc}, nil
}

func (d *Device) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	if err := d.injected("command encoder", label); err != nil {
		return nil, err
	}
	return &encoder{buffer: &CommandBuffer{Label: label}}, nil
}

func (d *Device) Queue() gpu.Queue { return d.queue }

// Recorder returns the queue with its recorded history.
func (d *Device) Recorder() *Queue { return d.queue }

type Buffer struct {
	*resource
	usage gpu.BufferUsage
	data  []byte
}

func (b *Buffer) Size() int              { return len(b.data) }
func (b *Buffer) Usage() gpu.BufferUsage { return b.usage }

// Bytes returns the current contents.
func (b *Buffer) Bytes() []byte { return b.data }

type Texture struct {
	*resource
	desc   gpu.TextureDescriptor
	layers [][]byte
}

func (t *Texture) Width() int                { return t.desc.Width }
func (t *Texture) Height() int               { return t.desc.Height }
func (t *Texture) Layers() int               { return t.desc.Layers }
func (t *Texture) Format() gpu.TextureFormat { return t.desc.Format }

// Descriptor returns the descriptor the texture was created with.
func (t *Texture) Descriptor() gpu.TextureDescriptor { return t.desc }

// Layer returns the pixels last written to layer i.
func (t *Texture) Layer(i int) []byte { return t.layers[i] }

type Sampler struct {
	*resource
	Desc gpu.SamplerDescriptor
}

type BindGroup struct {
	*resource
	Desc gpu.BindGroupDescriptor
}

type Pipeline struct {
	*resource
	Desc gpu.PipelineDescriptor
}

package ebitengpu

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/kiln/gpu"
)

type queue struct {
	device *Device
}

func (q *queue) WriteBuffer(buffer gpu.Buffer, offset int, data []byte) error {
	b, ok := buffer.(*Buffer)
	if !ok {
		return fmt.Errorf("ebitengpu: foreign buffer %T", buffer)
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		return fmt.Errorf("ebitengpu: write of %d bytes at %d overflows buffer %q (%d bytes)", len(data), offset, b.label, len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

func (q *queue) WriteTexture(texture gpu.Texture, layer int, data []byte, bytesPerRow int) error {
	t, ok := texture.(*Texture)
	if !ok {
		return fmt.Errorf("ebitengpu: foreign texture %T", texture)
	}
	if t.desc.Format.IsDepth() || t.desc.Format.BytesPerPixel() != 4 {
		return fmt.Errorf("ebitengpu: cannot upload %s texture %q", t.desc.Format, t.desc.Label)
	}
	if layer < 0 || layer >= len(t.images) {
		return fmt.Errorf("ebitengpu: texture %q has no layer %d", t.desc.Label, layer)
	}

	w, h := t.desc.Width, t.desc.Height
	row := 4 * w
	if bytesPerRow < row || len(data) < bytesPerRow*(h-1)+row {
		return fmt.Errorf("ebitengpu: texture %q layer %d: short pixel data", t.desc.Label, layer)
	}

	pix := data
	if bytesPerRow != row {
		pix = make([]byte, row*h)
		for y := 0; y < h; y++ {
			copy(pix[y*row:(y+1)*row], data[y*bytesPerRow:])
		}
	}

	img := t.images[layer]
	if img == nil {
		img = ebiten.NewImage(w, h)
		t.images[layer] = img
	}
	img.WritePixels(pix[:row*h])
	return nil
}

func (q *queue) Submit(buffers ...gpu.CommandBuffer) error {
	for _, buffer := range buffers {
		cb, ok := buffer.(*commandBuffer)
		if !ok {
			return fmt.Errorf("ebitengpu: foreign command buffer %T", buffer)
		}
		for _, pass := range cb.passes {
			if err := q.device.execute(pass); err != nil {
				return fmt.Errorf("ebitengpu: %s: %w", cb.label, err)
			}
		}
	}
	return nil
}

type commandBuffer struct {
	label  string
	passes []*renderPass
}

type encoder struct {
	label  string
	passes []*renderPass
	open   *renderPass
}

func (e *encoder) BeginRenderPass(desc gpu.RenderPassDescriptor) gpu.RenderPass {
	e.open = &renderPass{encoder: e, desc: desc}
	return e.open
}

func (e *encoder) Finish() (gpu.CommandBuffer, error) {
	if e.open != nil {
		return nil, fmt.Errorf("ebitengpu: encoder %q finished with an open render pass", e.label)
	}
	return &commandBuffer{label: e.label, passes: e.passes}, nil
}

// drawCall is the pipeline state captured at each draw.
type drawCall struct {
	pipeline    *Pipeline
	groups      [4]*BindGroup
	vertex      *Buffer
	index       *Buffer
	indexFormat gpu.IndexFormat
	push        []byte
	count       uint32
	indexed     bool
}

type renderPass struct {
	encoder *encoder
	desc    gpu.RenderPassDescriptor
	state   drawCall
	draws   []drawCall
}

func (p *renderPass) SetPipeline(pipeline gpu.Pipeline) {
	p.state.pipeline, _ = pipeline.(*Pipeline)
}

func (p *renderPass) SetBindGroup(index int, group gpu.BindGroup) {
	if index >= 0 && index < len(p.state.groups) {
		p.state.groups[index], _ = group.(*BindGroup)
	}
}

func (p *renderPass) SetVertexBuffer(slot int, buffer gpu.Buffer) {
	if slot == 0 {
		p.state.vertex, _ = buffer.(*Buffer)
	}
}

func (p *renderPass) SetIndexBuffer(buffer gpu.Buffer, format gpu.IndexFormat) {
	p.state.index, _ = buffer.(*Buffer)
	p.state.indexFormat = format
}

func (p *renderPass) SetPushConstants(stages gpu.ShaderStage, offset int, data []byte) {
	push := make([]byte, max(len(p.state.push), offset+len(data)))
	copy(push, p.state.push)
	copy(push[offset:], data)
	p.state.push = push
}

func (p *renderPass) Draw(vertexCount, instanceCount uint32) {
	p.record(vertexCount, false)
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount uint32) {
	p.record(indexCount, true)
}

func (p *renderPass) record(count uint32, indexed bool) {
	call := p.state
	call.count = count
	call.indexed = indexed
	p.draws = append(p.draws, call)
}

func (p *renderPass) End() error {
	if p.encoder.open != p {
		return fmt.Errorf("ebitengpu: render pass %q ended twice", p.desc.Label)
	}
	p.encoder.open = nil
	p.encoder.passes = append(p.encoder.passes, p)
	return nil
}

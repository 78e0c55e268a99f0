package headless

import (
	"fmt"

	"github.com/plus3/kiln/gpu"
)

// Op names a recorded command.
type Op string

const (
	OpBeginPass     Op = "begin_pass"
	OpSetPipeline   Op = "set_pipeline"
	OpSetBindGroup  Op = "set_bind_group"
	OpSetVertex     Op = "set_vertex_buffer"
	OpSetIndex      Op = "set_index_buffer"
	OpPushConstants Op = "push_constants"
	OpDraw          Op = "draw"
	OpDrawIndexed   Op = "draw_indexed"
	OpEndPass       Op = "end_pass"
)

// Command is one recorded call. Only the fields relevant to Op are set.
type Command struct {
	Op    Op
	Label string
	Slot  int
	Count uint32
	Data  []byte
	Pass  gpu.RenderPassDescriptor
}

// CommandBuffer is what a headless encoder produces.
type CommandBuffer struct {
	Label    string
	Commands []Command
}

// Count returns how many recorded commands have the given op.
func (c *CommandBuffer) Count(op Op) int {
	n := 0
	for _, cmd := range c.Commands {
		if cmd.Op == op {
			n++
		}
	}
	return n
}

type encoder struct {
	buffer   *CommandBuffer
	open     *renderPass
	finished bool
}

func (e *encoder) BeginRenderPass(desc gpu.RenderPassDescriptor) gpu.RenderPass {
	e.record(Command{Op: OpBeginPass, Label: desc.Label, Pass: desc})
	e.open = &renderPass{encoder: e}
	return e.open
}

func (e *encoder) Finish() (gpu.CommandBuffer, error) {
	if e.open != nil {
		return nil, fmt.Errorf("headless: encoder %q finished with an open render pass", e.buffer.Label)
	}
	if e.finished {
		return nil, fmt.Errorf("headless: encoder %q finished twice", e.buffer.Label)
	}
	e.finished = true
	return e.buffer, nil
}

func (e *encoder) record(cmd Command) {
	e.buffer.Commands = append(e.buffer.Commands, cmd)
}

type renderPass struct {
	encoder  *encoder
	pipeline bool
	index    bool
}

func label(v interface{ Label() string }) string {
	if v == nil {
		return ""
	}
	return v.Label()
}

func (p *renderPass) SetPipeline(pipeline gpu.Pipeline) {
	p.pipeline = true
	p.encoder.record(Command{Op: OpSetPipeline, Label: label(pipeline)})
}

func (p *renderPass) SetBindGroup(index int, group gpu.BindGroup) {
	cmd := Command{Op: OpSetBindGroup, Slot: index}
	if g, ok := group.(*BindGroup); ok {
		cmd.Label = g.label
	}
	p.encoder.record(cmd)
}

func (p *renderPass) SetVertexBuffer(slot int, buffer gpu.Buffer) {
	p.encoder.record(Command{Op: OpSetVertex, Slot: slot, Label: label(buffer)})
}

func (p *renderPass) SetIndexBuffer(buffer gpu.Buffer, format gpu.IndexFormat) {
	p.index = true
	p.encoder.record(Command{Op: OpSetIndex, Label: label(buffer), Slot: int(format)})
}

func (p *renderPass) SetPushConstants(stages gpu.ShaderStage, offset int, data []byte) {
	p.encoder.record(Command{Op: OpPushConstants, Slot: offset, Data: append([]byte(nil), data...)})
}

func (p *renderPass) Draw(vertexCount, instanceCount uint32) {
	p.encoder.record(Command{Op: OpDraw, Count: vertexCount})
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount uint32) {
	p.encoder.record(Command{Op: OpDrawIndexed, Count: indexCount})
}

func (p *renderPass) End() error {
	if p.encoder.open != p {
		return fmt.Errorf("headless: render pass ended twice")
	}
	p.encoder.open = nil
	p.encoder.record(Command{Op: OpEndPass})
	return nil
}

// BufferWrite is a recorded Queue.WriteBuffer call.
type BufferWrite struct {
	Label  string
	Offset int
	Data   []byte
}

// Queue applies writes to the in-memory resources and keeps a history.
type Queue struct {
	Writes        []BufferWrite
	TextureWrites int
	Submitted     []*CommandBuffer
}

func (q *Queue) WriteBuffer(buffer gpu.Buffer, offset int, data []byte) error {
	b, ok := buffer.(*Buffer)
	if !ok {
		return fmt.Errorf("headless: foreign buffer %T", buffer)
	}
	if b.released {
		return fmt.Errorf("headless: write to released buffer %q", b.label)
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		return fmt.Errorf("headless: write of %d bytes at %d overflows buffer %q (%d bytes)", len(data), offset, b.label, len(b.data))
	}
	copy(b.data[offset:], data)
	q.Writes = append(q.Writes, BufferWrite{Label: b.label, Offset: offset, Data: append([]byte(nil), data...)})
	return nil
}

func (q *Queue) WriteTexture(texture gpu.Texture, layer int, data []byte, bytesPerRow int) error {
	t, ok := texture.(*Texture)
	if !ok {
		return fmt.Errorf("headless: foreign texture %T", texture)
	}
	if layer < 0 || layer >= len(t.layers) {
		return fmt.Errorf("headless: texture %q has no layer %d", t.label, layer)
	}
	if want := t.desc.Width * t.desc.Format.BytesPerPixel(); bytesPerRow != want {
		return fmt.Errorf("headless: texture %q row is %d bytes, got %d", t.label, want, bytesPerRow)
	}
	if len(data) != bytesPerRow*t.desc.Height {
		return fmt.Errorf("headless: texture %q layer %d expects %d bytes, got %d", t.label, layer, bytesPerRow*t.desc.Height, len(data))
	}
	t.layers[layer] = append([]byte(nil), data...)
	q.TextureWrites++
	return nil
}

func (q *Queue) Submit(buffers ...gpu.CommandBuffer) error {
	for _, buffer := range buffers {
		cb, ok := buffer.(*CommandBuffer)
		if !ok {
			return fmt.Errorf("headless: foreign command buffer %T", buffer)
		}
		q.Submitted = append(q.Submitted, cb)
	}
	return nil
}

// Last returns the most recently submitted command buffer, or nil.
func (q *Queue) Last() *CommandBuffer {
	if len(q.Submitted) == 0 {
		return nil
	}
	return q.Submitted[len(q.Submitted)-1]
}

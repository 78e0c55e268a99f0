package component

import "github.com/plus3/kiln/gpu"

// Mesh is one indexed draw. Material indexes the owning model's materials
// as authored; the engine binds the entity's single Material.
type Mesh struct {
	Name         string
	VertexBuffer gpu.Buffer
	IndexBuffer  gpu.Buffer
	IndexCount   uint32
	Material     int
}

// Model is the renderable component: an ordered list of meshes.
type Model struct {
	Meshes []Mesh
}

func (m *Model) Release() {
	for i := range m.Meshes {
		if m.Meshes[i].VertexBuffer != nil {
			m.Meshes[i].VertexBuffer.Release()
		}
		if m.Meshes[i].IndexBuffer != nil {
			m.Meshes[i].IndexBuffer.Release()
		}
	}
	m.Meshes = nil
}

// Material is a texture and sampler bound for drawing.
type Material struct {
	Name      string
	Texture   gpu.Texture
	Sampler   gpu.Sampler
	BindGroup gpu.BindGroup
}

func (m *Material) Release() {
	if m.BindGroup != nil {
		m.BindGroup.Release()
	}
	if m.Sampler != nil {
		m.Sampler.Release()
	}
	if m.Texture != nil {
		m.Texture.Release()
	}
	*m = Material{}
}

// Cubemap is a six-layer cube texture drawn around the camera with its own
// cube geometry.
type Cubemap struct {
	Texture      gpu.Texture
	Sampler      gpu.Sampler
	BindGroup    gpu.BindGroup
	VertexBuffer gpu.Buffer
	VertexCount  uint32
}

func (c *Cubemap) Release() {
	if c.BindGroup != nil {
		c.BindGroup.Release()
	}
	if c.VertexBuffer != nil {
		c.VertexBuffer.Release()
	}
	if c.Sampler != nil {
		c.Sampler.Release()
	}
	if c.Texture != nil {
		c.Texture.Release()
	}
	*c = Cubemap{}
}

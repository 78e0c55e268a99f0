package asset

import "github.com/plus3/kiln/gpu"

// VertexStride is the byte size of one packed Vertex.
const VertexStride = 32

// Vertex is the engine's single vertex format.
type Vertex struct {
	Position [3]float32
	UV       [2]float32
	Normal   [3]float32
}

// Mesh is decoded, single-indexed triangle geometry.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	// Material is the source file's material index, or -1.
	Material int
}

// VertexBytes packs the vertices as position, uv, normal.
func (m Mesh) VertexBytes() []byte {
	out := make([]byte, 0, VertexStride*len(m.Vertices))
	for _, v := range m.Vertices {
		out = gpu.AppendFloat32s(out, v.Position[:]...)
		out = gpu.AppendFloat32s(out, v.UV[:]...)
		out = gpu.AppendFloat32s(out, v.Normal[:]...)
	}
	return out
}

func (m Mesh) IndexBytes() []byte {
	return gpu.Uint32Bytes(m.Indices)
}

// VertexLayout describes Vertex to a pipeline: position at location 0, uv
// at 1 and normal at 2.
func VertexLayout() gpu.VertexLayout {
	return gpu.VertexLayout{
		Stride: VertexStride,
		Attributes: []gpu.VertexAttribute{
			{Format: gpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
			{Format: gpu.VertexFormatFloat32x3, Offset: 20, ShaderLocation: 2},
		},
	}
}

package scene

import "github.com/plus3/kiln/gpu"

// SkyboxVertexCount is the number of vertices in SkyboxVertices.
const SkyboxVertexCount = 36

// skyboxVertices is a cube of half-size 1, two triangles per face, seen from
// inside.
var skyboxVertices = [SkyboxVertexCount * 3]float32{
	-1, 1, -1, -1, -1, -1, 1, -1, -1, 1, -1, -1, 1, 1, -1, -1, 1, -1,
	-1, -1, 1, -1, -1, -1, -1, 1, -1, -1, 1, -1, -1, 1, 1, -1, -1, 1,
	1, -1, -1, 1, -1, 1, 1, 1, 1, 1, 1, 1, 1, 1, -1, 1, -1, -1,
	-1, -1, 1, -1, 1, 1, 1, 1, 1, 1, 1, 1, 1, -1, 1, -1, -1, 1,
	-1, 1, -1, 1, 1, -1, 1, 1, 1, 1, 1, 1, -1, 1, 1, -1, 1, -1,
	-1, -1, -1, -1, -1, 1, 1, -1, -1, 1, -1, -1, -1, -1, 1, 1, -1, 1,
}

// SkyboxVertexBytes is the packed cube geometry for the skybox pipeline.
func SkyboxVertexBytes() []byte {
	return gpu.AppendFloat32s(nil, skyboxVertices[:]...)
}

// SkyboxLayout is a bare float32x3 position at location 0.
func SkyboxLayout() gpu.VertexLayout {
	return gpu.VertexLayout{
		Stride: 12,
		Attributes: []gpu.VertexAttribute{
			{Format: gpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		},
	}
}

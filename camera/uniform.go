package camera

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/kiln/gpu"
)

const (
	// UniformSize is the byte size of Uniform.Bytes.
	UniformSize = 3 * 64
	// LightUniformSize is the byte size of LightUniform.Bytes.
	LightUniformSize = 32
)

// Uniform is the camera data bound for every draw.
type Uniform struct {
	ViewProj mgl32.Mat4
	// View has its translation zeroed, for drawing the skybox around the
	// camera.
	View mgl32.Mat4
	Proj mgl32.Mat4
}

func NewUniform(cam Camera, proj Projection) Uniform {
	var u Uniform
	u.Update(cam, proj)
	return u
}

func (u *Uniform) Update(cam Camera, proj Projection) {
	view := cam.ViewMatrix()
	u.Proj = proj.Matrix()
	u.ViewProj = u.Proj.Mul4(view)
	view.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	u.View = view
}

// Bytes packs the three matrices column-major, in declaration order.
func (u Uniform) Bytes() []byte {
	return gpu.Mat4Bytes(u.ViewProj, u.View, u.Proj)
}

// LightUniform is a directional light. Each vector is padded to 16 bytes.
type LightUniform struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
}

func (l LightUniform) Bytes() []byte {
	out := make([]byte, 0, LightUniformSize)
	out = gpu.AppendFloat32s(out, l.Direction[:]...)
	out = gpu.AppendFloat32s(out, 0)
	out = gpu.AppendFloat32s(out, l.Color[:]...)
	return gpu.AppendFloat32s(out, 0)
}

// Package component defines the render-state components stored in the ecs.
package component

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/kiln/gpu"
)

// Transform places an entity in the world. Rotation is per-axis in degrees.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Vec3
	Scale       float32
}

// Identity is the transform that leaves vertices unchanged.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Matrix returns translation × rotX × rotY × rotZ × scale.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(t.Rotation.X()))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(t.Rotation.Y()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Rotation.Z()))).
		Mul4(mgl32.Scale3D(t.Scale, t.Scale, t.Scale))
}

// PushConstants is the 64-byte model matrix pushed to the vertex stage.
func (t Transform) PushConstants() []byte {
	return gpu.Mat4Bytes(t.Matrix())
}

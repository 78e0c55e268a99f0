// Package camera turns first-person input into view and projection
// transforms.
package camera

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SafeFracPi2 bounds the pitch so the view direction never reaches the up
// axis.
const SafeFracPi2 float32 = math.Pi/2 - 0.0001

var up = mgl32.Vec3{0, 1, 0}

// Camera is a position with yaw and pitch in radians.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
}

// New returns a camera with yaw and pitch given in degrees.
func New(position mgl32.Vec3, yawDeg, pitchDeg float32) Camera {
	return Camera{
		Position: position,
		Yaw:      mgl32.DegToRad(yawDeg),
		Pitch:    mgl32.DegToRad(pitchDeg),
	}
}

// Default is the camera at (0, 5, 10) looking down -Z, tilted 20° down.
func Default() Camera {
	return New(mgl32.Vec3{0, 5, 10}, -90, -20)
}

// Direction is the unit view direction.
func (c Camera) Direction() mgl32.Vec3 {
	sinPitch, cosPitch := math32.Sincos(c.Pitch)
	sinYaw, cosYaw := math32.Sincos(c.Yaw)
	return mgl32.Vec3{cosPitch * cosYaw, sinPitch, cosPitch * sinYaw}.Normalize()
}

// ViewMatrix is the right-handed look-at transform from Position along
// Direction with +Y up.
func (c Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Direction()), up)
}

// OpenGLToWGPU maps OpenGL clip depth [-1, 1] to the [0, 1] range WebGPU
// expects.
var OpenGLToWGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Projection is a right-handed perspective with Fovy in radians.
type Projection struct {
	Aspect float32
	Fovy   float32
	Near   float32
	Far    float32
}

// NewProjection takes the vertical field of view in degrees.
func NewProjection(width, height int, fovyDeg, near, far float32) Projection {
	return Projection{
		Aspect: float32(width) / float32(height),
		Fovy:   mgl32.DegToRad(fovyDeg),
		Near:   near,
		Far:    far,
	}
}

// Resize recomputes the aspect ratio. Zero sizes are ignored.
func (p *Projection) Resize(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	p.Aspect = float32(width) / float32(height)
}

func (p Projection) Matrix() mgl32.Mat4 {
	return OpenGLToWGPU.Mul4(mgl32.Perspective(p.Fovy, p.Aspect, p.Near, p.Far))
}

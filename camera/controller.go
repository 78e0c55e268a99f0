package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/kiln/input"
)

// Controller accumulates movement intent from keys and rotation from mouse
// motion, and applies them to a Camera once per update.
type Controller struct {
	forward float32
	right   float32
	up      float32

	rotateHorizontal float32
	rotateVertical   float32

	speed       float32
	sensitivity float32
}

func NewController(speed, sensitivity float32) *Controller {
	return &Controller{speed: speed, sensitivity: sensitivity}
}

func (c *Controller) Speed() float32       { return c.speed }
func (c *Controller) Sensitivity() float32 { return c.sensitivity }

func (c *Controller) SetSpeed(speed float32)             { c.speed = speed }
func (c *Controller) SetSensitivity(sensitivity float32) { c.sensitivity = sensitivity }

// ProcessKeyboard records movement intent and reports whether key is a
// movement key.
func (c *Controller) ProcessKeyboard(key input.Key, state input.KeyState) bool {
	var amount float32
	if state == input.Pressed {
		amount = 1
	}
	switch key {
	case input.KeyW, input.KeyUp:
		c.forward = amount
	case input.KeyS, input.KeyDown:
		c.forward = -amount
	case input.KeyD, input.KeyRight:
		c.right = amount
	case input.KeyA, input.KeyLeft:
		c.right = -amount
	case input.KeySpace:
		c.up = amount
	case input.KeyShiftLeft:
		c.up = -amount
	default:
		return false
	}
	return true
}

// ProcessMouse stores the latest pointer delta, replacing any unconsumed one.
func (c *Controller) ProcessMouse(dx, dy float64) {
	c.rotateHorizontal = float32(dx)
	c.rotateVertical = float32(dy)
}

// Intent returns the current forward, right and up intent.
func (c *Controller) Intent() mgl32.Vec3 {
	return mgl32.Vec3{c.forward, c.right, c.up}
}

// UpdateCamera moves and turns cam for dt seconds, then consumes the mouse
// delta and clamps the pitch.
func (c *Controller) UpdateCamera(cam *Camera, dt float64) {
	step := float32(dt)

	sinYaw, cosYaw := math32.Sincos(cam.Yaw)
	forward := mgl32.Vec3{cosYaw, 0, sinYaw}.Normalize()
	right := mgl32.Vec3{-sinYaw, 0, cosYaw}.Normalize()
	cam.Position = cam.Position.
		Add(forward.Mul(c.forward * c.speed * step)).
		Add(right.Mul(c.right * c.speed * step))
	cam.Position[1] += c.up * c.speed * step

	cam.Yaw += c.rotateHorizontal * c.sensitivity * step
	cam.Pitch += -c.rotateVertical * c.sensitivity * step

	c.rotateHorizontal = 0
	c.rotateVertical = 0

	cam.Pitch = mgl32.Clamp(cam.Pitch, -SafeFracPi2, SafeFracPi2)
}

package camera_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/kiln/camera"
	"github.com/plus3/kiln/gpu"
	"github.com/plus3/kiln/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPitchClampsAtLowerBound(t *testing.T) {
	cam := camera.Default()
	ctrl := camera.NewController(4, 0.4)

	for range 100 {
		ctrl.ProcessMouse(0, 1000)
		ctrl.UpdateCamera(&cam, 0.1)
		require.GreaterOrEqual(t, cam.Pitch, -camera.SafeFracPi2)
	}
	assert.Equal(t, -camera.SafeFracPi2, cam.Pitch)
}

func TestPitchClampsAtUpperBound(t *testing.T) {
	cam := camera.Default()
	ctrl := camera.NewController(4, 0.4)

	for range 100 {
		ctrl.ProcessMouse(0, -1000)
		ctrl.UpdateCamera(&cam, 0.1)
		require.LessOrEqual(t, cam.Pitch, camera.SafeFracPi2)
	}
	assert.Equal(t, camera.SafeFracPi2, cam.Pitch)
}

func TestMouseDeltaIsConsumedAndOverwritten(t *testing.T) {
	cam := camera.Camera{}
	ctrl := camera.NewController(1, 1)

	ctrl.ProcessMouse(5, 0)
	ctrl.ProcessMouse(2, 0)
	ctrl.UpdateCamera(&cam, 1)
	assert.InDelta(t, 2, cam.Yaw, 1e-6)

	ctrl.UpdateCamera(&cam, 1)
	assert.InDelta(t, 2, cam.Yaw, 1e-6)
}

func TestKeyboardIntent(t *testing.T) {
	ctrl := camera.NewController(1, 1)

	assert.True(t, ctrl.ProcessKeyboard(input.KeyW, input.Pressed))
	assert.True(t, ctrl.ProcessKeyboard(input.KeyA, input.Pressed))
	assert.True(t, ctrl.ProcessKeyboard(input.KeyShiftLeft, input.Pressed))
	assert.Equal(t, mgl32.Vec3{1, -1, -1}, ctrl.Intent())

	assert.True(t, ctrl.ProcessKeyboard(input.KeyW, input.Released))
	assert.Equal(t, mgl32.Vec3{0, -1, -1}, ctrl.Intent())

	assert.False(t, ctrl.ProcessKeyboard(input.KeyEscape, input.Pressed))
	assert.False(t, ctrl.ProcessKeyboard(input.KeyF1, input.Pressed))
}

func TestMovementFollowsYaw(t *testing.T) {
	cam := camera.Camera{Yaw: mgl32.DegToRad(-90)}
	ctrl := camera.NewController(2, 1)

	ctrl.ProcessKeyboard(input.KeyW, input.Pressed)
	ctrl.UpdateCamera(&cam, 0.5)
	assert.True(t, cam.Position.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5), "got %v", cam.Position)

	ctrl.ProcessKeyboard(input.KeyW, input.Released)
	ctrl.ProcessKeyboard(input.KeyD, input.Pressed)
	ctrl.ProcessKeyboard(input.KeySpace, input.Pressed)
	ctrl.UpdateCamera(&cam, 0.5)
	assert.True(t, cam.Position.ApproxEqualThreshold(mgl32.Vec3{1, 1, -1}, 1e-5), "got %v", cam.Position)
}

func TestSetSpeed(t *testing.T) {
	ctrl := camera.NewController(4, 0.4)
	ctrl.SetSpeed(8)
	ctrl.SetSensitivity(1)
	assert.Equal(t, float32(8), ctrl.Speed())
	assert.Equal(t, float32(1), ctrl.Sensitivity())
}

func TestDirection(t *testing.T) {
	cam := camera.Camera{Yaw: mgl32.DegToRad(-90)}
	assert.True(t, cam.Direction().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-6))

	cam.Pitch = math32.Pi / 4
	d := cam.Direction()
	assert.InDelta(t, 1, d.Len(), 1e-6)
	assert.InDelta(t, math32.Sqrt(0.5), d.Y(), 1e-6)
}

func TestProjectionResize(t *testing.T) {
	proj := camera.NewProjection(480, 272, 45, 0.1, 100)
	assert.InDelta(t, 480.0/272.0, proj.Aspect, 1e-6)

	proj.Resize(0, 600)
	assert.InDelta(t, 480.0/272.0, proj.Aspect, 1e-6)

	proj.Resize(800, 400)
	assert.Equal(t, float32(2), proj.Aspect)
	assert.InDelta(t, mgl32.DegToRad(45), proj.Fovy, 1e-6)
}

func TestProjectionDepthRange(t *testing.T) {
	proj := camera.NewProjection(1, 1, 90, 1, 10)
	m := proj.Matrix()

	near := m.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := m.Mul4x1(mgl32.Vec4{0, 0, -10, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), 1e-5)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-5)
}

func TestUniformLayout(t *testing.T) {
	cam := camera.Default()
	proj := camera.NewProjection(480, 272, 45, 0.1, 100)
	u := camera.NewUniform(cam, proj)

	data := u.Bytes()
	require.Len(t, data, camera.UniformSize)
	assert.Equal(t, proj.Matrix().Mul4(cam.ViewMatrix()), gpu.Mat4At(data, 0))
	assert.Equal(t, proj.Matrix(), gpu.Mat4At(data, 128))

	view := gpu.Mat4At(data, 64)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, view.Col(3))
	assert.Equal(t, cam.ViewMatrix().Mat3(), view.Mat3())
}

func TestLightUniformPadding(t *testing.T) {
	l := camera.LightUniform{Direction: mgl32.Vec3{0, -1, 0}, Color: mgl32.Vec3{1, 0.5, 0.25}}
	data := l.Bytes()
	require.Len(t, data, camera.LightUniformSize)
	assert.Equal(t, float32(-1), gpu.Float32At(data, 4))
	assert.Zero(t, gpu.Float32At(data, 12))
	assert.Equal(t, float32(0.5), gpu.Float32At(data, 20))
	assert.Zero(t, gpu.Float32At(data, 28))
}

package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/kiln/camera"
)

// CameraPanel shows the camera pose and tunes the controller.
type CameraPanel struct{}

func (CameraPanel) Render(cam *camera.Camera, controller *camera.Controller) {
	if !imgui.BeginV("Camera", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	p := cam.Position
	imgui.Text(fmt.Sprintf("Position: %.2f %.2f %.2f", p.X(), p.Y(), p.Z()))
	imgui.Text(fmt.Sprintf("Yaw: %.1f°  Pitch: %.1f°", mgl32.RadToDeg(cam.Yaw), mgl32.RadToDeg(cam.Pitch)))
	d := cam.Direction()
	imgui.Text(fmt.Sprintf("Direction: %.2f %.2f %.2f", d.X(), d.Y(), d.Z()))
	i := controller.Intent()
	imgui.Text(fmt.Sprintf("Intent: forward %.0f right %.0f up %.0f", i.X(), i.Y(), i.Z()))
	imgui.Separator()

	speed := controller.Speed()
	imgui.SetNextItemWidth(150)
	if imgui.InputFloat("Speed", &speed) && speed >= 0 {
		controller.SetSpeed(speed)
	}
	sensitivity := controller.Sensitivity()
	imgui.SetNextItemWidth(150)
	if imgui.InputFloat("Sensitivity", &sensitivity) && sensitivity >= 0 {
		controller.SetSensitivity(sensitivity)
	}
	if imgui.Button("Level Camera") {
		cam.Pitch = 0
	}

	imgui.End()
}

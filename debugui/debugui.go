// Package debugui draws a Dear ImGui overlay over a running engine: an
// entity browser, a component inspector with live editing, a query
// debugger, performance statistics and a camera panel.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/kiln/engine"
)

// Overlay holds the state of every debug window between frames.
type Overlay struct {
	Browser     EntityBrowser
	Inspector   ComponentInspector
	Query       QueryDebugger
	Performance PerformanceStats
	Camera      CameraPanel
}

func New() *Overlay {
	return &Overlay{
		Browser: NewEntityBrowser(100),
		Query:   NewQueryDebugger(),
	}
}

// Render draws all windows. It must be called between the backend's
// BeginFrame and EndFrame, outside the engine's Update and Render phases.
func (o *Overlay) Render(e *engine.Engine) {
	storage := e.Storage()
	o.Browser.Render(storage)
	selected, ok := o.Browser.Selected()
	o.Inspector.Render(storage, selected, ok)
	o.Query.Render(storage)
	o.Performance.Render(e.Stats(), e.Scheduler().GetStats(), storage.CollectStats())
	o.Camera.Render(e.Camera(), e.Controller())
}

// InputCapture reports whether ImGui wants the mouse or keyboard this frame,
// in which case the engine should not see those events.
type InputCapture struct {
	Mouse    bool
	Keyboard bool
}

func CurrentCapture() InputCapture {
	io := imgui.CurrentIO()
	return InputCapture{
		Mouse:    io.WantCaptureMouse(),
		Keyboard: io.WantCaptureKeyboard(),
	}
}

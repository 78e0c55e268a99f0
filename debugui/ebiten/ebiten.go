// Package ebiten runs the debug overlay on Ebitengine through the cimgui-go
// Ebitengine backend.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/kiln/debugui"
	"github.com/plus3/kiln/engine"
)

// ImguiBackend pairs the Ebitengine ImGui backend with an overlay.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
	Overlay *debugui.Overlay
}

// New creates the ImGui context and its Ebitengine window. ImGui's ini file
// is disabled so window layouts are not written next to the binary.
func New(title string, width, height int) *ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: backend, Overlay: debugui.New()}
}

// Update builds this frame's overlay for e.
func (b *ImguiBackend) Update(e *engine.Engine) {
	b.BeginFrame()
	b.Overlay.Render(e)
	b.EndFrame()
}

// DrawOver draws the overlay on top of screen.
func (b *ImguiBackend) DrawOver(screen *ebiten.Image) {
	b.Draw(screen)
}

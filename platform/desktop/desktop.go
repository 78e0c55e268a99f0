// Package desktop runs the engine in an Ebitengine window. Ebitengine's
// Update callback collects keyboard, pointer and resize input for the
// engine; Draw runs one engine frame into the window and draws the debug
// overlay over it.
package desktop

import (
	"errors"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/kiln/config"
	"github.com/plus3/kiln/debugui"
	debugebiten "github.com/plus3/kiln/debugui/ebiten"
	"github.com/plus3/kiln/engine"
	"github.com/plus3/kiln/gpu/ebitengpu"
	"github.com/plus3/kiln/input"
)

type Options struct {
	Engine  *engine.Engine
	Surface *ebitengpu.Surface
	Window  config.Window
	// Overlay is optional. F1 toggles it.
	Overlay *debugebiten.ImguiBackend
	Logger  *slog.Logger
}

// Game implements ebiten.Game.
type Game struct {
	engine  *engine.Engine
	surface *ebitengpu.Surface
	window  config.Window
	overlay *debugebiten.ImguiBackend
	logger  *slog.Logger

	showOverlay bool
	events      []input.Event
	pressed     []ebiten.Key
	released    []ebiten.Key
	cursor      [2]int
	haveCursor  bool
	width       int
	height      int
	lastFrame   time.Time
	err         error
}

var _ ebiten.Game = (*Game)(nil)

func New(opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	width, height := opts.Engine.Size()
	return &Game{
		engine:      opts.Engine,
		surface:     opts.Surface,
		window:      opts.Window,
		overlay:     opts.Overlay,
		logger:      opts.Logger,
		showOverlay: opts.Overlay != nil,
		width:       width,
		height:      height,
	}
}

// Run opens the window and blocks until it closes, Escape is pressed or a
// frame fails fatally.
func (g *Game) Run() error {
	if g.overlay == nil {
		ebiten.SetWindowSize(g.window.Width, g.window.Height)
		ebiten.SetWindowTitle(g.window.Title)
	}
	if g.window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	g.updateCursorMode()

	err := ebiten.RunGame(g)
	if g.err != nil {
		return g.err
	}
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (g *Game) updateCursorMode() {
	if g.showOverlay {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	}
	g.haveCursor = false
}

func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	capture := g.capture()
	g.events = g.events[:0]
	if ebiten.IsWindowBeingClosed() {
		g.events = append(g.events, input.CloseEvent{})
	}
	if !capture.Keyboard {
		g.pressed = inpututil.AppendJustPressedKeys(g.pressed[:0])
		g.released = inpututil.AppendJustReleasedKeys(g.released[:0])
		g.events = keyEvents(g.events, g.pressed, g.released)
	}
	if ev, ok := g.pointerMotion(); ok && !capture.Mouse {
		g.events = append(g.events, ev)
	}

	for _, ev := range g.events {
		if key, ok := ev.(input.KeyEvent); ok && key.Key == input.KeyF1 && key.State == input.Pressed && g.overlay != nil {
			g.showOverlay = !g.showOverlay
			g.updateCursorMode()
			continue
		}
		stop, err := g.engine.Dispatch(ev)
		if err != nil {
			g.err = err
			return err
		}
		if stop {
			return ebiten.Termination
		}
	}

	if g.overlay != nil && g.showOverlay {
		g.overlay.Update(g.engine)
	}
	return nil
}

func (g *Game) capture() debugui.InputCapture {
	if g.overlay == nil || !g.showOverlay {
		return debugui.InputCapture{}
	}
	return debugui.CurrentCapture()
}

// pointerMotion reports the cursor movement since the previous tick.
func (g *Game) pointerMotion() (input.MouseMotionEvent, bool) {
	x, y := ebiten.CursorPosition()
	prev := g.cursor
	had := g.haveCursor
	g.cursor, g.haveCursor = [2]int{x, y}, true
	if !had || (x == prev[0] && y == prev[1]) {
		return input.MouseMotionEvent{}, false
	}
	return input.MouseMotionEvent{DX: float64(x - prev[0]), DY: float64(y - prev[1])}, true
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.err != nil {
		return
	}
	now := time.Now()
	dt := 0.0
	if !g.lastFrame.IsZero() {
		dt = now.Sub(g.lastFrame).Seconds()
	}
	g.lastFrame = now

	g.surface.SetScreen(screen)
	if err := g.engine.Frame(dt); err != nil {
		g.logger.Error("frame failed", "err", err)
		g.err = err
		return
	}
	if g.overlay != nil && g.showOverlay {
		g.overlay.DrawOver(screen)
	}
}

// Layout keeps the screen at the window size and resizes the engine when the
// window changes. The engine's render scale shrinks the surface; the surface
// upscales onto the screen when presenting.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.overlay != nil {
		g.overlay.Layout(outsideWidth, outsideHeight)
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		if _, err := g.engine.Dispatch(input.ResizeEvent{Width: outsideWidth, Height: outsideHeight}); err != nil && g.err == nil {
			g.err = err
		}
	}
	return outsideWidth, outsideHeight
}

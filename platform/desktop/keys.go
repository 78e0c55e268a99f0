package desktop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/kiln/input"
)

var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyW:          input.KeyW,
	ebiten.KeyA:          input.KeyA,
	ebiten.KeyS:          input.KeyS,
	ebiten.KeyD:          input.KeyD,
	ebiten.KeyArrowUp:    input.KeyUp,
	ebiten.KeyArrowDown:  input.KeyDown,
	ebiten.KeyArrowLeft:  input.KeyLeft,
	ebiten.KeyArrowRight: input.KeyRight,
	ebiten.KeySpace:      input.KeySpace,
	ebiten.KeyShiftLeft:  input.KeyShiftLeft,
	ebiten.KeyEscape:     input.KeyEscape,
	ebiten.KeyF1:         input.KeyF1,
}

// translateKey maps an Ebitengine key to the engine's key set.
func translateKey(k ebiten.Key) input.Key {
	if key, ok := keyMap[k]; ok {
		return key
	}
	return input.KeyUnknown
}

// keyEvents turns this tick's key transitions into events, releases first.
// Keys the engine does not know are dropped.
func keyEvents(dst []input.Event, pressed, released []ebiten.Key) []input.Event {
	for _, k := range released {
		if key := translateKey(k); key != input.KeyUnknown {
			dst = append(dst, input.KeyEvent{Key: key, State: input.Released})
		}
	}
	for _, k := range pressed {
		if key := translateKey(k); key != input.KeyUnknown {
			dst = append(dst, input.KeyEvent{Key: key, State: input.Pressed})
		}
	}
	return dst
}

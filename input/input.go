// Package input defines the engine's window events and the sources that
// deliver them.
package input

import (
	"context"
	"fmt"
	"io"
)

// Key is a physical key the engine reacts to.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyShiftLeft
	KeyEscape
	KeyF1
)

var keyNames = [...]string{
	KeyUnknown:   "Unknown",
	KeyW:         "W",
	KeyA:         "A",
	KeyS:         "S",
	KeyD:         "D",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeySpace:     "Space",
	KeyShiftLeft: "ShiftLeft",
	KeyEscape:    "Escape",
	KeyF1:        "F1",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", k)
}

type KeyState uint8

const (
	Released KeyState = iota
	Pressed
)

func (s KeyState) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// Event is one of ResizeEvent, KeyEvent, MouseMotionEvent, CloseEvent or
// RedrawEvent.
type Event interface {
	event()
}

type ResizeEvent struct {
	Width, Height int
}

type KeyEvent struct {
	Key   Key
	State KeyState
}

// MouseMotionEvent is raw pointer motion since the previous event.
type MouseMotionEvent struct {
	DX, DY float64
}

type CloseEvent struct{}

// RedrawEvent asks for one frame. DeltaTime is in seconds; zero means the
// driver measures it.
type RedrawEvent struct {
	DeltaTime float64
}

func (ResizeEvent) event()      {}
func (KeyEvent) event()         {}
func (MouseMotionEvent) event() {}
func (CloseEvent) event()       {}
func (RedrawEvent) event()      {}

// Source delivers events in order. Next returns io.EOF once no more events
// will arrive.
type Source interface {
	Next(ctx context.Context) (Event, error)
}

// Script is a Source replaying a fixed list of events.
type Script struct {
	events []Event
	pos    int
}

func NewScript(events ...Event) *Script {
	return &Script{events: events}
}

func (s *Script) Next(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.events) {
		return nil, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// Remaining is the number of events not yet delivered.
func (s *Script) Remaining() int {
	return len(s.events) - s.pos
}

// Frames returns n redraw events of dt seconds each.
func Frames(n int, dt float64) []Event {
	events := make([]Event, n)
	for i := range events {
		events[i] = RedrawEvent{DeltaTime: dt}
	}
	return events
}

package engine

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/plus3/kiln/input"
)

// Run pulls events from src until a close request, Escape, the end of the
// stream, cancellation or a fatal frame error. A RedrawEvent runs one Frame;
// with a zero DeltaTime it uses the wall-clock time since the previous frame.
// Every other event goes through Dispatch.
func (e *Engine) Run(ctx context.Context, src input.Source) error {
	last := time.Now()
	for {
		ev, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if redraw, ok := ev.(input.RedrawEvent); ok {
			now := time.Now()
			dt := redraw.DeltaTime
			if dt == 0 {
				dt = now.Sub(last).Seconds()
			}
			last = now
			if err := e.Frame(dt); err != nil {
				return err
			}
			continue
		}

		stop, err := e.Dispatch(ev)
		if err != nil || stop {
			return err
		}
	}
}

// Dispatch offers ev to Input and applies the default handling to events it
// leaves unhandled: a close request or Escape stops the loop and a resize
// calls Resize. RedrawEvents are ignored; the caller runs Frame.
func (e *Engine) Dispatch(ev input.Event) (stop bool, err error) {
	if e.Input(ev) {
		return false, nil
	}
	switch ev := ev.(type) {
	case input.CloseEvent:
		e.logger.Info("close requested")
		return true, nil
	case input.KeyEvent:
		if ev.Key == input.KeyEscape && ev.State == input.Pressed {
			e.logger.Info("escape pressed")
			return true, nil
		}
	case input.ResizeEvent:
		return false, e.Resize(ev.Width, ev.Height)
	}
	return false, nil
}

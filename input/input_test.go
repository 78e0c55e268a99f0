package input_test

import (
	"context"
	"io"
	"testing"

	"github.com/plus3/kiln/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptReplaysInOrder(t *testing.T) {
	ctx := context.Background()
	events := append([]input.Event{input.ResizeEvent{Width: 640, Height: 480}}, input.Frames(2, 0.5)...)
	script := input.NewScript(events...)
	assert.Equal(t, 3, script.Remaining())

	for _, want := range events {
		got, err := script.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := script.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, script.Remaining())
}

func TestScriptHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := input.NewScript(input.CloseEvent{}).Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "ShiftLeft", input.KeyShiftLeft.String())
	assert.Equal(t, "Key(200)", input.Key(200).String())
	assert.Equal(t, "pressed", input.Pressed.String())
}

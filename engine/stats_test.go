package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameTimesRing(t *testing.T) {
	var r frameTimes
	assert.Empty(t, r.slice())

	for i := range frameHistory + 5 {
		r.add(time.Duration(i))
	}
	got := r.slice()
	assert.Len(t, got, frameHistory)
	assert.Equal(t, time.Duration(5), got[0])
	assert.Equal(t, time.Duration(frameHistory+4), got[len(got)-1])
}

func TestAverageFrameTime(t *testing.T) {
	assert.Zero(t, Stats{}.AverageFrameTime())
	s := Stats{FrameTimes: []time.Duration{time.Millisecond, 3 * time.Millisecond}}
	assert.Equal(t, 2*time.Millisecond, s.AverageFrameTime())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "Render", PhaseRender.String())
	assert.Equal(t, "Phase(9)", Phase(9).String())
}

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/plus3/kiln/ecs"
	"github.com/plus3/kiln/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStats(t *testing.T) {
	assert.Equal(t, Stats{}, NewStats(nil))

	s := NewStats([]time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond})
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)
	assert.Equal(t, 3, s.Samples)
}

func TestReportGenerate(t *testing.T) {
	r := &Report{
		Scene:    "scene.json",
		Assets:   "res",
		Headless: true,
		Entities: 4,
		Frames:   engine.Stats{Frames: 10, Dropped: 1, DrawCalls: 5},
		Systems: &ecs.SchedulerStats{Systems: []ecs.SystemStats{
			{Name: "SpinSystem", ExecutionCount: 10},
		}},
	}
	r.MemStatsEnd.NumGC = 2

	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))
	out := buf.String()
	assert.Contains(t, out, "**Scene:** scene.json (res)")
	assert.Contains(t, out, "**Backend:** headless")
	assert.Contains(t, out, "**Presented:** 10")
	assert.Contains(t, out, "**Dropped:** 1")
	assert.Contains(t, out, "- SpinSystem: 10 runs")
	assert.Contains(t, out, "delta: 2")
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := loadConfig(flags{config: "kiln.toml", scene: "other.yaml", logLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "other.yaml", cfg.Scene)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = loadConfig(flags{config: "missing.toml"})
	assert.Error(t, err)
}

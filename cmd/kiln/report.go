package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/kiln/ecs"
	"github.com/plus3/kiln/engine"
)

type Report struct {
	// Configuration
	Scene    string
	Assets   string
	Headless bool
	Entities int

	// Results
	LoadTime      time.Duration
	TotalTime     time.Duration
	Frames        engine.Stats
	FrameTime     Stats
	Systems       *ecs.SchedulerStats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

// Stats summarises a set of duration samples.
type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples int
}

func NewStats(samples []time.Duration) Stats {
	s := Stats{Samples: len(samples)}
	if len(samples) == 0 {
		return s
	}

	var total time.Duration
	s.Min = samples[0]
	s.Max = samples[0]
	for _, sample := range samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(samples))
	return s
}

const reportTemplate = `
# Kiln Frame Report

## Scene
- **Scene:** {{.Scene}} ({{.Assets}})
- **Backend:** {{if .Headless}}headless{{else}}ebitengine{{end}}
- **Entities:** {{.Entities}}
- **Load Time:** {{.LoadTime}}

## Frames
- **Run Time:** {{.TotalTime}}
- **Presented:** {{.Frames.Frames}}
- **Dropped:** {{.Frames.Dropped}}
- **Recovered:** {{.Frames.Recovered}}
- **Resizes:** {{.Frames.Resizes}}
- **Draw Calls (last frame):** {{.Frames.DrawCalls}}
- **Frame Time (last {{.FrameTime.Samples}}):**
  - **Avg:** {{.FrameTime.Avg}}
  - **Min:** {{.FrameTime.Min}}
  - **Max:** {{.FrameTime.Max}}
{{with .Systems}}
## Systems
{{range .Systems}}- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
- GC Pause:       {{ns .MemStatsEnd.PauseTotalNs}}
`

var reportFuncs = template.FuncMap{
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
	"ns": func(ns uint64) string {
		return time.Duration(ns).String()
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate))

func (r *Report) Generate(w io.Writer) error {
	return reportTmpl.Execute(w, r)
}

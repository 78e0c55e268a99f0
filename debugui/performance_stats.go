package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/kiln/ecs"
	"github.com/plus3/kiln/engine"
)

// PerformanceStats shows frame counters, the frame time graph, per-system
// timings and per-component occupancy.
type PerformanceStats struct {
	history []float32
}

func (ps *PerformanceStats) Render(frames engine.Stats, systems *ecs.SchedulerStats, storage *ecs.StorageStats) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avg := frames.AverageFrameTime()
	fps := 0.0
	if avg > 0 {
		fps = 1 / avg.Seconds()
	}
	imgui.Text(fmt.Sprintf("Frames: %d  Dropped: %d  Recovered: %d  Resizes: %d", frames.Frames, frames.Dropped, frames.Recovered, frames.Resizes))
	imgui.Text(fmt.Sprintf("Draw calls: %d", frames.DrawCalls))
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", float64(avg.Microseconds())/1000, fps))

	ps.history = FrameTimesMillis(ps.history, frames)
	if len(ps.history) > 0 {
		imgui.Separator()
		imgui.Text("Frame Time Graph (ms)")
		imgui.PlotLinesFloatPtr("##frametime", &ps.history[0], int32(len(ps.history)))
	}

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()
			for _, s := range systems.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(s.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", s.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(s.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Components") {
		imgui.Text(fmt.Sprintf("Entities: %d  Version: %d", storage.EntityCount, storage.Version))
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("ComponentStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Component")
			imgui.TableSetupColumn("Present")
			imgui.TableSetupColumn("Borrow")
			imgui.TableHeadersRow()
			for _, c := range storage.Components {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(c.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", c.Present))
				imgui.TableNextColumn()
				imgui.Text(c.Borrow)
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

// FrameTimesMillis converts the frame history to milliseconds, reusing dst.
func FrameTimesMillis(dst []float32, frames engine.Stats) []float32 {
	dst = dst[:0]
	for _, d := range frames.FrameTimes {
		dst = append(dst, float32(d.Microseconds())/1000)
	}
	return dst
}

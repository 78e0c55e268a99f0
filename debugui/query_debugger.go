package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/kiln/ecs"
)

// QueryDebugger lists the entities that have every checked component type.
type QueryDebugger struct {
	selected map[reflect.Type]bool
}

func NewQueryDebugger() QueryDebugger {
	return QueryDebugger{selected: make(map[reflect.Type]bool)}
}

func (qd *QueryDebugger) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	if qd.selected == nil {
		qd.selected = make(map[reflect.Type]bool)
	}

	imgui.Text("Select Component Types:")
	imgui.Separator()
	if imgui.Button("Clear All") {
		clear(qd.selected)
	}

	var types []reflect.Type
	for _, t := range storage.Registry().Types() {
		checked := qd.selected[t]
		if imgui.Checkbox(t.Name(), &checked) {
			qd.selected[t] = checked
		}
		if qd.selected[t] {
			types = append(types, t)
		}
	}

	imgui.Separator()
	if len(types) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matches := Matching(storage, types)
	imgui.Text(fmt.Sprintf("Matching entities: %d", len(matches)))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("QueryResults", 1, tableFlags, imgui.NewVec2(0, 200), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableHeadersRow()
		for _, id := range matches {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(id.String())
		}
		imgui.EndTable()
	}

	imgui.End()
}

// Matching returns the entities that have every one of types, in id order.
func Matching(storage *ecs.Storage, types []reflect.Type) []ecs.EntityId {
	var ids []ecs.EntityId
	for i := range storage.Len() {
		id := ecs.EntityId(i)
		match := true
		for _, t := range types {
			if !storage.HasComponent(id, t) {
				match = false
				break
			}
		}
		if match {
			ids = append(ids, id)
		}
	}
	return ids
}

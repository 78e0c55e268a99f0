package debugui

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/kiln/ecs"
)

// ComponentInspector shows the components of the selected entity. Values
// are read under a shared borrow; edits are queued and applied afterwards
// under an exclusive one.
type ComponentInspector struct {
	pending []Edit
	lastErr error
}

func (ci *ComponentInspector) Render(storage *ecs.Storage, id ecs.EntityId, selected bool) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if !selected || !storage.Contains(id) {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	imgui.Text(id.String())
	imgui.Separator()

	for _, compType := range storage.ComponentTypes(id) {
		if !imgui.TreeNodeStr(compType.String()) {
			continue
		}
		err := storage.WithComponent(id, compType, ecs.BorrowShared, func(component any) error {
			ci.renderStruct(id, compType, reflect.ValueOf(component).Elem(), nil)
			return nil
		})
		if err != nil {
			imgui.Text(fmt.Sprintf("unavailable: %v", err))
		}
		imgui.TreePop()
	}

	if err := ci.Flush(storage); err != nil {
		ci.lastErr = err
	}
	if ci.lastErr != nil {
		imgui.Separator()
		imgui.Text(fmt.Sprintf("last edit failed: %v", ci.lastErr))
	}

	imgui.End()
}

// Queue adds an edit to apply on the next Flush.
func (ci *ComponentInspector) Queue(edit Edit) {
	ci.pending = append(ci.pending, edit)
}

// Flush applies queued edits in order and returns the first failure.
func (ci *ComponentInspector) Flush(storage *ecs.Storage) error {
	var first error
	for _, edit := range ci.pending {
		if err := edit.Apply(storage); err != nil && first == nil {
			first = err
		}
	}
	ci.pending = ci.pending[:0]
	return first
}

func (ci *ComponentInspector) renderStruct(id ecs.EntityId, compType reflect.Type, val reflect.Value, path []int) {
	for _, field := range fieldCache.Fields(val.Type()) {
		ci.renderValue(id, compType, field.Name, val.Field(field.Index), append(path[:len(path):len(path)], field.Index))
	}
}

func (ci *ComponentInspector) renderValue(id ecs.EntityId, compType reflect.Type, name string, val reflect.Value, path []int) {
	label := "##" + compType.String() + fmt.Sprint(path)
	edit := func(v any) {
		ci.Queue(Edit{Entity: id, Type: compType, Path: path, Value: v})
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) {
			edit(v)
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && v >= 0 {
			edit(v)
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &v) {
			edit(v)
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name+label, &v) {
			edit(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) {
			edit(v)
		}

	case reflect.Array:
		if imgui.TreeNodeStr(name) {
			for i := range val.Len() {
				ci.renderValue(id, compType, strconv.Itoa(i), val.Index(i), append(path[:len(path):len(path)], i))
			}
			imgui.TreePop()
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			ci.renderStruct(id, compType, val, path)
			imgui.TreePop()
		}

	case reflect.Slice:
		if imgui.TreeNodeStr(fmt.Sprintf("%s [%d]", name, val.Len())) {
			for i := range val.Len() {
				imgui.BulletText(describe(val.Index(i)))
			}
			imgui.TreePop()
		}

	default:
		imgui.Text(name + ": " + describe(val))
	}
}

// describe renders read-only values. GPU handles show their label.
func describe(val reflect.Value) string {
	if (val.Kind() == reflect.Interface || val.Kind() == reflect.Pointer) && val.IsNil() {
		return "nil"
	}
	if labeled, ok := val.Interface().(interface{ Label() string }); ok {
		return fmt.Sprintf("%T %q", labeled, labeled.Label())
	}
	if val.Kind() == reflect.Struct {
		return fmt.Sprintf("%+v", val.Interface())
	}
	return fmt.Sprint(val.Interface())
}

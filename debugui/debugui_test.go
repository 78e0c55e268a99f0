package debugui_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/kiln/component"
	"github.com/plus3/kiln/debugui"
	"github.com/plus3/kiln/ecs"
	"github.com/plus3/kiln/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorage(t *testing.T) (*ecs.Storage, ecs.EntityId, ecs.EntityId) {
	t.Helper()
	storage := ecs.NewStorage(component.NewRegistry())
	moving := storage.CreateEntity()
	require.NoError(t, ecs.Add(storage, moving, component.Identity()))
	require.NoError(t, ecs.Add(storage, moving, component.Spin{Rate: mgl32.Vec3{0, 45, 0}}))
	static := storage.CreateEntity()
	require.NoError(t, ecs.Add(storage, static, component.Identity()))
	return storage, moving, static
}

var transformType = reflect.TypeFor[component.Transform]()

func TestEditAppliesUnderExclusiveBorrow(t *testing.T) {
	storage, id, _ := testStorage(t)

	// Translation is field 0, Y is element 1.
	require.NoError(t, debugui.Edit{Entity: id, Type: transformType, Path: []int{0, 1}, Value: float32(3)}.Apply(storage))
	require.NoError(t, debugui.Edit{Entity: id, Type: transformType, Path: []int{2}, Value: 2.5}.Apply(storage))

	tr := ecs.ReadComponent[component.Transform](storage, id)
	assert.Equal(t, mgl32.Vec3{0, 3, 0}, tr.Translation)
	assert.Equal(t, float32(2.5), tr.Scale)
}

func TestEditFailsWhileBorrowed(t *testing.T) {
	storage, id, _ := testStorage(t)
	b, err := ecs.Borrow[component.Transform](storage)
	require.NoError(t, err)
	defer b.Release()

	err = debugui.Edit{Entity: id, Type: transformType, Path: []int{2}, Value: 2}.Apply(storage)
	assert.ErrorIs(t, err, ecs.ErrBorrowConflict)
}

func TestEditRejectsMismatchedValues(t *testing.T) {
	storage, id, _ := testStorage(t)

	err := debugui.Edit{Entity: id, Type: transformType, Path: []int{2}, Value: "big"}.Apply(storage)
	assert.ErrorIs(t, err, debugui.ErrNotEditable)
	err = debugui.Edit{Entity: id, Type: transformType, Path: []int{9}, Value: 1}.Apply(storage)
	assert.ErrorIs(t, err, debugui.ErrNotEditable)
	err = debugui.Edit{Entity: id, Type: transformType, Path: []int{2, 0}, Value: 1}.Apply(storage)
	assert.ErrorIs(t, err, debugui.ErrNotEditable)

	meshType := reflect.TypeFor[component.Model]()
	other := storage.CreateEntity()
	require.NoError(t, ecs.Add(storage, other, component.Model{Meshes: []component.Mesh{{IndexCount: 3}}}))
	err = debugui.Edit{Entity: other, Type: meshType, Path: []int{0, 0}, Value: 1}.Apply(storage)
	assert.ErrorIs(t, err, debugui.ErrNotEditable, "slices are read-only")
}

func TestInspectorFlushAppliesQueuedEdits(t *testing.T) {
	storage, id, _ := testStorage(t)
	var ci debugui.ComponentInspector
	ci.Queue(debugui.Edit{Entity: id, Type: transformType, Path: []int{1, 0}, Value: float32(90)})
	ci.Queue(debugui.Edit{Entity: id, Type: transformType, Path: []int{7}, Value: 1})

	err := ci.Flush(storage)
	assert.ErrorIs(t, err, debugui.ErrNotEditable)
	assert.Equal(t, float32(90), ecs.ReadComponent[component.Transform](storage, id).Rotation.X())
	assert.NoError(t, ci.Flush(storage))
}

func TestEntityBrowser(t *testing.T) {
	storage, moving, static := testStorage(t)
	eb := debugui.NewEntityBrowser(10)
	eb.Refresh(storage)

	all := eb.Filtered()
	require.Len(t, all, 2)
	assert.Equal(t, moving, all[0].ID)
	assert.Equal(t, []string{"Transform", "Spin"}, all[0].Components)

	eb.SortBy(2, true)
	assert.Equal(t, static, eb.Filtered()[0].ID)

	eb.SetFilter("SPIN")
	filtered := eb.Filtered()
	require.Len(t, filtered, 1)
	assert.Equal(t, moving, filtered[0].ID)

	eb.SetFilter("")
	storage.CreateEntity()
	eb.Refresh(storage)
	assert.Len(t, eb.Filtered(), 3)

	_, ok := eb.Selected()
	assert.False(t, ok)
	eb.Select(static)
	got, ok := eb.Selected()
	assert.True(t, ok)
	assert.Equal(t, static, got)
}

func TestMatching(t *testing.T) {
	storage, moving, static := testStorage(t)
	spinType := reflect.TypeFor[component.Spin]()

	assert.Equal(t, []ecs.EntityId{moving, static}, debugui.Matching(storage, []reflect.Type{transformType}))
	assert.Equal(t, []ecs.EntityId{moving}, debugui.Matching(storage, []reflect.Type{transformType, spinType}))
	assert.Empty(t, debugui.Matching(storage, []reflect.Type{reflect.TypeFor[component.Cubemap]()}))
}

func TestFrameTimesMillis(t *testing.T) {
	stats := engine.Stats{FrameTimes: []time.Duration{16 * time.Millisecond, 1500 * time.Microsecond}}
	got := debugui.FrameTimesMillis(nil, stats)
	assert.Equal(t, []float32{16, 1.5}, got)
}

func TestReflectionCache(t *testing.T) {
	rc := debugui.NewReflectionCache()
	fields := rc.Fields(transformType)
	require.Len(t, fields, 3)
	assert.Equal(t, "Scale", fields[2].Name)
	assert.Nil(t, rc.Fields(reflect.TypeFor[int]()))
}

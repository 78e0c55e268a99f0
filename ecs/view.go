package ecs

import (
	"iter"
	"reflect"
	"strings"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// View joins component columns by entity index.
// The type T should be a struct with embedded or named pointer fields for each component type,
// and optionally one EntityId field that receives the id of the joined entity.
// Named fields can be marked as optional using the `ecs:"optional"` struct tag.
// Any component field can be tagged `ecs:"mut"` to borrow its column exclusively while iterating.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	mutable     []bool
	fieldOffset []uintptr
	columns     []iComponentColumn

	idOffset uintptr
	hasId    bool
}

// NewView creates a new view for the given struct type.
// Embedded fields are always required.
// NewView panics if T is malformed or names an unregistered component type.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType == entityIdType {
			if v.hasId {
				panic("View struct may declare only one EntityId field")
			}
			v.hasId = true
			v.idOffset = field.Offset
			continue
		}

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or EntityId, got " + fieldType.String())
		}

		componentType := fieldType.Elem()
		for _, existing := range v.types {
			if existing == componentType {
				panic("View struct joins " + componentType.String() + " twice")
			}
		}

		isOptional, isMutable := parseViewTag(field)

		col, err := storage.column(componentType)
		if err != nil {
			panic(err.Error())
		}

		v.types = append(v.types, componentType)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
		v.optional = append(v.optional, isOptional)
		v.mutable = append(v.mutable, isMutable)
		v.columns = append(v.columns, col)
	}

	return v
}

func parseViewTag(field reflect.StructField) (optional, mutable bool) {
	tag := field.Tag.Get("ecs")
	if tag == "" {
		return false, false
	}
	for _, part := range strings.Split(tag, ",") {
		switch strings.TrimSpace(part) {
		case "optional":
			// Embedded fields are always required
			if field.Anonymous {
				panic("embedded View field " + field.Name + " cannot be optional")
			}
			optional = true
		case "mut":
			mutable = true
		default:
			panic("invalid ecs tag value: \"" + tag + "\" (supported: \"optional\", \"mut\")")
		}
	}
	return optional, mutable
}

// acquire borrows every joined column for the duration of an access. The
// returned function releases them; on error nothing remains borrowed.
func (v *View[T]) acquire() (func(), error) {
	for i, col := range v.columns {
		if err := acquireColumn(col, v.mode(i)); err != nil {
			v.releaseFirst(i)
			return nil, err
		}
	}
	return func() { v.releaseFirst(len(v.columns)) }, nil
}

func (v *View[T]) releaseFirst(n int) {
	for i := n - 1; i >= 0; i-- {
		v.columns[i].borrowState().release(v.mode(i))
	}
}

func (v *View[T]) mode(i int) BorrowMode {
	if v.mutable[i] {
		return BorrowExclusive
	}
	return BorrowShared
}

// Fill populates the provided struct pointer with component data for the given entity
// Returns false if the entity is missing any required components
// Optional components are set to nil if not present
// Fill takes no borrows itself; Get and Iter do.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	if !v.storage.Contains(id) {
		return false
	}
	return v.fill(unsafe.Pointer(ptr), id)
}

func (v *View[T]) fill(structPtr unsafe.Pointer, id EntityId) bool {
	index := id.Index()
	for i, col := range v.columns {
		// Calculate the address of the field using the pre-computed offset
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])

		componentPtr := col.pointer(index)
		if componentPtr == nil && !v.optional[i] {
			return false
		}
		*(*unsafe.Pointer)(fieldPtr) = componentPtr
	}

	if v.hasId {
		*(*EntityId)(unsafe.Pointer(uintptr(structPtr) + v.idOffset)) = id
	}
	return true
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components. It panics if any joined column is
// borrowed in a conflicting mode.
func (v *View[T]) Get(id EntityId) *T {
	release, err := v.acquire()
	if err != nil {
		panic(err)
	}
	defer release()

	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// Iter returns an iterator over all entities that have all the required components for this view
// The iterator yields (EntityId, T) pairs in entity order.
// The joined columns stay borrowed until the loop ends, including on break.
// Iter panics if a borrow conflicts; Each reports it instead.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		release, err := v.acquire()
		if err != nil {
			panic(err)
		}
		defer release()
		v.scan(yield)
	}
}

func (v *View[T]) scan(yield func(EntityId, T) bool) {
	var result T
	resultPtr := unsafe.Pointer(&result)

	n := v.storage.Len()
	for index := 0; index < n; index++ {
		id := EntityId(index)
		if !v.fill(resultPtr, id) {
			continue
		}
		if !yield(id, result) {
			return
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Each calls fn for every joined entity, stopping at the first error. Unlike
// Iter, a borrow conflict is returned as an error wrapping ErrBorrowConflict.
func (v *View[T]) Each(fn func(EntityId, T) error) error {
	release, err := v.acquire()
	if err != nil {
		return err
	}
	defer release()

	var ferr error
	v.scan(func(id EntityId, item T) bool {
		ferr = fn(id, item)
		return ferr == nil
	})
	return ferr
}

// Spawn creates a new entity with the non-nil components referenced by data.
func (v *View[T]) Spawn(data T) (EntityId, error) {
	structPtr := unsafe.Pointer(&data)

	for i := range v.types {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])
		if *(*unsafe.Pointer)(fieldPtr) == nil && !v.optional[i] {
			panic("required component is nil in View.Spawn")
		}
	}

	id := v.storage.CreateEntity()
	for i, componentType := range v.types {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])
		componentPtr := *(*unsafe.Pointer)(fieldPtr)
		if componentPtr == nil {
			continue
		}
		component := reflect.NewAt(componentType, componentPtr).Interface()
		if err := v.storage.AddComponent(id, component); err != nil {
			return id, err
		}
	}
	return id, nil
}

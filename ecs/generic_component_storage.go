package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent stores to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentColumn
	order     []reflect.Type
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentColumn),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be used.
// Registering the same type twice is a no-op.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("components cannot be pointers, maps, channels, functions or interfaces: " + t.String())
	}
	if _, ok := r.factories[t]; ok {
		return
	}
	r.factories[t] = func() iComponentColumn {
		return &column[T]{typ: t}
	}
	r.order = append(r.order, t)
}

// Types returns the registered component types in registration order.
func (r *ComponentRegistry) Types() []reflect.Type {
	return append([]reflect.Type(nil), r.order...)
}

// getFactory returns the factory function for a given component type.
// Returns nil if the type is not registered.
func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentColumn {
	return r.factories[t]
}

const (
	columnBlockSize = 64
)

// column is the optional sequence for one component type: slot i holds the
// component of entity i, if any. Slots are stored in fixed size blocks so that
// growing the column never moves existing components.
type column[T any] struct {
	typ     reflect.Type
	blocks  []*[columnBlockSize]T
	filled  []*[columnBlockSize]bool
	present int
	borrow  borrowState
}

func (c *column[T]) componentType() reflect.Type {
	return c.typ
}

func (c *column[T]) borrowState() *borrowState {
	return &c.borrow
}

// set stores item, which must be a T or a non-nil *T, in slot index.
func (c *column[T]) set(index int, item any) bool {
	var value T
	if ptr, ok := item.(*T); ok {
		if ptr == nil {
			return false
		}
		value = *ptr
	} else if val, ok := item.(T); ok {
		value = val
	} else {
		return false
	}
	c.put(index, value)
	return true
}

func (c *column[T]) put(index int, value T) {
	blockIdx := index / columnBlockSize
	slotIdx := index % columnBlockSize

	for blockIdx >= len(c.blocks) {
		c.blocks = append(c.blocks, new([columnBlockSize]T))
		c.filled = append(c.filled, new([columnBlockSize]bool))
	}

	if !c.filled[blockIdx][slotIdx] {
		c.present++
	}
	c.blocks[blockIdx][slotIdx] = value
	c.filled[blockIdx][slotIdx] = true
}

// get returns a pointer to the component in slot index, or nil if absent.
func (c *column[T]) get(index int) *T {
	if index < 0 {
		return nil
	}

	blockIdx := index / columnBlockSize
	slotIdx := index % columnBlockSize

	if blockIdx >= len(c.blocks) || !c.filled[blockIdx][slotIdx] {
		return nil
	}

	return &c.blocks[blockIdx][slotIdx]
}

// Get is the type-erased form of get. It returns an untyped nil for absent slots.
func (c *column[T]) Get(index int) any {
	if ptr := c.get(index); ptr != nil {
		return ptr
	}
	return nil
}

func (c *column[T]) pointer(index int) unsafe.Pointer {
	return unsafe.Pointer(c.get(index))
}

func (c *column[T]) has(index int) bool {
	return c.get(index) != nil
}

func (c *column[T]) count() int {
	return c.present
}

// iter yields the present slot indices below limit in ascending order.
func (c *column[T]) iter(limit int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for blockIdx := range c.filled {
			for slotIdx := 0; slotIdx < columnBlockSize; slotIdx++ {
				index := blockIdx*columnBlockSize + slotIdx
				if index >= limit {
					return
				}
				if c.filled[blockIdx][slotIdx] && !yield(index) {
					return
				}
			}
		}
	}
}

// release hands every present component that owns external resources back to
// its owner and empties the column.
func (c *column[T]) release() {
	for blockIdx := range c.blocks {
		for slotIdx := 0; slotIdx < columnBlockSize; slotIdx++ {
			if !c.filled[blockIdx][slotIdx] {
				continue
			}
			if r, ok := any(&c.blocks[blockIdx][slotIdx]).(Releaser); ok {
				r.Release()
			}
		}
	}
	c.blocks = nil
	c.filled = nil
	c.present = 0
}

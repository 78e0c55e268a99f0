package ecs

import (
	"fmt"
	"reflect"
)

// Commands buffers entity spawns so that a batch can be applied to a storage
// all at once, or thrown away without ever touching it.
type Commands struct {
	spawns []spawnCommand
}

type spawnCommand struct {
	components []any
}

// NewCommands returns an empty buffer.
func NewCommands() *Commands {
	return &Commands{}
}

// Spawn queues an entity with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Len returns the number of queued spawns.
func (c *Commands) Len() int {
	return len(c.spawns)
}

// Flush creates the queued entities in order and resets the buffer. Component
// types are checked against the storage's registry before any entity is
// created, so an unregistered type leaves the storage untouched.
func (c *Commands) Flush(storage *Storage) ([]EntityId, error) {
	for i, cmd := range c.spawns {
		for _, component := range cmd.components {
			compType := reflect.TypeOf(component)
			if compType != nil && compType.Kind() == reflect.Ptr {
				compType = compType.Elem()
			}
			if compType == nil || storage.registry.getFactory(compType) == nil {
				return nil, fmt.Errorf("%w: spawn %d: %T", ErrUnregisteredComponent, i, component)
			}
		}
	}

	ids := make([]EntityId, 0, len(c.spawns))
	for _, cmd := range c.spawns {
		id := storage.CreateEntity()
		for _, component := range cmd.components {
			if err := storage.AddComponent(id, component); err != nil {
				return ids, err
			}
		}
		ids = append(ids, id)
	}

	c.spawns = c.spawns[:0]
	return ids, nil
}

// Discard drops every queued spawn, releasing the components that implement
// Releaser.
func (c *Commands) Discard() {
	for _, cmd := range c.spawns {
		for _, component := range cmd.components {
			releaseComponent(component)
		}
	}
	c.spawns = c.spawns[:0]
}

func releaseComponent(component any) {
	if r, ok := component.(Releaser); ok {
		r.Release()
		return
	}
	// Release is commonly declared on the pointer receiver.
	value := reflect.ValueOf(component)
	if !value.IsValid() || value.Kind() == reflect.Ptr {
		return
	}
	ptr := reflect.New(value.Type())
	ptr.Elem().Set(value)
	if r, ok := ptr.Interface().(Releaser); ok {
		r.Release()
	}
}

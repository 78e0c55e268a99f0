package ecs_test

import "github.com/plus3/kiln/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type Score int32

// Handle counts releases, standing in for a component that owns GPU memory.
type Handle struct {
	Released *int
}

func (h *Handle) Release() {
	*h.Released++
}

type Unregistered struct{}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Handle](registry)
	return registry
}

// spawn creates an entity with the given components, failing loudly on error.
func spawn(storage *ecs.Storage, components ...any) ecs.EntityId {
	id := storage.CreateEntity()
	for _, c := range components {
		if err := storage.AddComponent(id, c); err != nil {
			panic(err)
		}
	}
	return id
}

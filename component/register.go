package component

import "github.com/plus3/kiln/ecs"

// Register adds every component type of this package to registry.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Model](registry)
	ecs.RegisterComponent[Material](registry)
	ecs.RegisterComponent[Cubemap](registry)
	ecs.RegisterComponent[Spin](registry)
}

// NewRegistry returns a registry with every component type registered.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	Register(registry)
	return registry
}

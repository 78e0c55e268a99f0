package ecs_test

import (
	"fmt"

	"github.com/plus3/kiln/ecs"
)

// ExampleStorage demonstrates the basic API for managing entities and components.
// Every registered component type has one slot per entity, indexed by entity id.
func ExampleStorage() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Health](registry)
	storage := ecs.NewStorage(registry)

	player := storage.CreateEntity()
	_ = ecs.Add(storage, player, Position{X: 10, Y: 20})
	_ = ecs.Add(storage, player, Health{Current: 100, Max: 100})

	tree := storage.CreateEntity()
	_ = ecs.Add(storage, tree, Position{X: 3, Y: 4})

	pos := ecs.ReadComponent[Position](storage, player)
	fmt.Printf("Player %d at (%.0f, %.0f)\n", player, pos.X, pos.Y)
	fmt.Printf("Tree %d has health: %v\n", tree, ecs.ReadComponent[Health](storage, tree) != nil)

	// Output:
	// Player 0 at (10, 20)
	// Tree 1 has health: false
}

// ExampleWrite shows scoped borrows: the sequence is released when the
// function returns, however it returns.
func ExampleWrite() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Health](registry)
	storage := ecs.NewStorage(registry)

	for i := 1; i <= 3; i++ {
		id := storage.CreateEntity()
		_ = ecs.Add(storage, id, Health{Current: i, Max: 10})
	}

	_ = ecs.Write(storage, func(healths *ecs.Borrowed[Health]) error {
		for _, h := range healths.All() {
			h.Current *= 2
		}
		return nil
	})

	_ = ecs.Read(storage, func(healths *ecs.Borrowed[Health]) error {
		for id, h := range healths.All() {
			fmt.Printf("%d: %d/%d\n", id, h.Current, h.Max)
		}
		return nil
	})

	// Output:
	// 0: 2/10
	// 1: 4/10
	// 2: 6/10
}

// ExampleView_Iter joins two component types by entity index.
func ExampleView_Iter() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	storage := ecs.NewStorage(registry)

	for i := 0; i < 4; i++ {
		id := storage.CreateEntity()
		_ = ecs.Add(storage, id, Position{X: float32(i * 10)})
		if i%2 == 0 {
			_ = ecs.Add(storage, id, Velocity{DX: 1})
		}
	}

	view := ecs.NewView[struct {
		Position *Position `ecs:"mut"`
		*Velocity
	}](storage)

	for id, item := range view.Iter() {
		item.Position.X += item.Velocity.DX
		fmt.Printf("%d moved to %.0f\n", id, item.Position.X)
	}

	// Output:
	// 0 moved to 1
	// 2 moved to 21
}

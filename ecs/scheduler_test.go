package ecs_test

import (
	"testing"

	"github.com/plus3/kiln/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Entities ecs.Query[struct {
		Position *Position `ecs:"mut"`
		*Velocity
	}]
	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for _, item := range s.Entities.Iter() {
		item.Position.X += item.Velocity.DX * float32(frame.DeltaTime)
		item.Position.Y += item.Velocity.DY * float32(frame.DeltaTime)
	}
}

type HealthSystem struct {
	Entities ecs.Query[struct {
		*Health
	}]
	ExecuteCount int
	TotalHealth  int
}

func (s *HealthSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	s.TotalHealth = 0
	for item := range s.Entities.Values() {
		s.TotalHealth += item.Health.Current
	}
}

func TestScheduler(t *testing.T) {
	t.Run("system execution and query initialization", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		movement := &MovementSystem{}
		health := &HealthSystem{}
		scheduler.Register(movement)
		scheduler.Register(health)

		mover := spawn(storage, Position{}, Velocity{DX: 1, DY: 2})
		spawn(storage, Health{Current: 100, Max: 100})

		scheduler.Once(0.5)

		assert.Equal(t, 1, movement.ExecuteCount)
		assert.Equal(t, 1, health.ExecuteCount)
		assert.Equal(t, 100, health.TotalHealth)
		assert.Equal(t, &Position{X: 0.5, Y: 1}, ecs.ReadComponent[Position](storage, mover))
	})

	t.Run("queries see entities added between runs", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)
		health := &HealthSystem{}
		scheduler.Register(health)

		scheduler.Once(1)
		assert.Equal(t, 0, health.TotalHealth)

		spawn(storage, Health{Current: 5})
		scheduler.Once(1)
		assert.Equal(t, 5, health.TotalHealth)

		id := storage.CreateEntity()
		require.NoError(t, storage.AddComponent(id, Health{Current: 7}))
		scheduler.Once(1)
		assert.Equal(t, 12, health.TotalHealth)
	})

	t.Run("stats", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&MovementSystem{})
		scheduler.Register(&HealthSystem{})

		stats := scheduler.GetStats()
		assert.Equal(t, 2, stats.SystemCount)
		assert.Zero(t, stats.Systems[0].MinDuration)

		for i := 0; i < 3; i++ {
			scheduler.Once(1)
		}

		stats = scheduler.GetStats()
		assert.Equal(t, int64(6), stats.TotalExecutions)
		assert.Equal(t, "MovementSystem", stats.Systems[0].Name)
		assert.Equal(t, "HealthSystem", stats.Systems[1].Name)
		for _, s := range stats.Systems {
			assert.Equal(t, int64(3), s.ExecutionCount)
			assert.LessOrEqual(t, s.MinDuration, s.MaxDuration)
			assert.Equal(t, s.TotalDuration/3, s.AvgDuration)
		}
	})
}

func TestQuery(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	spawn(storage, Position{X: 1}, Velocity{})
	spawn(storage, Position{X: 2})

	query := ecs.NewQuery[struct {
		Id ecs.EntityId
		*Position
	}](storage)

	assert.Panics(t, func() { query.Iter() })

	query.Execute()
	assert.Equal(t, 2, query.Len())

	spawn(storage, Position{X: 3})
	assert.Equal(t, 2, query.Len(), "cache is only refreshed by Execute")
	query.Execute()
	require.Equal(t, 3, query.Len())

	var xs []float32
	for id, item := range query.Iter() {
		assert.Equal(t, id, item.Id)
		xs = append(xs, item.Position.X)
	}
	assert.Equal(t, []float32{1, 2, 3}, xs)

	for range query.Iter() {
		_, err := ecs.BorrowMut[Position](storage)
		assert.ErrorIs(t, err, ecs.ErrBorrowConflict)
		break
	}
	m, err := ecs.BorrowMut[Position](storage)
	require.NoError(t, err)
	m.Release()
}

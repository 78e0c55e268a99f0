package ecs_test

import (
	"errors"
	"testing"

	"github.com/plus3/kiln/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorrowInvariant(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	spawn(storage, Position{X: 1})

	t.Run("shared borrows coexist", func(t *testing.T) {
		a, err := ecs.Borrow[Position](storage)
		require.NoError(t, err)
		b, err := ecs.Borrow[Position](storage)
		require.NoError(t, err)

		_, err = ecs.BorrowMut[Position](storage)
		assert.ErrorIs(t, err, ecs.ErrBorrowConflict)

		a.Release()
		_, err = ecs.BorrowMut[Position](storage)
		assert.ErrorIs(t, err, ecs.ErrBorrowConflict, "one shared borrow is still outstanding")

		b.Release()
		m, err := ecs.BorrowMut[Position](storage)
		require.NoError(t, err)
		m.Release()
	})

	t.Run("exclusive excludes everything", func(t *testing.T) {
		m, err := ecs.BorrowMut[Position](storage)
		require.NoError(t, err)
		assert.Equal(t, ecs.BorrowExclusive, m.Mode())

		_, err = ecs.Borrow[Position](storage)
		assert.ErrorIs(t, err, ecs.ErrBorrowConflict)
		_, err = ecs.BorrowMut[Position](storage)
		assert.ErrorIs(t, err, ecs.ErrBorrowConflict)

		// Other types are unaffected.
		v, err := ecs.BorrowMut[Velocity](storage)
		require.NoError(t, err)
		v.Release()

		m.Release()
		s, err := ecs.Borrow[Position](storage)
		require.NoError(t, err)
		s.Release()
	})

	t.Run("release is idempotent", func(t *testing.T) {
		m, err := ecs.BorrowMut[Position](storage)
		require.NoError(t, err)
		m.Release()
		m.Release()

		a, err := ecs.Borrow[Position](storage)
		require.NoError(t, err)
		defer a.Release()
		_, err = ecs.BorrowMut[Position](storage)
		assert.ErrorIs(t, err, ecs.ErrBorrowConflict)
	})

	t.Run("use after release panics", func(t *testing.T) {
		s, err := ecs.Borrow[Position](storage)
		require.NoError(t, err)
		s.Release()
		assert.Panics(t, func() { s.Len() })
	})

	t.Run("sequence taken before release panics", func(t *testing.T) {
		s, err := ecs.Borrow[Position](storage)
		require.NoError(t, err)
		seq := s.All()
		s.Release()

		m, err := ecs.BorrowMut[Position](storage)
		require.NoError(t, err)
		defer m.Release()

		assert.Panics(t, func() {
			for range seq {
			}
		})
	})

	t.Run("unregistered type", func(t *testing.T) {
		_, err := ecs.Borrow[Unregistered](storage)
		assert.ErrorIs(t, err, ecs.ErrUnregisteredComponent)
	})
}

func TestBorrowBlocksAddComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := spawn(storage, Position{})

	s, err := ecs.Borrow[Position](storage)
	require.NoError(t, err)

	err = storage.AddComponent(id, Position{X: 5})
	assert.ErrorIs(t, err, ecs.ErrBorrowConflict)
	assert.NoError(t, storage.AddComponent(id, Velocity{}))

	s.Release()
	assert.NoError(t, storage.AddComponent(id, Position{X: 5}))
}

func TestScopedBorrow(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	spawn(storage, Health{Current: 1, Max: 2})
	spawn(storage, Position{})
	spawn(storage, Health{Current: 3, Max: 4})

	t.Run("write mutates", func(t *testing.T) {
		err := ecs.Write(storage, func(healths *ecs.Borrowed[Health]) error {
			for _, h := range healths.All() {
				h.Current = h.Max
			}
			return nil
		})
		require.NoError(t, err)

		var total int
		require.NoError(t, ecs.Read(storage, func(healths *ecs.Borrowed[Health]) error {
			for _, h := range healths.All() {
				total += h.Current
			}
			return nil
		}))
		assert.Equal(t, 6, total)
	})

	t.Run("released after error", func(t *testing.T) {
		boom := errors.New("boom")
		err := ecs.Write(storage, func(*ecs.Borrowed[Health]) error { return boom })
		assert.ErrorIs(t, err, boom)

		m, err := ecs.BorrowMut[Health](storage)
		require.NoError(t, err)
		m.Release()
	})

	t.Run("released after panic", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = ecs.Read(storage, func(*ecs.Borrowed[Health]) error { panic("boom") })
		})

		m, err := ecs.BorrowMut[Health](storage)
		require.NoError(t, err)
		m.Release()
	})

	t.Run("nested conflict", func(t *testing.T) {
		err := ecs.Read(storage, func(*ecs.Borrowed[Health]) error {
			return ecs.Write(storage, func(*ecs.Borrowed[Health]) error { return nil })
		})
		assert.ErrorIs(t, err, ecs.ErrBorrowConflict)
	})
}

func TestBorrowedAllOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 130; i++ {
		if i%2 == 1 {
			spawn(storage, Score(i))
		} else {
			storage.CreateEntity()
		}
	}

	scores, err := ecs.Borrow[Score](storage)
	require.NoError(t, err)
	defer scores.Release()

	var got []ecs.EntityId
	for id, score := range scores.All() {
		assert.Equal(t, Score(id), *score)
		got = append(got, id)
	}
	require.Len(t, got, 65)
	assert.Equal(t, ecs.EntityId(1), got[0])
	assert.Equal(t, ecs.EntityId(129), got[64])
}

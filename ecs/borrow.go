package ecs

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strconv"
)

// ErrBorrowConflict is returned when a borrow is requested that would alias an
// outstanding borrow of the same component type.
var ErrBorrowConflict = errors.New("ecs: conflicting component borrow")

// BorrowMode is the kind of access a borrow grants over a component sequence.
type BorrowMode uint8

const (
	// BorrowShared allows any number of concurrent readers.
	BorrowShared BorrowMode = iota
	// BorrowExclusive allows a single writer and nothing else.
	BorrowExclusive
)

func (m BorrowMode) String() string {
	switch m {
	case BorrowShared:
		return "shared"
	case BorrowExclusive:
		return "exclusive"
	}
	return "BorrowMode(" + strconv.Itoa(int(m)) + ")"
}

// borrowState is the per-column borrow flag: free, shared(n) or exclusive.
type borrowState struct {
	shared    int
	exclusive bool
}

func (b *borrowState) free() bool {
	return b.shared == 0 && !b.exclusive
}

func (b *borrowState) acquire(mode BorrowMode) bool {
	switch mode {
	case BorrowShared:
		if b.exclusive {
			return false
		}
		b.shared++
		return true
	case BorrowExclusive:
		if !b.free() {
			return false
		}
		b.exclusive = true
		return true
	}
	return false
}

func (b *borrowState) release(mode BorrowMode) {
	switch mode {
	case BorrowShared:
		if b.shared == 0 {
			panic("ecs: shared borrow released more times than acquired")
		}
		b.shared--
	case BorrowExclusive:
		if !b.exclusive {
			panic("ecs: exclusive borrow released while not held")
		}
		b.exclusive = false
	}
}

func (b *borrowState) String() string {
	switch {
	case b.exclusive:
		return "exclusive"
	case b.shared > 0:
		return "shared(" + strconv.Itoa(b.shared) + ")"
	}
	return "free"
}

func acquireColumn(col iComponentColumn, mode BorrowMode) error {
	state := col.borrowState()
	if !state.acquire(mode) {
		return fmt.Errorf("%w: %s borrow of %s while %s", ErrBorrowConflict, mode, col.componentType(), state)
	}
	return nil
}

// Borrowed is runtime-checked access to the whole sequence of one component
// type. A shared borrow must only be read through; an exclusive borrow may
// mutate the components it returns. Release must be called exactly when the
// access ends; extra calls are no-ops.
type Borrowed[T any] struct {
	storage  *Storage
	column   *column[T]
	mode     BorrowMode
	released bool
}

// Borrow acquires shared access to every T in the storage.
func Borrow[T any](s *Storage) (*Borrowed[T], error) {
	return borrow[T](s, BorrowShared)
}

// BorrowMut acquires exclusive access to every T in the storage.
func BorrowMut[T any](s *Storage) (*Borrowed[T], error) {
	return borrow[T](s, BorrowExclusive)
}

func borrow[T any](s *Storage, mode BorrowMode) (*Borrowed[T], error) {
	col, err := s.column(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	if err := acquireColumn(col, mode); err != nil {
		return nil, err
	}
	return &Borrowed[T]{storage: s, column: col.(*column[T]), mode: mode}, nil
}

// Read runs fn with a shared borrow of T that is released on every exit path.
func Read[T any](s *Storage, fn func(*Borrowed[T]) error) error {
	b, err := Borrow[T](s)
	if err != nil {
		return err
	}
	defer b.Release()
	return fn(b)
}

// Write runs fn with an exclusive borrow of T that is released on every exit path.
func Write[T any](s *Storage, fn func(*Borrowed[T]) error) error {
	b, err := BorrowMut[T](s)
	if err != nil {
		return err
	}
	defer b.Release()
	return fn(b)
}

// Mode reports whether the borrow is shared or exclusive.
func (b *Borrowed[T]) Mode() BorrowMode {
	return b.mode
}

// Len returns the logical length of the sequence, which is always the number of
// entities issued by the storage.
func (b *Borrowed[T]) Len() int {
	b.check()
	return b.storage.Len()
}

// Get returns the component in slot id, or false if the slot is absent.
func (b *Borrowed[T]) Get(id EntityId) (*T, bool) {
	b.check()
	if !b.storage.Contains(id) {
		return nil, false
	}
	ptr := b.column.get(id.Index())
	return ptr, ptr != nil
}

// All iterates the present slots in entity order. Ranging over the sequence
// after Release panics.
func (b *Borrowed[T]) All() iter.Seq2[EntityId, *T] {
	b.check()
	return func(yield func(EntityId, *T) bool) {
		b.check()
		for index := range b.column.iter(b.storage.Len()) {
			if !yield(EntityId(index), b.column.get(index)) {
				return
			}
		}
	}
}

// Release ends the borrow.
func (b *Borrowed[T]) Release() {
	if b.released {
		return
	}
	b.released = true
	b.column.borrow.release(b.mode)
}

func (b *Borrowed[T]) check() {
	if b.released {
		panic("ecs: use of released " + b.mode.String() + " borrow of " + b.column.typ.String())
	}
}

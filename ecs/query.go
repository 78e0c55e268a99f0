package ecs

import (
	"iter"
	"unsafe"
)

// Query wraps a View with caching for repeated iteration.
// The joined entity list is rebuilt only when the storage's structural version changes.
type Query[T any] struct {
	view        *View[T]
	storage     *Storage
	lastVersion uint64

	cachedEntities   []EntityId
	cachedComponents []T
	cacheValid       bool
}

// NewQuery creates a new Query over the storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cacheValid = false
	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]
}

// Execute refreshes the cache if entities or components were added since the
// last call. Called by the Scheduler before the owning system runs.
func (q *Query[T]) Execute() {
	if q.cacheValid && q.lastVersion == q.storage.Version() {
		return
	}

	release, err := q.view.acquire()
	if err != nil {
		panic(err)
	}
	defer release()

	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]

	var result T
	resultPtr := unsafe.Pointer(&result)
	for index := 0; index < q.storage.Len(); index++ {
		id := EntityId(index)
		if !q.view.fill(resultPtr, id) {
			continue
		}
		q.cachedEntities = append(q.cachedEntities, id)
		q.cachedComponents = append(q.cachedComponents, result)
	}

	q.lastVersion = q.storage.Version()
	q.cacheValid = true
}

// Len returns the number of cached matches.
func (q *Query[T]) Len() int {
	return len(q.cachedEntities)
}

// Iter returns an iterator over entity IDs and component data.
// The joined columns are borrowed for the duration of the loop.
// Panics if Execute() has not been called.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.cacheValid {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(EntityId, T) bool) {
		release, err := q.view.acquire()
		if err != nil {
			panic(err)
		}
		defer release()

		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
// Panics if Execute() has not been called.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.cacheValid {
		panic("Query.Values() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for _, item := range q.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}

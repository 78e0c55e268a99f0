package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// iComponentColumn is the type-erased view of a column[T].
type iComponentColumn interface {
	componentType() reflect.Type
	borrowState() *borrowState
	set(index int, item any) bool
	Get(index int) any
	pointer(index int) unsafe.Pointer
	has(index int) bool
	count() int
	iter(limit int) iter.Seq[int]
	release()
}

// Releaser is implemented by components that own resources outside the Go
// heap, such as GPU buffers. Storage.Release and Commands.Discard call it.
type Releaser interface {
	Release()
}

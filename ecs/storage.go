package ecs

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/kamstrup/intmap"
)

var (
	// ErrUnknownEntity is returned for ids that were never issued by the storage.
	ErrUnknownEntity = errors.New("ecs: unknown entity")
	// ErrUnregisteredComponent is returned for component types missing from the registry.
	ErrUnregisteredComponent = errors.New("ecs: component type not registered")
)

// Storage holds one index-aligned column per component type. Every column has
// the same logical length, the number of entities issued so far; slot i of
// each column is entity i's component of that type, if any.
type Storage struct {
	registry *ComponentRegistry
	columns  *intmap.Map[uint64, iComponentColumn]
	order    []iComponentColumn
	nextId   uint32
	version  uint64
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry: registry,
		columns:  intmap.New[uint64, iComponentColumn](len(registry.order)),
	}
}

// Registry returns the component registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// CreateEntity issues the next entity id. No column is touched; every column
// already reads as absent for the new id.
func (s *Storage) CreateEntity() EntityId {
	id := EntityId(s.nextId)
	s.nextId++
	s.version++
	return id
}

// Len returns the number of entities issued, which is the length of every
// component sequence.
func (s *Storage) Len() int {
	return int(s.nextId)
}

// Version changes whenever an entity is created or a component is attached.
func (s *Storage) Version() uint64 {
	return s.version
}

// Contains reports whether id was issued by this storage.
func (s *Storage) Contains(id EntityId) bool {
	return uint32(id) < s.nextId
}

// AddComponent sets the component slot of the given entity, replacing any
// previous value of the same type. The component may be passed by value or
// by pointer; it is copied into the storage either way.
func (s *Storage) AddComponent(id EntityId, component any) error {
	compType := reflect.TypeOf(component)
	if compType == nil {
		return fmt.Errorf("%w: nil component", ErrUnregisteredComponent)
	}
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}

	if !s.Contains(id) {
		return fmt.Errorf("%w: %s (issued %d)", ErrUnknownEntity, id, s.nextId)
	}

	col, err := s.column(compType)
	if err != nil {
		return err
	}

	if state := col.borrowState(); !state.free() {
		return fmt.Errorf("%w: cannot add %s to %s while %s", ErrBorrowConflict, compType, id, state)
	}

	if !col.set(id.Index(), component) {
		return fmt.Errorf("ecs: cannot store %T as %s", component, compType)
	}
	s.version++
	return nil
}

// Add is the typed form of AddComponent.
func Add[T any](s *Storage, id EntityId, component T) error {
	return s.AddComponent(id, &component)
}

// GetComponent returns a pointer to the entity's component of the given type,
// or nil if it has none. It does not take a borrow; use Borrow, Read or
// WithComponent where aliasing matters.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	if !s.Contains(id) {
		return nil
	}
	col, ok := s.columns.Get(typeId(compType))
	if !ok {
		return nil
	}
	return col.Get(id.Index())
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	if !s.Contains(id) {
		return false
	}
	col, ok := s.columns.Get(typeId(compType))
	return ok && col.has(id.Index())
}

// ComponentTypes lists the types present on the entity in registration order.
func (s *Storage) ComponentTypes(id EntityId) []reflect.Type {
	var types []reflect.Type
	for _, t := range s.registry.order {
		if s.HasComponent(id, t) {
			types = append(types, t)
		}
	}
	return types
}

// WithComponent borrows the column of compType in the given mode and calls fn
// with a pointer to the entity's component. fn is not called if the entity
// does not have one.
func (s *Storage) WithComponent(id EntityId, compType reflect.Type, mode BorrowMode, fn func(component any) error) error {
	if !s.Contains(id) {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	col, err := s.column(compType)
	if err != nil {
		return err
	}
	if err := acquireColumn(col, mode); err != nil {
		return err
	}
	defer col.borrowState().release(mode)

	component := col.Get(id.Index())
	if component == nil {
		return nil
	}
	return fn(component)
}

// Release releases every component implementing Releaser and empties the
// storage. Issued ids stay issued.
func (s *Storage) Release() {
	for _, col := range s.order {
		if state := col.borrowState(); !state.free() {
			panic(fmt.Sprintf("ecs: releasing storage while %s is borrowed %s", col.componentType(), state))
		}
		col.release()
	}
	s.version++
}

// column returns the column for a registered type, creating it on first use.
func (s *Storage) column(compType reflect.Type) (iComponentColumn, error) {
	key := typeId(compType)
	if col, ok := s.columns.Get(key); ok {
		return col, nil
	}

	factory := s.registry.getFactory(compType)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredComponent, compType)
	}

	col := factory()
	s.columns.Put(key, col)
	s.order = append(s.order, col)
	return col, nil
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's T, or nil if it has none.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	component, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return component
}

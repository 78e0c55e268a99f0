package debugui

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/plus3/kiln/ecs"
)

// ErrNotEditable is returned when an edit targets a field the inspector
// cannot set.
var ErrNotEditable = errors.New("debugui: field is not editable")

// Edit is a change to one field of a component. Path indexes struct fields
// and array elements from the component root.
type Edit struct {
	Entity ecs.EntityId
	Type   reflect.Type
	Path   []int
	Value  any
}

// Apply sets the field under an exclusive borrow of the component type.
func (e Edit) Apply(storage *ecs.Storage) error {
	return storage.WithComponent(e.Entity, e.Type, ecs.BorrowExclusive, func(component any) error {
		field := reflect.ValueOf(component).Elem()
		for _, i := range e.Path {
			switch field.Kind() {
			case reflect.Struct:
				if i < 0 || i >= field.NumField() {
					return fmt.Errorf("%w: %s has no field %d", ErrNotEditable, field.Type(), i)
				}
				field = field.Field(i)
			case reflect.Array:
				if i < 0 || i >= field.Len() {
					return fmt.Errorf("%w: %s has no element %d", ErrNotEditable, field.Type(), i)
				}
				field = field.Index(i)
			default:
				return fmt.Errorf("%w: cannot descend into %s", ErrNotEditable, field.Type())
			}
		}
		return assign(field, reflect.ValueOf(e.Value))
	})
}

func assign(field, value reflect.Value) error {
	if !field.CanSet() || !value.IsValid() {
		return fmt.Errorf("%w: %s", ErrNotEditable, field.Type())
	}
	switch {
	case isNumber(field.Kind()) && isNumber(value.Kind()):
		if isUnsigned(field.Kind()) && negative(value) {
			return fmt.Errorf("%w: %s cannot hold %v", ErrNotEditable, field.Type(), value)
		}
		field.Set(value.Convert(field.Type()))
	case field.Kind() == value.Kind() && value.Type().AssignableTo(field.Type()):
		field.Set(value)
	case field.Kind() == reflect.String && value.Kind() == reflect.String,
		field.Kind() == reflect.Bool && value.Kind() == reflect.Bool:
		field.Set(value.Convert(field.Type()))
	default:
		return fmt.Errorf("%w: cannot set %s to %s", ErrNotEditable, field.Type(), value.Type())
	}
	return nil
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

func negative(v reflect.Value) bool {
	switch {
	case v.CanInt():
		return v.Int() < 0
	case v.CanFloat():
		return v.Float() < 0
	}
	return false
}

package granary

import (
	"fmt"
	"reflect"
)

type LockedWorldError struct{}

func (e LockedWorldError) Error() string {
	return fmt.Sprintf("world is currently locked")
}

type UnknownEntityError struct {
	Entity EntityID
}

func (e UnknownEntityError) Error() string {
	return fmt.Sprintf("entity does not exist: %d", e.Entity)
}

type ComponentNotFoundError struct {
	ID ComponentID
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity: %d", e.ID)
}

type ColumnTypeError struct {
	Want, Got reflect.Type
}

func (e ColumnTypeError) Error() string {
	return fmt.Sprintf("column element type mismatch: want %v, got %v", e.Want, e.Got)
}

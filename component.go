package granary

import (
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// ComponentID is the 64-bit identity of a component type, derived from its
// name. Two components with the same name always share an id; collisions
// between distinct names are possible but not detected.
type ComponentID uint64

// ComponentIDFor maps a component name to its id. Pure function: no world
// state is consulted, so ids are stable across processes as long as names are.
func ComponentIDFor(name string) ComponentID {
	return ComponentID(xxhash.Sum64String(name))
}

// Component represents a data attribute/state that can be attached to entities
// Components can be used to create queries for entities
type Component interface {
	ID() ComponentID
	Name() string
	ElementType() reflect.Type

	// newColumn binds a fresh empty Column to the component's element type.
	newColumn() Column
}

// ComponentValue pairs a component with a value to write for one entity
type ComponentValue struct {
	Component Component
	Value     any
}

type componentType[T any] struct {
	id   ComponentID
	name string
}

func (c componentType[T]) ID() ComponentID { return c.id }

func (c componentType[T]) Name() string { return c.name }

func (c componentType[T]) ElementType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (c componentType[T]) newColumn() Column {
	return newTypedColumn[T]()
}

package granary

import "reflect"

// Accessor provides the typed fast path into an archetype's column for one
// component type. The concrete type cast happens once per call site and is
// only re-verified when Config.SetCheckedColumnAccess is enabled.
//
// Accessor methods are unchecked: the component must be in the archetype's
// schema and the slot must be live. Returned pointers are invalidated by any
// subsequent structural mutation on the archetype.
type Accessor[T any] struct {
	id ComponentID
}

// Get returns a pointer to the component value at a slot.
func (a Accessor[T]) Get(slot int, arch *Archetype) *T {
	col := arch.columns[arch.ordinals[a.id]]
	if Config.checkedColumnAccess {
		typed, ok := col.(*typedColumn[T])
		if !ok {
			panic(ColumnTypeError{Want: reflect.TypeOf((*T)(nil)).Elem(), Got: col.ElementType()})
		}
		return &typed.data[slot]
	}
	return &col.(*typedColumn[T]).data[slot]
}

// Check reports whether the archetype carries this component.
func (a Accessor[T]) Check(arch *Archetype) bool {
	return arch.HasComponent(a.id)
}

// AccessibleComponent extends a base Component with typed archetype access.
// It provides methods to retrieve component values using different access
// patterns.
type AccessibleComponent[T any] struct {
	Component
	Accessor[T] // concrete.
}

// With pairs the component with a value for AddComponents/SetComponents.
func (c AccessibleComponent[T]) With(value T) ComponentValue {
	return ComponentValue{Component: c.Component, Value: value}
}

// GetFromCursor retrieves the component value for the entity at the cursor
// position.
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	return c.Get(
		cursor.entityIndex-1,
		cursor.currentArchetype,
	)
}

// GetFromCursorSafe safely retrieves a component value, checking that the
// component exists on the cursor's current archetype first.
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	ok := c.Accessor.Check(cursor.currentArchetype)
	if ok {
		return true, c.GetFromCursor(cursor)
	}
	return false, nil
}

// CheckCursor determines if the component exists in the archetype at the
// cursor position.
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return c.Accessor.Check(cursor.currentArchetype)
}

// GetFromWorld retrieves a pointer to the component value for the given
// entity, reporting unknown entities and absent components as distinct
// errors. The pointer is a borrow, valid until the next structural mutation
// on the entity's archetype.
func (c AccessibleComponent[T]) GetFromWorld(world World, e EntityID) (*T, error) {
	arch, slot, err := world.ArchetypeOf(e)
	if err != nil {
		return nil, err
	}
	if !c.Accessor.Check(arch) {
		return nil, ComponentNotFoundError{ID: c.Component.ID()}
	}
	return c.Get(slot, arch), nil
}

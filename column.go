package granary

import "reflect"

// Column is a type-erased, growable, densely packed array holding one
// component type's values, addressed by slot index. Slot indices are shared
// across all columns of an archetype. The concrete element type is bound once
// at creation; operations pairing two columns (CopyElementTo) assume both were
// bound to the same type and do not recheck it unless
// Config.SetCheckedColumnAccess is enabled.
//
// Any mutating operation may reallocate backing storage, invalidating every
// previously obtained element pointer.
type Column interface {
	// EnsureSize grows the Column so slots [0, n) are addressable. Newly
	// grown slots hold unspecified values: callers must write before reading.
	EnsureSize(n int) error

	// SwapRemove removes the value at slot by moving the last live value into
	// its place. The caller owns the occupancy bookkeeping for the move.
	SwapRemove(slot int)

	// CopyElementTo copies one value into a Column of the same element type.
	// The destination slot must already be addressable.
	CopyElementTo(dst Column, srcSlot, dstSlot int)

	// EmptyCopy produces a new empty Column bound to the same element type.
	EmptyCopy() Column

	// Reset empties the Column in place, keeping its binding and capacity.
	Reset()

	Len() int
	ElementType() reflect.Type

	// valueAt and setValueAt are the boxed, checked access path used by the
	// World. The typed fast path goes through Accessor instead.
	valueAt(slot int) any
	setValueAt(slot int, v any) error
}

var _ Column = &typedColumn[int]{}

type typedColumn[T any] struct {
	data []T
}

func newTypedColumn[T any]() Column {
	return &typedColumn[T]{
		data: make([]T, 0, Config.initialColumnCapacity),
	}
}

func (c *typedColumn[T]) EnsureSize(n int) error {
	if n <= len(c.data) {
		return nil
	}
	if n <= cap(c.data) {
		c.data = c.data[:n]
		return nil
	}
	// Grow by doubling or to n, whichever is larger
	newCap := max(n, 2*cap(c.data))
	grown := make([]T, n, newCap)
	copy(grown, c.data)
	c.data = grown
	return nil
}

func (c *typedColumn[T]) SwapRemove(slot int) {
	last := len(c.data) - 1
	c.data[slot] = c.data[last]
	c.data = c.data[:last]
}

func (c *typedColumn[T]) CopyElementTo(dst Column, srcSlot, dstSlot int) {
	if Config.checkedColumnAccess && dst.ElementType() != c.ElementType() {
		panic(ColumnTypeError{Want: c.ElementType(), Got: dst.ElementType()})
	}
	dst.(*typedColumn[T]).data[dstSlot] = c.data[srcSlot]
}

func (c *typedColumn[T]) EmptyCopy() Column {
	return newTypedColumn[T]()
}

func (c *typedColumn[T]) Reset() {
	c.data = c.data[:0]
}

func (c *typedColumn[T]) Len() int {
	return len(c.data)
}

func (c *typedColumn[T]) ElementType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (c *typedColumn[T]) valueAt(slot int) any {
	return c.data[slot]
}

func (c *typedColumn[T]) setValueAt(slot int, v any) error {
	value, ok := v.(T)
	if !ok {
		return ColumnTypeError{Want: c.ElementType(), Got: reflect.TypeOf(v)}
	}
	c.data[slot] = value
	return nil
}

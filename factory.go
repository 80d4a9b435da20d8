package granary

type factory struct{}

var Factory factory

func (f factory) NewWorld() World {
	return newWorld()
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, world World) *Cursor {
	return newCursor(query, world)
}

// FactoryNewComponent declares a component type under the given name. The
// component's id is derived from the name, so components declared with the
// same name are interchangeable across worlds and processes.
func FactoryNewComponent[T any](name string) AccessibleComponent[T] {
	iden := componentType[T]{
		id:   ComponentIDFor(name),
		name: name,
	}
	return AccessibleComponent[T]{
		Component: iden,
		Accessor:  Accessor[T]{id: iden.id},
	}
}

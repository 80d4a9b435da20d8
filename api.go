package granary

import (
	"iter"
)

// World owns entity lifecycle, the archetype registry, and the entity to slot
// index; it is the only component authorized to migrate entities between
// archetypes. A World is not safe for concurrent use; see the package
// documentation for the exact borrowing and locking rules.
type World interface {
	CreateEntity() (EntityID, error)
	CreateEntities(int, ...Component) ([]EntityID, error)
	EnqueueCreateEntities(int, ...Component) error

	AddComponents(EntityID, ...ComponentValue) error
	EnqueueAddComponents(EntityID, ...ComponentValue) error
	RemoveComponents(EntityID, ...ComponentID) error
	EnqueueRemoveComponents(EntityID, ...ComponentID) error
	SetComponents(EntityID, ...ComponentValue) error
	GetComponent(EntityID, ComponentID) (any, bool, error)

	DestroyEntity(EntityID) error
	DestroyEntities(...EntityID) error
	EnqueueDestroyEntities(...EntityID) error
	SetDestroyCallback(EntityID, EntityDestroyCallback) error

	ContainsEntity(EntityID) bool
	EntityCount() int
	ArchetypeOf(EntityID) (*Archetype, int, error)
	Archetypes() []*Archetype
	RowIndexFor(Component) uint32

	Locked() bool
	Lock()
	Unlock()
	AcquireLock() uint32
	AddLock(uint32)
	RemoveLock(uint32)
}

// EntityDestroyCallback runs after an entity has been fully removed.
type EntityDestroyCallback func(EntityID)

type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

type QueryNode interface {
	Evaluate(archetype *Archetype, world World) bool
}

type iCursor interface {
	Entities() iter.Seq2[int, *Archetype]
	Next() bool
}

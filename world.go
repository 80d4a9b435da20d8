package granary

import (
	"fmt"
	"math/bits"

	"github.com/TheBitDrifter/mask"
)

var _ World = &world{}

type world struct {
	locks      uint64
	nextEntity EntityID
	locations  map[EntityID]location
	archetypes *archetypeRegistry
	rows       *schemaRows
	opQueue    opQueue
	onDestroy  map[EntityID]EntityDestroyCallback
}

func newWorld() World {
	w := &world{
		locations:  make(map[EntityID]location),
		archetypes: newArchetypeRegistry(),
		rows:       newSchemaRows(),
		opQueue:    newOpQueue(),
		onDestroy:  make(map[EntityID]EntityDestroyCallback),
	}
	w.archetypes.register(newEmptyArchetype(w.archetypes.next()))
	return w
}

// emptyArchetype returns the canonical zero-component archetype, always the
// first registered.
func (w *world) emptyArchetype() *Archetype {
	return w.archetypes.get(1)
}

func (w *world) CreateEntity() (EntityID, error) {
	if w.Locked() {
		return 0, LockedWorldError{}
	}
	empty := w.emptyArchetype()
	id := w.nextEntity + 1
	slot, err := empty.reserveSlot(id)
	if err != nil {
		return 0, fmt.Errorf("failed to place entity: %w", err)
	}
	w.nextEntity = id
	w.locations[id] = location{archetype: empty.id, slot: slot}
	return id, nil
}

func (w *world) CreateEntities(n int, components ...Component) ([]EntityID, error) {
	if w.Locked() {
		return nil, LockedWorldError{}
	}
	arch := w.getOrCreateArchetype(components)
	entities := make([]EntityID, n)
	for i := 0; i < n; i++ {
		id := w.nextEntity + 1
		slot, err := arch.reserveSlot(id)
		if err != nil {
			// All-or-nothing: undo the slots and map entries reserved so far
			for j := 0; j < i; j++ {
				arch.releaseSlot(arch.Len() - 1)
				delete(w.locations, entities[j])
			}
			return nil, fmt.Errorf("failed to place entity: %w", err)
		}
		w.nextEntity = id
		w.locations[id] = location{archetype: arch.id, slot: slot}
		entities[i] = id
	}
	return entities, nil
}

func (w *world) EnqueueCreateEntities(n int, components ...Component) error {
	if !w.Locked() {
		_, err := w.CreateEntities(n, components...)
		if err != nil {
			return fmt.Errorf("failed to create entities directly: %w", err)
		}
		return nil
	}
	w.opQueue.createOps = append(w.opQueue.createOps, operation{
		typ:    opCreate,
		amount: n,
		comps:  components,
	})
	return nil
}

// AddComponents attaches or updates components on an entity. Ids not yet on
// the entity's archetype trigger a migration to the matching destination
// archetype (created lazily if absent); ids already present are updated in
// place. Argument values are written after migration copying, so they always
// win over stale copied values for the same id.
func (w *world) AddComponents(e EntityID, values ...ComponentValue) error {
	if w.Locked() {
		return LockedWorldError{}
	}
	loc, ok := w.locations[e]
	if !ok {
		return UnknownEntityError{Entity: e}
	}
	src := w.archetypes.get(loc.archetype)

	var added []ComponentValue
	for _, cv := range values {
		if !src.HasComponent(cv.Component.ID()) {
			added = append(added, cv)
		}
	}

	dest := src
	slot := loc.slot
	if len(added) > 0 {
		dest = w.getOrCreateArchetypeWithAdded(src, added)
		newSlot, err := dest.reserveSlot(e)
		if err != nil {
			return fmt.Errorf("failed to reserve destination slot: %w", err)
		}
		for _, id := range src.ids {
			src.Column(id).CopyElementTo(dest.Column(id), loc.slot, newSlot)
		}
		if movedEntity, moved := src.releaseSlot(loc.slot); moved {
			w.locations[movedEntity] = location{archetype: src.id, slot: loc.slot}
		}
		w.locations[e] = location{archetype: dest.id, slot: newSlot}
		slot = newSlot
	}

	for _, cv := range values {
		if err := dest.writeComponent(slot, cv.Component.ID(), cv.Value); err != nil {
			return fmt.Errorf("failed to write component %q: %w", cv.Component.Name(), err)
		}
	}
	return nil
}

// EnqueueAddComponents defers an AddComponents call while the world is
// locked, applying it directly otherwise. One pending component op is held
// per entity: a later queued add or remove for the same entity replaces the
// earlier batch wholesale, and a queued destroy cancels it.
func (w *world) EnqueueAddComponents(e EntityID, values ...ComponentValue) error {
	if !w.Locked() {
		return w.AddComponents(e, values...)
	}
	w.opQueue.enqueueComponentOp(operation{typ: opAddComponents, entity: e, values: values})
	return nil
}

// RemoveComponents detaches components from an entity, migrating it to the
// archetype without those ids. Every id must be present on the entity's
// archetype. Removing the last component routes the entity back to the
// canonical empty archetype.
func (w *world) RemoveComponents(e EntityID, ids ...ComponentID) error {
	if w.Locked() {
		return LockedWorldError{}
	}
	loc, ok := w.locations[e]
	if !ok {
		return UnknownEntityError{Entity: e}
	}
	src := w.archetypes.get(loc.archetype)

	removed := normalizeIDs(ids)
	for _, id := range removed {
		if !src.HasComponent(id) {
			return ComponentNotFoundError{ID: id}
		}
	}
	if len(removed) == 0 {
		return nil
	}

	dest := w.getOrCreateArchetypeWithout(src, removed)
	newSlot, err := dest.reserveSlot(e)
	if err != nil {
		return fmt.Errorf("failed to reserve destination slot: %w", err)
	}
	for _, id := range dest.ids {
		src.Column(id).CopyElementTo(dest.Column(id), loc.slot, newSlot)
	}
	if movedEntity, moved := src.releaseSlot(loc.slot); moved {
		w.locations[movedEntity] = location{archetype: src.id, slot: loc.slot}
	}
	w.locations[e] = location{archetype: dest.id, slot: newSlot}
	return nil
}

// EnqueueRemoveComponents defers a RemoveComponents call while the world is
// locked, applying it directly otherwise. Replacement semantics match
// EnqueueAddComponents: the newest queued op per entity wins.
func (w *world) EnqueueRemoveComponents(e EntityID, ids ...ComponentID) error {
	if !w.Locked() {
		return w.RemoveComponents(e, ids...)
	}
	w.opQueue.enqueueComponentOp(operation{typ: opRemoveComponents, entity: e, ids: ids})
	return nil
}

// SetComponents updates component values in place, never migrating. Every id
// must already be present on the entity's archetype; an absent id is a
// checked ComponentNotFoundError, and nothing is written when any id is
// absent. SetComponents is non-structural and permitted while locked.
func (w *world) SetComponents(e EntityID, values ...ComponentValue) error {
	loc, ok := w.locations[e]
	if !ok {
		return UnknownEntityError{Entity: e}
	}
	arch := w.archetypes.get(loc.archetype)
	for _, cv := range values {
		if !arch.HasComponent(cv.Component.ID()) {
			return ComponentNotFoundError{ID: cv.Component.ID()}
		}
	}
	for _, cv := range values {
		if err := arch.writeComponent(loc.slot, cv.Component.ID(), cv.Value); err != nil {
			return fmt.Errorf("failed to write component %q: %w", cv.Component.Name(), err)
		}
	}
	return nil
}

// GetComponent returns the boxed value of a component on an entity. The
// second result is false when the id is not in the entity's schema; an
// unknown entity is a distinct, reported error.
func (w *world) GetComponent(e EntityID, id ComponentID) (any, bool, error) {
	loc, ok := w.locations[e]
	if !ok {
		return nil, false, UnknownEntityError{Entity: e}
	}
	arch := w.archetypes.get(loc.archetype)
	if !arch.HasComponent(id) {
		return nil, false, nil
	}
	return arch.readComponent(loc.slot, id), true, nil
}

// DestroyEntity releases the entity's slot (correcting the location of any
// entity swapped into it) and then erases the identity map entry, in that
// order. A registered destroy callback fires after removal completes.
func (w *world) DestroyEntity(e EntityID) error {
	if w.Locked() {
		return LockedWorldError{}
	}
	loc, ok := w.locations[e]
	if !ok {
		return UnknownEntityError{Entity: e}
	}
	arch := w.archetypes.get(loc.archetype)
	if movedEntity, moved := arch.releaseSlot(loc.slot); moved {
		w.locations[movedEntity] = location{archetype: arch.id, slot: loc.slot}
	}
	delete(w.locations, e)

	if callback, registered := w.onDestroy[e]; registered {
		delete(w.onDestroy, e)
		callback(e)
	}
	return nil
}

func (w *world) DestroyEntities(entities ...EntityID) error {
	for _, e := range entities {
		if err := w.DestroyEntity(e); err != nil {
			return fmt.Errorf("failed to destroy entity %d: %w", e, err)
		}
	}
	return nil
}

func (w *world) EnqueueDestroyEntities(entities ...EntityID) error {
	if !w.Locked() {
		return w.DestroyEntities(entities...)
	}
	w.opQueue.enqueueDestroy(entities)
	return nil
}

func (w *world) SetDestroyCallback(e EntityID, callback EntityDestroyCallback) error {
	if _, ok := w.locations[e]; !ok {
		return UnknownEntityError{Entity: e}
	}
	w.onDestroy[e] = callback
	return nil
}

func (w *world) ContainsEntity(e EntityID) bool {
	_, ok := w.locations[e]
	return ok
}

func (w *world) EntityCount() int {
	return len(w.locations)
}

func (w *world) Archetypes() []*Archetype {
	return w.archetypes.asSlice
}

// ArchetypeOf returns the archetype and slot currently holding the entity.
// The slot is a borrow: it is invalidated by any structural mutation on the
// returned archetype.
func (w *world) ArchetypeOf(e EntityID) (*Archetype, int, error) {
	loc, ok := w.locations[e]
	if !ok {
		return nil, 0, UnknownEntityError{Entity: e}
	}
	return w.archetypes.get(loc.archetype), loc.slot, nil
}

func (w *world) RowIndexFor(c Component) uint32 {
	return w.rows.rowFor(c.ID())
}

func (w *world) Locked() bool {
	return w.locks != 0
}

func (w *world) Lock() {
	w.locks |= 1
}

// AcquireLock claims the lowest unclaimed lock bit and returns it. Each open
// cursor holds its own bit, so the operation queue drains only when the last
// holder releases via RemoveLock.
func (w *world) AcquireLock() uint32 {
	bit := uint32(bits.TrailingZeros64(^w.locks)) % 64
	w.locks |= 1 << bit
	return bit
}

func (w *world) Unlock() {
	w.locks = 0
	err := w.processOperationQueue()
	if err != nil {
		panic(err)
	}
}

func (w *world) AddLock(bit uint32) {
	w.locks |= 1 << (bit % 64)
}

func (w *world) RemoveLock(bit uint32) {
	w.locks &^= 1 << (bit % 64)
	if w.locks == 0 {
		err := w.processOperationQueue()
		if err != nil {
			panic(err)
		}
	}
}

// getOrCreateArchetype resolves the archetype for an exact component set,
// building it with fresh columns when no archetype has its signature yet.
func (w *world) getOrCreateArchetype(components []Component) *Archetype {
	ids := make([]ComponentID, len(components))
	for i, c := range components {
		ids[i] = c.ID()
	}
	ids = normalizeIDs(ids)

	var archMask mask.Mask
	for _, id := range ids {
		archMask.Mark(w.rows.rowFor(id))
	}
	if found, ok := w.archetypes.byMask(archMask); ok {
		return found
	}

	columns := make([]Column, len(ids))
	for i, id := range ids {
		for _, c := range components {
			if c.ID() == id {
				columns[i] = c.newColumn()
				break
			}
		}
	}
	created := newArchetype(w.archetypes.next(), archMask, ids, columns)
	w.archetypes.register(created)
	return created
}

// getOrCreateArchetypeWithAdded resolves the destination archetype for a
// migration extending src's schema, probing by signature before deriving.
func (w *world) getOrCreateArchetypeWithAdded(src *Archetype, added []ComponentValue) *Archetype {
	addedIDs := make([]ComponentID, len(added))
	for i, cv := range added {
		addedIDs[i] = cv.Component.ID()
	}
	if found, ok := w.archetypes.bySignature(src.SignatureWithAdded(addedIDs...)); ok {
		return found
	}

	destMask := src.Mask()
	for _, id := range addedIDs {
		destMask.Mark(w.rows.rowFor(id))
	}
	created := src.deriveWithAdded(w.archetypes.next(), destMask, added)
	w.archetypes.register(created)
	return created
}

// getOrCreateArchetypeWithout is the removal counterpart.
func (w *world) getOrCreateArchetypeWithout(src *Archetype, removed []ComponentID) *Archetype {
	if found, ok := w.archetypes.bySignature(src.SignatureWithout(removed...)); ok {
		return found
	}

	destMask := src.Mask()
	for _, id := range removed {
		destMask.Unmark(w.rows.rowFor(id))
	}
	created := src.deriveWithout(w.archetypes.next(), destMask, removed)
	w.archetypes.register(created)
	return created
}

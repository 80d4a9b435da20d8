package granary

import (
	"iter"
	"slices"

	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
)

type archetypeID uint32

// Archetype holds every entity sharing one exact component-id set, one column
// per component plus an occupancy list mapping slot index to entity identity.
// Schema and signature are fixed at creation; only slot contents mutate.
//
// Slot indices are unstable: releasing a slot moves the last entity into it.
// Direct read/write methods are the unchecked fast path: the caller must
// have validated slot liveness and component membership beforehand.
type Archetype struct {
	id        archetypeID
	signature Signature
	mask      mask.Mask
	ids       []ComponentID // sorted, deduplicated schema
	columns   []Column      // parallel to ids
	ordinals  map[ComponentID]int
	entities  []EntityID
}

func newArchetype(id archetypeID, m mask.Mask, ids []ComponentID, columns []Column) *Archetype {
	ordinals := make(map[ComponentID]int, len(ids))
	for i, cid := range ids {
		ordinals[cid] = i
	}
	return &Archetype{
		id:        id,
		signature: signatureOfSorted(ids),
		mask:      m,
		ids:       ids,
		columns:   columns,
		ordinals:  ordinals,
	}
}

// newEmptyArchetype builds the canonical zero-component archetype. Every
// world contains exactly one, created at world construction.
func newEmptyArchetype(id archetypeID) *Archetype {
	return newArchetype(id, mask.Mask{}, nil, nil)
}

func (a *Archetype) ID() uint32 {
	return uint32(a.id)
}

// Signature returns the content-addressed identity of the archetype's
// component set.
func (a *Archetype) Signature() Signature {
	return a.signature
}

// Mask returns the world-local membership mask over schema row indices.
func (a *Archetype) Mask() mask.Mask {
	return a.mask
}

// Len returns the number of live entities in the archetype.
func (a *Archetype) Len() int {
	return len(a.entities)
}

// EntityAt returns the entity currently occupying the given slot.
func (a *Archetype) EntityAt(slot int) EntityID {
	return a.entities[slot]
}

// ComponentIDs yields the schema in ascending id order.
func (a *Archetype) ComponentIDs() iter.Seq[ComponentID] {
	return func(yield func(ComponentID) bool) {
		for _, id := range a.ids {
			if !yield(id) {
				return
			}
		}
	}
}

func (a *Archetype) HasComponent(id ComponentID) bool {
	_, ok := a.ordinals[id]
	return ok
}

func (a *Archetype) HasAllComponents(ids ...ComponentID) bool {
	for _, id := range ids {
		if !a.HasComponent(id) {
			return false
		}
	}
	return true
}

// Column returns the raw column for a component id, or nil if the id is not
// in the schema. Intended for bulk iteration layers that resolve a column
// once per archetype instead of once per entity.
func (a *Archetype) Column(id ComponentID) Column {
	ordinal, ok := a.ordinals[id]
	if !ok {
		return nil
	}
	return a.columns[ordinal]
}

// SignatureWithAdded returns the signature this archetype would have if its
// schema were extended with the given ids, without mutating the archetype.
func (a *Archetype) SignatureWithAdded(ids ...ComponentID) Signature {
	merged := append(iter_util.Collect(a.ComponentIDs()), ids...)
	return signatureOfSorted(normalizeIDs(merged))
}

// SignatureWithout returns the signature this archetype would have with the
// given ids dropped from its schema.
func (a *Archetype) SignatureWithout(ids ...ComponentID) Signature {
	remaining := make([]ComponentID, 0, len(a.ids))
	for _, id := range a.ids {
		if !slices.Contains(ids, id) {
			remaining = append(remaining, id)
		}
	}
	return signatureOfSorted(remaining)
}

// deriveWithAdded builds a new archetype whose schema is this schema plus the
// added components' ids. Pre-existing ids get empty schema-matching columns;
// new ids get columns bound to the added components' element types. No entity
// data is copied; migration copying is the world's responsibility.
func (a *Archetype) deriveWithAdded(id archetypeID, m mask.Mask, added []ComponentValue) *Archetype {
	merged := iter_util.Collect(a.ComponentIDs())
	for _, cv := range added {
		merged = append(merged, cv.Component.ID())
	}
	merged = normalizeIDs(merged)

	columns := make([]Column, len(merged))
	for i, cid := range merged {
		if ordinal, ok := a.ordinals[cid]; ok {
			columns[i] = a.columns[ordinal].EmptyCopy()
			continue
		}
		for _, cv := range added {
			if cv.Component.ID() == cid {
				columns[i] = cv.Component.newColumn()
				break
			}
		}
	}
	return newArchetype(id, m, merged, columns)
}

// deriveWithout builds a new archetype with the given ids dropped; analogous
// non-copying contract to deriveWithAdded.
func (a *Archetype) deriveWithout(id archetypeID, m mask.Mask, removed []ComponentID) *Archetype {
	remaining := make([]ComponentID, 0, len(a.ids))
	columns := make([]Column, 0, len(a.ids))
	for i, cid := range a.ids {
		if slices.Contains(removed, cid) {
			continue
		}
		remaining = append(remaining, cid)
		columns = append(columns, a.columns[i].EmptyCopy())
	}
	return newArchetype(id, m, remaining, columns)
}

// reserveSlot appends an occupancy entry for the entity, grows every column
// to address the new slot, and returns the slot index. All-or-nothing: a
// column growth failure shrinks the columns already grown in this call back
// to their pre-call length and rolls the occupancy append back.
func (a *Archetype) reserveSlot(e EntityID) (int, error) {
	slot := len(a.entities)
	a.entities = append(a.entities, e)
	for i, col := range a.columns {
		if err := col.EnsureSize(slot + 1); err != nil {
			for j := 0; j < i; j++ {
				a.columns[j].SwapRemove(slot)
			}
			a.entities = a.entities[:slot]
			return 0, err
		}
	}
	return slot, nil
}

// releaseSlot swap-removes the occupancy entry and every column at the slot
// in lock-step. If a different entity was moved into the vacated slot, it is
// returned with moved=true; the caller must update its external index for
// that entity before relying on slot positions again.
func (a *Archetype) releaseSlot(slot int) (movedEntity EntityID, moved bool) {
	last := len(a.entities) - 1
	movedEntity = a.entities[last]
	a.entities[slot] = movedEntity
	a.entities = a.entities[:last]
	for _, col := range a.columns {
		col.SwapRemove(slot)
	}
	if slot == last {
		return 0, false
	}
	return movedEntity, true
}

// readComponent is the unchecked read path: id must be in the schema and
// slot must be live.
func (a *Archetype) readComponent(slot int, id ComponentID) any {
	return a.columns[a.ordinals[id]].valueAt(slot)
}

// writeComponent is the boxed write path: id must be in the schema and slot
// must be live. The value's dynamic type is verified against the column.
func (a *Archetype) writeComponent(slot int, id ComponentID, v any) error {
	return a.columns[a.ordinals[id]].setValueAt(slot, v)
}

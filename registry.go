package granary

import (
	"fmt"

	"github.com/TheBitDrifter/mask"
)

// maxSchemaRows bounds the number of distinct component types one world can
// ever see, fixed by the mask width used for archetype membership.
const maxSchemaRows = 64

// archetypeRegistry owns every archetype of one world, addressable by
// ordinal, by signature, and by membership mask. Archetypes are registered
// once and never removed; empty archetypes persist for the world's lifetime.
type archetypeRegistry struct {
	nextID           archetypeID
	asSlice          []*Archetype
	idsBySignature   map[Signature]archetypeID
	idsGroupedByMask map[mask.Mask]archetypeID
}

func newArchetypeRegistry() *archetypeRegistry {
	return &archetypeRegistry{
		nextID:           1,
		idsBySignature:   make(map[Signature]archetypeID),
		idsGroupedByMask: make(map[mask.Mask]archetypeID),
	}
}

// next returns the ordinal the next registered archetype will receive.
func (r *archetypeRegistry) next() archetypeID {
	return r.nextID
}

func (r *archetypeRegistry) register(a *Archetype) {
	r.asSlice = append(r.asSlice, a)
	r.idsBySignature[a.signature] = a.id
	r.idsGroupedByMask[a.mask] = a.id
	r.nextID++
}

func (r *archetypeRegistry) get(id archetypeID) *Archetype {
	return r.asSlice[id-1]
}

func (r *archetypeRegistry) bySignature(sig Signature) (*Archetype, bool) {
	id, ok := r.idsBySignature[sig]
	if !ok {
		return nil, false
	}
	return r.asSlice[id-1], true
}

func (r *archetypeRegistry) byMask(m mask.Mask) (*Archetype, bool) {
	id, ok := r.idsGroupedByMask[m]
	if !ok {
		return nil, false
	}
	return r.asSlice[id-1], true
}

// schemaRows assigns each distinct component id a dense row index used as its
// mask bit. Rows are handed out in first-seen order, per world.
type schemaRows struct {
	rows map[ComponentID]uint32
}

func newSchemaRows() *schemaRows {
	return &schemaRows{rows: make(map[ComponentID]uint32, maxSchemaRows)}
}

func (s *schemaRows) rowFor(id ComponentID) uint32 {
	if row, ok := s.rows[id]; ok {
		return row
	}
	if len(s.rows) >= maxSchemaRows {
		panic(fmt.Sprintf("cannot register component %d: maximum number of component types (%d) reached", id, maxSchemaRows))
	}
	row := uint32(len(s.rows))
	s.rows[id] = row
	return row
}

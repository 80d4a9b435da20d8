package granary

import (
	"iter"
)

var _ iCursor = &Cursor{}

// Cursor walks every entity in the archetypes matched by a query. While a
// cursor is live (between its first Next and Reset) it holds a lock bit on
// the world: structural mutations fail or must go through the Enqueue
// variants, which drain once the last open cursor finishes.
type Cursor struct {
	// The query to filter archetypes
	query QueryNode

	// The world to iterate over
	world World

	// Current iteration state
	currentArchetype *Archetype
	archetypeIndex   int
	entityIndex      int
	remaining        int

	// Initialization state
	initialized bool
	lockBit     uint32
	matched     []*Archetype
}

func newCursor(query QueryNode, world World) *Cursor {
	return &Cursor{
		query: query,
		world: world,
	}
}

func (c *Cursor) Next() bool {
	if c.entityIndex < c.remaining {
		c.entityIndex++
		return true
	}
	return c.advance()
}

func (c *Cursor) advance() bool {
	if !c.initialized {
		c.initialize()
	}
	for c.archetypeIndex < len(c.matched) {
		c.currentArchetype = c.matched[c.archetypeIndex]
		c.remaining = c.currentArchetype.Len()

		if c.entityIndex < c.remaining {
			c.entityIndex++
			return true
		}
		c.archetypeIndex++
		c.entityIndex = 0
	}
	c.Reset()
	return false
}

// Entities yields (slot, archetype) pairs for every matched entity.
func (c *Cursor) Entities() iter.Seq2[int, *Archetype] {
	return func(yield func(int, *Archetype) bool) {
		c.initialize()

		for c.archetypeIndex < len(c.matched) {
			c.currentArchetype = c.matched[c.archetypeIndex]
			c.remaining = c.currentArchetype.Len()

			for c.entityIndex < c.remaining {
				if !yield(c.entityIndex, c.currentArchetype) {
					c.Reset()
					return
				}
				c.entityIndex++
			}
			c.entityIndex = 0
			c.archetypeIndex++
		}
		c.Reset()
	}
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.lockBit = c.world.AcquireLock()
	c.matched = make([]*Archetype, 0)

	// Find all matching archetypes
	for _, arch := range c.world.Archetypes() {
		if c.query.Evaluate(arch, c.world) {
			c.matched = append(c.matched, arch)
		}
	}
	if len(c.matched) > 0 {
		c.archetypeIndex = 0
		c.currentArchetype = c.matched[0]
		c.remaining = c.currentArchetype.Len()
	}
	c.initialized = true
}

// Reset rewinds the cursor and releases its lock bit. Queued operations
// drain once the last open cursor on the world has released.
func (c *Cursor) Reset() {
	c.archetypeIndex = 0
	c.entityIndex = 0
	c.remaining = 0
	c.matched = nil
	if c.initialized {
		c.initialized = false
		c.world.RemoveLock(c.lockBit)
	}
}

// CurrentSlot returns the slot index of the entity the cursor is on.
func (c *Cursor) CurrentSlot() int {
	return c.entityIndex - 1
}

// CurrentArchetype returns the archetype the cursor is walking.
func (c *Cursor) CurrentArchetype() *Archetype {
	return c.currentArchetype
}

// CurrentEntity returns the identity of the entity the cursor is on.
func (c *Cursor) CurrentEntity() EntityID {
	return c.currentArchetype.EntityAt(c.entityIndex - 1)
}

func (c *Cursor) RemainingInArchetype() int {
	return c.remaining - c.entityIndex
}

func (c *Cursor) TotalMatched() int {
	if !c.initialized {
		c.initialize()
	}
	total := 0
	for _, arch := range c.matched {
		total += arch.Len()
	}
	return total
}

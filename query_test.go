package granary

import (
	"testing"
)

// TestQueryFiltering tests the basic query filtering capabilities
func TestQueryFiltering(t *testing.T) {
	posComp := FactoryNewComponent[Position]("position")
	velComp := FactoryNewComponent[Velocity]("velocity")
	healthComp := FactoryNewComponent[Health]("health")

	type entitySetup struct {
		components []Component
		count      int
	}

	tests := []struct {
		name            string
		entitySetups    []entitySetup
		queryType       string // "and", "or", "not", "complex"
		queryComponents []Component
		expectedMatches int
	}{
		{
			name: "And query matches exact",
			entitySetups: []entitySetup{
				{[]Component{posComp, velComp}, 5},
				{[]Component{posComp}, 10},
				{[]Component{velComp}, 15},
			},
			queryType:       "and",
			queryComponents: []Component{posComp, velComp},
			expectedMatches: 5,
		},
		{
			name: "Or query matches either",
			entitySetups: []entitySetup{
				{[]Component{posComp, velComp}, 5},
				{[]Component{posComp}, 10},
				{[]Component{velComp}, 15},
			},
			queryType:       "or",
			queryComponents: []Component{posComp, velComp},
			expectedMatches: 30, // 5 + 10 + 15
		},
		{
			name: "Not query excludes",
			entitySetups: []entitySetup{
				{[]Component{posComp, velComp}, 5},
				{[]Component{posComp}, 10},
				{[]Component{velComp}, 15},
				{[]Component{healthComp}, 20},
			},
			queryType:       "not",
			queryComponents: []Component{velComp},
			expectedMatches: 30, // 10 + 20
		},
		{
			name: "Complex query",
			entitySetups: []entitySetup{
				{[]Component{posComp, velComp, healthComp}, 5},
				{[]Component{posComp, velComp}, 10},
				{[]Component{posComp, healthComp}, 15},
				{[]Component{velComp, healthComp}, 20},
				{[]Component{posComp}, 25},
				{[]Component{velComp}, 30},
				{[]Component{healthComp}, 35},
			},
			queryType:       "complex",
			queryComponents: []Component{posComp, velComp, healthComp},
			expectedMatches: 30, // (P AND V) OR (P AND H) = 10 + 15 + 5 (counted once)
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := Factory.NewWorld()

			for _, setup := range tt.entitySetups {
				_, err := world.CreateEntities(setup.count, setup.components...)
				if err != nil {
					t.Fatalf("Failed to create entities: %v", err)
				}
			}

			query := Factory.NewQuery()
			var queryNode QueryNode

			switch tt.queryType {
			case "and":
				interfaceComponents := make([]interface{}, len(tt.queryComponents))
				for i, comp := range tt.queryComponents {
					interfaceComponents[i] = comp
				}
				queryNode = query.And(interfaceComponents...)
			case "or":
				interfaceComponents := make([]interface{}, len(tt.queryComponents))
				for i, comp := range tt.queryComponents {
					interfaceComponents[i] = comp
				}
				queryNode = query.Or(interfaceComponents...)
			case "not":
				interfaceComponents := make([]interface{}, len(tt.queryComponents))
				for i, comp := range tt.queryComponents {
					interfaceComponents[i] = comp
				}
				queryNode = query.Not(interfaceComponents...)
			case "complex":
				// (Position AND Velocity) OR (Position AND Health)
				andQuery1 := query.And(posComp, velComp)
				andQuery2 := query.And(posComp, healthComp)
				queryNode = query.Or(andQuery1, andQuery2)
			}

			cursor := Factory.NewCursor(queryNode, world)
			matches := 0
			for cursor.Next() {
				matches++
			}

			if matches != tt.expectedMatches {
				t.Errorf("Matched %d entities, want %d", matches, tt.expectedMatches)
			}
		})
	}
}

// TestCursorSeesMigratedEntities verifies cursor matching reflects archetype
// membership after component changes.
func TestCursorSeesMigratedEntities(t *testing.T) {
	posComp := FactoryNewComponent[Position]("position")
	velComp := FactoryNewComponent[Velocity]("velocity")

	world := Factory.NewWorld()
	entities, _ := world.CreateEntities(4, posComp)

	query := Factory.NewQuery()
	node := query.And(posComp, velComp)

	cursor := Factory.NewCursor(node, world)
	if cursor.TotalMatched() != 0 {
		t.Fatalf("TotalMatched() = %d before migration, want 0", cursor.TotalMatched())
	}
	cursor.Reset()

	world.AddComponents(entities[0], velComp.With(Velocity{X: 1}))
	world.AddComponents(entities[2], velComp.With(Velocity{X: 2}))

	cursor = Factory.NewCursor(node, world)
	seen := map[EntityID]bool{}
	for cursor.Next() {
		seen[cursor.CurrentEntity()] = true
	}
	if len(seen) != 2 || !seen[entities[0]] || !seen[entities[2]] {
		t.Errorf("Cursor matched %v, want exactly {%d, %d}", seen, entities[0], entities[2])
	}
}

// TestNestedCursorsHoldIndependentLocks verifies each cursor holds its own
// lock bit: an inner cursor finishing must not unlock the world or drain
// queued destroys out from under an outer cursor still iterating.
func TestNestedCursorsHoldIndependentLocks(t *testing.T) {
	posComp := FactoryNewComponent[Position]("position")

	world := Factory.NewWorld()
	entities, _ := world.CreateEntities(3, posComp)
	for i, e := range entities {
		world.SetComponents(e, posComp.With(Position{X: float64(i)}))
	}

	query := Factory.NewQuery()
	node := query.And(posComp)

	outer := Factory.NewCursor(node, world)
	visited := 0
	for outer.Next() {
		visited++
		if visited == 1 {
			world.EnqueueDestroyEntities(entities[1], entities[2])

			inner := Factory.NewCursor(node, world)
			innerCount := 0
			for inner.Next() {
				innerCount++
			}
			if innerCount != 3 {
				t.Fatalf("Inner cursor visited %d entities, want 3", innerCount)
			}
			if !world.Locked() {
				t.Fatalf("World unlocked while the outer cursor is still open")
			}
			if world.EntityCount() != 3 {
				t.Fatalf("Queued destroys drained while the outer cursor is still open")
			}
		}
		// Slot access must stay in bounds for the rest of the walk
		_ = posComp.GetFromCursor(outer)
	}
	if visited != 3 {
		t.Errorf("Outer cursor visited %d entities, want 3", visited)
	}
	if world.Locked() {
		t.Errorf("World still locked after all cursors finished")
	}
	if world.EntityCount() != 1 {
		t.Errorf("EntityCount() = %d after drain, want 1", world.EntityCount())
	}
}

// TestCursorEntitiesIterator exercises the range-over-func iteration surface.
func TestCursorEntitiesIterator(t *testing.T) {
	posComp := FactoryNewComponent[Position]("position")

	world := Factory.NewWorld()
	world.CreateEntities(6, posComp)

	query := Factory.NewQuery()
	node := query.And(posComp)
	cursor := Factory.NewCursor(node, world)

	count := 0
	for slot, arch := range cursor.Entities() {
		if arch.EntityAt(slot) == 0 {
			t.Errorf("Iterator yielded a dead slot")
		}
		count++
	}
	if count != 6 {
		t.Errorf("Iterator yielded %d entities, want 6", count)
	}
	if world.Locked() {
		t.Errorf("World still locked after iterator drained")
	}
}

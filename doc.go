/*
Package granary provides archetype-based columnar storage for entity/component data.

Granary groups entities by their exact set of attached component types. Entities
sharing a component set live in the same archetype, stored column-per-component
for cache-friendly bulk iteration. Adding or removing components migrates an
entity's data between archetypes in O(components) with swap-remove slot reuse.

Core Concepts:

  - Entity: an opaque, never-reused 64-bit identity managed by a World.
  - Component: a typed value attached to an entity, identified by a name-derived id.
  - Archetype: a table holding every entity with one exact component set.
  - Signature: the content-addressed 64-bit identity of an archetype's component set.
  - Query: a mask-based filter selecting archetypes by component membership.

Basic Usage:

	// Create a world
	world := granary.Factory.NewWorld()

	// Define components
	position := granary.FactoryNewComponent[Position]("position")
	velocity := granary.FactoryNewComponent[Velocity]("velocity")

	// Create an entity and attach data
	player, _ := world.CreateEntity()
	world.AddComponents(player,
		position.With(Position{X: 0, Y: 15}),
		velocity.With(Velocity{X: 20, Y: 5}),
	)

	// Query entities and process them
	query := granary.Factory.NewQuery()
	node := query.And(position, velocity)
	cursor := granary.Factory.NewCursor(node, world)

	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

A World is single-threaded: no mutating call may run concurrently with any other
call on the same World. Pointers returned by component accessors stay valid only
until the next structural mutation on the owning archetype.
*/
package granary

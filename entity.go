package granary

// EntityID is an opaque entity identity: monotonically assigned by a World,
// never reused, carrying no payload. Zero is never a valid identity.
type EntityID uint64

// location records where an entity's data currently lives. The slot is
// unstable: swap-remove reuse may hand it to a different entity, and the
// world rewrites the moved entity's location whenever that happens.
type location struct {
	archetype archetypeID
	slot      int
}

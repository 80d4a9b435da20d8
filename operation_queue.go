package granary

import (
	"fmt"
)

type operation struct {
	typ      operationType
	amount   int
	comps    []Component
	values   []ComponentValue
	ids      []ComponentID
	entity   EntityID
	entities []EntityID
}

type operationType int

const (
	opCreate operationType = iota
	opDestroy
	opAddComponents
	opRemoveComponents
)

// opQueue buffers structural mutations requested while the world is locked by
// an open cursor. Ops drain on final unlock: creates first, then component
// ops, then destroys. A pending destroy cancels the entity's component ops.
type opQueue struct {
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[EntityID]struct{}
	pendingMods    map[EntityID]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[EntityID]struct{}),
		pendingMods:    make(map[EntityID]int),
	}
}

func (w *world) processOperationQueue() error {
	if len(w.opQueue.createOps) == 0 &&
		len(w.opQueue.componentOps) == 0 &&
		len(w.opQueue.destroyOps) == 0 {
		return nil
	}

	// Process creates first
	for _, op := range w.opQueue.createOps {
		if _, err := w.CreateEntities(op.amount, op.comps...); err != nil {
			return fmt.Errorf("failed to process queued entity creation: %w", err)
		}
	}

	// Process component modifications
	for _, op := range w.opQueue.componentOps {
		// Verify the entity hasn't been destroyed in the meantime
		if !w.ContainsEntity(op.entity) {
			continue
		}
		switch op.typ {
		case opAddComponents:
			if err := w.AddComponents(op.entity, op.values...); err != nil {
				return fmt.Errorf("failed to add queued components: %w", err)
			}
		case opRemoveComponents:
			if err := w.RemoveComponents(op.entity, op.ids...); err != nil {
				return fmt.Errorf("failed to remove queued components: %w", err)
			}
		}
	}

	// Process destroys last
	for _, op := range w.opQueue.destroyOps {
		for _, e := range op.entities {
			if !w.ContainsEntity(e) {
				continue
			}
			if err := w.DestroyEntity(e); err != nil {
				return fmt.Errorf("failed to destroy queued entity: %w", err)
			}
		}
	}

	// Clear all queues
	w.opQueue.createOps = w.opQueue.createOps[:0]
	w.opQueue.componentOps = w.opQueue.componentOps[:0]
	w.opQueue.destroyOps = w.opQueue.destroyOps[:0]
	clear(w.opQueue.pendingDestroy)
	clear(w.opQueue.pendingMods)
	return nil
}

func (q *opQueue) enqueueDestroy(entities []EntityID) {
	// Filter out already queued entities
	var newEntities []EntityID
	for _, e := range entities {
		if _, exists := q.pendingDestroy[e]; exists {
			continue
		}
		newEntities = append(newEntities, e)
		q.pendingDestroy[e] = struct{}{}

		// Cancel any pending component operations for this entity
		if idx, hasMods := q.pendingMods[e]; hasMods {
			q.componentOps[idx].typ = -1
			delete(q.pendingMods, e)
		}
	}

	if len(newEntities) > 0 {
		q.destroyOps = append(q.destroyOps, operation{
			typ:      opDestroy,
			entities: newEntities,
		})
	}
}

func (q *opQueue) enqueueComponentOp(op operation) {
	// If the entity is pending destroy, ignore component operations
	if _, isDestroyed := q.pendingDestroy[op.entity]; isDestroyed {
		return
	}

	// If the entity already has a pending component operation, the newest wins
	if existingIdx, exists := q.pendingMods[op.entity]; exists {
		q.componentOps[existingIdx] = op
		return
	}

	q.pendingMods[op.entity] = len(q.componentOps)
	q.componentOps = append(q.componentOps, op)
}

package ecs

import "github.com/milk9111/tilephysics/ecs/component"

// KindID is satisfied by every component.ComponentKind.
type KindID interface {
	ID() component.ComponentID
}

// Query returns the live entities that carry every listed kind, iterating the
// smallest store.
func (w *World) Query(kinds ...KindID) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	stores := make([]componentStore, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.store(k.ID())
		if !ok || s.len() == 0 {
			return nil
		}
		stores = append(stores, s)
	}
	smallest := stores[0]
	for _, s := range stores[1:] {
		if s.len() < smallest.len() {
			smallest = s
		}
	}

	out := make([]Entity, 0, smallest.len())
outer:
	for _, e := range smallest.entities() {
		if !w.IsAlive(e) {
			continue
		}
		for _, s := range stores {
			if !s.has(e) {
				continue outer
			}
		}
		out = append(out, e)
	}
	return out
}

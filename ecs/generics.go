package ecs

import "github.com/milk9111/tilephysics/ecs/component"

// Add attaches value to e, replacing any existing component of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	storeFor(w, kind, true).set(e, value)
	return nil
}

// Remove detaches the component of the given kind and reports whether it existed.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := storeFor(w, kind, false)
	if s == nil {
		return false
	}
	return s.remove(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := storeFor(w, kind, false)
	return s != nil && s.has(e)
}

// Get returns the stored pointer so callers mutate the component in place.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	s := storeFor(w, kind, false)
	if s == nil {
		return nil, false
	}
	return s.get(e)
}

// Count returns how many entities carry the given kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	s := storeFor(w, kind, false)
	if s == nil {
		return 0
	}
	return s.len()
}

// First returns any entity carrying the given kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s := storeFor(w, kind, false)
	if s == nil || s.len() == 0 {
		return 0, false
	}
	return s.dense[0], true
}

// ForEach calls fn for every entity with the given kind. The entity list is
// snapshotted first so fn may add or remove components.
func ForEach[A any](w *World, ka component.ComponentKind[A], fn func(Entity, *A)) {
	sa := storeFor(w, ka, false)
	if sa == nil {
		return
	}
	for _, e := range snapshot(sa.entities()) {
		a, ok := sa.get(e)
		if !ok || !IsAlive(w, e) {
			continue
		}
		fn(e, a)
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa, sb := storeFor(w, ka, false), storeFor(w, kb, false)
	if sa == nil || sb == nil {
		return
	}
	for _, e := range snapshot(sa.entities()) {
		a, ok := sa.get(e)
		if !ok || !IsAlive(w, e) {
			continue
		}
		b, ok := sb.get(e)
		if !ok {
			continue
		}
		fn(e, a, b)
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sc := storeFor(w, kc, false)
	if sc == nil {
		return
	}
	ForEach2(w, ka, kb, func(e Entity, a *A, b *B) {
		if c, ok := sc.get(e); ok {
			fn(e, a, b, c)
		}
	})
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sd := storeFor(w, kd, false)
	if sd == nil {
		return
	}
	ForEach3(w, ka, kb, kc, func(e Entity, a *A, b *B, c *C) {
		if d, ok := sd.get(e); ok {
			fn(e, a, b, c, d)
		}
	})
}

func snapshot(ents []Entity) []Entity {
	return append([]Entity(nil), ents...)
}

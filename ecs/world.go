package ecs

import (
	"github.com/kamstrup/intmap"
	"github.com/milk9111/tilephysics/ecs/component"
)

// World owns entities, their components, the frame event queue and the frame delta.
type World struct {
	entities entityStore
	stores   *intmap.Map[component.ComponentID, componentStore]
	events   EventQueue
	delta    float64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores: intmap.New[component.ComponentID, componentStore](32),
	}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot. It reports
// whether e was alive.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	w.stores.ForEach(func(_ component.ComponentID, s componentStore) bool {
		s.remove(e)
		return true
	})
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	return w.entities.all()
}

func (w *World) CreateEntity() Entity       { return CreateEntity(w) }
func (w *World) DestroyEntity(e Entity) bool { return DestroyEntity(w, e) }
func (w *World) IsAlive(e Entity) bool       { return IsAlive(w, e) }

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetDeltaTime records the length of the current frame in seconds.
func (w *World) SetDeltaTime(dt float64) {
	if w == nil {
		return
	}
	w.delta = dt
}

// DeltaTime returns the length of the current frame in seconds.
func (w *World) DeltaTime() float64 {
	if w == nil {
		return 0
	}
	return w.delta
}

func (w *World) store(id component.ComponentID) (componentStore, bool) {
	return w.stores.Get(id)
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if s, ok := w.stores.Get(kind.ID()); ok {
		typed, _ := s.(*sparseSet[T])
		return typed
	}
	if !create {
		return nil
	}
	s := newSparseSet[T]()
	w.stores.Put(kind.ID(), s)
	return s
}

var (
	ErrEntityNotAlive       = component.ErrEntityNotAlive
	ErrNilComponent         = component.ErrNilComponent
	ErrInvalidComponentKind = component.ErrInvalidComponentKind
)

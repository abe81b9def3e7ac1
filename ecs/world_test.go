package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/tilephysics/ecs/component"
)

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex < 0 {
				return
			}
			if !DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("second DestroyEntity should return false")
			}
			if len(Entities(w)) != c.create-1 {
				t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
			}
		})
	}
}

func TestEntityIDReuseBumpsGeneration(t *testing.T) {
	w := NewWorld()
	first := CreateEntity(w)
	if !DestroyEntity(w, first) {
		t.Fatal("failed to destroy entity")
	}
	second := CreateEntity(w)

	if second.id() != first.id() {
		t.Fatalf("expected id %d to be reused, got %d", first.id(), second.id())
	}
	if second.generation() == first.generation() {
		t.Fatalf("expected a new generation, both are %d", first.generation())
	}
	if IsAlive(w, first) {
		t.Fatalf("stale handle %s should not be alive", first)
	}
	if !IsAlive(w, second) {
		t.Fatalf("new handle %s should be alive", second)
	}
}

func TestComponents(t *testing.T) {
	w := NewWorld()
	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	transforms := component.TransformComponent.Kind()
	velocities := component.LinearVelocityComponent.Kind()

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "transform_on_e1",
			setup: func() error { return Add(w, e1, transforms, &component.Transform{X: 10, Y: -4}) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, transforms)
				if !ok || v.X != 10 || v.Y != -4 {
					t.Fatalf("expected (10,-4), got %+v ok=%v", v, ok)
				}
				if Has(w, e2, transforms) {
					t.Fatalf("e2 should not have a transform")
				}
			},
			teardown: func() bool { return Remove(w, e1, transforms) },
		},
		{
			name: "velocity_on_both",
			setup: func() error {
				if err := Add(w, e1, velocities, &component.LinearVelocity{X: 1}); err != nil {
					return err
				}
				return Add(w, e2, velocities, &component.LinearVelocity{Y: 2})
			},
			check: func(t *testing.T) {
				if Count(w, velocities) != 2 {
					t.Fatalf("expected 2 velocities, got %d", Count(w, velocities))
				}
			},
			teardown: func() bool { return Remove(w, e1, velocities) && Remove(w, e2, velocities) },
		},
		{
			name: "replace_value",
			setup: func() error {
				if err := Add(w, e1, transforms, &component.Transform{X: 1}); err != nil {
					return err
				}
				return Add(w, e1, transforms, &component.Transform{X: 2})
			},
			check: func(t *testing.T) {
				v, _ := Get(w, e1, transforms)
				if v.X != 2 || Count(w, transforms) != 1 {
					t.Fatalf("expected single transform with X=2, got %+v count=%d", v, Count(w, transforms))
				}
			},
			teardown: func() bool { return Remove(w, e1, transforms) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	alive := CreateEntity(w)
	dead := CreateEntity(w)
	DestroyEntity(w, dead)

	tests := []struct {
		name string
		err  error
		add  func() error
	}{
		{"nil_value", ErrNilComponent, func() error {
			return Add[component.Transform](w, alive, component.TransformComponent.Kind(), nil)
		}},
		{"dead_entity", ErrEntityNotAlive, func() error {
			return Add(w, dead, component.TransformComponent.Kind(), &component.Transform{})
		}},
		{"zero_kind", ErrInvalidComponentKind, func() error {
			return Add(w, alive, component.ComponentKind[component.Transform]{}, &component.Transform{})
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.add(); !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
		})
	}
}

func TestDestroyRemovesComponents(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	if err := Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Width: 16, Height: 16}); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, e)

	if Count(w, component.ColliderComponent.Kind()) != 0 {
		t.Fatalf("expected collider store to be empty after destroy")
	}
	if _, ok := First(w, component.ColliderComponent.Kind()); ok {
		t.Fatalf("First should find nothing after destroy")
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	kind := component.TransformComponent.Kind()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	if err := Add(w, e1, kind, &component.Transform{X: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := Add(w, e3, kind, &component.Transform{X: 3}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	seen := map[Entity]float64{}
	ForEach(w, kind, func(e Entity, tr *component.Transform) { seen[e] = tr.X })

	if len(seen) != 2 || seen[e1] != 1 || seen[e3] != 3 {
		t.Fatalf("unexpected ForEach result %v", seen)
	}
	if _, ok := seen[e2]; ok {
		t.Fatalf("did not expect e2 in ForEach result")
	}
}

func TestForEachToleratesDestroy(t *testing.T) {
	w := NewWorld()
	kind := component.TransformComponent.Kind()
	for i := 0; i < 4; i++ {
		if err := Add(w, CreateEntity(w), kind, &component.Transform{}); err != nil {
			t.Fatal(err)
		}
	}

	visited := 0
	ForEach(w, kind, func(e Entity, _ *component.Transform) {
		visited++
		DestroyEntity(w, e)
	})

	if visited != 4 {
		t.Fatalf("expected 4 visits, got %d", visited)
	}
	if Count(w, kind) != 0 {
		t.Fatalf("expected every transform removed, %d left", Count(w, kind))
	}
}

func TestForEachIntersections(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "three_kinds",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)

				tk := component.TransformComponent.Kind()
				rk := component.RigidBodyComponent.Kind()
				ck := component.ColliderComponent.Kind()

				mustAdd(t, Add(w, e1, tk, &component.Transform{}))
				mustAdd(t, Add(w, e2, tk, &component.Transform{}))
				mustAdd(t, Add(w, e2, rk, &component.RigidBody{}))
				mustAdd(t, Add(w, e2, ck, &component.Collider{}))
				mustAdd(t, Add(w, e3, ck, &component.Collider{}))

				var res []Entity
				ForEach3(w, tk, rk, ck, func(e Entity, _ *component.Transform, _ *component.RigidBody, _ *component.Collider) {
					res = append(res, e)
				})
				if len(res) != 1 || res[0].id() != e2.id() {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "four_kinds_ignore_dead",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				tk := component.TransformComponent.Kind()
				pk := component.PlayerComponent.Kind()
				ik := component.InputComponent.Kind()
				vk := component.LinearVelocityComponent.Kind()

				mustAdd(t, Add(w, e, tk, &component.Transform{}))
				mustAdd(t, Add(w, e, pk, &component.Player{}))
				mustAdd(t, Add(w, e, ik, &component.Input{}))
				mustAdd(t, Add(w, e, vk, &component.LinearVelocity{}))

				count := 0
				ForEach4(w, tk, pk, ik, vk, func(Entity, *component.Transform, *component.Player, *component.Input, *component.LinearVelocity) {
					count++
				})
				if count != 1 {
					t.Fatalf("expected 1 match, got %d", count)
				}

				DestroyEntity(w, e)
				count = 0
				ForEach4(w, tk, pk, ik, vk, func(Entity, *component.Transform, *component.Player, *component.Input, *component.LinearVelocity) {
					count++
				})
				if count != 0 {
					t.Fatalf("expected no match after destroy, got %d", count)
				}
			},
		},
		{
			name: "missing_store",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				mustAdd(t, Add(w, e, component.TransformComponent.Kind(), &component.Transform{}))

				var res []Entity
				ForEach2(w, component.TransformComponent.Kind(), component.CameraComponent.Kind(), func(e Entity, _ *component.Transform, _ *component.Camera) {
					res = append(res, e)
				})
				if len(res) != 0 {
					t.Fatalf("expected empty when other store missing, got %v", res)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestQuery(t *testing.T) {
	w := NewWorld()
	a := CreateEntity(w)
	b := CreateEntity(w)

	mustAdd(t, Add(w, a, component.TransformComponent.Kind(), &component.Transform{}))
	mustAdd(t, Add(w, a, component.SpriteComponent.Kind(), &component.Sprite{}))
	mustAdd(t, Add(w, b, component.TransformComponent.Kind(), &component.Transform{}))

	got := w.Query(component.TransformComponent.Kind(), component.SpriteComponent.Kind())
	if len(got) != 1 || got[0] != a {
		t.Fatalf("expected [%s], got %v", a, got)
	}
	if all := w.Query(component.TransformComponent.Kind()); len(all) != 2 {
		t.Fatalf("expected 2 transforms, got %v", all)
	}
	if none := w.Query(component.CameraComponent.Kind()); len(none) != 0 {
		t.Fatalf("expected no cameras, got %v", none)
	}
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
}

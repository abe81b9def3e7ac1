package system

import (
	"github.com/jakecoffman/cp"
	"github.com/kamstrup/intmap"
	"github.com/milk9111/tilephysics/ecs"
	"github.com/milk9111/tilephysics/ecs/component"
)

const defaultIterations = 10

// PhysicsSystem mirrors rigid bodies and colliders into a Chipmunk space, steps
// it by the frame delta and writes poses and velocities back.
type PhysicsSystem struct {
	space *cp.Space

	bodies    *intmap.Map[ecs.Entity, *bodyInfo]
	colliders *intmap.Map[ecs.Entity, *colliderInfo]
}

type bodyInfo struct {
	body   *cp.Body
	static bool
	locked bool

	// pose last written to the Transform, used to spot external teleports
	lastX, lastY, lastRot float64
}

type colliderInfo struct {
	owner ecs.Entity
	shape *cp.Shape
}

func NewPhysicsSystem(gravityX, gravityY float64, iterations int) *PhysicsSystem {
	if iterations <= 0 {
		iterations = defaultIterations
	}
	space := cp.NewSpace()
	space.Iterations = uint(iterations)
	space.SetGravity(cp.Vector{X: gravityX, Y: gravityY})
	return &PhysicsSystem{
		space:     space,
		bodies:    intmap.New[ecs.Entity, *bodyInfo](64),
		colliders: intmap.New[ecs.Entity, *colliderInfo](64),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.cleanupEntities(w)
	ps.syncBodies(w)
	ps.syncColliders(w)
	ps.pushState(w)

	if dt := w.DeltaTime(); dt > 0 {
		ps.space.Step(dt)
	}

	ps.pullState(w)
}

func (ps *PhysicsSystem) syncBodies(w *ecs.World) {
	for _, e := range w.Query(component.RigidBodyComponent.Kind(), component.TransformComponent.Kind()) {
		if ps.bodies.Has(e) {
			continue
		}
		rb, _ := ecs.Get(w, e, component.RigidBodyComponent.Kind())
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())

		info := &bodyInfo{lastX: t.X, lastY: t.Y, lastRot: t.Rotation}
		switch rb.Type {
		case component.BodyStatic:
			info.static = true
			info.body = ps.space.StaticBody
		default:
			mass := rb.Mass
			if mass <= 0 {
				mass = 1
			}
			locked := false
			if la, ok := ecs.Get(w, e, component.LockedAxesComponent.Kind()); ok {
				locked = la.Rotation
			}
			moment := cp.INFINITY
			if !locked {
				moment = momentFor(w, e, mass)
			}
			body := cp.NewBody(mass, moment)
			body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
			body.SetAngle(t.Rotation)
			ps.space.AddBody(body)
			info.body = body
			info.locked = locked
		}
		rb.Body = info.body
		ps.bodies.Put(e, info)
	}
}

// syncColliders attaches each collider to its own body or, failing that, to its
// parent's body using the child transform as the local offset.
func (ps *PhysicsSystem) syncColliders(w *ecs.World) {
	ecs.ForEach(w, component.ColliderComponent.Kind(), func(e ecs.Entity, col *component.Collider) {
		if ps.colliders.Has(e) {
			return
		}

		owner := e
		local := cp.NewTransformIdentity()
		if !ps.bodies.Has(e) {
			parent, ok := ecs.Get(w, e, component.ParentComponent.Kind())
			if !ok {
				return
			}
			owner = ecs.Entity(parent.Entity)
			if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
				local = cp.NewTransformRigid(cp.Vector{X: t.X, Y: t.Y}, t.Rotation)
			}
		}
		info, ok := ps.bodies.Get(owner)
		if !ok {
			return
		}
		rb, ok := ecs.Get(w, owner, component.RigidBodyComponent.Kind())
		if !ok {
			return
		}

		if info.static {
			// static shapes live on the space's static body, so bake the owner pose in
			ot, ok := ecs.Get(w, owner, component.TransformComponent.Kind())
			if !ok {
				return
			}
			local = cp.NewTransformRigid(cp.Vector{X: ot.X, Y: ot.Y}, ot.Rotation).Mult(local)
		}

		shape := cp.NewPolyShape(info.body, 4, boxVerts(col.Width, col.Height), local, 0)
		shape.SetFriction(rb.Friction)
		shape.SetElasticity(rb.Elasticity)
		ps.space.AddShape(shape)

		col.Shape = shape
		ps.colliders.Put(e, &colliderInfo{owner: owner, shape: shape})
	})
}

// pushState copies game-side changes into the simulation before stepping.
func (ps *PhysicsSystem) pushState(w *ecs.World) {
	ps.bodies.ForEach(func(e ecs.Entity, info *bodyInfo) bool {
		if info.static {
			return true
		}
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			if t.X != info.lastX || t.Y != info.lastY || t.Rotation != info.lastRot {
				info.body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
				info.body.SetAngle(t.Rotation)
				info.lastX, info.lastY, info.lastRot = t.X, t.Y, t.Rotation
			}
		}
		if lv, ok := ecs.Get(w, e, component.LinearVelocityComponent.Kind()); ok {
			info.body.SetVelocity(lv.X, lv.Y)
		}
		if info.locked {
			info.body.SetAngularVelocity(0)
		}
		return true
	})
}

// pullState writes simulated poses and velocities back to the components.
func (ps *PhysicsSystem) pullState(w *ecs.World) {
	ps.bodies.ForEach(func(e ecs.Entity, info *bodyInfo) bool {
		if info.static {
			return true
		}
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			pos := info.body.Position()
			t.X = pos.X
			t.Y = pos.Y
			t.Rotation = info.body.Angle()
			info.lastX, info.lastY, info.lastRot = t.X, t.Y, t.Rotation
		}
		if lv, ok := ecs.Get(w, e, component.LinearVelocityComponent.Kind()); ok {
			v := info.body.Velocity()
			lv.X = v.X
			lv.Y = v.Y
		}
		return true
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	var deadColliders []ecs.Entity
	ps.colliders.ForEach(func(e ecs.Entity, info *colliderInfo) bool {
		if !w.IsAlive(e) || !ecs.Has(w, e, component.ColliderComponent.Kind()) || !ps.ownerAlive(w, info.owner) {
			deadColliders = append(deadColliders, e)
		}
		return true
	})
	for _, e := range deadColliders {
		info, _ := ps.colliders.Get(e)
		ps.space.RemoveShape(info.shape)
		ps.colliders.Del(e)
	}

	var deadBodies []ecs.Entity
	ps.bodies.ForEach(func(e ecs.Entity, _ *bodyInfo) bool {
		if !ps.ownerAlive(w, e) {
			deadBodies = append(deadBodies, e)
		}
		return true
	})
	for _, e := range deadBodies {
		info, _ := ps.bodies.Get(e)
		if !info.static {
			ps.space.RemoveBody(info.body)
		}
		ps.bodies.Del(e)
	}
}

func (ps *PhysicsSystem) ownerAlive(w *ecs.World, e ecs.Entity) bool {
	return w.IsAlive(e) && ecs.Has(w, e, component.RigidBodyComponent.Kind())
}

func momentFor(w *ecs.World, e ecs.Entity, mass float64) float64 {
	moment := 0.0
	add := func(c ecs.Entity) {
		if col, ok := ecs.Get(w, c, component.ColliderComponent.Kind()); ok {
			moment += cp.MomentForBox(mass, col.Width, col.Height)
		}
	}
	add(e)
	if children, ok := ecs.Get(w, e, component.ChildrenComponent.Kind()); ok {
		for _, c := range children.Entities {
			add(ecs.Entity(c))
		}
	}
	if moment <= 0 {
		moment = cp.MomentForBox(mass, 1, 1)
	}
	return moment
}

func boxVerts(width, height float64) []cp.Vector {
	hw, hh := width/2, height/2
	return []cp.Vector{
		{X: hw, Y: hh},
		{X: hw, Y: -hh},
		{X: -hw, Y: -hh},
		{X: -hw, Y: hh},
	}
}

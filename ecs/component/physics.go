package component

import "github.com/jakecoffman/cp"

type BodyType int

const (
	// BodyStatic never moves and is not simulated, but other bodies collide with it.
	BodyStatic BodyType = iota
	// BodyDynamic is integrated by the physics step.
	BodyDynamic
)

func (t BodyType) String() string {
	switch t {
	case BodyStatic:
		return "static"
	case BodyDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// RigidBody marks an entity as simulated. Body is filled in by the physics system.
type RigidBody struct {
	Type       BodyType
	Mass       float64
	Friction   float64
	Elasticity float64

	Body *cp.Body
}

var RigidBodyComponent = NewComponent[RigidBody]()

// Collider is an axis-aligned box in the entity's local frame. A collider on an
// entity with a Parent attaches to the parent's body.
type Collider struct {
	Width  float64
	Height float64

	Shape *cp.Shape
}

var ColliderComponent = NewComponent[Collider]()

// LockedAxes stops the physics step from changing orientation.
type LockedAxes struct {
	Rotation bool
}

var LockedAxesComponent = NewComponent[LockedAxes]()

// LinearVelocity is in world units per second.
type LinearVelocity struct {
	X float64
	Y float64
}

var LinearVelocityComponent = NewComponent[LinearVelocity]()

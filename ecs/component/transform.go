package component

// Transform is a world-space pose. For an entity with a Parent it is the pose
// relative to the parent.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()

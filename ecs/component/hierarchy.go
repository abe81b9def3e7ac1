package component

// Parent links a child entity to the entity that owns it. Entity holds an
// ecs.Entity handle.
type Parent struct {
	Entity uint64
}

var ParentComponent = NewComponent[Parent]()

type Children struct {
	Entities []uint64
}

var ChildrenComponent = NewComponent[Children]()

package system

import (
	"github.com/milk9111/tilephysics/ecs"
	"github.com/milk9111/tilephysics/ecs/component"
)

// ControlSystem turns the player's input into velocity, resets and exit requests.
// Horizontal velocity is recomputed from scratch every frame; vertical velocity is
// only overwritten on a fresh jump press and otherwise left to physics.
type ControlSystem struct{}

func NewControlSystem() *ControlSystem {
	return &ControlSystem{}
}

func (c *ControlSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	e, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	lv, ok := ecs.Get(w, e, component.LinearVelocityComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	player, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	input, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		return
	}

	dt := w.DeltaTime()

	switch {
	case input.MoveLeft:
		lv.X = -player.Speed * dt
	case input.MoveRight:
		lv.X = player.Speed * dt
	default:
		lv.X = 0
	}

	if input.JumpPressed {
		lv.Y = -player.Speed * player.JumpFactor * dt
	}

	if input.ExitPressed {
		w.Events().Push(ecs.Event{Type: ecs.EventAppExit, Data: e})
	}

	if input.ResetPressed {
		t.X = player.SpawnX
		t.Y = player.SpawnY
		t.Rotation = player.SpawnRotation
	}
}

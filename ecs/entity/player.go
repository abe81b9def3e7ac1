package entity

import (
	"errors"
	"fmt"

	"github.com/milk9111/tilephysics/ecs"
	"github.com/milk9111/tilephysics/ecs/component"
	"github.com/milk9111/tilephysics/prefabs"
)

// PlayerPrefab is the prefab file the player is built from.
const PlayerPrefab = "player.yaml"

var ErrPlayerExists = errors.New("player: a player entity already exists")

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	spec, err := prefabs.LoadEntityBuildSpec(PlayerPrefab)
	if err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}
	return SpawnPlayer(w, spec)
}

// SpawnPlayer builds the player and its collider child from spec. The player
// must carry the player tag, a player component and a dynamic rigid body.
func SpawnPlayer(w *ecs.World, spec prefabs.EntityBuildSpec) (ecs.Entity, error) {
	if _, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
		return 0, ErrPlayerExists
	}

	e, err := BuildEntityFromSpec(w, PlayerPrefab, spec)
	if err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}

	if !ecs.Has(w, e, component.PlayerTagComponent.Kind()) || !ecs.Has(w, e, component.PlayerComponent.Kind()) {
		destroyTree(w, e)
		return 0, fmt.Errorf("player: prefab must define player_tag and player")
	}
	body, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
	if !ok || body.Type != component.BodyDynamic {
		destroyTree(w, e)
		return 0, fmt.Errorf("player: prefab must define a dynamic rigid_body")
	}
	if !ecs.Has(w, e, component.LinearVelocityComponent.Kind()) {
		if err := ecs.Add(w, e, component.LinearVelocityComponent.Kind(), &component.LinearVelocity{}); err != nil {
			destroyTree(w, e)
			return 0, fmt.Errorf("player: %w", err)
		}
	}
	return e, nil
}

// ApplyPlayerTuning copies speed, jump factor and spawn pose from spec onto the
// existing player without rebuilding it.
func ApplyPlayerTuning(w *ecs.World, spec prefabs.EntityBuildSpec) error {
	e, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return fmt.Errorf("player: no player entity")
	}
	player, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return fmt.Errorf("player: missing player component")
	}

	if raw, ok := spec.Components["player"]; ok {
		ps, err := prefabs.DecodeComponentSpec[playerSpec](raw)
		if err != nil {
			return fmt.Errorf("player: decode player spec: %w", err)
		}
		player.Speed = ps.Speed
		player.JumpFactor = ps.JumpFactor
	}
	if raw, ok := spec.Components["transform"]; ok {
		ts, err := prefabs.DecodeComponentSpec[transformSpec](raw)
		if err != nil {
			return fmt.Errorf("player: decode transform spec: %w", err)
		}
		player.SpawnX = ts.X
		player.SpawnY = ts.Y
		player.SpawnRotation = ts.Radians()
	}
	return nil
}

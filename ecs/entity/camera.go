package entity

import (
	"fmt"

	"github.com/milk9111/tilephysics/ecs"
)

func NewCamera(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "camera.yaml")
}

func NewCameraAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	entity, err := NewCamera(w)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, x, y, 0); err != nil {
		return 0, fmt.Errorf("camera: override transform: %w", err)
	}
	return entity, nil
}

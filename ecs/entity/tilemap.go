package entity

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilephysics/ecs"
	"github.com/milk9111/tilephysics/ecs/component"
	"github.com/milk9111/tilephysics/prefabs"
)

// SpawnTilemap creates the tilemap entity and one entity per cell. Every cell
// carries the tile data, a sprite cut from texture (nil skips drawing) and a
// static box collider the size of the cell, positioned at the cell centre of a
// grid centred on the world origin.
func SpawnTilemap(w *ecs.World, spec prefabs.TilemapSpec, texture *ebiten.Image) (ecs.Entity, error) {
	if spec.Width <= 0 || spec.Height <= 0 || spec.TileW <= 0 || spec.TileH <= 0 {
		return 0, fmt.Errorf("tilemap: invalid grid %dx%d of %vx%v", spec.Width, spec.Height, spec.TileW, spec.TileH)
	}

	tm := ecs.CreateEntity(w)
	grid := &component.Tilemap{
		Width:   spec.Width,
		Height:  spec.Height,
		TileW:   spec.TileW,
		TileH:   spec.TileH,
		OriginX: -float64(spec.Width) * spec.TileW / 2,
		OriginY: -float64(spec.Height) * spec.TileH / 2,
		Storage: make([]uint64, spec.Width*spec.Height),
	}

	source, useSource := tileSource(texture, spec)

	for x := 0; x < spec.Width; x++ {
		for y := 0; y < spec.Height; y++ {
			cx, cy := grid.CellCenter(x, y)

			e := ecs.CreateEntity(w)
			if err := ecs.Add(w, e, component.TileComponent.Kind(), &component.Tile{
				X:            x,
				Y:            y,
				TextureIndex: spec.TextureIndex,
				Tilemap:      uint64(tm),
			}); err != nil {
				return 0, fmt.Errorf("tilemap: tile (%d,%d): %w", x, y, err)
			}
			if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
				X:      cx,
				Y:      cy,
				ScaleX: 1,
				ScaleY: 1,
			}); err != nil {
				return 0, fmt.Errorf("tilemap: tile (%d,%d): %w", x, y, err)
			}
			if err := ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{
				Type:     component.BodyStatic,
				Friction: spec.Friction,
			}); err != nil {
				return 0, fmt.Errorf("tilemap: tile (%d,%d): %w", x, y, err)
			}
			if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
				Width:  spec.TileW,
				Height: spec.TileH,
			}); err != nil {
				return 0, fmt.Errorf("tilemap: tile (%d,%d): %w", x, y, err)
			}
			if texture != nil {
				if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
					Image:     texture,
					Source:    source,
					UseSource: useSource,
					OriginX:   spec.TileW / 2,
					OriginY:   spec.TileH / 2,
				}); err != nil {
					return 0, fmt.Errorf("tilemap: tile (%d,%d): %w", x, y, err)
				}
			}
			grid.Set(x, y, uint64(e))
		}
	}

	if err := ecs.Add(w, tm, component.TilemapComponent.Kind(), grid); err != nil {
		return 0, fmt.Errorf("tilemap: %w", err)
	}
	return tm, nil
}

// tileSource returns the region of texture holding spec.TextureIndex, reading
// the texture as a row-major sheet of tile-sized cells.
func tileSource(texture *ebiten.Image, spec prefabs.TilemapSpec) (image.Rectangle, bool) {
	if texture == nil {
		return image.Rectangle{}, false
	}
	return TileSourceRect(texture.Bounds().Dx(), texture.Bounds().Dy(), int(spec.TileW), int(spec.TileH), spec.TextureIndex)
}

// TileSourceRect locates tile index idx in an imgW×imgH sheet of tileW×tileH cells.
func TileSourceRect(imgW, imgH, tileW, tileH, idx int) (image.Rectangle, bool) {
	if tileW <= 0 || tileH <= 0 || idx < 0 {
		return image.Rectangle{}, false
	}
	tilesX := imgW / tileW
	if tilesX <= 0 {
		return image.Rectangle{}, false
	}
	srcX := (idx % tilesX) * tileW
	srcY := (idx / tilesX) * tileH
	if srcX+tileW > imgW || srcY+tileH > imgH {
		return image.Rectangle{}, false
	}
	return image.Rect(srcX, srcY, srcX+tileW, srcY+tileH), true
}

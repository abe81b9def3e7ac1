package entity

import (
	"image"
	"testing"

	"github.com/milk9111/tilephysics/ecs"
	"github.com/milk9111/tilephysics/ecs/component"
	"github.com/milk9111/tilephysics/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groundSpec() prefabs.TilemapSpec {
	return prefabs.TilemapSpec{Name: "ground", Width: 32, Height: 1, TileW: 16, TileH: 16, Friction: 0.7}
}

func TestSpawnTilemapOneColliderPerCell(t *testing.T) {
	w := ecs.NewWorld()
	tm, err := SpawnTilemap(w, groundSpec(), nil)
	require.NoError(t, err)

	grid, ok := ecs.Get(w, tm, component.TilemapComponent.Kind())
	require.True(t, ok)
	require.Len(t, grid.Storage, 32)
	assert.Equal(t, 32, ecs.Count(w, component.TileComponent.Kind()))

	for x := 0; x < 32; x++ {
		stored, ok := grid.At(x, 0)
		require.True(t, ok, "cell %d empty", x)
		e := ecs.Entity(stored)

		tile, ok := ecs.Get(w, e, component.TileComponent.Kind())
		require.True(t, ok)
		assert.Equal(t, x, tile.X)
		assert.Equal(t, 0, tile.Y)
		assert.Equal(t, 0, tile.TextureIndex)
		assert.Equal(t, uint64(tm), tile.Tilemap)

		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		require.True(t, ok)
		assert.Equal(t, -256+float64(x)*16+8, tr.X)
		assert.Equal(t, 0.0, tr.Y)

		rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
		require.True(t, ok)
		assert.Equal(t, component.BodyStatic, rb.Type)
		assert.Equal(t, 0.7, rb.Friction)

		col, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
		require.True(t, ok)
		assert.Equal(t, 16.0, col.Width)
		assert.Equal(t, 16.0, col.Height)

		assert.False(t, ecs.Has(w, e, component.SpriteComponent.Kind()), "nil texture draws nothing")
	}

	_, ok = grid.At(32, 0)
	assert.False(t, ok)
}

func TestSpawnTilemapCentresGrid(t *testing.T) {
	w := ecs.NewWorld()
	spec := prefabs.TilemapSpec{Width: 4, Height: 2, TileW: 10, TileH: 10}
	tm, err := SpawnTilemap(w, spec, nil)
	require.NoError(t, err)

	grid, _ := ecs.Get(w, tm, component.TilemapComponent.Kind())
	x, y := grid.CellCenter(0, 0)
	assert.Equal(t, -15.0, x)
	assert.Equal(t, -5.0, y)
	x, y = grid.CellCenter(3, 1)
	assert.Equal(t, 15.0, x)
	assert.Equal(t, 5.0, y)
}

func TestSpawnTilemapRejectsEmptyGrid(t *testing.T) {
	w := ecs.NewWorld()
	_, err := SpawnTilemap(w, prefabs.TilemapSpec{Width: 0, Height: 1, TileW: 16, TileH: 16}, nil)
	require.Error(t, err)
	assert.Empty(t, ecs.Entities(w))
}

func TestTileSourceRect(t *testing.T) {
	tests := []struct {
		name   string
		idx    int
		want   image.Rectangle
		wantOK bool
	}{
		{"first", 0, image.Rect(0, 0, 16, 16), true},
		{"last_in_row", 3, image.Rect(48, 0, 64, 16), true},
		{"past_end", 4, image.Rectangle{}, false},
		{"negative", -1, image.Rectangle{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := TileSourceRect(64, 16, 16, 16, tc.idx)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

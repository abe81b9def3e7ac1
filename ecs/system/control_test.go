package system

import (
	"math"
	"testing"

	"github.com/milk9111/tilephysics/ecs"
	"github.com/milk9111/tilephysics/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSpeed = 4000.0
	testDT    = 1.0 / 60
)

func newControlWorld(t *testing.T) (*ecs.World, ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	w.SetDeltaTime(testDT)

	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	require.NoError(t, ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		Speed:         testSpeed,
		JumpFactor:    25,
		SpawnX:        0,
		SpawnY:        -100,
		SpawnRotation: math.Pi / 4,
	}))
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Y: -100, Rotation: math.Pi / 4}))
	require.NoError(t, ecs.Add(w, e, component.LinearVelocityComponent.Kind(), &component.LinearVelocity{}))
	require.NoError(t, ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}))
	return w, e
}

func setInput(t *testing.T, w *ecs.World, e ecs.Entity, in component.Input) {
	t.Helper()
	cur, ok := ecs.Get(w, e, component.InputComponent.Kind())
	require.True(t, ok)
	*cur = in
}

func velocity(t *testing.T, w *ecs.World, e ecs.Entity) component.LinearVelocity {
	t.Helper()
	lv, ok := ecs.Get(w, e, component.LinearVelocityComponent.Kind())
	require.True(t, ok)
	return *lv
}

func TestControlHorizontalVelocity(t *testing.T) {
	tests := []struct {
		name  string
		input component.Input
		want  float64
	}{
		{"left", component.Input{MoveLeft: true}, -testSpeed * testDT},
		{"right", component.Input{MoveRight: true}, testSpeed * testDT},
		{"both_prefers_left", component.Input{MoveLeft: true, MoveRight: true}, -testSpeed * testDT},
		{"none", component.Input{}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, e := newControlWorld(t)
			lv, _ := ecs.Get(w, e, component.LinearVelocityComponent.Kind())
			lv.X = 123
			lv.Y = 7

			setInput(t, w, e, tc.input)
			NewControlSystem().Update(w)

			got := velocity(t, w, e)
			assert.InDelta(t, tc.want, got.X, 1e-9)
			assert.Equal(t, 7.0, got.Y, "vertical velocity must be left alone without a jump")
		})
	}
}

func TestControlJumpOncePerPress(t *testing.T) {
	w, e := newControlWorld(t)
	c := NewControlSystem()

	setInput(t, w, e, component.Input{JumpPressed: true})
	c.Update(w)
	assert.InDelta(t, -testSpeed*25*testDT, velocity(t, w, e).Y, 1e-9)

	// held key: the edge flag is gone on the next frame, physics owns vy again
	lv, _ := ecs.Get(w, e, component.LinearVelocityComponent.Kind())
	lv.Y = 50
	setInput(t, w, e, component.Input{})
	c.Update(w)
	assert.Equal(t, 50.0, velocity(t, w, e).Y)
}

func TestControlResetRestoresSpawn(t *testing.T) {
	w, e := newControlWorld(t)
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	tr.X, tr.Y, tr.Rotation = 123, 45, 1

	setInput(t, w, e, component.Input{ResetPressed: true})
	NewControlSystem().Update(w)

	assert.Equal(t, 0.0, tr.X)
	assert.Equal(t, -100.0, tr.Y)
	assert.Equal(t, math.Pi/4, tr.Rotation)
}

func TestControlExitSignalsOncePerPress(t *testing.T) {
	w, e := newControlWorld(t)
	c := NewControlSystem()

	setInput(t, w, e, component.Input{ExitPressed: true})
	c.Update(w)
	setInput(t, w, e, component.Input{})
	c.Update(w)

	events := w.Events().Drain()
	require.Len(t, events, 1)
	assert.Equal(t, ecs.EventAppExit, events[0].Type)
	assert.Equal(t, e, events[0].Data)
}

func TestControlMissingPlayerIsNoop(t *testing.T) {
	t.Run("no_player", func(t *testing.T) {
		w := ecs.NewWorld()
		w.SetDeltaTime(testDT)
		assert.NotPanics(t, func() { NewControlSystem().Update(w) })
		assert.Zero(t, w.Events().Len())
	})

	t.Run("no_velocity", func(t *testing.T) {
		w, e := newControlWorld(t)
		ecs.Remove(w, e, component.LinearVelocityComponent.Kind())
		setInput(t, w, e, component.Input{ExitPressed: true, ResetPressed: true})
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		tr.X = 99

		NewControlSystem().Update(w)

		assert.Zero(t, w.Events().Len())
		assert.Equal(t, 99.0, tr.X)
	})

	t.Run("nil_world", func(t *testing.T) {
		assert.NotPanics(t, func() { NewControlSystem().Update(nil) })
	})
}

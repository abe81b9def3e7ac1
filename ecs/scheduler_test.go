package ecs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSystem struct {
	name string
	log  *[]string
}

func (r *recordingSystem) Update(*World) { *r.log = append(*r.log, r.name) }

func TestSchedulerRunsSystemsInOrder(t *testing.T) {
	var log []string
	s := NewScheduler(
		&recordingSystem{name: "input", log: &log},
		&recordingSystem{name: "control", log: &log},
	)
	s.Add(SystemFunc(func(*World) { log = append(log, "physics") }))
	s.Add(nil)

	w := NewWorld()
	s.Update(w)
	s.Update(w)

	assert.Equal(t, []string{"input", "control", "physics", "input", "control", "physics"}, log)
	require.Len(t, s.Systems(), 3)

	stats := s.Stats()
	require.Len(t, stats, 3)
	assert.Equal(t, "recordingSystem", stats[0].Name)
	for _, st := range stats {
		assert.EqualValues(t, 2, st.Executions)
		assert.GreaterOrEqual(t, st.MaxDuration, st.LastDuration)
	}
}

func TestSchedulerStartupRunsOnce(t *testing.T) {
	calls := 0
	s := NewScheduler()
	s.AddStartup(func(w *World) error {
		calls++
		CreateEntity(w)
		return nil
	})
	s.AddStartup(nil)

	w := NewWorld()
	require.NoError(t, s.Startup(w))
	require.NoError(t, s.Startup(w))

	assert.Equal(t, 1, calls)
	assert.Len(t, Entities(w), 1)
}

func TestSchedulerStartupStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	s := NewScheduler()
	s.AddStartup(func(*World) error { return boom })
	s.AddStartup(func(*World) error { ran = true; return nil })

	err := s.Startup(NewWorld())
	require.ErrorIs(t, err, boom)
	assert.False(t, ran)
}

func TestEventQueueDrain(t *testing.T) {
	w := NewWorld()
	assert.Nil(t, w.Events().Drain())

	w.Events().Push(Event{Type: EventAppExit})
	w.Events().Push(Event{Type: EventPrefabChanged, Data: "player.yaml"})
	require.Equal(t, 2, w.Events().Len())

	got := w.Events().Drain()
	require.Len(t, got, 2)
	assert.Equal(t, EventAppExit, got[0].Type)
	assert.Equal(t, "player.yaml", got[1].Data)
	assert.Zero(t, w.Events().Len())
}

package ecs

import (
	"fmt"
	"reflect"
	"time"
)

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) { f(w) }

// StartupFunc runs once before the first frame.
type StartupFunc func(w *World) error

// SystemStats records timing for one update system.
type SystemStats struct {
	Name         string
	Executions   int64
	LastDuration time.Duration
	MaxDuration  time.Duration
}

// Scheduler runs startup routines once and update systems every frame, in the
// order they were added.
type Scheduler struct {
	startup []StartupFunc
	started bool
	systems []System
	stats   []SystemStats
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) AddStartup(fn StartupFunc) {
	if fn == nil {
		return
	}
	s.startup = append(s.startup, fn)
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
	s.stats = append(s.stats, SystemStats{Name: systemName(system)})
}

// Startup runs the startup routines once. Later calls are no-ops.
func (s *Scheduler) Startup(w *World) error {
	if s.started {
		return nil
	}
	s.started = true
	for i, fn := range s.startup {
		if err := fn(w); err != nil {
			return fmt.Errorf("scheduler: startup %d: %w", i, err)
		}
	}
	return nil
}

func (s *Scheduler) Update(w *World) {
	for i, system := range s.systems {
		start := time.Now()
		system.Update(w)
		d := time.Since(start)

		st := &s.stats[i]
		st.Executions++
		st.LastDuration = d
		if d > st.MaxDuration {
			st.MaxDuration = d
		}
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}

func (s *Scheduler) Stats() []SystemStats {
	return append([]SystemStats(nil), s.stats...)
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

package system

import (
	"log/slog"

	"github.com/milk9111/tilephysics/ecs"
	"github.com/milk9111/tilephysics/ecs/entity"
	"github.com/milk9111/tilephysics/prefabs"
)

// PrefabReloadSystem applies edited prefab files to the running world. Changes
// arrive on a channel fed by a prefabs.Watcher and are drained without blocking.
type PrefabReloadSystem struct {
	changes <-chan string
	errs    <-chan error
	load    func(name string) (prefabs.EntityBuildSpec, error)
	logger  *slog.Logger
}

func NewPrefabReloadSystem(changes <-chan string, errs <-chan error, logger *slog.Logger) *PrefabReloadSystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &PrefabReloadSystem{
		changes: changes,
		errs:    errs,
		load:    prefabs.LoadEntityBuildSpec,
		logger:  logger,
	}
}

func (s *PrefabReloadSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for {
		select {
		case err, ok := <-s.errs:
			if !ok {
				s.errs = nil
				continue
			}
			s.logger.Warn("prefab watcher error", "err", err)
			continue
		default:
		}

		select {
		case path, ok := <-s.changes:
			if !ok {
				s.changes = nil
				return
			}
			s.apply(w, prefabs.Name(path))
		default:
			return
		}
	}
}

func (s *PrefabReloadSystem) apply(w *ecs.World, name string) {
	if name != entity.PlayerPrefab {
		s.logger.Debug("prefab change ignored", "prefab", name)
		return
	}
	spec, err := s.load(name)
	if err != nil {
		s.logger.Error("prefab reload failed", "prefab", name, "err", err)
		return
	}
	if err := entity.ApplyPlayerTuning(w, spec); err != nil {
		s.logger.Error("prefab reload failed", "prefab", name, "err", err)
		return
	}
	w.Events().Push(ecs.Event{Type: ecs.EventPrefabChanged, Data: name})
	s.logger.Info("prefab reloaded", "prefab", name)
}

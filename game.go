package main

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilephysics/assets"
	"github.com/milk9111/tilephysics/ecs"
	"github.com/milk9111/tilephysics/ecs/entity"
	"github.com/milk9111/tilephysics/ecs/system"
	"github.com/milk9111/tilephysics/prefabs"
)

// Options are the command-line switches that shape a Game.
type Options struct {
	Debug  bool
	Watch  bool
	Logger *slog.Logger
}

type Game struct {
	app    prefabs.AppSpec
	logger *slog.Logger

	world     *ecs.World
	scheduler *ecs.Scheduler

	input   *system.InputSystem
	physics *system.PhysicsSystem
	render  *system.RenderSystem
	hud     *HUD
	watcher *prefabs.Watcher

	background color.Color
	dt         float64
	debug      bool
}

// NewGame loads the prefabs, spawns the tilemap, the player and the camera, and
// wires the per-frame systems: input, control, prefab reload, physics.
func NewGame(opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app, err := prefabs.LoadAppSpec()
	if err != nil {
		return nil, fmt.Errorf("load app spec: %w", err)
	}
	bindings, err := system.BindingsFromSpec(app.Bindings)
	if err != nil {
		return nil, err
	}
	background, err := entity.ParseColor(app.Background)
	if err != nil {
		return nil, fmt.Errorf("app background: %w", err)
	}
	tilemapSpec, err := prefabs.LoadTilemapSpec()
	if err != nil {
		return nil, fmt.Errorf("load tilemap spec: %w", err)
	}
	texture, err := assets.LoadImage(tilemapSpec.Texture)
	if err != nil {
		return nil, fmt.Errorf("load tile texture: %w", err)
	}

	g := &Game{
		app:        app,
		logger:     logger,
		world:      ecs.NewWorld(),
		scheduler:  ecs.NewScheduler(),
		input:      system.NewInputSystem(system.EbitenKeys{}, bindings),
		physics:    system.NewPhysicsSystem(app.Physics.GravityX, app.Physics.GravityY, app.Physics.Iterations),
		render:     system.NewRenderSystem(),
		hud:        NewHUD(app.Title),
		background: background,
		dt:         1.0 / float64(app.TPS),
		debug:      opts.Debug,
	}

	g.scheduler.AddStartup(func(w *ecs.World) error {
		_, err := entity.SpawnTilemap(w, tilemapSpec, texture)
		return err
	})
	g.scheduler.AddStartup(func(w *ecs.World) error {
		_, err := entity.NewPlayer(w)
		return err
	})
	g.scheduler.AddStartup(func(w *ecs.World) error {
		_, err := entity.NewCamera(w)
		return err
	})

	g.scheduler.Add(g.input)
	g.scheduler.Add(system.NewControlSystem())
	if opts.Watch {
		watcher, err := prefabs.NewWatcher(prefabs.Dir)
		if err != nil {
			logger.Warn("prefab watch disabled", "dir", prefabs.Dir, "err", err)
		} else {
			g.watcher = watcher
			g.scheduler.Add(system.NewPrefabReloadSystem(watcher.Events, watcher.Errors, logger))
		}
	}
	g.scheduler.Add(g.physics)

	if err := g.scheduler.Startup(g.world); err != nil {
		g.Close()
		return nil, err
	}
	logger.Debug("world ready", "entities", len(ecs.Entities(g.world)), "tps", app.TPS)
	return g, nil
}

func (g *Game) Update() error {
	g.world.SetDeltaTime(g.dt)
	g.scheduler.Update(g.world)

	if g.input.DebugToggled() {
		g.debug = !g.debug
		g.logger.Debug("physics debug toggled", "enabled", g.debug)
	}

	for _, evt := range g.world.Events().Drain() {
		switch evt.Type {
		case ecs.EventAppExit:
			g.logger.Info("exit requested")
			return ebiten.Termination
		case ecs.EventPrefabChanged:
			g.logger.Debug("prefab applied", "prefab", evt.Data)
		}
	}

	g.hud.Update(g.world, g.debug)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)
	g.render.Draw(g.world, screen)
	if g.debug {
		system.DrawPhysicsDebug(g.physics.Space(), g.world, screen)
	}
	g.hud.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.app.Width, g.app.Height
}

// Close stops the prefab watcher, if any.
func (g *Game) Close() {
	if g.watcher == nil {
		return
	}
	if err := g.watcher.Close(); err != nil {
		g.logger.Warn("close prefab watcher", "err", err)
	}
	g.watcher = nil
}

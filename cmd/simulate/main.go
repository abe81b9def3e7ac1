// Command simulate steps the tilemap world without opening a window and prints
// the player's pose, driving input from flags instead of the keyboard.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/milk9111/tilephysics/ecs"
	"github.com/milk9111/tilephysics/ecs/component"
	"github.com/milk9111/tilephysics/ecs/entity"
	"github.com/milk9111/tilephysics/ecs/system"
	"github.com/milk9111/tilephysics/prefabs"
)

func main() {
	steps := flag.Int("steps", 300, "number of frames to simulate")
	every := flag.Int("every", 30, "print the player pose every N frames")
	left := flag.Int("left", 0, "hold move-left for the first N frames")
	right := flag.Int("right", 0, "hold move-right for the first N frames")
	jumpAt := flag.Int("jump-at", -1, "press jump on frame N")
	resetAt := flag.Int("reset-at", -1, "press reset on frame N")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	sc := &script{left: *left, right: *right, jumpAt: *jumpAt, resetAt: *resetAt}
	w, sched, err := buildWorld(sc)
	if err != nil {
		logger.Error("simulate: startup failed", "err", err)
		os.Exit(1)
	}

	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		logger.Error("simulate: no player")
		os.Exit(1)
	}

	fmt.Println("frame\tx\ty\tvx\tvy")
	for i := 0; i < *steps; i++ {
		sched.Update(w)
		w.Events().Drain()
		if *every > 0 && (i+1)%*every == 0 {
			printPose(w, player, i+1)
		}
	}

	for _, st := range sched.Stats() {
		logger.Debug("system stats", "system", st.Name, "runs", st.Executions, "max", st.MaxDuration)
	}
}

func buildWorld(sc *script) (*ecs.World, *ecs.Scheduler, error) {
	app, err := prefabs.LoadAppSpec()
	if err != nil {
		return nil, nil, err
	}
	tilemapSpec, err := prefabs.LoadTilemapSpec()
	if err != nil {
		return nil, nil, err
	}

	w := ecs.NewWorld()
	w.SetDeltaTime(1.0 / float64(app.TPS))

	sched := ecs.NewScheduler(
		sc,
		system.NewControlSystem(),
		system.NewPhysicsSystem(app.Physics.GravityX, app.Physics.GravityY, app.Physics.Iterations),
	)
	sched.AddStartup(func(w *ecs.World) error {
		_, err := entity.SpawnTilemap(w, tilemapSpec, nil)
		return err
	})
	sched.AddStartup(func(w *ecs.World) error {
		_, err := entity.NewPlayer(w)
		return err
	})
	if err := sched.Startup(w); err != nil {
		return nil, nil, err
	}
	return w, sched, nil
}

func printPose(w *ecs.World, player ecs.Entity, frame int) {
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	var vx, vy float64
	if lv, ok := ecs.Get(w, player, component.LinearVelocityComponent.Kind()); ok {
		vx, vy = lv.X, lv.Y
	}
	fmt.Printf("%d\t%.2f\t%.2f\t%.2f\t%.2f\n", frame, t.X, t.Y, vx, vy)
}

// script stands in for the keyboard, writing Input from frame numbers.
type script struct {
	frame   int
	left    int
	right   int
	jumpAt  int
	resetAt int
}

func (s *script) Update(w *ecs.World) {
	in := component.Input{
		MoveLeft:     s.frame < s.left,
		MoveRight:    s.frame < s.right,
		JumpPressed:  s.frame == s.jumpAt,
		ResetPressed: s.frame == s.resetAt,
	}
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		*input = in
	})
	s.frame++
}

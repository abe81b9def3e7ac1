package system

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tilephysics/ecs"
	"github.com/milk9111/tilephysics/ecs/component"
	"github.com/milk9111/tilephysics/prefabs"
)

// KeySource reports keyboard state for the current frame.
type KeySource interface {
	IsKeyPressed(k ebiten.Key) bool
	IsKeyJustPressed(k ebiten.Key) bool
}

// EbitenKeys reads the live ebiten keyboard state.
type EbitenKeys struct{}

func (EbitenKeys) IsKeyPressed(k ebiten.Key) bool     { return ebiten.IsKeyPressed(k) }
func (EbitenKeys) IsKeyJustPressed(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }

// Bindings maps each control to the keys that trigger it.
type Bindings struct {
	MoveLeft  []ebiten.Key
	MoveRight []ebiten.Key
	Jump      []ebiten.Key
	Reset     []ebiten.Key
	Exit      []ebiten.Key
	Debug     []ebiten.Key
}

func DefaultBindings() Bindings {
	return Bindings{
		MoveLeft:  []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft},
		MoveRight: []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight},
		Jump:      []ebiten.Key{ebiten.KeySpace},
		Reset:     []ebiten.Key{ebiten.KeyEnter},
		Exit:      []ebiten.Key{ebiten.KeyEscape},
		Debug:     []ebiten.Key{ebiten.KeyF3},
	}
}

// BindingsFromSpec parses key names; controls left empty keep their defaults.
func BindingsFromSpec(spec prefabs.BindingsSpec) (Bindings, error) {
	b := DefaultBindings()
	fields := []struct {
		name  string
		names []string
		dst   *[]ebiten.Key
	}{
		{"move_left", spec.MoveLeft, &b.MoveLeft},
		{"move_right", spec.MoveRight, &b.MoveRight},
		{"jump", spec.Jump, &b.Jump},
		{"reset", spec.Reset, &b.Reset},
		{"exit", spec.Exit, &b.Exit},
		{"debug", spec.Debug, &b.Debug},
	}
	for _, f := range fields {
		if len(f.names) == 0 {
			continue
		}
		keys := make([]ebiten.Key, 0, len(f.names))
		for _, name := range f.names {
			var k ebiten.Key
			if err := k.UnmarshalText([]byte(name)); err != nil {
				return Bindings{}, fmt.Errorf("bindings: %s: %w", f.name, err)
			}
			keys = append(keys, k)
		}
		*f.dst = keys
	}
	return b, nil
}

type InputSystem struct {
	keys     KeySource
	bindings Bindings
}

func NewInputSystem(keys KeySource, bindings Bindings) *InputSystem {
	if keys == nil {
		keys = EbitenKeys{}
	}
	return &InputSystem{keys: keys, bindings: bindings}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	left := anyPressed(i.keys, i.bindings.MoveLeft)
	right := anyPressed(i.keys, i.bindings.MoveRight)
	jump := anyJustPressed(i.keys, i.bindings.Jump)
	reset := anyJustPressed(i.keys, i.bindings.Reset)
	exit := anyJustPressed(i.keys, i.bindings.Exit)

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.MoveLeft = left
		input.MoveRight = right
		input.JumpPressed = jump
		input.ResetPressed = reset
		input.ExitPressed = exit
	})
}

// DebugToggled reports a fresh press of any debug key.
func (i *InputSystem) DebugToggled() bool {
	return anyJustPressed(i.keys, i.bindings.Debug)
}

func anyPressed(src KeySource, keys []ebiten.Key) bool {
	for _, k := range keys {
		if src.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyJustPressed(src KeySource, keys []ebiten.Key) bool {
	for _, k := range keys {
		if src.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

package entity

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/milk9111/tilephysics/ecs"
	"github.com/milk9111/tilephysics/ecs/component"
	"github.com/milk9111/tilephysics/prefabs"
	"golang.org/x/image/colornames"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":      addPlayerTag,
	"camera_tag":      addCameraTag,
	"player":          addPlayer,
	"input":           addInput,
	"transform":       addTransform,
	"polygon":         addPolygon,
	"render_layer":    addRenderLayer,
	"camera":          addCamera,
	"rigid_body":      addRigidBody,
	"collider":        addCollider,
	"locked_axes":     addLockedAxes,
	"linear_velocity": addLinearVelocity,
}

// transform precedes player so the spawn point can be read from it.
var componentBuildOrder = []string{
	"player_tag",
	"camera_tag",
	"transform",
	"player",
	"input",
	"polygon",
	"render_layer",
	"camera",
	"rigid_body",
	"collider",
	"locked_axes",
	"linear_velocity",
}

// BuildEntity creates an entity, and one entity per child, from a prefab file.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntityFromSpec(w, prefabPath, spec)
}

func BuildEntityFromSpec(w *ecs.World, prefabPath string, spec prefabs.EntityBuildSpec) (ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}
	if err := addComponents(w, e, spec.Components, ctx); err != nil {
		destroyTree(w, e)
		return 0, err
	}

	for i, child := range spec.Children {
		c, err := BuildEntityFromSpec(w, fmt.Sprintf("%s#%d", prefabPath, i), child)
		if err != nil {
			destroyTree(w, e)
			return 0, err
		}
		if err := attachChild(w, e, c); err != nil {
			destroyTree(w, c)
			destroyTree(w, e)
			return 0, fmt.Errorf("build entity: %q: attach child %d: %w", prefabPath, i, err)
		}
	}

	return e, nil
}

func addComponents(w *ecs.World, e ecs.Entity, components map[string]any, ctx *buildContext) error {
	remaining := make(map[string]any, len(components))
	for k, v := range components {
		remaining[k] = v
	}

	apply := func(name string) error {
		builder, ok := componentRegistry[name]
		if !ok {
			return fmt.Errorf("build entity: %q: no builder for component %q", ctx.PrefabPath, name)
		}
		if err := builder(w, e, remaining[name], ctx); err != nil {
			return fmt.Errorf("build entity: %q: add %q: %w", ctx.PrefabPath, name, err)
		}
		delete(remaining, name)
		return nil
	}

	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; !ok {
			continue
		}
		if err := apply(name); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(remaining))
	for name := range remaining {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := apply(name); err != nil {
			return err
		}
	}
	return nil
}

func attachChild(w *ecs.World, parent, child ecs.Entity) error {
	if err := ecs.Add(w, child, component.ParentComponent.Kind(), &component.Parent{Entity: uint64(parent)}); err != nil {
		return err
	}
	children, ok := ecs.Get(w, parent, component.ChildrenComponent.Kind())
	if !ok {
		children = &component.Children{}
	}
	children.Entities = append(children.Entities, uint64(child))
	return ecs.Add(w, parent, component.ChildrenComponent.Kind(), children)
}

func destroyTree(w *ecs.World, e ecs.Entity) {
	if children, ok := ecs.Get(w, e, component.ChildrenComponent.Kind()); ok {
		for _, c := range children.Entities {
			destroyTree(w, ecs.Entity(c))
		}
	}
	ecs.DestroyEntity(w, e)
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

type playerSpec = prefabs.PlayerComponentSpec

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	player := &component.Player{
		Speed:      spec.Speed,
		JumpFactor: spec.JumpFactor,
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		player.SpawnX = t.X
		player.SpawnY = t.Y
		player.SpawnRotation = t.Rotation
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), player)
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Radians(),
	})
}

type polygonSpec = prefabs.PolygonComponentSpec

func addPolygon(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[polygonSpec](raw)
	if err != nil {
		return fmt.Errorf("decode polygon spec: %w", err)
	}
	if spec.Sides < 3 {
		return fmt.Errorf("polygon needs at least 3 sides, got %d", spec.Sides)
	}
	if spec.Radius <= 0 {
		return fmt.Errorf("polygon radius must be positive, got %v", spec.Radius)
	}
	c := color.Color(color.White)
	if spec.Color != "" {
		parsed, err := ParseColor(spec.Color)
		if err != nil {
			return fmt.Errorf("parse polygon color: %w", err)
		}
		c = parsed
	}
	return ecs.Add(w, e, component.PolygonComponent.Kind(), &component.Polygon{
		Radius: spec.Radius,
		Sides:  spec.Sides,
		Color:  c,
	})
}

type renderLayerSpec = prefabs.RenderLayerComponentSpec

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[renderLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

type cameraSpec = prefabs.CameraComponentSpec

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	if spec.Zoom <= 0 {
		spec.Zoom = 1
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{Zoom: spec.Zoom})
}

type rigidBodySpec = prefabs.RigidBodyComponentSpec

func addRigidBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[rigidBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode rigid body spec: %w", err)
	}
	var typ component.BodyType
	switch strings.ToLower(spec.Type) {
	case "", "static":
		typ = component.BodyStatic
	case "dynamic":
		typ = component.BodyDynamic
	default:
		return fmt.Errorf("unknown rigid body type %q", spec.Type)
	}
	return ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{
		Type:       typ,
		Mass:       spec.Mass,
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
	})
}

type colliderSpec = prefabs.ColliderComponentSpec

func addCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[colliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return fmt.Errorf("collider size must be positive, got %vx%v", spec.Width, spec.Height)
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
		Width:  spec.Width,
		Height: spec.Height,
	})
}

type lockedAxesSpec = prefabs.LockedAxesComponentSpec

func addLockedAxes(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[lockedAxesSpec](raw)
	if err != nil {
		return fmt.Errorf("decode locked axes spec: %w", err)
	}
	return ecs.Add(w, e, component.LockedAxesComponent.Kind(), &component.LockedAxes{Rotation: spec.Rotation})
}

func addLinearVelocity(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.LinearVelocityComponent.Kind(), &component.LinearVelocity{})
}

// ParseColor accepts an SVG colour name or #rrggbb / #rrggbbaa.
func ParseColor(s string) (color.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(name, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return nil, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

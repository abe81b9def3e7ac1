package prefabs

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// AppSpec configures the window, the physics space and the key bindings.
type AppSpec struct {
	Title      string       `yaml:"title"`
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	TPS        int          `yaml:"tps"`
	Background string       `yaml:"background"`
	Physics    PhysicsSpec  `yaml:"physics"`
	Bindings   BindingsSpec `yaml:"bindings"`
}

type PhysicsSpec struct {
	GravityX   float64 `yaml:"gravity_x"`
	GravityY   float64 `yaml:"gravity_y"`
	Iterations int     `yaml:"iterations"`
}

// BindingsSpec maps each control to ebiten key names, e.g. "A" or "ArrowLeft".
type BindingsSpec struct {
	MoveLeft  []string `yaml:"move_left"`
	MoveRight []string `yaml:"move_right"`
	Jump      []string `yaml:"jump"`
	Reset     []string `yaml:"reset"`
	Exit      []string `yaml:"exit"`
	Debug     []string `yaml:"debug"`
}

func LoadAppSpec() (AppSpec, error) {
	spec, err := LoadSpec[AppSpec]("app.yaml")
	if err != nil {
		return spec, err
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		spec.Width, spec.Height = 1280, 720
	}
	if spec.TPS <= 0 {
		spec.TPS = 60
	}
	if spec.Physics.Iterations <= 0 {
		spec.Physics.Iterations = 10
	}
	return spec, nil
}

// TilemapSpec describes the tile grid and the texture its tiles are cut from.
type TilemapSpec struct {
	Name         string  `yaml:"name"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	TileW        float64 `yaml:"tile_w"`
	TileH        float64 `yaml:"tile_h"`
	Texture      string  `yaml:"texture"`
	TextureIndex int     `yaml:"texture_index"`
	Friction     float64 `yaml:"friction"`
}

func LoadTilemapSpec() (TilemapSpec, error) {
	spec, err := LoadSpec[TilemapSpec]("tilemap.yaml")
	if err != nil {
		return spec, err
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return spec, fmt.Errorf("prefabs: tilemap.yaml: invalid size %dx%d", spec.Width, spec.Height)
	}
	if spec.TileW <= 0 {
		spec.TileW = 16
	}
	if spec.TileH <= 0 {
		spec.TileH = spec.TileW
	}
	return spec, nil
}

// EntityBuildSpec is a component-keyed prefab; Children are built as separate
// entities parented to this one.
type EntityBuildSpec struct {
	Name       string            `yaml:"name"`
	Components map[string]any    `yaml:"components"`
	Children   []EntityBuildSpec `yaml:"children"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type PlayerComponentSpec struct {
	Speed      float64 `yaml:"speed"`
	JumpFactor float64 `yaml:"jump_factor"`
}

// TransformComponentSpec accepts rotation in radians or, when RotationDeg is
// set, in degrees.
type TransformComponentSpec struct {
	X           float64  `yaml:"x"`
	Y           float64  `yaml:"y"`
	ScaleX      float64  `yaml:"scale_x"`
	ScaleY      float64  `yaml:"scale_y"`
	Rotation    float64  `yaml:"rotation"`
	RotationDeg *float64 `yaml:"rotation_deg"`
}

func (s TransformComponentSpec) Radians() float64 {
	if s.RotationDeg != nil {
		return *s.RotationDeg * math.Pi / 180
	}
	return s.Rotation
}

type PolygonComponentSpec struct {
	Radius float64 `yaml:"radius"`
	Sides  int     `yaml:"sides"`
	Color  string  `yaml:"color"`
}

type RigidBodyComponentSpec struct {
	Type       string  `yaml:"type"`
	Mass       float64 `yaml:"mass"`
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
}

type ColliderComponentSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type LockedAxesComponentSpec struct {
	Rotation bool `yaml:"rotation"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type CameraComponentSpec struct {
	Zoom float64 `yaml:"zoom"`
}

package component

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

type Sprite struct {
	Image     *ebiten.Image
	Source    image.Rectangle
	UseSource bool
	OriginX   float64
	OriginY   float64
}

var SpriteComponent = NewComponent[Sprite]()

// Polygon is a filled regular polygon centred on the entity; Radius is the
// circumradius.
type Polygon struct {
	Radius float64
	Sides  int
	Color  color.Color
}

var PolygonComponent = NewComponent[Polygon]()

package system

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilephysics/ecs"
	"github.com/milk9111/tilephysics/ecs/component"
)

// RenderSystem draws sprites and filled polygons relative to the camera. The
// camera position maps to the centre of the screen.
type RenderSystem struct {
	camEntity ecs.Entity
	white     *ebiten.Image

	vertices []ebiten.Vertex
	indices  []uint16
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

// view is the world-to-screen mapping for one frame.
type view struct {
	camX, camY float64
	zoom       float64
	halfW      float64
	halfH      float64
}

func (v view) toScreen(x, y float64) (float64, float64) {
	return (x-v.camX)*v.zoom + v.halfW, (y-v.camY)*v.zoom + v.halfH
}

func cameraView(w *ecs.World, camEntity ecs.Entity, screen *ebiten.Image) view {
	v := view{zoom: 1}
	if screen != nil {
		b := screen.Bounds()
		v.halfW = float64(b.Dx()) / 2
		v.halfH = float64(b.Dy()) / 2
	}
	if camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind()); ok {
		v.camX = camTransform.X
		v.camY = camTransform.Y
	}
	if camComp, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind()); ok {
		if camComp.Zoom > 0 {
			v.zoom = camComp.Zoom
		}
	}
	return v
}

func findCamera(w *ecs.World) ecs.Entity {
	if e, ok := ecs.First(w, component.CameraTagComponent.Kind()); ok {
		return e
	}
	e, _ := ecs.First(w, component.CameraComponent.Kind())
	return e
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	if !r.camEntity.Valid() || !w.IsAlive(r.camEntity) {
		r.camEntity = findCamera(w)
	}
	v := cameraView(w, r.camEntity, screen)

	var entities []ecs.Entity
	for _, e := range w.Query(component.TransformComponent.Kind()) {
		if ecs.Has(w, e, component.SpriteComponent.Kind()) || ecs.Has(w, e, component.PolygonComponent.Kind()) {
			entities = append(entities, e)
		}
	}
	sort.SliceStable(entities, func(i, j int) bool {
		li, lj := renderLayer(w, entities[i]), renderLayer(w, entities[j])
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		if e == r.camEntity {
			continue
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		if s, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok && s.Image != nil {
			r.drawSprite(screen, v, t, s)
		}
		if p, ok := ecs.Get(w, e, component.PolygonComponent.Kind()); ok {
			r.drawPolygon(screen, v, t, p)
		}
	}
}

func renderLayer(w *ecs.World, e ecs.Entity) int {
	if layer, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
		return layer.Index
	}
	return 0
}

func (r *RenderSystem) drawSprite(screen *ebiten.Image, v view, t *component.Transform, s *component.Sprite) {
	img := s.Image
	if s.UseSource {
		if sub, ok := s.Image.SubImage(s.Source).(*ebiten.Image); ok {
			img = sub
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-s.OriginX, -s.OriginY)

	sx := t.ScaleX
	if sx == 0 {
		sx = 1
	}
	sy := t.ScaleY
	if sy == 0 {
		sy = 1
	}

	op.GeoM.Scale(sx, sy)
	op.GeoM.Rotate(t.Rotation)
	op.GeoM.Scale(v.zoom, v.zoom)
	x, y := v.toScreen(t.X, t.Y)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterNearest

	screen.DrawImage(img, op)
}

// drawPolygon fills a regular polygon whose first vertex points up at zero
// rotation.
func (r *RenderSystem) drawPolygon(screen *ebiten.Image, v view, t *component.Transform, p *component.Polygon) {
	if p.Sides < 3 || p.Radius <= 0 {
		return
	}
	if r.white == nil {
		base := ebiten.NewImage(3, 3)
		base.Fill(color.White)
		r.white = base.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}

	var cr, cg, cb, ca float32 = 1, 1, 1, 1
	if p.Color != nil {
		c := color.NRGBAModel.Convert(p.Color).(color.NRGBA)
		cr, cg, cb, ca = float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255
	}

	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
	cx, cy := v.toScreen(t.X, t.Y)
	for i := 0; i < p.Sides; i++ {
		a := t.Rotation - math.Pi/2 + 2*math.Pi*float64(i)/float64(p.Sides)
		r.vertices = append(r.vertices, ebiten.Vertex{
			DstX:   float32(cx + math.Cos(a)*p.Radius*v.zoom),
			DstY:   float32(cy + math.Sin(a)*p.Radius*v.zoom),
			SrcX:   1,
			SrcY:   1,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	for i := 1; i < p.Sides-1; i++ {
		r.indices = append(r.indices, 0, uint16(i), uint16(i+1))
	}

	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(r.vertices, r.indices, r.white, op)
}

package component

// Tilemap describes a grid of square cells centred on Origin. Storage holds the
// tile entity for each cell in row-major order, 0 for an empty cell.
type Tilemap struct {
	Width   int
	Height  int
	TileW   float64
	TileH   float64
	OriginX float64
	OriginY float64
	Storage []uint64
}

var TilemapComponent = NewComponent[Tilemap]()

// At returns the tile entity stored at (x, y).
func (m *Tilemap) At(x, y int) (uint64, bool) {
	if m == nil || x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0, false
	}
	e := m.Storage[y*m.Width+x]
	return e, e != 0
}

// Set records the tile entity at (x, y).
func (m *Tilemap) Set(x, y int, e uint64) {
	if m == nil || x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	if len(m.Storage) != m.Width*m.Height {
		m.Storage = make([]uint64, m.Width*m.Height)
	}
	m.Storage[y*m.Width+x] = e
}

// CellCenter returns the world-space centre of cell (x, y).
func (m *Tilemap) CellCenter(x, y int) (float64, float64) {
	return m.OriginX + float64(x)*m.TileW + m.TileW/2, m.OriginY + float64(y)*m.TileH + m.TileH/2
}

type Tile struct {
	X            int
	Y            int
	TextureIndex int
	Tilemap      uint64
}

var TileComponent = NewComponent[Tile]()

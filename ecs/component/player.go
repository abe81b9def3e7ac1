package component

type Player struct {
	Speed         float64
	JumpFactor    float64
	SpawnX        float64
	SpawnY        float64
	SpawnRotation float64
}

var PlayerComponent = NewComponent[Player]()

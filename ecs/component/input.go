package component

// Input stores per-frame input state for an entity. The *Pressed fields are
// true only on the frame the key went down.
type Input struct {
	MoveLeft     bool
	MoveRight    bool
	JumpPressed  bool
	ResetPressed bool
	ExitPressed  bool
}

var InputComponent = NewComponent[Input]()

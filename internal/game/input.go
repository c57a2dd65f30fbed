package game

// Input is a snapshot of control state, polled once per frame.
// Held controls are true every frame the key is down; the Pressed
// fields are edge-triggered and true only on the first frame.
type Input struct {
	Forward, Back bool
	Left, Right   bool
	Up, Down      bool
	Fire          bool

	Reload   bool
	Takeoff  bool
	Interact bool
	Separate bool
	Pause    bool

	// Sensitivity scales thrust. Zero means 1.
	Sensitivity float64
}

// thrustAxes returns the -1/0/1 input direction per axis (+x right, +y up, +z back).
func (in Input) thrustAxes() (x, y, z float64) {
	if in.Right {
		x++
	}
	if in.Left {
		x--
	}
	if in.Up {
		y++
	}
	if in.Down {
		y--
	}
	if in.Back {
		z++
	}
	if in.Forward {
		z--
	}
	return x, y, z
}

func (in Input) sensitivity() float64 {
	if in.Sensitivity <= 0 {
		return 1
	}
	return in.Sensitivity
}

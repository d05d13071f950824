package gesture

import "time"

// Key is a key identity. Only the four arrow keys are meaningful.
type Key string

const (
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
)

// Phase is the phase of a touch event.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseMove
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseMove:
		return "move"
	case PhaseEnd:
		return "end"
	}

	return "unknown"
}

// Input is a single input event. It is implemented by [KeyInput] and
// [TouchInput] only.
type Input interface {
	isInput()
}

// KeyInput is a key press.
type KeyInput struct {
	Key Key
}

// TouchInput is a touch event.
type TouchInput struct {
	Time    time.Time
	X       float64
	Y       float64
	Phase   Phase
	Fingers int
}

func (KeyInput) isInput()   {}
func (TouchInput) isInput() {}

// Sample returns the position and time of the touch.
func (t TouchInput) Sample() Sample {
	return Sample{X: t.X, Y: t.Y, Time: t.Time}
}

// Sample is a touch position at a point in time.
type Sample struct {
	Time time.Time
	X    float64
	Y    float64
}

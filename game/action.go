package game

import "fmt"

// Action is the single command the decision engine emits each tick.
type Action int

const (
	NoAction Action = iota
	Accelerate
	SlowDown
	Reverse
	TurnLeft
	TurnRight
)

var actionNames = [...]string{"NONE", "ACCELERATE", "SLOWDOWN", "REVERSE", "TURN_LEFT", "TURN_RIGHT"}

// String returns the upper-case name of the action.
func (a Action) String() string {
	if a < NoAction || a > TurnRight {
		return "UNKNOWN"
	}
	return actionNames[a]
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(b []byte) error {
	for i, name := range actionNames {
		if name == string(b) {
			*a = Action(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", b)
}

// IsTurn reports whether the action begins a turn.
func (a Action) IsTurn() bool {
	return a == TurnLeft || a == TurnRight
}

// TurnToward returns the turn action for the given side.
func TurnToward(side RelativeDirection) Action {
	if side == Left {
		return TurnLeft
	}
	return TurnRight
}

// TurnSide returns the side a turn action turns toward.
func (a Action) TurnSide() (RelativeDirection, bool) {
	switch a {
	case TurnLeft:
		return Left, true
	case TurnRight:
		return Right, true
	}
	return Left, false
}

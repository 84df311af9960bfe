package game

import "fmt"

// Coordinate is an integer grid position. North is y+1 and east is x+1.
type Coordinate struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// String renders the coordinate as "x,y".
func (c Coordinate) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Step returns the coordinate n tiles away in the given direction.
func (c Coordinate) Step(d Direction, n int) Coordinate {
	delta := d.Delta()
	return Coordinate{X: c.X + delta.X*n, Y: c.Y + delta.Y*n}
}

// Manhattan returns the grid distance between two coordinates.
func (c Coordinate) Manhattan(o Coordinate) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Direction is an absolute heading on the grid.
type Direction int

// Absolute directions, in clockwise order.
const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every absolute direction in clockwise order starting at north.
var Directions = [...]Direction{North, East, South, West}

var directionNames = [...]string{"NORTH", "EAST", "SOUTH", "WEST"}

// String returns the upper-case name of the direction.
func (d Direction) String() string {
	if d < North || d > West {
		return "UNKNOWN"
	}
	return directionNames[d]
}

// ParseDirection maps a direction name back to its value.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return North, fmt.Errorf("unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Delta returns the unit offset of one step in this direction.
func (d Direction) Delta() Coordinate {
	switch d {
	case North:
		return Coordinate{X: 0, Y: 1}
	case East:
		return Coordinate{X: 1, Y: 0}
	case South:
		return Coordinate{X: 0, Y: -1}
	case West:
		return Coordinate{X: -1, Y: 0}
	}
	return Coordinate{}
}

// Clockwise returns the direction 90 degrees clockwise.
func (d Direction) Clockwise() Direction {
	return (d + 1) % 4
}

// CounterClockwise returns the direction 90 degrees counter-clockwise.
func (d Direction) CounterClockwise() Direction {
	return (d + 3) % 4
}

// Resolve converts a side relative to this heading into an absolute direction.
func (d Direction) Resolve(side RelativeDirection) Direction {
	if side == Left {
		return d.CounterClockwise()
	}
	return d.Clockwise()
}

// RelativeDirection is a side of the agent relative to its heading.
type RelativeDirection int

const (
	Left RelativeDirection = iota
	Right
)

// Opposite returns the other side.
func (r RelativeDirection) Opposite() RelativeDirection {
	if r == Left {
		return Right
	}
	return Left
}

// String returns "LEFT" or "RIGHT".
func (r RelativeDirection) String() string {
	if r == Left {
		return "LEFT"
	}
	return "RIGHT"
}

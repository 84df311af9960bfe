package strategy

import "github.com/beka-birhanu/vinom-navigator/game"

// Defaults for the explorer thresholds.
const (
	DefaultFollowingSensitivity  = 2
	DefaultViewDepth             = 4
	DefaultDistanceToTurn        = 1
	DefaultTurningPointLookahead = 1
	DefaultMaxTurningSpeed       = 1.4
)

// Config carries the thresholds shared by both explorer variants.
type Config struct {
	FollowingSensitivity  int     // max side distance of a followed obstacle
	ViewDepth             int     // slice length, also the slow-down distance
	DistanceToTurn        int     // turn when the obstacle ahead is this close
	DistanceToSlowDown    int     // slow down when the obstacle ahead is this close
	TurningPointLookahead int     // tiles ahead scanned for a hand-off turning point
	MaxTurningSpeed       float64 // speed above which a hand-off turn is preceded by a slow-down
}

// DefaultConfig returns the thresholds the explorers were tuned with.
func DefaultConfig() Config {
	return Config{
		FollowingSensitivity:  DefaultFollowingSensitivity,
		ViewDepth:             DefaultViewDepth,
		DistanceToTurn:        DefaultDistanceToTurn,
		DistanceToSlowDown:    DefaultViewDepth,
		TurningPointLookahead: DefaultTurningPointLookahead,
		MaxTurningSpeed:       DefaultMaxTurningSpeed,
	}
}

// Observation is what the agent knows about itself and its surroundings this tick.
type Observation struct {
	View     game.View
	Position game.Coordinate
	Heading  game.Direction
	Speed    float64
}

// Control is the per-agent decision state carried across ticks. The engine
// owns it and lends it to the active explorer while deciding.
type Control struct {
	// JustChangedState is set when the heading changed since the previous tick
	// and cleared once the explorer is following again.
	JustChangedState bool
	// LastTurn is the side of the most recent turn. Valid only when HasTurned.
	LastTurn  game.RelativeDirection
	HasTurned bool
	// HandOff is the action the switching protocol produced at the turning
	// point. NoAction when no hand-off is in progress.
	HandOff game.Action
}

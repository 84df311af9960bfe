/*
Package strategy implements obstacle-following exploration.

An Explorer keeps one side of the agent against walls and lava. Two variants
exist, follow-left and follow-right, differing only in the tracked side and in
how they look for the point where control is handed to the other variant. The
Factory owns the hand-off protocol: it remembers obstacles seen on the
untracked side, tags obstacles already followed and, once the agent loops back
to where it started following, asks the active explorer for a turning point.
*/
package strategy

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/beka-birhanu/vinom-navigator/game/sensor"
)

// Name identifies an explorer variant.
type Name string

const (
	FollowLeft  Name = "FOLLOW_LEFT"
	FollowRight Name = "FOLLOW_RIGHT"
)

// ErrUnknownStrategy is returned when a variant name is not recognised.
var ErrUnknownStrategy = errors.New("unknown strategy")

// ParseName validates a variant name.
func ParseName(s string) (Name, error) {
	switch n := Name(s); n {
	case FollowLeft, FollowRight:
		return n, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Membership is satisfied by the pending obstacle set.
type Membership interface {
	Has(game.Coordinate) bool
}

// turningPointFinder returns the action to take while searching for the
// point where the other variant should take over.
type turningPointFinder func(e *Explorer, obs Observation, pending Membership) game.Action

// Explorer follows obstacles on one side of the agent.
type Explorer struct {
	name              Name
	side              game.RelativeDirection
	sensor            *sensor.Sensor
	obstacles         game.TerrainSet
	cfg               Config
	findTurningPoint  turningPointFinder
	changeStrategyNow bool
}

// New creates the named explorer variant.
func New(name Name, cfg Config) (*Explorer, error) {
	switch name {
	case FollowLeft:
		return NewFollowLeft(cfg), nil
	case FollowRight:
		return NewFollowRight(cfg), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// NewFollowLeft creates an explorer keeping obstacles on its left.
func NewFollowLeft(cfg Config) *Explorer {
	return newExplorer(FollowLeft, game.Left, cfg, scanForPendingObstacle)
}

// NewFollowRight creates an explorer keeping obstacles on its right.
func NewFollowRight(cfg Config) *Explorer {
	return newExplorer(FollowRight, game.Right, cfg, turnBackOnceSlow)
}

func newExplorer(name Name, side game.RelativeDirection, cfg Config, finder turningPointFinder) *Explorer {
	return &Explorer{
		name:             name,
		side:             side,
		sensor:           sensor.New(cfg.FollowingSensitivity, cfg.ViewDepth),
		obstacles:        game.Obstacles(),
		cfg:              cfg,
		findTurningPoint: finder,
	}
}

// Name returns the variant name.
func (e *Explorer) Name() Name {
	return e.name
}

// Side returns the tracked side.
func (e *Explorer) Side() game.RelativeDirection {
	return e.side
}

// Sensor returns the geometry helper the explorer reads views with.
func (e *Explorer) Sensor() *sensor.Sensor {
	return e.sensor
}

// Obstacles returns the terrain the explorer follows and avoids.
func (e *Explorer) Obstacles() game.TerrainSet {
	return e.obstacles
}

// ChangeStrategyNow reports whether the hand-off completed and the factory
// should swap to the other variant.
func (e *Explorer) ChangeStrategyNow() bool {
	return e.changeStrategyNow
}

func (e *Explorer) otherSide() game.RelativeDirection {
	return e.side.Opposite()
}

// DistanceAhead returns the distance to the nearest obstacle along the heading.
func (e *Explorer) DistanceAhead(obs Observation) int {
	return e.sensor.DistanceToNearestMatch(obs.View, obs.Position, obs.Heading, e.obstacles)
}

// IsFollowing reports whether an obstacle lies on the tracked side within the
// following sensitivity.
func (e *Explorer) IsFollowing(obs Observation) bool {
	return e.sensor.IsFollowingObstacle(obs.View, obs.Position, obs.Heading, e.side, e.obstacles)
}

// FollowedObstacle returns the obstacle currently followed on the tracked side.
func (e *Explorer) FollowedObstacle(obs Observation) (game.Coordinate, bool) {
	return e.sensor.FollowedObstacle(obs.View, obs.Position, obs.Heading, e.side, e.obstacles)
}

// TrackedSlice returns the full-depth slice on the tracked side.
func (e *Explorer) TrackedSlice(obs Observation) []sensor.Slot {
	return e.sensor.SideSlice(obs.View, obs.Position, obs.Heading, e.side)
}

// FindTileOnOtherSide returns the nearest obstacle on the untracked side of
// origin, looking up to the view depth.
func (e *Explorer) FindTileOnOtherSide(view game.View, origin game.Coordinate, heading game.Direction) (game.Coordinate, bool) {
	return e.sensor.FindNearestObstacleCoordinate(view, origin, heading.Resolve(e.otherSide()), e.obstacles)
}

// FindTurningPoint runs the variant's turning point search.
func (e *Explorer) FindTurningPoint(obs Observation, pending Membership) game.Action {
	return e.findTurningPoint(e, obs, pending)
}

// Decide returns the action for this tick. The first matching rule wins:
//  1. a pending slow-down hand-off is left alone;
//  2. after the hand-off turn, wait for an obstacle ahead and turn toward the
//     tracked side so it lands on the other variant's side, then request the switch;
//  3. while following, turn away from the tracked side at an obstacle, slow
//     down near one or where the followed line ends, else accelerate;
//  4. right after turning toward the tracked side, slow down;
//  5. otherwise turn toward the tracked side unless it is a dead end.
func (e *Explorer) Decide(obs Observation, ctl *Control) game.Action {
	if ctl.HandOff == game.SlowDown {
		return game.NoAction
	}

	if ctl.HandOff != game.NoAction && ctl.JustChangedState {
		action := e.decideTurning(e.DistanceAhead(obs), e.side, false)
		if action == game.TurnToward(e.side) {
			ctl.HandOff = game.NoAction
			ctl.JustChangedState = false
			e.changeStrategyNow = true
		}
		return action
	}

	if e.IsFollowing(obs) {
		ctl.JustChangedState = false
		cornerEnds := e.sensor.PeekAroundCorner(obs.View, obs.Position, obs.Heading, e.side, e.obstacles)
		return e.decideTurning(e.DistanceAhead(obs), e.otherSide(), cornerEnds)
	}

	if ctl.JustChangedState && ctl.HasTurned && ctl.LastTurn == e.side {
		return game.SlowDown
	}

	if !e.sensor.IsDeadEnd(obs.View, obs.Position, obs.Heading, e.side, e.obstacles) {
		return game.TurnToward(e.side)
	}
	return e.decideTurning(e.DistanceAhead(obs), e.otherSide(), false)
}

// decideTurning turns toward turnSide when the obstacle ahead is within the
// turning distance, slows down within the slow-down distance or when the
// followed line ends, and accelerates otherwise.
func (e *Explorer) decideTurning(distAhead int, turnSide game.RelativeDirection, followedEndsAhead bool) game.Action {
	switch {
	case distAhead <= e.cfg.DistanceToTurn:
		return game.TurnToward(turnSide)
	case distAhead <= e.cfg.DistanceToSlowDown || followedEndsAhead:
		return game.SlowDown
	default:
		return game.Accelerate
	}
}

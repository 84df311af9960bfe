/*
Package sensor interprets the agent's bounded local view.

Every operation is a pure function of the view, an origin and a heading. Tiles
outside the view are unknown: they never match a terrain set and never count
as traversable, so the agent only reasons about what it observed this tick.
*/
package sensor

import (
	"math"

	"github.com/beka-birhanu/vinom-navigator/game"
)

// Unbounded is returned by distance queries when nothing matches within the slice.
const Unbounded = math.MaxInt

// Slot is one step of a directional slice.
type Slot struct {
	Coordinate game.Coordinate
	Tile       game.Tile
}

// Sensor holds the geometry parameters shared by every query.
type Sensor struct {
	followingSensitivity int // max tiles between the agent and a followed obstacle
	viewDepth            int // number of tiles in a slice
}

// New creates a sensor. followingSensitivity bounds how far a side obstacle may be
// to still count as followed; viewDepth is the slice length.
func New(followingSensitivity, viewDepth int) *Sensor {
	return &Sensor{
		followingSensitivity: followingSensitivity,
		viewDepth:            viewDepth,
	}
}

// FollowingSensitivity returns the side distance within which an obstacle is followed.
func (s *Sensor) FollowingSensitivity() int {
	return s.followingSensitivity
}

// ViewDepth returns the slice length.
func (s *Sensor) ViewDepth() int {
	return s.viewDepth
}

// DirectionalSlice returns up to maxDepth tiles from origin outward in dir,
// excluding origin itself.
func (s *Sensor) DirectionalSlice(view game.View, origin game.Coordinate, dir game.Direction, maxDepth int) []Slot {
	slice := make([]Slot, 0, maxDepth)
	for i := 1; i <= maxDepth; i++ {
		c := origin.Step(dir, i)
		slice = append(slice, Slot{Coordinate: c, Tile: view.TileAt(c)})
	}
	return slice
}

// Slice returns a slice of the sensor's view depth.
func (s *Sensor) Slice(view game.View, origin game.Coordinate, dir game.Direction) []Slot {
	return s.DirectionalSlice(view, origin, dir, s.viewDepth)
}

// SideSlice returns the slice on the given side of a heading.
func (s *Sensor) SideSlice(view game.View, origin game.Coordinate, heading game.Direction, side game.RelativeDirection) []Slot {
	return s.Slice(view, origin, heading.Resolve(side))
}

// DistanceToNearestMatch returns the 1-based index of the first tile in the
// slice toward dir that matches terrain, or Unbounded.
func (s *Sensor) DistanceToNearestMatch(view game.View, origin game.Coordinate, dir game.Direction, terrain game.TerrainSet) int {
	for i, slot := range s.Slice(view, origin, dir) {
		if terrain.Matches(slot.Tile) {
			return i + 1
		}
	}
	return Unbounded
}

// FindNearestObstacleCoordinate returns the coordinate of the first tile toward
// dir that matches terrain.
func (s *Sensor) FindNearestObstacleCoordinate(view game.View, origin game.Coordinate, dir game.Direction, terrain game.TerrainSet) (game.Coordinate, bool) {
	for _, slot := range s.Slice(view, origin, dir) {
		if terrain.Matches(slot.Tile) {
			return slot.Coordinate, true
		}
	}
	return game.Coordinate{}, false
}

// FollowedObstacle returns the nearest matching tile on side within the
// following sensitivity.
func (s *Sensor) FollowedObstacle(view game.View, origin game.Coordinate, heading game.Direction, side game.RelativeDirection, terrain game.TerrainSet) (game.Coordinate, bool) {
	depth := min(s.followingSensitivity, s.viewDepth)
	for _, slot := range s.DirectionalSlice(view, origin, heading.Resolve(side), depth) {
		if terrain.Matches(slot.Tile) {
			return slot.Coordinate, true
		}
	}
	return game.Coordinate{}, false
}

// IsFollowingObstacle reports whether a matching tile lies on side within the
// following sensitivity.
func (s *Sensor) IsFollowingObstacle(view game.View, origin game.Coordinate, heading game.Direction, side game.RelativeDirection, terrain game.TerrainSet) bool {
	_, ok := s.FollowedObstacle(view, origin, heading, side, terrain)
	return ok
}

// PeekAroundCorner shifts origin one tile toward side and looks ahead along
// heading. It reports whether any tile there is traversable, which means the
// obstacle line on that side ends ahead.
func (s *Sensor) PeekAroundCorner(view game.View, origin game.Coordinate, heading game.Direction, side game.RelativeDirection, obstacles game.TerrainSet) bool {
	shifted := origin.Step(heading.Resolve(side), 1)
	for _, slot := range s.Slice(view, shifted, heading) {
		if obstacles.Traversable(slot.Tile) {
			return true
		}
	}
	return false
}

// IsDeadEnd reports whether turning toward side leads into a one-tile-wide
// pinch. It finds the nearest matching tile on side, steps back one tile and
// checks both neighbours perpendicular to the slice.
//
// It assumes corridors are never narrower than two tiles except at dead ends.
func (s *Sensor) IsDeadEnd(view game.View, origin game.Coordinate, heading game.Direction, side game.RelativeDirection, terrain game.TerrainSet) bool {
	dir := heading.Resolve(side)
	obstacle, ok := s.FindNearestObstacleCoordinate(view, origin, dir, terrain)
	if !ok {
		// Dead ends are assumed to be visible; nothing seen means open.
		return false
	}
	before := obstacle.Step(dir, -1)
	return s.isSinglePath(view, before, dir, terrain)
}

// isSinglePath reports whether both tiles flanking c across dir match terrain.
func (s *Sensor) isSinglePath(view game.View, c game.Coordinate, dir game.Direction, terrain game.TerrainSet) bool {
	first := view.TileAt(c.Step(dir.Clockwise(), 1))
	second := view.TileAt(c.Step(dir.CounterClockwise(), 1))
	return terrain.Matches(first) && terrain.Matches(second)
}

/*
Package world is a discrete stand-in for the simulation the navigator drives.

The agent occupies one tile and moves at most one tile per tick. Turns rotate
it in place. It sees every tile within a square radius around it, and is never
allowed to enter a wall.
*/
package world

import (
	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/beka-birhanu/vinom-navigator/game/maze"
)

const (
	MaxSpeed      = 3.0
	MaxHealth     = 100
	LavaDamage    = 5
	DefaultRadius = 4
)

// World holds the full map and the agent's pose.
type World struct {
	tiles  game.View
	width  int
	height int
	radius int

	position game.Coordinate
	heading  game.Direction
	speed    float64
	health   int

	keys       map[int]struct{}
	steps      int
	collisions int
}

// New places the agent at start facing heading.
func New(tiles game.View, width, height int, start game.Coordinate, heading game.Direction, radius int) *World {
	return &World{
		tiles:    tiles,
		width:    width,
		height:   height,
		radius:   radius,
		position: start,
		heading:  heading,
		health:   MaxHealth,
		keys:     make(map[int]struct{}),
	}
}

// FromLayout places the agent on the layout's start tile.
func FromLayout(l *maze.Layout, heading game.Direction, radius int) *World {
	return New(l.Tiles, l.Width, l.Height, l.Start, heading, radius)
}

// View returns the tiles within the view radius of the agent.
func (w *World) View() game.View {
	view := make(game.View, (2*w.radius+1)*(2*w.radius+1))
	for dx := -w.radius; dx <= w.radius; dx++ {
		for dy := -w.radius; dy <= w.radius; dy++ {
			c := game.Coordinate{X: w.position.X + dx, Y: w.position.Y + dy}
			if t, ok := w.tiles[c]; ok {
				view[c] = t
			}
		}
	}
	return view
}

// Apply executes one action and advances the world by a tick.
// It reports whether the agent changed tile.
func (w *World) Apply(a game.Action) bool {
	switch a {
	case game.TurnLeft:
		w.heading = w.heading.CounterClockwise()
		w.speed = 1
		return w.settle(false)
	case game.TurnRight:
		w.heading = w.heading.Clockwise()
		w.speed = 1
		return w.settle(false)
	case game.Reverse:
		w.speed = 0
		return w.settle(false)
	case game.Accelerate:
		w.speed = min(w.speed+1, MaxSpeed)
	case game.SlowDown:
		w.speed = 1
	}
	if w.speed == 0 {
		return w.settle(false)
	}
	return w.settle(w.advance())
}

// advance moves one tile forward unless a wall is in the way.
func (w *World) advance() bool {
	next := w.position.Step(w.heading, 1)
	t, ok := w.tiles[next]
	if !ok || t.Type == game.Wall {
		w.speed = 0
		w.collisions++
		return false
	}
	w.position = next
	w.steps++
	return true
}

// settle applies the effects of the tile the agent stands on.
func (w *World) settle(moved bool) bool {
	t := w.tiles[w.position]
	switch t.Type {
	case game.Lava:
		w.health = max(w.health-LavaDamage, 0)
		if t.HasKey() {
			w.keys[t.Key] = struct{}{}
		}
	case game.Health:
		w.health = MaxHealth
	}
	return moved
}

func (w *World) Position() game.Coordinate { return w.position }
func (w *World) Heading() game.Direction   { return w.heading }
func (w *World) Speed() float64            { return w.speed }
func (w *World) Health() int               { return w.health }
func (w *World) Width() int                { return w.width }
func (w *World) Height() int               { return w.height }
func (w *World) Steps() int                { return w.steps }
func (w *World) Collisions() int           { return w.collisions }

// KeysCollected returns how many distinct keys the agent has stood on.
func (w *World) KeysCollected() int {
	return len(w.keys)
}

// TileAt returns the true tile at c.
func (w *World) TileAt(c game.Coordinate) game.Tile {
	return w.tiles.TileAt(c)
}

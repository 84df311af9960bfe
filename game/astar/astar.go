/*
Package astar plans least-cost routes over the discovered tile grid.

The search is a four-directional A* with Manhattan distance scaled by the
cheapest traversal cost as heuristic. Edge cost is the policy cost of the tile
being entered. When the frontier empties before the goal is reached the
search returns an empty path; that is a normal outcome meaning the goal is
unreachable with what is currently known.
*/
package astar

import (
	"container/heap"

	"github.com/beka-birhanu/vinom-navigator/game"
)

// Default traversal costs.
const (
	DefaultRoadCost = 10
	DefaultLavaCost = 200
)

// Policy maps tile types to traversal cost. Types without an entry are impassable.
type Policy map[game.TileType]int

// DefaultPolicy returns a policy where every walkable tile costs roadCost and
// lava costs lavaCost. Walls and unknown tiles are impassable.
func DefaultPolicy(roadCost, lavaCost int) Policy {
	return Policy{
		game.Road:   roadCost,
		game.Start:  roadCost,
		game.Finish: roadCost,
		game.Health: roadCost,
		game.Lava:   lavaCost,
	}
}

// Cost returns the cost of entering a tile of type t.
func (p Policy) Cost(t game.TileType) (int, bool) {
	c, ok := p[t]
	return c, ok
}

// minCost returns the cheapest positive cost in the policy, used to scale the heuristic.
func (p Policy) minCost() int {
	least := 0
	for _, c := range p {
		if c > 0 && (least == 0 || c < least) {
			least = c
		}
	}
	if least == 0 {
		return 1
	}
	return least
}

// Path is the result of a search.
type Path struct {
	Steps    []game.Coordinate // start to goal inclusive; empty when unreachable
	Cost     int               // sum of entered-tile costs
	Expanded int               // nodes taken off the frontier
}

// Found reports whether the search reached the goal.
func (p Path) Found() bool {
	return len(p.Steps) > 0
}

// Search holds the inputs of one route planning run.
type Search struct {
	width  int
	height int
	tiles  game.View
	policy Policy
	avoid  game.TerrainSet
}

// New creates a search over a width x height grid.
func New(width, height int, tiles game.View, policy Policy, avoid game.TerrainSet) *Search {
	if avoid.Len() == 0 {
		avoid = game.NewTerrainSet()
	}
	return &Search{
		width:  width,
		height: height,
		tiles:  tiles,
		policy: policy,
		avoid:  avoid,
	}
}

// FindPath runs A* from start to goal.
func (s *Search) FindPath(start, goal game.Coordinate) Path {
	if !s.inBound(start) || !s.inBound(goal) {
		return Path{}
	}
	if start == goal {
		return Path{Steps: []game.Coordinate{start}}
	}
	if _, ok := s.stepCost(goal); !ok {
		return Path{}
	}

	scale := s.policy.minCost()
	heuristic := func(c game.Coordinate) int {
		return c.Manhattan(goal) * scale
	}

	open := make(map[game.Coordinate]*Node)
	closed := make(map[game.Coordinate]struct{})
	f := &frontier{}
	seq := 0

	root := &Node{Coordinate: start, H: heuristic(start)}
	root.F = root.H
	heap.Push(f, root)
	open[start] = root

	expanded := 0
	for f.Len() > 0 {
		current := heap.Pop(f).(*Node)
		delete(open, current.Coordinate)
		closed[current.Coordinate] = struct{}{}
		expanded++

		if current.Coordinate == goal {
			return Path{Steps: reconstruct(current), Cost: current.G, Expanded: expanded}
		}

		for _, d := range game.Directions {
			next := current.Step(d, 1)
			if _, done := closed[next]; done || !s.inBound(next) {
				continue
			}
			cost, ok := s.stepCost(next)
			if !ok {
				continue
			}

			g := current.G + cost
			if n, queued := open[next]; queued {
				if g < n.G {
					n.G = g
					n.F = g + n.H
					n.Parent = current
					heap.Fix(f, n.index)
				}
				continue
			}

			seq++
			n := &Node{Coordinate: next, G: g, H: heuristic(next), Parent: current, seq: seq}
			n.F = n.G + n.H
			heap.Push(f, n)
			open[next] = n
		}
	}

	return Path{Expanded: expanded}
}

// stepCost returns the cost of entering c, or false when c cannot be entered.
func (s *Search) stepCost(c game.Coordinate) (int, bool) {
	t := s.tiles.TileAt(c)
	if s.avoid.Contains(t.Type) {
		return 0, false
	}
	return s.policy.Cost(t.Type)
}

func (s *Search) inBound(c game.Coordinate) bool {
	return c.X >= 0 && c.X < s.width && c.Y >= 0 && c.Y < s.height
}

// reconstruct follows parent links from the goal back to the start.
func reconstruct(n *Node) []game.Coordinate {
	var steps []game.Coordinate
	for ; n != nil; n = n.Parent {
		steps = append(steps, n.Coordinate)
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

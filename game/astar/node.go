package astar

import "github.com/beka-birhanu/vinom-navigator/game"

// Node wraps a coordinate with its search bookkeeping.
// Parent links form a tree rooted at the start node.
type Node struct {
	game.Coordinate
	G      int   // cost from start
	H      int   // heuristic estimate to goal
	F      int   // G + H
	Parent *Node // predecessor on the cheapest known path

	seq   int // insertion order, last tie-break
	index int // position in the frontier heap, -1 once popped
}

// frontier is a min-heap of nodes ordered by F, then H, then insertion order.
type frontier []*Node

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].F != f[j].F {
		return f[i].F < f[j].F
	}
	if f[i].H != f[j].H {
		return f[i].H < f[j].H
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x any) {
	n := x.(*Node)
	n.index = len(*f)
	*f = append(*f, n)
}

func (f *frontier) Pop() any {
	old := *f
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*f = old[:last]
	return n
}

/*
Package maze generates worlds for the navigator to explore.

A perfect maze of cells is generated with Wilson's algorithm and rendered to a
tile grid whose corridors are at least two tiles wide, so the only one-tile
pinches are the ones hazards create. Hazards (lava, keys and health tiles) are
then scattered over the corridors.
*/
package maze

import (
	"errors"
	"fmt"
	"math/rand"
)

const (
	maxMazeDimension = 20
)

var (
	// Directions lists the cell offsets in a fixed order so a seeded generator
	// is reproducible.
	Directions = []struct {
		Name  string
		Delta CellPosition
	}{
		{Name: "North", Delta: CellPosition{Row: -1, Col: 0}},
		{Name: "East", Delta: CellPosition{Row: 0, Col: 1}},
		{Name: "South", Delta: CellPosition{Row: 1, Col: 0}},
		{Name: "West", Delta: CellPosition{Row: 0, Col: -1}},
	}

	ErrInvalidDimensions = errors.New("invalid maze dimensions")
)

// WilsonMaze is a rectangular perfect maze of cells.
type WilsonMaze struct {
	Width  int       // number of columns
	Height int       // number of rows
	Grid   [][]*Cell // Grid[row][col]

	rng *rand.Rand
}

// New generates a maze of the given dimensions from seed.
func New(width, height int, seed int64) (*WilsonMaze, error) {
	if min(width, height) <= 0 || max(width, height) > maxMazeDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	grid := make([][]*Cell, height)
	for i := range grid {
		grid[i] = make([]*Cell, width)
		for j := range grid[i] {
			grid[i][j] = &Cell{
				NorthWall: true,
				SouthWall: true,
				EastWall:  true,
				WestWall:  true,
			}
		}
	}

	maze := &WilsonMaze{
		Width:  width,
		Height: height,
		Grid:   grid,
		rng:    rand.New(rand.NewSource(seed)),
	}
	maze.generate()
	return maze, nil
}

func (m *WilsonMaze) randomCellPosition() CellPosition {
	return CellPosition{Row: m.rng.Intn(m.Height), Col: m.rng.Intn(m.Width)}
}

func (m *WilsonMaze) randomUnvisitedCellPosition(visited map[CellPosition]struct{}) CellPosition {
	for {
		pos := m.randomCellPosition()
		if _, included := visited[pos]; !included {
			return pos
		}
	}
}

// neighbors returns every in-bound move from pos.
func (m *WilsonMaze) neighbors(pos CellPosition) []Move {
	var result []Move
	for _, d := range Directions {
		neighbor := CellPosition{Row: pos.Row + d.Delta.Row, Col: pos.Col + d.Delta.Col}
		if m.inBound(neighbor) {
			result = append(result, Move{From: pos, To: neighbor, Direction: d.Name})
		}
	}
	return result
}

func (m *WilsonMaze) inBound(pos CellPosition) bool {
	return pos.Row >= 0 && pos.Row < m.Height && pos.Col >= 0 && pos.Col < m.Width
}

// openWall removes the wall shared by the two cells of move.
func (m *WilsonMaze) openWall(move Move) {
	from := m.Grid[move.From.Row][move.From.Col]
	to := m.Grid[move.To.Row][move.To.Col]
	switch move.Direction {
	case "North":
		from.NorthWall, to.SouthWall = false, false
	case "South":
		from.SouthWall, to.NorthWall = false, false
	case "East":
		from.EastWall, to.WestWall = false, false
	case "West":
		from.WestWall, to.EastWall = false, false
	}
}

// randomWalk walks from an unvisited cell until it hits the visited tree.
// Revisiting a cell overwrites its exit, which erases loops.
func (m *WilsonMaze) randomWalk(visited map[CellPosition]struct{}) (CellPosition, map[CellPosition]Move) {
	start := m.randomUnvisitedCellPosition(visited)
	exits := make(map[CellPosition]Move)
	cell := start

	for {
		neighbors := m.neighbors(cell)
		next := neighbors[m.rng.Intn(len(neighbors))]
		exits[cell] = next
		if _, included := visited[next.To]; included {
			break
		}
		cell = next.To
	}

	return start, exits
}

// generate carves the maze with Wilson's algorithm.
func (m *WilsonMaze) generate() {
	visited := make(map[CellPosition]struct{})
	visited[m.randomCellPosition()] = struct{}{}

	for len(visited) < m.Width*m.Height {
		start, exits := m.randomWalk(visited)
		// Follow the loop-erased path from the start so map order does not matter.
		for cell := start; ; {
			move := exits[cell]
			m.openWall(move)
			visited[cell] = struct{}{}
			if _, done := visited[move.To]; done {
				break
			}
			cell = move.To
		}
	}
}

// DeadEnds returns the cells with exactly one opening.
func (m *WilsonMaze) DeadEnds() []CellPosition {
	var ends []CellPosition
	for row := range m.Grid {
		for col, cell := range m.Grid[row] {
			if cell.walls() == 3 {
				ends = append(ends, CellPosition{Row: row, Col: col})
			}
		}
	}
	return ends
}

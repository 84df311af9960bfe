package maze

// Cell is one room of the maze with the walls on each of its sides.
type Cell struct {
	NorthWall bool
	SouthWall bool
	EastWall  bool
	WestWall  bool
}

// CellPosition is the position of a cell. Row 0 is the northern edge.
type CellPosition struct {
	Row int
	Col int
}

// Move is a step from one cell to an adjacent one.
type Move struct {
	From      CellPosition
	To        CellPosition
	Direction string // North, South, East or West
}

// walls counts the closed sides of the cell.
func (c *Cell) walls() int {
	n := 0
	for _, w := range []bool{c.NorthWall, c.SouthWall, c.EastWall, c.WestWall} {
		if w {
			n++
		}
	}
	return n
}

package maze

import (
	"fmt"

	"github.com/beka-birhanu/vinom-navigator/game"
)

// MinCorridorWidth is the narrowest corridor Layout renders.
const MinCorridorWidth = 2

// Layout is a maze rendered to tiles. It is the complete world, not a view.
type Layout struct {
	Width  int
	Height int
	Tiles  game.View
	Start  game.Coordinate
	Finish game.Coordinate
	Keys   map[int]game.Coordinate
}

// Layout renders the maze with corridors corridor tiles wide and one-tile
// walls. Cell (0,0), the north-west corner, holds the finish; the south-east
// cell holds the start.
func (m *WilsonMaze) Layout(corridor int) (*Layout, error) {
	if corridor < MinCorridorWidth {
		return nil, fmt.Errorf("%w: corridor width %d", ErrInvalidDimensions, corridor)
	}

	pitch := corridor + 1
	l := &Layout{
		Width:  m.Width*pitch + 1,
		Height: m.Height*pitch + 1,
		Tiles:  make(game.View),
		Keys:   make(map[int]game.Coordinate),
	}
	for x := 0; x < l.Width; x++ {
		for y := 0; y < l.Height; y++ {
			l.Tiles[game.Coordinate{X: x, Y: y}] = game.Tile{Type: game.Wall}
		}
	}

	for row := range m.Grid {
		for col, cell := range m.Grid[row] {
			origin := m.cellOrigin(CellPosition{Row: row, Col: col}, pitch)
			l.carve(origin, corridor, corridor)
			if !cell.EastWall {
				l.carve(game.Coordinate{X: origin.X + corridor, Y: origin.Y}, 1, corridor)
			}
			if !cell.NorthWall {
				l.carve(game.Coordinate{X: origin.X, Y: origin.Y + corridor}, corridor, 1)
			}
		}
	}

	l.Finish = m.cellOrigin(CellPosition{Row: 0, Col: 0}, pitch)
	l.Start = m.cellOrigin(CellPosition{Row: m.Height - 1, Col: m.Width - 1}, pitch)
	l.Tiles[l.Finish] = game.Tile{Type: game.Finish}
	l.Tiles[l.Start] = game.Tile{Type: game.Start}
	return l, nil
}

// cellOrigin returns the south-west tile of a cell's interior.
func (m *WilsonMaze) cellOrigin(pos CellPosition, pitch int) game.Coordinate {
	return game.Coordinate{
		X: pos.Col*pitch + 1,
		Y: (m.Height-1-pos.Row)*pitch + 1,
	}
}

func (l *Layout) carve(origin game.Coordinate, w, h int) {
	for dx := 0; dx < w; dx++ {
		for dy := 0; dy < h; dy++ {
			l.Tiles[game.Coordinate{X: origin.X + dx, Y: origin.Y + dy}] = game.Tile{Type: game.Road}
		}
	}
}

// Roads returns the plain road tiles in row-major order.
func (l *Layout) Roads() []game.Coordinate {
	var roads []game.Coordinate
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			c := game.Coordinate{X: x, Y: y}
			if l.Tiles[c].Type == game.Road {
				roads = append(roads, c)
			}
		}
	}
	return roads
}

// String draws the layout with game.Render.
func (l *Layout) String() string {
	return game.Render(l.Tiles, l.Width, l.Height, nil)
}

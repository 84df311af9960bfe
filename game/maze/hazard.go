package maze

import (
	"fmt"
	"math"

	"github.com/beka-birhanu/vinom-navigator/game"
)

// HazardModel configures what PopulateHazards scatters over a layout.
// LavaProb is the base probability of a lava tile in a cell, raised for
// cells nearer the centre of the maze.
type HazardModel struct {
	LavaProb    float32 // 0.0 to 1.0
	Keys        int     // lava tiles carrying keys 1..Keys
	HealthTiles int
}

// PopulateHazards places at most one lava tile per cell, hides keys under
// lava and turns some road tiles into health tiles. Start and finish are
// never covered. One lava tile never closes a corridor at least two wide.
func (m *WilsonMaze) PopulateHazards(h HazardModel, l *Layout) error {
	if h.LavaProb > 1 || h.LavaProb < 0 || min(h.Keys, h.HealthTiles) < 0 {
		return fmt.Errorf("invalid hazard model")
	}
	if h.Keys > m.Width*m.Height {
		return fmt.Errorf("invalid hazard model: %d keys for %d cells", h.Keys, m.Width*m.Height)
	}

	pitch := (l.Width - 1) / m.Width
	corridor := pitch - 1

	var lava, spare []CellPosition
	visited := map[CellPosition]struct{}{{Row: 0, Col: 0}: {}}
	stack := []CellPosition{{Row: 0, Col: 0}}
	for len(stack) > 0 {
		cell := pop(&stack)
		if m.rng.Float32() < calcProb(h.LavaProb, cell, m.Width, m.Height) {
			lava = append(lava, cell)
		} else {
			spare = append(spare, cell)
		}

		for _, nbr := range m.neighbors(cell) {
			if _, seen := visited[nbr.To]; !seen {
				visited[nbr.To] = struct{}{}
				stack = append(stack, nbr.To)
			}
		}
	}

	m.rng.Shuffle(len(spare), func(i, j int) { spare[i], spare[j] = spare[j], spare[i] })
	for len(lava) < h.Keys {
		lava, spare = append(lava, spare[0]), spare[1:]
	}
	m.rng.Shuffle(len(lava), func(i, j int) { lava[i], lava[j] = lava[j], lava[i] })

	for i, cell := range lava {
		origin := m.cellOrigin(cell, pitch)
		c := game.Coordinate{X: origin.X + m.rng.Intn(corridor), Y: origin.Y + m.rng.Intn(corridor)}
		if c == l.Start || c == l.Finish {
			if i < h.Keys {
				c = game.Coordinate{X: origin.X + corridor - 1, Y: origin.Y + corridor - 1}
			} else {
				continue
			}
		}
		tile := game.Tile{Type: game.Lava}
		if i < h.Keys {
			tile.Key = i + 1
			l.Keys[tile.Key] = c
		}
		l.Tiles[c] = tile
	}

	roads := l.Roads()
	m.rng.Shuffle(len(roads), func(i, j int) { roads[i], roads[j] = roads[j], roads[i] })
	for _, c := range roads[:min(h.HealthTiles, len(roads))] {
		l.Tiles[c] = game.Tile{Type: game.Health}
	}
	return nil
}

func pop(s *[]CellPosition) CellPosition {
	lastIndex := len(*s) - 1
	popped := (*s)[lastIndex]
	*s = (*s)[:lastIndex]
	return popped
}

// calcProb raises p for cells near the centre of the maze.
func calcProb(p float32, cell CellPosition, mazeWidth, mazeHeight int) float32 {
	midRow, midCol := mazeHeight/2, mazeWidth/2
	maxDist := float64(midRow + midCol)
	if maxDist == 0 {
		return p
	}

	distToMid := math.Abs(float64(cell.Row-midRow)) + math.Abs(float64(cell.Col-midCol))
	normalizedDist := 1.0 - distToMid/maxDist

	return p + (1-p)*float32(normalizedDist)/10
}

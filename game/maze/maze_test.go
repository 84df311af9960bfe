package maze

import (
	"testing"

	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reachable flood-fills from start over tiles the agent can stand on.
func reachable(l *Layout, start game.Coordinate, blocked game.TerrainSet) map[game.Coordinate]struct{} {
	seen := map[game.Coordinate]struct{}{start: {}}
	queue := []game.Coordinate{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range game.Directions {
			next := c.Step(d, 1)
			t, ok := l.Tiles[next]
			if !ok || blocked.Contains(t.Type) {
				continue
			}
			if _, done := seen[next]; !done {
				seen[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	return seen
}

func TestNew(t *testing.T) {
	t.Run("Rejects invalid dimensions", func(t *testing.T) {
		for _, dims := range [][2]int{{0, 3}, {3, -1}, {21, 3}} {
			_, err := New(dims[0], dims[1], 1)
			assert.ErrorIs(t, err, ErrInvalidDimensions)
		}
	})

	t.Run("Generates a spanning tree", func(t *testing.T) {
		m, err := New(6, 4, 7)
		require.NoError(t, err)

		openings := 0
		for row := range m.Grid {
			for col, cell := range m.Grid[row] {
				if !cell.EastWall {
					openings++
					assert.False(t, m.Grid[row][col+1].WestWall)
				}
				if !cell.SouthWall {
					openings++
					assert.False(t, m.Grid[row+1][col].NorthWall)
				}
			}
		}
		assert.Equal(t, m.Width*m.Height-1, openings)
	})

	t.Run("Same seed, same maze", func(t *testing.T) {
		a, err := New(5, 5, 42)
		require.NoError(t, err)
		b, err := New(5, 5, 42)
		require.NoError(t, err)
		assert.Equal(t, a.Grid, b.Grid)
	})
}

func TestLayout(t *testing.T) {
	m, err := New(4, 3, 11)
	require.NoError(t, err)

	_, err = m.Layout(1)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	l, err := m.Layout(2)
	require.NoError(t, err)

	t.Run("Size follows the corridor pitch", func(t *testing.T) {
		assert.Equal(t, 4*3+1, l.Width)
		assert.Equal(t, 3*3+1, l.Height)
		assert.Len(t, l.Tiles, l.Width*l.Height)
	})

	t.Run("Border is walled", func(t *testing.T) {
		for x := 0; x < l.Width; x++ {
			assert.Equal(t, game.Wall, l.Tiles[game.Coordinate{X: x, Y: 0}].Type)
			assert.Equal(t, game.Wall, l.Tiles[game.Coordinate{X: x, Y: l.Height - 1}].Type)
		}
		for y := 0; y < l.Height; y++ {
			assert.Equal(t, game.Wall, l.Tiles[game.Coordinate{X: 0, Y: y}].Type)
			assert.Equal(t, game.Wall, l.Tiles[game.Coordinate{X: l.Width - 1, Y: y}].Type)
		}
	})

	t.Run("Start and finish are connected", func(t *testing.T) {
		assert.Equal(t, game.Start, l.Tiles[l.Start].Type)
		assert.Equal(t, game.Finish, l.Tiles[l.Finish].Type)
		assert.Contains(t, reachable(l, l.Start, game.NewTerrainSet(game.Wall)), l.Finish)
	})

	t.Run("Every open tile is reachable", func(t *testing.T) {
		seen := reachable(l, l.Start, game.NewTerrainSet(game.Wall))
		for _, c := range l.Roads() {
			assert.Contains(t, seen, c)
		}
	})
}

func TestPopulateHazards(t *testing.T) {
	m, err := New(5, 5, 3)
	require.NoError(t, err)
	l, err := m.Layout(2)
	require.NoError(t, err)

	assert.Error(t, m.PopulateHazards(HazardModel{LavaProb: 1.5}, l))
	assert.Error(t, m.PopulateHazards(HazardModel{Keys: 26}, l))

	require.NoError(t, m.PopulateHazards(HazardModel{LavaProb: 0.2, Keys: 3, HealthTiles: 2}, l))

	t.Run("Keys lie on lava", func(t *testing.T) {
		assert.Len(t, l.Keys, 3)
		for key, c := range l.Keys {
			assert.Equal(t, game.Tile{Type: game.Lava, Key: key}, l.Tiles[c])
		}
	})

	t.Run("Health tiles are placed", func(t *testing.T) {
		health := 0
		for _, tile := range l.Tiles {
			if tile.Type == game.Health {
				health++
			}
		}
		assert.Equal(t, 2, health)
	})

	t.Run("Lava never closes a corridor", func(t *testing.T) {
		seen := reachable(l, l.Start, game.NewTerrainSet(game.Wall, game.Lava))
		assert.Contains(t, seen, l.Finish)
		assert.Equal(t, game.Start, l.Tiles[l.Start].Type)
		assert.Equal(t, game.Finish, l.Tiles[l.Finish].Type)
	})
}

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection(t *testing.T) {
	t.Run("Resolve relative sides", func(t *testing.T) {
		assert.Equal(t, West, North.Resolve(Left))
		assert.Equal(t, East, North.Resolve(Right))
		assert.Equal(t, North, East.Resolve(Left))
		assert.Equal(t, South, East.Resolve(Right))
		assert.Equal(t, East, South.Resolve(Left))
		assert.Equal(t, South, West.Resolve(Left))
	})

	t.Run("Step follows grid axes", func(t *testing.T) {
		origin := Coordinate{X: 2, Y: 2}
		assert.Equal(t, Coordinate{X: 2, Y: 5}, origin.Step(North, 3))
		assert.Equal(t, Coordinate{X: 3, Y: 2}, origin.Step(East, 1))
		assert.Equal(t, Coordinate{X: 2, Y: 1}, origin.Step(South, 1))
		assert.Equal(t, Coordinate{X: 0, Y: 2}, origin.Step(West, 2))
		assert.Equal(t, Coordinate{X: 2, Y: 1}, origin.Step(North, -1))
	})

	t.Run("Parse round trip", func(t *testing.T) {
		for _, d := range Directions {
			parsed, err := ParseDirection(d.String())
			assert.NoError(t, err)
			assert.Equal(t, d, parsed)
		}
		_, err := ParseDirection("UP")
		assert.Error(t, err)
	})
}

func TestTerrainSet(t *testing.T) {
	obstacles := Obstacles()

	assert.True(t, obstacles.Matches(Tile{Type: Wall}))
	assert.True(t, obstacles.Matches(Tile{Type: Lava, Key: 2}))
	assert.False(t, obstacles.Matches(Tile{Type: Road}))
	assert.False(t, obstacles.Matches(Tile{Type: Empty}))

	assert.True(t, obstacles.Traversable(Tile{Type: Road}))
	assert.True(t, obstacles.Traversable(Tile{Type: Health}))
	assert.False(t, obstacles.Traversable(Tile{Type: Empty}), "unknown tiles are never traversable")
	assert.False(t, obstacles.Traversable(Tile{Type: Wall}))

	t.Run("Zero value is empty", func(t *testing.T) {
		var none TerrainSet
		assert.Zero(t, none.Len())
		assert.False(t, none.Contains(Wall))
		assert.True(t, none.Traversable(Tile{Type: Wall}))
		assert.Empty(t, none.Types())
	})

	t.Run("Types are sorted", func(t *testing.T) {
		assert.Equal(t, []TileType{Wall, Lava}, NewTerrainSet(Lava, Wall, Lava).Types())
		assert.Equal(t, 2, NewTerrainSet(Lava, Wall, Lava).Len())
	})
}

func TestParseGrid(t *testing.T) {
	view, width, height := ParseGrid([]string{
		"#####",
		"#.3H#",
		"#S?.#",
		"#####",
	})

	assert.Equal(t, 5, width)
	assert.Equal(t, 4, height)
	assert.Equal(t, Tile{Type: Start}, view.TileAt(Coordinate{X: 1, Y: 1}))
	assert.Equal(t, Tile{Type: Lava, Key: 3}, view.TileAt(Coordinate{X: 2, Y: 2}))
	assert.Equal(t, Tile{Type: Health}, view.TileAt(Coordinate{X: 3, Y: 2}))
	_, known := view[Coordinate{X: 2, Y: 1}]
	assert.False(t, known)

	rendered := Render(view, width, height, map[Coordinate]rune{{X: 3, Y: 1}: GlyphAgent})
	assert.Equal(t, "#####\n#.3H#\n#S?@#\n#####\n", rendered)
}

func TestActionText(t *testing.T) {
	var a Action
	assert.NoError(t, a.UnmarshalText([]byte("TURN_LEFT")))
	assert.Equal(t, TurnLeft, a)
	assert.True(t, a.IsTurn())

	side, ok := a.TurnSide()
	assert.True(t, ok)
	assert.Equal(t, Left, side)
	assert.Equal(t, TurnRight, TurnToward(side.Opposite()))

	assert.Error(t, a.UnmarshalText([]byte("JUMP")))
}

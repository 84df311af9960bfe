package game

import (
	"strings"
)

// Grid glyphs used by ParseGrid and Render.
const (
	GlyphRoad    = '.'
	GlyphWall    = '#'
	GlyphLava    = 'L'
	GlyphHealth  = 'H'
	GlyphStart   = 'S'
	GlyphFinish  = 'F'
	GlyphUnknown = '?'
	GlyphAgent   = '@'
)

// ParseGrid reads an ASCII grid into a View. The first line is the highest
// row (y = len(lines)-1) and the first column is x = 0. Digits are lava tiles
// carrying that key; '?' and ' ' leave the tile unknown.
func ParseGrid(lines []string) (view View, width, height int) {
	view = make(View)
	height = len(lines)
	for row, line := range lines {
		y := height - 1 - row
		width = max(width, len(line))
		for x, r := range line {
			if t, ok := tileForGlyph(r); ok {
				view[Coordinate{X: x, Y: y}] = t
			}
		}
	}
	return view, width, height
}

func tileForGlyph(r rune) (Tile, bool) {
	switch {
	case r == GlyphRoad:
		return Tile{Type: Road}, true
	case r == GlyphWall:
		return Tile{Type: Wall}, true
	case r == GlyphLava:
		return Tile{Type: Lava}, true
	case r == GlyphHealth:
		return Tile{Type: Health}, true
	case r == GlyphStart:
		return Tile{Type: Start}, true
	case r == GlyphFinish:
		return Tile{Type: Finish}, true
	case r >= '1' && r <= '9':
		return Tile{Type: Lava, Key: int(r - '0')}, true
	}
	return Tile{}, false
}

// Glyph returns the ASCII glyph for a tile.
func (t Tile) Glyph() rune {
	switch t.Type {
	case Road:
		return GlyphRoad
	case Wall:
		return GlyphWall
	case Lava:
		if t.Key > 0 && t.Key <= 9 {
			return rune('0' + t.Key)
		}
		return GlyphLava
	case Health:
		return GlyphHealth
	case Start:
		return GlyphStart
	case Finish:
		return GlyphFinish
	}
	return GlyphUnknown
}

// Render draws the view as width x height ASCII, highest row first.
// Coordinates in marks are drawn with the given glyph on top of the terrain.
func Render(view View, width, height int, marks map[Coordinate]rune) string {
	var b strings.Builder
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			c := Coordinate{X: x, Y: y}
			if g, ok := marks[c]; ok {
				b.WriteRune(g)
				continue
			}
			b.WriteRune(view.TileAt(c).Glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

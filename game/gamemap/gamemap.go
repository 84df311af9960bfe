// Package gamemap accumulates everything the agent has observed.
package gamemap

import (
	"maps"

	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/zyedidia/generic/mapset"
)

// Map is the discovered map of one exploration. A tile is recorded the first
// time it is observed and never overwritten. It is not safe for concurrent use.
type Map struct {
	width     int
	height    int
	tiles     game.View
	keys      map[int]game.Coordinate
	totalKeys int
	keyOrder  []int
	health    mapset.Set[game.Coordinate]
}

// New creates an empty map of the given size expecting totalKeys keys.
// Keys are searched from totalKeys down to 1.
func New(width, height, totalKeys int) *Map {
	order := make([]int, 0, totalKeys)
	for k := totalKeys; k > 0; k-- {
		order = append(order, k)
	}
	return &Map{
		width:     width,
		height:    height,
		tiles:     make(game.View),
		keys:      make(map[int]game.Coordinate),
		totalKeys: totalKeys,
		keyOrder:  order,
		health:    mapset.New[game.Coordinate](),
	}
}

// Update merges a view into the map and returns how many tiles were new.
// Unknown and out-of-bounds tiles are ignored.
func (m *Map) Update(view game.View) int {
	discovered := 0
	for c, t := range view {
		if t.Type == game.Empty || !m.InBounds(c) {
			continue
		}
		if _, seen := m.tiles[c]; seen {
			continue
		}
		m.tiles[c] = t
		discovered++
		if t.HasKey() {
			m.keys[t.Key] = c
		}
		if t.Type == game.Health {
			m.health.Put(c)
		}
	}
	return discovered
}

// InBounds reports whether c lies on the grid.
func (m *Map) InBounds(c game.Coordinate) bool {
	return c.X >= 0 && c.X < m.width && c.Y >= 0 && c.Y < m.height
}

// Tile returns the recorded tile at c.
func (m *Map) Tile(c game.Coordinate) (game.Tile, bool) {
	t, ok := m.tiles[c]
	return t, ok
}

// View returns a copy of every recorded tile.
func (m *Map) View() game.View {
	return maps.Clone(m.tiles)
}

func (m *Map) Width() int     { return m.width }
func (m *Map) Height() int    { return m.height }
func (m *Map) Known() int     { return len(m.tiles) }
func (m *Map) TotalKeys() int { return m.totalKeys }
func (m *Map) KeysFound() int { return len(m.keys) }

// AllKeysFound reports whether every expected key has been located.
func (m *Map) AllKeysFound() bool {
	return m.totalKeys > 0 && len(m.keys) >= m.totalKeys
}

// keyCoordinate returns where key was seen.
func (m *Map) keyCoordinate(key int) (game.Coordinate, bool) {
	c, ok := m.keys[key]
	return c, ok
}

// NextKeyCoordinate consumes the next key in search order and returns its
// location. ok is false when the order is exhausted or the key was not seen;
// the key is consumed either way.
func (m *Map) NextKeyCoordinate() (key int, c game.Coordinate, ok bool) {
	if len(m.keyOrder) == 0 {
		return 0, game.Coordinate{}, false
	}
	key, m.keyOrder = m.keyOrder[0], m.keyOrder[1:]
	c, ok = m.keyCoordinate(key)
	return key, c, ok
}

// RemainingKeys returns the keys not yet consumed, in search order.
func (m *Map) RemainingKeys() []int {
	return append([]int(nil), m.keyOrder...)
}

// NearestHealthTile returns the recorded health tile closest to from by
// Manhattan distance. Ties go to the lower row, then the lower column.
func (m *Map) NearestHealthTile(from game.Coordinate) (game.Coordinate, bool) {
	var (
		best  game.Coordinate
		dist  int
		found bool
	)
	m.health.Each(func(c game.Coordinate) {
		d := from.Manhattan(c)
		if !found || d < dist || (d == dist && rowMajorLess(c, best)) {
			best, dist, found = c, d, true
		}
	})
	return best, found
}

func rowMajorLess(a, b game.Coordinate) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

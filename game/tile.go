package game

import (
	"fmt"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// TileType classifies the terrain of a single grid tile.
type TileType int

const (
	Empty TileType = iota // not observed or outside the world
	Road
	Wall
	Lava
	Health
	Start
	Finish
)

var tileTypeNames = [...]string{"EMPTY", "ROAD", "WALL", "LAVA", "HEALTH", "START", "FINISH"}

// String returns the upper-case name of the tile type.
func (t TileType) String() string {
	if t < Empty || t > Finish {
		return "UNKNOWN"
	}
	return tileTypeNames[t]
}

// ParseTileType maps a tile type name back to its value.
func ParseTileType(s string) (TileType, error) {
	for i, name := range tileTypeNames {
		if name == s {
			return TileType(i), nil
		}
	}
	return Empty, fmt.Errorf("unknown tile type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t TileType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TileType) UnmarshalText(b []byte) error {
	parsed, err := ParseTileType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Tile is a read-only snapshot of one world tile.
// Key is non-zero only for lava tiles that carry a key.
type Tile struct {
	Type TileType `json:"type" bson:"type"`
	Key  int      `json:"key,omitempty" bson:"key,omitempty"`
}

// HasKey reports whether the tile is a lava tile carrying a key.
func (t Tile) HasKey() bool {
	return t.Type == Lava && t.Key != 0
}

// View maps coordinates to the tiles the agent can currently see.
// Coordinates missing from the map are unknown.
type View map[Coordinate]Tile

// TileAt returns the tile at c, or an Empty tile when c is not in the view.
func (v View) TileAt(c Coordinate) Tile {
	if t, ok := v[c]; ok {
		return t
	}
	return Tile{Type: Empty}
}

// TerrainSet is a set of tile types used to match tiles.
// The zero value is an empty set.
type TerrainSet struct {
	types mapset.Set[TileType]
}

// NewTerrainSet builds a TerrainSet from the given types.
func NewTerrainSet(types ...TileType) TerrainSet {
	set := mapset.New[TileType]()
	for _, t := range types {
		set.Put(t)
	}
	return TerrainSet{types: set}
}

// Contains reports whether the set holds t.
func (s TerrainSet) Contains(t TileType) bool {
	return s.types.Has(t)
}

// Len returns the number of tile types in the set.
func (s TerrainSet) Len() int {
	return s.types.Size()
}

// Types returns the tile types in ascending order.
func (s TerrainSet) Types() []TileType {
	out := make([]TileType, 0, s.types.Size())
	s.types.Each(func(t TileType) {
		out = append(out, t)
	})
	slices.Sort(out)
	return out
}

// Matches reports whether the tile is known and of a type in the set.
// Empty tiles never match.
func (s TerrainSet) Matches(t Tile) bool {
	return t.Type != Empty && s.Contains(t.Type)
}

// Traversable reports whether the tile is known and not in the set.
func (s TerrainSet) Traversable(t Tile) bool {
	return t.Type != Empty && !s.Contains(t.Type)
}

// Obstacles is the terrain the explorers follow and avoid.
func Obstacles() TerrainSet {
	return NewTerrainSet(Wall, Lava)
}

// Package explore exposes exploration sessions over HTTP.
package explore

import (
	dmn "github.com/beka-birhanu/vinom-navigator/domain"
	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/google/uuid"
)

// SessionRequest opens a session over a width x height world holding totalKeys keys.
type SessionRequest struct {
	Width     int `json:"width" binding:"required,min=1"`
	Height    int `json:"height" binding:"required,min=1"`
	TotalKeys int `json:"total_keys" binding:"min=0"`
}

type SessionResponse struct {
	ID uuid.UUID `json:"id"`
}

// TileDTO is one observed tile.
type TileDTO struct {
	X    int           `json:"x"`
	Y    int           `json:"y"`
	Type game.TileType `json:"type"`
	Key  int           `json:"key,omitempty"`
}

// TickRequest carries the agent's observation for one tick.
type TickRequest struct {
	Tiles       []TileDTO       `json:"tiles"`
	Position    game.Coordinate `json:"position"`
	Orientation game.Direction  `json:"orientation"`
	Speed       float64         `json:"speed" binding:"min=0"`
}

func (r *TickRequest) toInput() dmn.TickInput {
	view := make(game.View, len(r.Tiles))
	for _, t := range r.Tiles {
		view[game.Coordinate{X: t.X, Y: t.Y}] = game.Tile{Type: t.Type, Key: t.Key}
	}
	return dmn.TickInput{
		View:        view,
		Position:    r.Position,
		Orientation: r.Orientation,
		Speed:       r.Speed,
	}
}

type TickResponse struct {
	Action game.Action `json:"action"`
}

// RouteRequest asks for a path between two known tiles.
type RouteRequest struct {
	Start game.Coordinate `json:"start"`
	Goal  game.Coordinate `json:"goal"`
	Avoid []game.TileType `json:"avoid"`
}

// KeyRouteRequest asks for a path to the next key in search order. Keys are
// routed to from the highest number down.
type KeyRouteRequest struct {
	Avoid []game.TileType `json:"avoid"`
}

// RouteResponse holds a path from start to goal, both included. Found is false
// when no path exists over the known map.
type RouteResponse struct {
	Found bool              `json:"found"`
	Path  []game.Coordinate `json:"path"`
}

func newRouteResponse(path []game.Coordinate) *RouteResponse {
	if path == nil {
		path = []game.Coordinate{}
	}
	return &RouteResponse{Found: len(path) > 0, Path: path}
}

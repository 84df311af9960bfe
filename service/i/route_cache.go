package i

import (
	"context"

	"github.com/beka-birhanu/vinom-navigator/game"
)

// RouteCache shares planned routes between replicas.
type RouteCache interface {
	// Fetch returns the route stored under key. When none is stored, plan is
	// called once across replicas and its result is stored. The boolean
	// reports whether the route came from the cache.
	Fetch(ctx context.Context, key string, plan func() []game.Coordinate) ([]game.Coordinate, bool, error)
}

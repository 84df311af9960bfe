package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-navigator/domain"
	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/google/uuid"
)

// SessionManager owns one decision engine per exploration session.
// Every call on an existing session names the operator making it; only the
// operator that opened a session may use it.
type SessionManager interface {
	NewSession(operator string, width, height, totalKeys int) (uuid.UUID, error)
	Tick(operator string, id uuid.UUID, input dmn.TickInput) (game.Action, error)
	PlanRoute(ctx context.Context, operator string, id uuid.UUID, start, goal game.Coordinate, avoid game.TerrainSet) ([]game.Coordinate, error)
	PlanRouteToNextKey(ctx context.Context, operator string, id uuid.UUID, avoid game.TerrainSet) ([]game.Coordinate, bool, error)
	Snapshot(operator string, id uuid.UUID) (dmn.EngineSnapshot, error)
	Close(ctx context.Context, operator string, id uuid.UUID) (*dmn.RunRecord, error)
	StopAll(ctx context.Context)
}

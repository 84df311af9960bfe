// Package domain holds the records shared between the services and their adapters.
package domain

import (
	"time"

	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/google/uuid"
)

// RunRecord summarizes one exploration session. It is written once, when the
// session is closed.
type RunRecord struct {
	ID            uuid.UUID       `bson:"_id" json:"id"`
	Operator      string          `bson:"operator" json:"operator"`
	Strategy      string          `bson:"strategy" json:"strategy"`
	Ticks         int             `bson:"ticks" json:"ticks"`
	Switches      int             `bson:"switches" json:"switches"`
	RoutesPlanned int             `bson:"routesPlanned" json:"routes_planned"`
	TilesKnown    int             `bson:"tilesKnown" json:"tiles_known"`
	KeysFound     int             `bson:"keysFound" json:"keys_found"`
	TotalKeys     int             `bson:"totalKeys" json:"total_keys"`
	LastPosition  game.Coordinate `bson:"lastPosition" json:"last_position"`
	StartedAt     time.Time       `bson:"startedAt" json:"started_at"`
	EndedAt       time.Time       `bson:"endedAt" json:"ended_at"`
}

// Duration returns how long the session was open.
func (r *RunRecord) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

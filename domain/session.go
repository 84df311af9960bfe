package domain

import "github.com/beka-birhanu/vinom-navigator/game"

// TickInput is what the control loop observes before asking for an action.
type TickInput struct {
	View        game.View
	Position    game.Coordinate
	Orientation game.Direction
	Speed       float64
}

// EngineSnapshot is a read-only view of a decision engine's bookkeeping.
type EngineSnapshot struct {
	Strategy         string           `json:"strategy"`
	Bootstrapped     bool             `json:"bootstrapped"`
	Ticks            int              `json:"ticks"`
	Switches         int              `json:"switches"`
	RoutesPlanned    int              `json:"routes_planned"`
	Pending          int              `json:"pending"`
	Tagged           int              `json:"tagged"`
	SwitchingPoint   *game.Coordinate `json:"switching_point,omitempty"`
	SearchingForTurn bool             `json:"searching_for_turn"`
	TilesKnown       int              `json:"tiles_known"`
	KeysFound        int              `json:"keys_found"`
	TotalKeys        int              `json:"total_keys"`
	RemainingKeys    []int            `json:"remaining_keys"`
	NearestHealth    *game.Coordinate `json:"nearest_health,omitempty"`
	Position         game.Coordinate  `json:"position"`
	Orientation      game.Direction   `json:"orientation"`
}

package strategy

import "github.com/beka-birhanu/vinom-navigator/game"

// scanForPendingObstacle is the follow-left search. It turns away from the
// tracked side when the obstacle there is pending, and slows down when such a
// point is within the lookahead.
func scanForPendingObstacle(e *Explorer, obs Observation, pending Membership) game.Action {
	if other, ok := e.FindTileOnOtherSide(obs.View, obs.Position, obs.Heading); ok && pending.Has(other) {
		return game.TurnToward(e.otherSide())
	}

	ahead := e.sensor.DirectionalSlice(obs.View, obs.Position, obs.Heading, e.cfg.TurningPointLookahead)
	for _, slot := range ahead {
		if !e.obstacles.Traversable(slot.Tile) {
			continue
		}
		if other, ok := e.FindTileOnOtherSide(obs.View, slot.Coordinate, obs.Heading); ok && pending.Has(other) {
			return game.SlowDown
		}
	}
	return game.NoAction
}

// turnBackOnceSlow is the follow-right search. Control always re-enters via
// follow-left, so it only needs to get slow enough and turn back.
func turnBackOnceSlow(e *Explorer, obs Observation, _ Membership) game.Action {
	if obs.Speed > e.cfg.MaxTurningSpeed {
		return game.SlowDown
	}
	return game.TurnToward(e.otherSide())
}

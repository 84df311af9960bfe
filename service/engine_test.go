package service

import (
	"testing"

	"github.com/beka-birhanu/vinom-navigator/config"
	dmn "github.com/beka-birhanu/vinom-navigator/domain"
	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/beka-birhanu/vinom-navigator/infrastruture/log/logtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		FollowingSensitivity:  2,
		ViewDepth:             4,
		DistanceToTurn:        1,
		DistanceToSlowDown:    4,
		TurningPointLookahead: 1,
		MaxTurningSpeed:       1.4,
		RoadCost:              10,
		LavaCost:              200,
	}
}

// fakeRecorder counts what the services report.
type fakeRecorder struct {
	ticks    map[string]int
	switches map[string]int
	routes   map[string]int
	open     int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		ticks:    make(map[string]int),
		switches: make(map[string]int),
		routes:   make(map[string]int),
	}
}

func (r *fakeRecorder) ObserveTick(action string)          { r.ticks[action]++ }
func (r *fakeRecorder) ObserveSwitch(to string)            { r.switches[to]++ }
func (r *fakeRecorder) ObserveRoute(outcome string, _ int) { r.routes[outcome]++ }
func (r *fakeRecorder) SessionOpened()                     { r.open++ }
func (r *fakeRecorder) SessionClosed()                     { r.open-- }

// room is a closed 3x4 interior.
var room = []string{
	"#####",
	"#...#",
	"#...#",
	"#...#",
	"#...#",
	"#####",
}

func newTestEngine(t *testing.T, grid []string, totalKeys int, opts ...EngineOption) (*Engine, game.View) {
	t.Helper()
	view, width, height := game.ParseGrid(grid)
	e, err := NewEngine(NewEngineConfig(testEngineConfig(), width, height, totalKeys), opts...)
	require.NoError(t, err)
	return e, view
}

func tickInput(view game.View, x, y int, heading game.Direction, speed float64) dmn.TickInput {
	return dmn.TickInput{
		View:        view,
		Position:    game.Coordinate{X: x, Y: y},
		Orientation: heading,
		Speed:       speed,
	}
}

func TestNewEngine(t *testing.T) {
	t.Run("Rejects an empty map", func(t *testing.T) {
		_, err := NewEngine(NewEngineConfig(testEngineConfig(), 0, 5, 1))
		assert.ErrorIs(t, err, ErrInvalidEngineConfig)
	})

	t.Run("Rejects zero thresholds", func(t *testing.T) {
		cfg := testEngineConfig()
		cfg.FollowingSensitivity = 0
		_, err := NewEngine(NewEngineConfig(cfg, 5, 5, 1))
		assert.ErrorIs(t, err, ErrInvalidEngineConfig)
	})

	t.Run("Starts following the left wall", func(t *testing.T) {
		e, _ := newTestEngine(t, room, 0)
		snap := e.Snapshot()
		assert.Equal(t, "FOLLOW_LEFT", snap.Strategy)
		assert.False(t, snap.Bootstrapped)
		assert.Nil(t, snap.SwitchingPoint)
	})
}

func TestDecideAction(t *testing.T) {
	t.Run("Seeks a wall before following it", func(t *testing.T) {
		rec := newFakeRecorder()
		e, view := newTestEngine(t, room, 0, WithRecorder(rec))

		assert.Equal(t, game.Accelerate, e.DecideAction(tickInput(view, 2, 1, game.North, 0)))
		assert.Equal(t, game.SlowDown, e.DecideAction(tickInput(view, 2, 3, game.North, 2)))
		assert.False(t, e.Snapshot().Bootstrapped)

		// Wall adjacent ahead: turn away from it so it lands on the left.
		assert.Equal(t, game.TurnRight, e.DecideAction(tickInput(view, 2, 4, game.North, 1)))
		assert.True(t, e.Snapshot().Bootstrapped)

		assert.Equal(t, 3, e.Snapshot().Ticks)
		assert.Equal(t, 1, rec.ticks["ACCELERATE"])
		assert.Equal(t, 1, rec.ticks["TURN_RIGHT"])
	})

	t.Run("Repeats a turn until the orientation changes", func(t *testing.T) {
		e, view := newTestEngine(t, room, 0)
		require.Equal(t, game.TurnRight, e.DecideAction(tickInput(view, 2, 4, game.North, 1)))

		assert.Equal(t, game.TurnRight, e.DecideAction(tickInput(view, 2, 2, game.North, 1)))
		assert.Equal(t, game.TurnRight, e.DecideAction(tickInput(view, 2, 2, game.North, 1)))
	})

	t.Run("Follows the wall once the turn completes", func(t *testing.T) {
		e, view := newTestEngine(t, room, 0)
		require.Equal(t, game.TurnRight, e.DecideAction(tickInput(view, 2, 4, game.North, 1)))

		// Facing east with the north wall on the left and the east wall two tiles ahead.
		assert.Equal(t, game.SlowDown, e.DecideAction(tickInput(view, 2, 4, game.East, 1)))

		snap := e.Snapshot()
		require.NotNil(t, snap.SwitchingPoint)
		assert.Equal(t, game.Coordinate{X: 2, Y: 5}, *snap.SwitchingPoint)
		assert.Equal(t, 1, snap.Pending)
		assert.Equal(t, 1, snap.Tagged)
	})

	t.Run("NotifyOrientationChanged ends the turn in progress", func(t *testing.T) {
		e, view := newTestEngine(t, room, 0)
		require.Equal(t, game.TurnRight, e.DecideAction(tickInput(view, 2, 4, game.North, 1)))

		e.NotifyOrientationChanged()

		// Left wall followed, the wall ends ahead on the left: slow down.
		assert.Equal(t, game.SlowDown, e.DecideAction(tickInput(view, 2, 2, game.North, 1)))
	})

	t.Run("Tagged and pending stay disjoint", func(t *testing.T) {
		e, view := newTestEngine(t, room, 0)
		inputs := []dmn.TickInput{
			tickInput(view, 2, 4, game.North, 1),
			tickInput(view, 2, 4, game.East, 1),
			tickInput(view, 3, 4, game.East, 1),
			tickInput(view, 3, 4, game.South, 1),
			tickInput(view, 3, 3, game.South, 1),
			tickInput(view, 3, 2, game.South, 1),
			tickInput(view, 3, 1, game.South, 1),
			tickInput(view, 3, 1, game.West, 1),
		}
		for _, in := range inputs {
			e.DecideAction(in)
			pending := e.factory.Pending()
			for _, c := range e.factory.Tagged() {
				assert.NotContains(t, pending, c)
			}
		}
	})

	t.Run("Logs the first obstacle", func(t *testing.T) {
		logger, logs := logtest.NewObserved()
		e, view := newTestEngine(t, room, 0, WithEngineLogger(logger))
		e.DecideAction(tickInput(view, 2, 4, game.North, 1))
		assert.Equal(t, 1, logs.FilterMessage("found first obstacle").Len())
	})
}

func TestPlanRoute(t *testing.T) {
	corridor := []string{
		"#####",
		"#...#",
		"#####",
	}

	t.Run("Plans over observed tiles", func(t *testing.T) {
		rec := newFakeRecorder()
		e, view := newTestEngine(t, corridor, 0, WithRecorder(rec))
		assert.Equal(t, 15, e.RegisterObservation(view))

		route := e.PlanRoute(game.Coordinate{X: 1, Y: 1}, game.Coordinate{X: 3, Y: 1}, game.TerrainSet{})
		assert.Equal(t, []game.Coordinate{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}}, route)
		assert.Equal(t, 1, rec.routes["found"])
		assert.Equal(t, 1, e.Snapshot().RoutesPlanned)
	})

	t.Run("Unobserved map has no route", func(t *testing.T) {
		rec := newFakeRecorder()
		e, _ := newTestEngine(t, corridor, 0, WithRecorder(rec))

		route := e.PlanRoute(game.Coordinate{X: 1, Y: 1}, game.Coordinate{X: 3, Y: 1}, game.TerrainSet{})
		assert.Empty(t, route)
		assert.Equal(t, 1, rec.routes["unreachable"])
	})

	t.Run("Avoided terrain blocks the route", func(t *testing.T) {
		e, view := newTestEngine(t, []string{
			"#####",
			"#.L.#",
			"#####",
		}, 0)
		e.RegisterObservation(view)

		assert.Len(t, e.PlanRoute(game.Coordinate{X: 1, Y: 1}, game.Coordinate{X: 3, Y: 1}, game.TerrainSet{}), 3)
		assert.Empty(t, e.PlanRoute(game.Coordinate{X: 1, Y: 1}, game.Coordinate{X: 3, Y: 1}, game.NewTerrainSet(game.Lava)))
	})
}

func TestPlanRouteToNextKey(t *testing.T) {
	keyCorridor := []string{
		"#####",
		"#.1.#",
		"#####",
	}

	t.Run("No key seen yet", func(t *testing.T) {
		e, _ := newTestEngine(t, keyCorridor, 1)
		_, ok := e.PlanRouteToNextKey(game.TerrainSet{})
		assert.False(t, ok)
	})

	t.Run("Routes from the last position to the key", func(t *testing.T) {
		e, view := newTestEngine(t, keyCorridor, 1)
		e.DecideAction(tickInput(view, 1, 1, game.North, 0))
		assert.True(t, e.AllKeysFound())
		assert.Equal(t, game.Coordinate{X: 1, Y: 1}, e.Position())
		assert.Equal(t, []int{1}, e.Snapshot().RemainingKeys)

		route, ok := e.PlanRouteToNextKey(game.TerrainSet{})
		require.True(t, ok)
		assert.Equal(t, []game.Coordinate{{X: 1, Y: 1}, {X: 2, Y: 1}}, route)

		_, ok = e.PlanRouteToNextKey(game.TerrainSet{})
		assert.False(t, ok, "keys are consumed")
		assert.Empty(t, e.Snapshot().RemainingKeys)
	})
}

func TestSnapshotNearestHealth(t *testing.T) {
	e, view := newTestEngine(t, []string{
		"#######",
		"#H...H#",
		"#######",
	}, 0)

	assert.Nil(t, e.Snapshot().NearestHealth)

	e.DecideAction(tickInput(view, 4, 1, game.East, 0))
	snap := e.Snapshot()
	require.NotNil(t, snap.NearestHealth)
	assert.Equal(t, game.Coordinate{X: 5, Y: 1}, *snap.NearestHealth)

	e.DecideAction(tickInput(view, 2, 1, game.East, 0))
	assert.Equal(t, game.Coordinate{X: 1, Y: 1}, *e.Snapshot().NearestHealth)
}

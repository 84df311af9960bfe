package service

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-navigator/config"
	dmn "github.com/beka-birhanu/vinom-navigator/domain"
	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/beka-birhanu/vinom-navigator/game/astar"
	"github.com/beka-birhanu/vinom-navigator/game/gamemap"
	"github.com/beka-birhanu/vinom-navigator/game/strategy"
	"github.com/beka-birhanu/vinom-navigator/service/i"
	"go.uber.org/zap"
)

// Route search outcomes reported to the recorder.
const (
	routeFound       = "found"
	routeUnreachable = "unreachable"
	routeCached      = "cached"
)

var ErrInvalidEngineConfig = errors.New("invalid engine config")

// EngineConfig is everything an Engine needs before its first tick.
type EngineConfig struct {
	Explorer  strategy.Config
	Policy    astar.Policy
	MapWidth  int
	MapHeight int
	TotalKeys int
}

// NewEngineConfig combines the configured thresholds with the size of the
// world being explored.
func NewEngineConfig(c config.EngineConfig, width, height, totalKeys int) EngineConfig {
	return EngineConfig{
		Explorer: strategy.Config{
			FollowingSensitivity:  c.FollowingSensitivity,
			ViewDepth:             c.ViewDepth,
			DistanceToTurn:        c.DistanceToTurn,
			DistanceToSlowDown:    c.DistanceToSlowDown,
			TurningPointLookahead: c.TurningPointLookahead,
			MaxTurningSpeed:       c.MaxTurningSpeed,
		},
		Policy:    astar.DefaultPolicy(c.RoadCost, c.LavaCost),
		MapWidth:  width,
		MapHeight: height,
		TotalKeys: totalKeys,
	}
}

func (c EngineConfig) validate() error {
	switch {
	case c.MapWidth <= 0 || c.MapHeight <= 0:
		return fmt.Errorf("%w: map must have a positive size, got %dx%d", ErrInvalidEngineConfig, c.MapWidth, c.MapHeight)
	case c.TotalKeys < 0:
		return fmt.Errorf("%w: negative key count %d", ErrInvalidEngineConfig, c.TotalKeys)
	case c.Explorer.FollowingSensitivity <= 0 || c.Explorer.ViewDepth <= 0 || c.Explorer.DistanceToTurn <= 0:
		return fmt.Errorf("%w: explorer thresholds must be positive", ErrInvalidEngineConfig)
	case len(c.Policy) == 0:
		return fmt.Errorf("%w: empty terrain cost policy", ErrInvalidEngineConfig)
	}
	return nil
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the logger ticks and switches are written to.
func WithEngineLogger(l i.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r i.Recorder) EngineOption {
	return func(e *Engine) {
		e.recorder = r
	}
}

// Engine is the per-agent decision engine. It is not safe for concurrent use;
// callers serialize ticks.
type Engine struct {
	cfg      EngineConfig
	factory  *strategy.Factory
	gameMap  *gamemap.Map
	ctl      strategy.Control
	logger   i.Logger
	recorder i.Recorder

	bootstrapped bool
	turning      game.Action // turn emitted and not yet completed
	hasHeading   bool
	lastHeading  game.Direction
	position     game.Coordinate

	ticks    int
	switches int
	routes   int
}

// NewEngine creates an engine that starts out following the left wall.
func NewEngine(cfg EngineConfig, opts ...EngineOption) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	factory := strategy.NewFactory(cfg.Explorer)
	if _, err := factory.Create(strategy.FollowLeft); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		factory:  factory,
		gameMap:  gamemap.New(cfg.MapWidth, cfg.MapHeight, cfg.TotalKeys),
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// DecideAction runs one tick and returns the action for it.
func (e *Engine) DecideAction(in dmn.TickInput) game.Action {
	obs := strategy.Observation{
		View:     in.View,
		Position: in.Position,
		Heading:  in.Orientation,
		Speed:    in.Speed,
	}
	e.position = in.Position
	e.RegisterObservation(in.View)
	e.checkStateChange(in.Orientation)

	var action game.Action
	switch {
	case !e.bootstrapped:
		action = e.seekObstacle(obs)
	case e.turning != game.NoAction:
		action = e.turning
	default:
		action = e.explore(obs)
	}

	if side, ok := action.TurnSide(); ok {
		e.turning = action
		e.ctl.LastTurn = side
		e.ctl.HasTurned = true
	}

	e.ticks++
	e.recorder.ObserveTick(action.String())
	e.logger.Debug("tick",
		zap.Int("tick", e.ticks),
		zap.Stringer("position", in.Position),
		zap.Stringer("heading", in.Orientation),
		zap.Stringer("action", action),
	)
	return action
}

// seekObstacle drives straight until an obstacle is adjacent ahead, then turns
// away from it so it ends up on the tracked side.
func (e *Engine) seekObstacle(obs strategy.Observation) game.Action {
	explorer := e.factory.Current()
	dist := explorer.DistanceAhead(obs)
	switch {
	case dist <= e.cfg.Explorer.DistanceToTurn:
		e.bootstrapped = true
		e.logger.Info("found first obstacle", zap.Stringer("position", obs.Position))
		return game.TurnToward(explorer.Side().Opposite())
	case dist <= e.cfg.Explorer.DistanceToSlowDown && obs.Speed > e.cfg.Explorer.MaxTurningSpeed:
		return game.SlowDown
	default:
		return game.Accelerate
	}
}

func (e *Engine) explore(obs strategy.Observation) game.Action {
	if e.factory.Current().ChangeStrategyNow() {
		next := e.factory.Change()
		e.switches++
		e.recorder.ObserveSwitch(string(next.Name()))
		e.logger.Info("strategy switched",
			zap.String("strategy", string(next.Name())),
			zap.Stringer("position", obs.Position),
		)
	}

	e.factory.Register(obs)
	e.factory.Deregister(obs)

	handOff, searched := e.factory.Monitor(obs, e.ctl.HandOff)
	e.ctl.HandOff = handOff
	if searched && handOff != game.NoAction {
		return handOff
	}
	return e.factory.Current().Decide(obs, &e.ctl)
}

func (e *Engine) checkStateChange(heading game.Direction) {
	if e.hasHeading && heading != e.lastHeading {
		e.turning = game.NoAction
		e.ctl.JustChangedState = true
	}
	e.lastHeading = heading
	e.hasHeading = true
}

// RegisterObservation merges a view into the discovered map and returns the
// number of newly recorded tiles.
func (e *Engine) RegisterObservation(view game.View) int {
	return e.gameMap.Update(view)
}

// NotifyOrientationChanged ends the turn in progress. Callers that detect turn
// completion themselves use it instead of relying on the orientation passed to
// DecideAction.
func (e *Engine) NotifyOrientationChanged() {
	e.turning = game.NoAction
	e.ctl.JustChangedState = true
}

// PlanRoute searches the discovered map. The result is empty when the goal
// cannot be reached.
func (e *Engine) PlanRoute(start, goal game.Coordinate, avoid game.TerrainSet) []game.Coordinate {
	search := astar.New(e.gameMap.Width(), e.gameMap.Height(), e.gameMap.View(), e.cfg.Policy, avoid)
	path := search.FindPath(start, goal)
	e.routes++

	outcome := routeFound
	if !path.Found() {
		outcome = routeUnreachable
	}
	e.recorder.ObserveRoute(outcome, path.Expanded)
	e.logger.Debug("route planned",
		zap.Stringer("start", start),
		zap.Stringer("goal", goal),
		zap.String("outcome", outcome),
		zap.Int("steps", len(path.Steps)),
		zap.Int("cost", path.Cost),
		zap.Int("expanded", path.Expanded),
	)
	return path.Steps
}

// NextKey pops the next key to collect. Keys are visited from the highest
// number down.
func (e *Engine) NextKey() (int, game.Coordinate, bool) {
	return e.gameMap.NextKeyCoordinate()
}

// PlanRouteToNextKey plans from the last reported position to the next key.
// It returns false when no discovered key is left.
func (e *Engine) PlanRouteToNextKey(avoid game.TerrainSet) ([]game.Coordinate, bool) {
	key, goal, ok := e.NextKey()
	if !ok {
		return nil, false
	}
	e.logger.Info("routing to key", zap.Int("key", key), zap.Stringer("goal", goal))
	return e.PlanRoute(e.position, goal, avoid), true
}

// AllKeysFound reports whether every key has been seen.
func (e *Engine) AllKeysFound() bool {
	return e.gameMap.AllKeysFound()
}

// Position returns the position of the latest tick.
func (e *Engine) Position() game.Coordinate {
	return e.position
}

// KnownTiles returns the number of tiles recorded in the discovered map.
func (e *Engine) KnownTiles() int {
	return e.gameMap.Known()
}

// Snapshot reports the engine's bookkeeping.
func (e *Engine) Snapshot() dmn.EngineSnapshot {
	s := dmn.EngineSnapshot{
		Strategy:         string(e.factory.Current().Name()),
		Bootstrapped:     e.bootstrapped,
		Ticks:            e.ticks,
		Switches:         e.switches,
		RoutesPlanned:    e.routes,
		Pending:          e.factory.PendingCount(),
		Tagged:           e.factory.TaggedCount(),
		SearchingForTurn: e.factory.SearchingForTurn(),
		TilesKnown:       e.gameMap.Known(),
		KeysFound:        e.gameMap.KeysFound(),
		TotalKeys:        e.gameMap.TotalKeys(),
		RemainingKeys:    e.gameMap.RemainingKeys(),
		Position:         e.position,
		Orientation:      e.lastHeading,
	}
	if sp, ok := e.factory.SwitchingPoint(); ok {
		s.SwitchingPoint = &sp
	}
	if h, ok := e.gameMap.NearestHealthTile(e.position); ok {
		s.NearestHealth = &h
	}
	return s
}

type nopRecorder struct{}

func (nopRecorder) ObserveTick(string)       {}
func (nopRecorder) ObserveSwitch(string)     {}
func (nopRecorder) ObserveRoute(string, int) {}
func (nopRecorder) SessionOpened()           {}
func (nopRecorder) SessionClosed()           {}

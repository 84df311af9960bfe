package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-navigator/config"
	dmn "github.com/beka-birhanu/vinom-navigator/domain"
	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/beka-birhanu/vinom-navigator/game/maze"
	"github.com/beka-birhanu/vinom-navigator/game/world"
	"github.com/beka-birhanu/vinom-navigator/service/i"
	"go.uber.org/zap"
)

var ErrSimulationStopped = errors.New("simulation stopped")

// TraceStep is one tick of a simulation run.
type TraceStep struct {
	Tick     int             `json:"tick"`
	Position game.Coordinate `json:"position"`
	Heading  game.Direction  `json:"heading"`
	Speed    float64         `json:"speed"`
	Action   game.Action     `json:"action"`
}

// SimulationReport summarizes a finished run.
type SimulationReport struct {
	Seed          int64                        `json:"seed"`
	Width         int                          `json:"width"`
	Height        int                          `json:"height"`
	Ticks         int                          `json:"ticks"`
	Steps         int                          `json:"steps"`
	Collisions    int                          `json:"collisions"`
	Health        int                          `json:"health"`
	KeysPlaced    int                          `json:"keys_placed"`
	KeysFound     int                          `json:"keys_found"`
	KeysCollected int                          `json:"keys_collected"`
	TilesKnown    int                          `json:"tiles_known"`
	Tiles         int                          `json:"tiles"`
	Snapshot      dmn.EngineSnapshot           `json:"snapshot"`
	KeyRoute      []game.Coordinate            `json:"key_route,omitempty"`
	Trace         []TraceStep                  `json:"trace,omitempty"`
	Layout        *maze.Layout                 `json:"-"`
	Visited       map[game.Coordinate]struct{} `json:"-"`
}

// Coverage returns the share of the world's tiles the engine has recorded.
func (r *SimulationReport) Coverage() float64 {
	if r.Tiles == 0 {
		return 0
	}
	return float64(r.TilesKnown) / float64(r.Tiles)
}

// Simulation drives an Engine through a generated maze.
type Simulation struct {
	cfg      config.SimulationConfig
	engine   config.EngineConfig
	logger   i.Logger
	recorder i.Recorder
	trace    bool
}

// SimulationOption customizes a Simulation.
type SimulationOption func(*Simulation)

// WithTrace keeps every tick in the report.
func WithTrace() SimulationOption {
	return func(s *Simulation) {
		s.trace = true
	}
}

// WithSimulationLogger sets the logger for the run and its engine.
func WithSimulationLogger(l i.Logger) SimulationOption {
	return func(s *Simulation) {
		s.logger = l
	}
}

// WithSimulationRecorder sets the metrics recorder for the engine.
func WithSimulationRecorder(r i.Recorder) SimulationOption {
	return func(s *Simulation) {
		s.recorder = r
	}
}

func NewSimulation(sim config.SimulationConfig, engine config.EngineConfig, opts ...SimulationOption) *Simulation {
	s := &Simulation{
		cfg:      sim,
		engine:   engine,
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run generates the maze and ticks until every key has been seen, the tick
// budget is spent or ctx is done. Once all keys are seen a route to the next
// key is planned and the run ends.
func (s *Simulation) Run(ctx context.Context) (*SimulationReport, error) {
	layout, err := s.generate()
	if err != nil {
		return nil, err
	}

	w := world.FromLayout(layout, game.North, s.engine.ViewDepth)
	engine, err := NewEngine(
		NewEngineConfig(s.engine, layout.Width, layout.Height, len(layout.Keys)),
		WithEngineLogger(s.logger),
		WithRecorder(s.recorder),
	)
	if err != nil {
		return nil, err
	}

	report := &SimulationReport{
		Seed:       s.cfg.Seed,
		Width:      layout.Width,
		Height:     layout.Height,
		KeysPlaced: len(layout.Keys),
		Tiles:      len(layout.Tiles),
		Layout:     layout,
		Visited:    map[game.Coordinate]struct{}{w.Position(): {}},
	}
	s.logger.Info("simulation started",
		zap.Int64("seed", s.cfg.Seed),
		zap.Int("width", layout.Width),
		zap.Int("height", layout.Height),
		zap.Int("keys", len(layout.Keys)),
	)

	for tick := 1; tick <= s.cfg.MaxTicks; tick++ {
		select {
		case <-ctx.Done():
			s.finish(report, engine, w)
			return report, fmt.Errorf("%w after %d ticks: %w", ErrSimulationStopped, report.Ticks, ctx.Err())
		default:
		}

		input := dmn.TickInput{
			View:        w.View(),
			Position:    w.Position(),
			Orientation: w.Heading(),
			Speed:       w.Speed(),
		}
		action := engine.DecideAction(input)
		if s.trace {
			report.Trace = append(report.Trace, TraceStep{
				Tick:     tick,
				Position: input.Position,
				Heading:  input.Orientation,
				Speed:    input.Speed,
				Action:   action,
			})
		}
		w.Apply(action)
		report.Visited[w.Position()] = struct{}{}
		report.Ticks = tick

		if engine.AllKeysFound() && len(layout.Keys) > 0 {
			engine.RegisterObservation(w.View())
			route, _ := engine.PlanRouteToNextKey(game.NewTerrainSet(game.Wall))
			report.KeyRoute = route
			break
		}
	}

	s.finish(report, engine, w)
	s.logger.Info("simulation finished",
		zap.Int("ticks", report.Ticks),
		zap.Int("keys_found", report.KeysFound),
		zap.Float64("coverage", report.Coverage()),
		zap.Int("collisions", report.Collisions),
	)
	return report, nil
}

func (s *Simulation) generate() (*maze.Layout, error) {
	m, err := maze.New(s.cfg.MazeWidth, s.cfg.MazeHeight, s.cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("generating maze: %w", err)
	}
	layout, err := m.Layout(s.cfg.Corridor)
	if err != nil {
		return nil, fmt.Errorf("rendering maze: %w", err)
	}
	hazards := maze.HazardModel{
		LavaProb:    s.cfg.LavaProb,
		Keys:        s.cfg.Keys,
		HealthTiles: s.cfg.HealthTiles,
	}
	if err := m.PopulateHazards(hazards, layout); err != nil {
		return nil, fmt.Errorf("placing hazards: %w", err)
	}
	return layout, nil
}

func (s *Simulation) finish(r *SimulationReport, e *Engine, w *world.World) {
	r.Snapshot = e.Snapshot()
	r.KeysFound = r.Snapshot.KeysFound
	r.TilesKnown = r.Snapshot.TilesKnown
	r.Steps = w.Steps()
	r.Collisions = w.Collisions()
	r.Health = w.Health()
	r.KeysCollected = w.KeysCollected()
}

// Render draws the layout with the visited tiles marked.
func (r *SimulationReport) Render() string {
	if r.Layout == nil {
		return ""
	}
	marks := make(map[game.Coordinate]rune, len(r.Visited)+len(r.KeyRoute))
	for c := range r.Visited {
		marks[c] = '*'
	}
	for _, c := range r.KeyRoute {
		marks[c] = '+'
	}
	return game.Render(r.Layout.Tiles, r.Layout.Width, r.Layout.Height, marks)
}

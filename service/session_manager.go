package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-navigator/config"
	dmn "github.com/beka-birhanu/vinom-navigator/domain"
	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/beka-birhanu/vinom-navigator/service/i"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionForbidden = errors.New("session belongs to another operator")
)

type session struct {
	engine    *Engine
	operator  string
	startedAt time.Time
	sync.Mutex
}

// SessionManager owns the decision engines of the open exploration sessions.
type SessionManager struct {
	sessions map[uuid.UUID]*session
	engine   config.EngineConfig
	runs     i.RunRepo
	routes   i.RouteCache
	logger   i.Logger
	recorder i.Recorder
	now      func() time.Time
	sync.RWMutex
}

// Config holds the collaborators of a SessionManager. Routes and Recorder
// are optional.
type Config struct {
	Engine   config.EngineConfig
	Runs     i.RunRepo
	Routes   i.RouteCache
	Logger   i.Logger
	Recorder i.Recorder
}

var _ i.SessionManager = &SessionManager{}

func NewSessionManager(c *Config) (*SessionManager, error) {
	if c.Runs == nil {
		return nil, errors.New("session manager needs a run repository")
	}
	sm := &SessionManager{
		sessions: make(map[uuid.UUID]*session),
		engine:   c.Engine,
		runs:     c.Runs,
		routes:   c.Routes,
		logger:   c.Logger,
		recorder: c.Recorder,
		now:      time.Now,
	}
	if sm.logger == nil {
		sm.logger = zap.NewNop()
	}
	if sm.recorder == nil {
		sm.recorder = nopRecorder{}
	}
	return sm, nil
}

// NewSession starts an engine for a width x height world holding totalKeys keys.
func (m *SessionManager) NewSession(operator string, width, height, totalKeys int) (uuid.UUID, error) {
	engine, err := NewEngine(
		NewEngineConfig(m.engine, width, height, totalKeys),
		WithEngineLogger(m.logger),
		WithRecorder(m.recorder),
	)
	if err != nil {
		return uuid.Nil, err
	}

	m.Lock()
	id := m.saveSession(&session{engine: engine, operator: operator, startedAt: m.now()})
	m.Unlock()

	m.recorder.SessionOpened()
	m.logger.Info("session opened",
		zap.Stringer("session", id),
		zap.String("operator", operator),
		zap.Int("width", width),
		zap.Int("height", height),
	)
	return id, nil
}

// saveSession stores s under a fresh ID. Callers hold the write lock.
func (m *SessionManager) saveSession(s *session) uuid.UUID {
	id := uuid.New()
	for {
		if _, ok := m.sessions[id]; !ok {
			break
		}
		id = uuid.New()
	}
	m.sessions[id] = s
	return id
}

func (m *SessionManager) get(operator string, id uuid.UUID) (*session, error) {
	m.RLock()
	defer m.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.operator != operator {
		return nil, ErrSessionForbidden
	}
	return s, nil
}

// Tick runs one decision tick of the session.
func (m *SessionManager) Tick(operator string, id uuid.UUID, input dmn.TickInput) (game.Action, error) {
	s, err := m.get(operator, id)
	if err != nil {
		return game.NoAction, err
	}
	s.Lock()
	defer s.Unlock()
	return s.engine.DecideAction(input), nil
}

// PlanRoute plans on the session's discovered map, going through the route
// cache when one is configured.
func (m *SessionManager) PlanRoute(ctx context.Context, operator string, id uuid.UUID, start, goal game.Coordinate, avoid game.TerrainSet) ([]game.Coordinate, error) {
	s, err := m.get(operator, id)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()
	return m.planRoute(ctx, id, s.engine, start, goal, avoid)
}

// PlanRouteToNextKey pops the session's next key and plans a route to it from
// the last reported position.
func (m *SessionManager) PlanRouteToNextKey(ctx context.Context, operator string, id uuid.UUID, avoid game.TerrainSet) ([]game.Coordinate, bool, error) {
	s, err := m.get(operator, id)
	if err != nil {
		return nil, false, err
	}
	s.Lock()
	defer s.Unlock()

	key, goal, ok := s.engine.NextKey()
	if !ok {
		return nil, false, nil
	}
	m.logger.Info("routing to key", zap.Stringer("session", id), zap.Int("key", key), zap.Stringer("goal", goal))
	route, err := m.planRoute(ctx, id, s.engine, s.engine.Position(), goal, avoid)
	return route, true, err
}

func (m *SessionManager) planRoute(ctx context.Context, id uuid.UUID, e *Engine, start, goal game.Coordinate, avoid game.TerrainSet) ([]game.Coordinate, error) {
	plan := func() []game.Coordinate {
		return e.PlanRoute(start, goal, avoid)
	}
	if m.routes == nil {
		return plan(), nil
	}

	route, cached, err := m.routes.Fetch(ctx, routeKey(id, e.KnownTiles(), start, goal, avoid), plan)
	if err != nil {
		m.logger.Warn("route cache unavailable", zap.Stringer("session", id), zap.Error(err))
		if route == nil {
			route = plan()
		}
		return route, nil
	}
	if cached {
		m.recorder.ObserveRoute(routeCached, 0)
	}
	return route, nil
}

// routeKey identifies a route on one version of a session's map. The known
// tile count only grows, so routes planned on an older map are never reused.
func routeKey(id uuid.UUID, known int, start, goal game.Coordinate, avoid game.TerrainSet) string {
	types := avoid.Types()
	parts := make([]string, len(types))
	for idx, t := range types {
		parts[idx] = strconv.Itoa(int(t))
	}
	return fmt.Sprintf("route:%s:%d:%s:%s:%s", id, known, start, goal, strings.Join(parts, "."))
}

// Snapshot returns the session's engine bookkeeping.
func (m *SessionManager) Snapshot(operator string, id uuid.UUID) (dmn.EngineSnapshot, error) {
	s, err := m.get(operator, id)
	if err != nil {
		return dmn.EngineSnapshot{}, err
	}
	s.Lock()
	defer s.Unlock()
	return s.engine.Snapshot(), nil
}

// Close removes the session and persists its run record. The session is
// removed even when persisting fails.
func (m *SessionManager) Close(ctx context.Context, operator string, id uuid.UUID) (*dmn.RunRecord, error) {
	if _, err := m.get(operator, id); err != nil {
		return nil, err
	}
	return m.close(ctx, id)
}

func (m *SessionManager) close(ctx context.Context, id uuid.UUID) (*dmn.RunRecord, error) {
	m.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	run := m.record(id, s)
	m.recorder.SessionClosed()
	if err := m.runs.Save(ctx, run); err != nil {
		m.logger.Error("saving run", zap.Stringer("session", id), zap.Error(err))
		return run, fmt.Errorf("saving run: %w", err)
	}
	m.logger.Info("session closed",
		zap.Stringer("session", id),
		zap.Int("ticks", run.Ticks),
		zap.Int("keys_found", run.KeysFound),
		zap.Duration("duration", run.Duration()),
	)
	return run, nil
}

func (m *SessionManager) record(id uuid.UUID, s *session) *dmn.RunRecord {
	s.Lock()
	defer s.Unlock()
	snap := s.engine.Snapshot()
	return &dmn.RunRecord{
		ID:            id,
		Operator:      s.operator,
		Strategy:      snap.Strategy,
		Ticks:         snap.Ticks,
		Switches:      snap.Switches,
		RoutesPlanned: snap.RoutesPlanned,
		TilesKnown:    snap.TilesKnown,
		KeysFound:     snap.KeysFound,
		TotalKeys:     snap.TotalKeys,
		LastPosition:  snap.Position,
		StartedAt:     s.startedAt,
		EndedAt:       m.now(),
	}
}

// StopAll closes every open session.
func (m *SessionManager) StopAll(ctx context.Context) {
	m.RLock()
	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.RUnlock()

	for _, id := range ids {
		if _, err := m.close(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			m.logger.Warn("closing session on shutdown", zap.Stringer("session", id), zap.Error(err))
		}
	}
}

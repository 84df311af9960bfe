package explore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apiidentity "github.com/beka-birhanu/vinom-navigator/api/identity"
	dmn "github.com/beka-birhanu/vinom-navigator/domain"
	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/beka-birhanu/vinom-navigator/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	id       uuid.UUID
	operator string
	input    dmn.TickInput
	avoid    game.TerrainSet
	route    []game.Coordinate
	keyFound bool
	saveErr  error
}

func (f *fakeSessions) NewSession(operator string, width, height, totalKeys int) (uuid.UUID, error) {
	if width > 100 {
		return uuid.Nil, service.ErrInvalidEngineConfig
	}
	f.operator = operator
	return f.id, nil
}

func (f *fakeSessions) known(operator string, id uuid.UUID) error {
	if id != f.id {
		return service.ErrSessionNotFound
	}
	if operator != "rover_01" {
		return service.ErrSessionForbidden
	}
	return nil
}

func (f *fakeSessions) Tick(operator string, id uuid.UUID, input dmn.TickInput) (game.Action, error) {
	if err := f.known(operator, id); err != nil {
		return game.NoAction, err
	}
	f.input = input
	return game.TurnLeft, nil
}

func (f *fakeSessions) PlanRoute(_ context.Context, operator string, id uuid.UUID, start, goal game.Coordinate, avoid game.TerrainSet) ([]game.Coordinate, error) {
	f.avoid = avoid
	return f.route, f.known(operator, id)
}

func (f *fakeSessions) PlanRouteToNextKey(_ context.Context, operator string, id uuid.UUID, avoid game.TerrainSet) ([]game.Coordinate, bool, error) {
	f.avoid = avoid
	return f.route, f.keyFound, f.known(operator, id)
}

func (f *fakeSessions) Snapshot(operator string, id uuid.UUID) (dmn.EngineSnapshot, error) {
	return dmn.EngineSnapshot{Strategy: "FOLLOW_LEFT", Ticks: 3}, f.known(operator, id)
}

func (f *fakeSessions) Close(_ context.Context, operator string, id uuid.UUID) (*dmn.RunRecord, error) {
	if err := f.known(operator, id); err != nil {
		return nil, err
	}
	return &dmn.RunRecord{ID: id, Operator: "rover_01", Ticks: 3}, f.saveErr
}

func (f *fakeSessions) StopAll(context.Context) {}

func newTestRouter(t *testing.T, f *fakeSessions) *gin.Engine {
	t.Helper()
	return newTestRouterAs(t, f, "rover_01")
}

func newTestRouterAs(t *testing.T, f *fakeSessions, operator string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sc, err := NewSessionController(f)
	require.NoError(t, err)

	r := gin.New()
	group := r.Group("/v1")
	group.Use(func(c *gin.Context) {
		c.Set(apiidentity.ContextOperatorName, operator)
		c.Next()
	})
	sc.RegisterProtected(group)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOpenSession(t *testing.T) {
	f := &fakeSessions{id: uuid.New()}
	r := newTestRouter(t, f)

	t.Run("Created", func(t *testing.T) {
		w := do(r, http.MethodPost, "/v1/sessions", `{"width":10,"height":8,"total_keys":2}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, f.id, resp.ID)
		assert.Equal(t, "rover_01", f.operator)
	})

	t.Run("Missing size", func(t *testing.T) {
		w := do(r, http.MethodPost, "/v1/sessions", `{"width":10}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Rejected by the engine", func(t *testing.T) {
		w := do(r, http.MethodPost, "/v1/sessions", `{"width":1000,"height":8}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTick(t *testing.T) {
	f := &fakeSessions{id: uuid.New()}
	r := newTestRouter(t, f)

	t.Run("Returns the action", func(t *testing.T) {
		body := `{
			"tiles": [{"x":1,"y":2,"type":"WALL"},{"x":1,"y":1,"type":"LAVA","key":2}],
			"position": {"x":1,"y":0},
			"orientation": "EAST",
			"speed": 1.5
		}`
		w := do(r, http.MethodPost, "/v1/sessions/"+f.id.String()+"/ticks", body)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"action":"TURN_LEFT"}`, w.Body.String())

		assert.Equal(t, game.Tile{Type: game.Wall}, f.input.View[game.Coordinate{X: 1, Y: 2}])
		assert.Equal(t, game.Tile{Type: game.Lava, Key: 2}, f.input.View[game.Coordinate{X: 1, Y: 1}])
		assert.Equal(t, game.East, f.input.Orientation)
		assert.Equal(t, 1.5, f.input.Speed)
	})

	t.Run("Unknown orientation", func(t *testing.T) {
		w := do(r, http.MethodPost, "/v1/sessions/"+f.id.String()+"/ticks", `{"orientation":"UP"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Bad session id", func(t *testing.T) {
		w := do(r, http.MethodPost, "/v1/sessions/nope/ticks", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown session", func(t *testing.T) {
		w := do(r, http.MethodPost, "/v1/sessions/"+uuid.NewString()+"/ticks", `{}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRoutes(t *testing.T) {
	f := &fakeSessions{id: uuid.New()}
	r := newTestRouter(t, f)
	base := "/v1/sessions/" + f.id.String()

	t.Run("Route found", func(t *testing.T) {
		f.route = []game.Coordinate{{X: 1, Y: 1}, {X: 2, Y: 1}}
		w := do(r, http.MethodPost, base+"/routes", `{"start":{"x":1,"y":1},"goal":{"x":2,"y":1},"avoid":["WALL","LAVA"]}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"found":true,"path":[{"x":1,"y":1},{"x":2,"y":1}]}`, w.Body.String())
		assert.True(t, f.avoid.Contains(game.Lava))
		assert.True(t, f.avoid.Contains(game.Wall))
	})

	t.Run("No route", func(t *testing.T) {
		f.route = nil
		w := do(r, http.MethodPost, base+"/routes", `{"start":{"x":1,"y":1},"goal":{"x":2,"y":1}}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"found":false,"path":[]}`, w.Body.String())
	})

	t.Run("Next key without a body", func(t *testing.T) {
		f.route = []game.Coordinate{{X: 3, Y: 3}}
		f.keyFound = true
		w := do(r, http.MethodPost, base+"/routes/next-key", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, f.avoid.Len())
	})

	t.Run("No key to route to", func(t *testing.T) {
		f.keyFound = false
		w := do(r, http.MethodPost, base+"/routes/next-key", `{"avoid":["LAVA"]}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSnapshotAndClose(t *testing.T) {
	f := &fakeSessions{id: uuid.New()}
	r := newTestRouter(t, f)
	base := "/v1/sessions/" + f.id.String()

	w := do(r, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap dmn.EngineSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "FOLLOW_LEFT", snap.Strategy)
	assert.Equal(t, 3, snap.Ticks)

	w = do(r, http.MethodDelete, base, "")
	require.Equal(t, http.StatusOK, w.Code)
	var run dmn.RunRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, f.id, run.ID)

	f.saveErr = errors.New("mongo down")
	w = do(r, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = do(r, http.MethodDelete, "/v1/sessions/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOtherOperatorsSession(t *testing.T) {
	f := &fakeSessions{id: uuid.New(), keyFound: true}
	r := newTestRouterAs(t, f, "intruder")
	base := "/v1/sessions/" + f.id.String()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"Tick", http.MethodPost, base + "/ticks", `{"orientation":"NORTH"}`},
		{"Route", http.MethodPost, base + "/routes", `{"start":{"x":1,"y":1},"goal":{"x":2,"y":1}}`},
		{"Next key", http.MethodPost, base + "/routes/next-key", ""},
		{"Snapshot", http.MethodGet, base, ""},
		{"Close", http.MethodDelete, base, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}
	assert.Empty(t, f.input.View, "the tick never reached the engine")
}

package explore

import (
	"context"
	"errors"
	"net/http"
	"time"

	apiidentity "github.com/beka-birhanu/vinom-navigator/api/identity"
	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/beka-birhanu/vinom-navigator/service"
	"github.com/beka-birhanu/vinom-navigator/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const routeTimeout = 2 * time.Second

// SessionController serves the exploration session routes.
type SessionController struct {
	sessions i.SessionManager
}

// NewSessionController initializes a SessionController.
func NewSessionController(sm i.SessionManager) (*SessionController, error) {
	if sm == nil {
		return nil, errors.New("nil session manager")
	}
	return &SessionController{sessions: sm}, nil
}

// RegisterPublic registers public routes.
func (sc *SessionController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (sc *SessionController) RegisterProtected(route *gin.RouterGroup) {
	sessions := route.Group("/sessions")
	{
		sessions.POST("", sc.open)
		sessions.GET("/:ID", sc.snapshot)
		sessions.DELETE("/:ID", sc.close)
		sessions.POST("/:ID/ticks", sc.tick)
		sessions.POST("/:ID/routes", sc.route)
		sessions.POST("/:ID/routes/next-key", sc.routeToNextKey)
	}
}

func (sc *SessionController) open(ctx *gin.Context) {
	var request SessionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ID, err := sc.sessions.NewSession(operator(ctx), request.Width, request.Height, request.TotalKeys)
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, &SessionResponse{ID: ID})
}

// tick feeds one observation to the session's engine and returns its action.
func (sc *SessionController) tick(ctx *gin.Context) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}

	var request TickRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := sc.sessions.Tick(operator(ctx), ID, request.toInput())
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, &TickResponse{Action: action})
}

func (sc *SessionController) route(ctx *gin.Context) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}

	var request RouteRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, routeTimeout)
	defer cancel()
	path, err := sc.sessions.PlanRoute(timeoutCtx, operator(ctx), ID, request.Start, request.Goal, game.NewTerrainSet(request.Avoid...))
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, newRouteResponse(path))
}

func (sc *SessionController) routeToNextKey(ctx *gin.Context) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}

	var request KeyRouteRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, routeTimeout)
	defer cancel()
	path, found, err := sc.sessions.PlanRouteToNextKey(timeoutCtx, operator(ctx), ID, game.NewTerrainSet(request.Avoid...))
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no key to route to"})
		return
	}

	ctx.JSON(http.StatusOK, newRouteResponse(path))
}

func (sc *SessionController) snapshot(ctx *gin.Context) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}

	snap, err := sc.sessions.Snapshot(operator(ctx), ID)
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, snap)
}

// close ends the session and returns its persisted run record.
func (sc *SessionController) close(ctx *gin.Context) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}

	run, err := sc.sessions.Close(ctx, operator(ctx), ID)
	if err != nil && run == nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "session closed but run was not saved", "run": run})
		return
	}

	ctx.JSON(http.StatusOK, run)
}

// operator is the name Authoriz stored for the signed-in operator.
func operator(ctx *gin.Context) string {
	return ctx.GetString(apiidentity.ContextOperatorName)
}

func sessionID(ctx *gin.Context) (uuid.UUID, bool) {
	ID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, false
	}
	return ID, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSessionForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidEngineConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

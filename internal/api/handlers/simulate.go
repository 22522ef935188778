package handlers

import (
	"net/http"

	"frbus-sweep/internal/api/models"
	"frbus-sweep/internal/engine"
	"frbus-sweep/internal/model"
	"frbus-sweep/internal/scenario"
	"frbus-sweep/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultPeriods     = 40
	defaultShockPeriod = 6
)

// SimulateHandler runs single scenarios on demand.
type SimulateHandler struct {
	engine *engine.Engine
	cache  *store.ResultCache
	log    *zap.Logger
}

// NewSimulateHandler creates a handler. cache may be nil.
func NewSimulateHandler(e *engine.Engine, cache *store.ResultCache, log *zap.Logger) *SimulateHandler {
	if e == nil {
		e = engine.New(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SimulateHandler{engine: e, cache: cache, log: log}
}

// Simulate handles POST /api/v1/simulate
func (h *SimulateHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	n := req.NPeriods
	if n == 0 {
		n = defaultPeriods
	}
	onset := defaultShockPeriod
	if req.ShockPeriod != nil {
		onset = *req.ShockPeriod
	}
	shock := model.ShockParameters{ShockSize: req.ProductivityShock, Onset: onset, Persistence: req.Persistence}
	policy := model.PolicyParameters{MonetaryResponse: req.MonetaryResponse}
	if err := shock.Validate(); err != nil {
		h.invalid(c, err)
		return
	}
	if err := policy.Validate(); err != nil {
		h.invalid(c, err)
		return
	}

	key := store.CacheKey(n, onset, shock.ShockSize, shock.Persistence, policy.MonetaryResponse)
	if r, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, models.SimulateResponse{Cached: true, Result: r})
		return
	}

	out := h.engine.Run(c.Request.Context(), n, shock, policy)
	if !out.OK() {
		h.log.Warn("on-demand simulation failed", zap.Error(out.Err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SIMULATION_ERROR",
				Message: out.Err.Error(),
			},
		})
		return
	}
	r := scenario.Evaluate(out.Path, shock, policy, 1)
	h.cache.Set(key, r)
	c.JSON(http.StatusOK, models.SimulateResponse{Result: r})
}

func (h *SimulateHandler) invalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_PARAMETERS",
			Message: err.Error(),
		},
	})
}

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"frbus-sweep/internal/analysis"
	"frbus-sweep/internal/api/models"
	"frbus-sweep/internal/scenario"
	"frbus-sweep/internal/store"
	"frbus-sweep/internal/sweep"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SweepHandler serves a completed sweep loaded from disk.
type SweepHandler struct {
	out    *sweep.Output
	report analysis.Report
	index  *store.Index
	log    *zap.Logger
}

// NewSweepHandler creates a handler over out. out may be nil when no sweep has
// been run yet. index is optional; it answers filtered listings only when it
// holds out's run, otherwise listings are filtered in memory.
func NewSweepHandler(out *sweep.Output, index *store.Index, log *zap.Logger) *SweepHandler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &SweepHandler{out: out, log: log}
	if out == nil {
		return h
	}
	h.report = analysis.Summarize(out.Simulations)
	if index != nil {
		ok, err := index.HasRun(context.Background(), out.Metadata.RunID)
		switch {
		case err != nil:
			log.Warn("lookup index unreadable, filtering in memory", zap.Error(err))
		case !ok:
			log.Warn("lookup index is stale, filtering in memory", zap.String("run_id", out.Metadata.RunID))
		default:
			h.index = index
		}
	}
	return h
}

// GetMetadata handles GET /api/v1/metadata
func (h *SweepHandler) GetMetadata(c *gin.Context) {
	if !h.loaded(c) {
		return
	}
	c.JSON(http.StatusOK, h.out.Metadata)
}

// ListSimulations handles GET /api/v1/simulations
func (h *SweepHandler) ListSimulations(c *gin.Context) {
	var req models.ListSimulationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}
	if !h.loaded(c) {
		return
	}

	var rows []scenario.LookupRow
	if h.index != nil {
		var err error
		rows, err = h.index.Query(c.Request.Context(), store.Filter{
			RunID:             h.out.Metadata.RunID,
			ProductivityShock: req.ProductivityShock,
			Persistence:       req.Persistence,
			MonetaryResponse:  req.MonetaryResponse,
			Limit:             req.Limit,
		})
		if err != nil {
			h.log.Error("lookup index query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "INDEX_ERROR",
					Message: err.Error(),
				},
			})
			return
		}
	} else {
		rows = filterRows(h.out.Lookup(), req)
	}
	if rows == nil {
		rows = []scenario.LookupRow{}
	}

	c.JSON(http.StatusOK, models.SimulationsResponse{
		RunID:       h.out.Metadata.RunID,
		Count:       len(rows),
		Simulations: rows,
	})
}

// GetSimulation handles GET /api/v1/simulations/:id
func (h *SweepHandler) GetSimulation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_ID",
				Message: "simulation id must be a positive integer",
			},
		})
		return
	}
	if !h.loaded(c) {
		return
	}
	r, ok := h.out.Find(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: "simulation not found",
				Details: map[string]interface{}{"simulation_id": id},
			},
		})
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetSummary handles GET /api/v1/summary
func (h *SweepHandler) GetSummary(c *gin.Context) {
	if !h.loaded(c) {
		return
	}
	c.JSON(http.StatusOK, h.report)
}

func (h *SweepHandler) loaded(c *gin.Context) bool {
	if h.out != nil {
		return true
	}
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NO_SWEEP_LOADED",
			Message: "No sweep results are loaded. Run `cli run` and restart the server.",
		},
	})
	return false
}

func filterRows(rows []scenario.LookupRow, req models.ListSimulationsRequest) []scenario.LookupRow {
	out := make([]scenario.LookupRow, 0, len(rows))
	for _, r := range rows {
		if req.ProductivityShock != nil && r.ProductivityShock != *req.ProductivityShock {
			continue
		}
		if req.Persistence != nil && r.Persistence != *req.Persistence {
			continue
		}
		if req.MonetaryResponse != nil && r.MonetaryResponse != *req.MonetaryResponse {
			continue
		}
		out = append(out, r)
		if req.Limit > 0 && len(out) == req.Limit {
			break
		}
	}
	return out
}

package handlers

import (
	"net/http"

	"frbus-sweep/internal/api/models"
	"frbus-sweep/internal/model"

	"github.com/gin-gonic/gin"
)

// ModelHandler describes the structural model.
type ModelHandler struct {
	structure model.Structure
}

func NewModelHandler(s model.Structure) *ModelHandler {
	return &ModelHandler{structure: s}
}

// GetModel handles GET /api/v1/model
func (h *ModelHandler) GetModel(c *gin.Context) {
	s := h.structure
	ss := model.SteadyState
	c.JSON(http.StatusOK, models.ModelInfo{
		SteadyState: models.SteadyState{
			Output:       ss.Output,
			Inflation:    ss.Inflation,
			InterestRate: ss.InterestRate,
			Unemployment: ss.Unemployment,
			Productivity: ss.Productivity,
		},
		Parameters: []models.ParameterInfo{
			{Name: "beta", Description: "Discount factor", Value: s.Beta},
			{Name: "sigma", Description: "Intertemporal elasticity", Value: s.Sigma},
			{Name: "alpha", Description: "Capital share", Value: s.Alpha},
			{Name: "delta", Description: "Depreciation rate", Value: s.Delta},
			{Name: "rho_a", Description: "Technology persistence", Value: s.RhoA},
			{Name: "phi_pi", Description: "Taylor rule inflation response (scaled by monetary_response)", Value: s.PhiPi},
			{Name: "phi_y", Description: "Taylor rule output gap response (scaled by monetary_response)", Value: s.PhiY},
			{Name: "gap_persistence", Description: "Weight on last period's output gap", Value: s.GapPersistence},
			{Name: "tfp_pass_through", Description: "Share of the productivity excess passed into the gap", Value: s.TFPPassThrough},
			{Name: "inflation_inertia", Description: "Weight on lagged inflation in the Phillips curve", Value: s.InflationInertia},
			{Name: "gap_inflation", Description: "Phillips curve slope on the output gap", Value: s.GapInflation},
			{Name: "tfp_inflation", Description: "Direct disinflationary effect of productivity", Value: s.TFPInflation},
			{Name: "okun_coefficient", Description: "Unemployment response to growth above trend", Value: s.OkunCoefficient},
			{Name: "trend_growth", Description: "Annualized trend growth, percent", Value: s.TrendGrowth},
			{Name: "unemployment_floor", Description: "Lower bound on unemployment, percent", Value: s.UnemploymentFloor},
			{Name: "unemployment_cap", Description: "Upper bound on unemployment, percent", Value: s.UnemploymentCap},
		},
	})
}

package models

// SimulateRequest is the body of POST /api/v1/simulate.
// NPeriods defaults to 40 and ShockPeriod to 6 when omitted.
type SimulateRequest struct {
	ProductivityShock float64 `json:"productivity_shock"`
	Persistence       float64 `json:"persistence" binding:"gte=0,lte=1"`
	MonetaryResponse  float64 `json:"monetary_response" binding:"required,gt=0"`
	NPeriods          int     `json:"n_periods,omitempty" binding:"omitempty,gte=1,lte=400"`
	ShockPeriod       *int    `json:"shock_period,omitempty" binding:"omitempty,gte=0"`
}

// ListSimulationsRequest filters GET /api/v1/simulations by exact parameter values.
type ListSimulationsRequest struct {
	ProductivityShock *float64 `form:"productivity_shock"`
	Persistence       *float64 `form:"persistence"`
	MonetaryResponse  *float64 `form:"monetary_response"`
	Limit             int      `form:"limit" binding:"omitempty,gte=0"` // default: all
}

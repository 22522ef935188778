package models

import (
	"frbus-sweep/internal/scenario"
)

// SimulationsResponse lists lookup rows.
type SimulationsResponse struct {
	RunID       string               `json:"run_id,omitempty"`
	Count       int                  `json:"count"`
	Simulations []scenario.LookupRow `json:"simulations"`
}

// SimulateResponse wraps an on-demand scenario.
type SimulateResponse struct {
	Cached bool            `json:"cached"`
	Result scenario.Result `json:"result"`
}

// ModelInfo describes the model behind the results.
type ModelInfo struct {
	SteadyState SteadyState     `json:"steady_state"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// SteadyState mirrors model.SteadyState.
type SteadyState struct {
	Output       float64 `json:"output"`
	Inflation    float64 `json:"inflation"`
	InterestRate float64 `json:"interest_rate"`
	Unemployment float64 `json:"unemployment"`
	Productivity float64 `json:"productivity"`
}

// ParameterInfo describes one structural constant.
type ParameterInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

package dto

import (
	"time"

	"github.com/retiresim/retirecast/internal/domain"
)

// ScenarioResponse represents a scenario in API responses.
type ScenarioResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Plan      domain.Plan `json:"plan"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ScenarioFromDomain converts a domain scenario to a response.
func ScenarioFromDomain(s *domain.Scenario) *ScenarioResponse {
	return &ScenarioResponse{
		ID:        s.ID,
		Name:      s.Name,
		Plan:      s.Plan,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ScenariosFromDomain converts domain scenarios to responses.
func ScenariosFromDomain(scenarios []*domain.Scenario) []*ScenarioResponse {
	result := make([]*ScenarioResponse, len(scenarios))
	for i, s := range scenarios {
		result[i] = ScenarioFromDomain(s)
	}
	return result
}

// ListScenariosResponse represents a scenario listing.
type ListScenariosResponse struct {
	Scenarios []*ScenarioResponse `json:"scenarios"`
	Total     int64               `json:"total"`
}

// RunResponse represents a simulation run in API responses, including the
// frozen snapshot and the result when present.
type RunResponse struct {
	ID         string           `json:"id"`
	ScenarioID string           `json:"scenarioId"`
	Title      string           `json:"title,omitempty"`
	Status     domain.RunStatus `json:"status"`
	Error      string           `json:"error,omitempty"`
	Snapshot   *domain.Snapshot `json:"snapshot,omitempty"`
	Result     *domain.Result   `json:"result,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	FinishedAt *time.Time       `json:"finishedAt,omitempty"`
}

// RunFromDomain converts a domain run to a response.
func RunFromDomain(r *domain.SimulationRun) *RunResponse {
	return &RunResponse{
		ID:         r.ID,
		ScenarioID: r.ScenarioID,
		Title:      r.Title,
		Status:     r.Status,
		Error:      r.Error,
		Snapshot:   r.Snapshot,
		Result:     r.Result,
		CreatedAt:  r.CreatedAt,
		FinishedAt: r.FinishedAt,
	}
}

// RunSummaryResponse represents a run in listings, without the snapshot and
// result documents.
type RunSummaryResponse struct {
	ID         string           `json:"id"`
	ScenarioID string           `json:"scenarioId"`
	Title      string           `json:"title,omitempty"`
	Status     domain.RunStatus `json:"status"`
	Error      string           `json:"error,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	FinishedAt *time.Time       `json:"finishedAt,omitempty"`
}

// RunSummaryFromDomain converts a domain run to a summary response.
func RunSummaryFromDomain(r *domain.SimulationRun) *RunSummaryResponse {
	return &RunSummaryResponse{
		ID:         r.ID,
		ScenarioID: r.ScenarioID,
		Title:      r.Title,
		Status:     r.Status,
		Error:      r.Error,
		CreatedAt:  r.CreatedAt,
		FinishedAt: r.FinishedAt,
	}
}

// RunSummariesFromDomain converts domain runs to summary responses.
func RunSummariesFromDomain(runs []*domain.SimulationRun) []*RunSummaryResponse {
	result := make([]*RunSummaryResponse, len(runs))
	for i, r := range runs {
		result[i] = RunSummaryFromDomain(r)
	}
	return result
}

// ListRunsResponse represents a run listing.
type ListRunsResponse struct {
	Runs  []*RunSummaryResponse `json:"runs"`
	Total int64                 `json:"total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

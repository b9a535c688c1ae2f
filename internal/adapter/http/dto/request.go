package dto

import (
	"github.com/retiresim/retirecast/internal/domain"
	"github.com/retiresim/retirecast/internal/usecase"
)

// CreateScenarioRequest represents a request to create a scenario. The plan
// travels as the full document; the engine validates it when a run starts.
type CreateScenarioRequest struct {
	Name string      `json:"name"`
	Plan domain.Plan `json:"plan"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateScenarioRequest) ToUseCaseInput() usecase.CreateScenarioInput {
	return usecase.CreateScenarioInput{
		Name: r.Name,
		Plan: r.Plan,
	}
}

// UpdateScenarioRequest represents a request to update a scenario.
type UpdateScenarioRequest struct {
	Name string      `json:"name"`
	Plan domain.Plan `json:"plan"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateScenarioRequest) ToUseCaseInput(id string) usecase.UpdateScenarioInput {
	return usecase.UpdateScenarioInput{
		ID:   id,
		Name: r.Name,
		Plan: r.Plan,
	}
}

// RunScenarioRequest represents a request to start a simulation run.
type RunScenarioRequest struct {
	Title string `json:"title,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RunScenarioRequest) ToUseCaseInput(scenarioID string) usecase.RunScenarioInput {
	return usecase.RunScenarioInput{
		ScenarioID: scenarioID,
		Title:      r.Title,
	}
}

// UpdateRunTitleRequest represents a request to retitle a finished run.
type UpdateRunTitleRequest struct {
	Title string `json:"title"`
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/retiresim/retirecast/internal/domain"
	"github.com/retiresim/retirecast/internal/infrastructure/metrics"
)

// ScenarioUseCase handles scenario business logic.
type ScenarioUseCase struct {
	scenarioRepo ScenarioRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewScenarioUseCase creates a new ScenarioUseCase.
func NewScenarioUseCase(scenarioRepo ScenarioRepository, idGen IDGenerator, metrics *metrics.Metrics) *ScenarioUseCase {
	return &ScenarioUseCase{
		scenarioRepo: scenarioRepo,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// CreateScenarioInput represents input for creating a scenario.
type CreateScenarioInput struct {
	Name string
	Plan domain.Plan
}

// CreateScenario creates a new scenario.
func (uc *ScenarioUseCase) CreateScenario(ctx context.Context, input CreateScenarioInput) (*domain.Scenario, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: scenario name is required", domain.ErrInvalidInput)
	}
	if input.Plan.Years < 0 {
		return nil, fmt.Errorf("%w: years must be >= 0", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	scenario := &domain.Scenario{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Plan:      input.Plan,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.scenarioRepo.Create(ctx, scenario); err != nil {
		return nil, err
	}
	if uc.metrics != nil {
		uc.metrics.ScenariosCreated.Inc()
		uc.metrics.ScenarioOperations.WithLabelValues("create").Inc()
	}

	return scenario, nil
}

// GetScenario retrieves a scenario by ID.
func (uc *ScenarioUseCase) GetScenario(ctx context.Context, id string) (*domain.Scenario, error) {
	return uc.scenarioRepo.GetByID(ctx, id)
}

// UpdateScenarioInput represents input for updating a scenario.
type UpdateScenarioInput struct {
	ID   string
	Name string
	Plan domain.Plan
}

// UpdateScenario replaces a scenario's name and plan. Existing runs are not
// touched; they keep the snapshot frozen at run time.
func (uc *ScenarioUseCase) UpdateScenario(ctx context.Context, input UpdateScenarioInput) (*domain.Scenario, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: scenario name is required", domain.ErrInvalidInput)
	}
	if input.Plan.Years < 0 {
		return nil, fmt.Errorf("%w: years must be >= 0", domain.ErrInvalidInput)
	}

	scenario, err := uc.scenarioRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	scenario.Name = input.Name
	scenario.Plan = input.Plan
	scenario.UpdatedAt = time.Now().UTC()

	if err := uc.scenarioRepo.Update(ctx, scenario); err != nil {
		return nil, err
	}
	if uc.metrics != nil {
		uc.metrics.ScenarioOperations.WithLabelValues("update").Inc()
	}

	return scenario, nil
}

// DeleteScenario deletes a scenario.
func (uc *ScenarioUseCase) DeleteScenario(ctx context.Context, id string) error {
	if err := uc.scenarioRepo.Delete(ctx, id); err != nil {
		return err
	}
	if uc.metrics != nil {
		uc.metrics.ScenarioOperations.WithLabelValues("delete").Inc()
	}
	return nil
}

// ListScenariosInput represents input for listing scenarios.
type ListScenariosInput struct {
	Limit  int
	Offset int
}

// ListScenarios lists scenarios with pagination.
func (uc *ScenarioUseCase) ListScenarios(ctx context.Context, input ListScenariosInput) ([]*domain.Scenario, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.scenarioRepo.List(ctx, input.Limit, input.Offset)
}

package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/retiresim/retirecast/internal/domain"
	"github.com/retiresim/retirecast/internal/infrastructure/metrics"
)

// SimulationUseCase handles the run lifecycle: freeze a snapshot, persist
// the pending run, execute the engine and persist the terminal state. A run
// that fails inside the engine still produces a stored record; the error
// travels in the record, not the transport.
type SimulationUseCase struct {
	scenarioRepo ScenarioRepository
	runRepo      SimulationRunRepository
	engine       Engine
	cache        Cache
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewSimulationUseCase creates a new SimulationUseCase.
func NewSimulationUseCase(
	scenarioRepo ScenarioRepository,
	runRepo SimulationRunRepository,
	engine Engine,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *SimulationUseCase {
	return &SimulationUseCase{
		scenarioRepo: scenarioRepo,
		runRepo:      runRepo,
		engine:       engine,
		cache:        cache,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// RunScenarioInput represents input for starting a run.
type RunScenarioInput struct {
	ScenarioID string
	Title      string
}

// RunScenario freezes the scenario's plan and executes one simulation run
// synchronously. The returned run is terminal: success with a result, or
// error with the engine's message.
func (uc *SimulationUseCase) RunScenario(ctx context.Context, input RunScenarioInput) (*domain.SimulationRun, error) {
	scenario, err := uc.scenarioRepo.GetByID(ctx, input.ScenarioID)
	if err != nil {
		return nil, err
	}

	snap, err := BuildSnapshot(scenario)
	if err != nil {
		// Input errors still produce a stored run record: the failure is
		// part of the scenario's history, not a transport problem.
		now := time.Now().UTC()
		run := &domain.SimulationRun{
			ID:         uc.idGen.Generate(),
			ScenarioID: scenario.ID,
			Title:      input.Title,
			Status:     domain.RunError,
			Error:      err.Error(),
			CreatedAt:  now,
			FinishedAt: &now,
		}
		if uerr := uc.runRepo.Upsert(ctx, run); uerr != nil {
			return nil, uerr
		}
		return run, nil
	}

	run := &domain.SimulationRun{
		ID:         uc.idGen.Generate(),
		ScenarioID: scenario.ID,
		Title:      input.Title,
		Status:     domain.RunPending,
		Snapshot:   snap,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.runRepo.Upsert(ctx, run); err != nil {
		return nil, err
	}
	if uc.metrics != nil {
		uc.metrics.RunsStarted.Inc()
	}

	started := time.Now()
	result, runErr := uc.engine.Run(ctx, snap)

	finished := time.Now().UTC()
	run.FinishedAt = &finished
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			// The caller went away mid-run; drop the pending record so
			// it does not linger forever in that state.
			_ = uc.runRepo.Delete(context.WithoutCancel(ctx), run.ID)
			return nil, runErr
		}
		run.Status = domain.RunError
		run.Error = runErr.Error()
		if uc.metrics != nil {
			uc.metrics.RunsFailed.Inc()
		}
	} else {
		run.Status = domain.RunSuccess
		run.Result = result
		if uc.metrics != nil {
			uc.metrics.RunsSucceeded.Inc()
			uc.metrics.RunDuration.Observe(time.Since(started).Seconds())
			uc.metrics.MonthsSimulated.Add(float64(len(result.MonthlyTimeline)))
		}
	}

	if err := uc.runRepo.Upsert(ctx, run); err != nil {
		return nil, err
	}
	uc.cacheRun(ctx, run)

	return run, nil
}

// GetRun retrieves a run by ID, preferring the cache for finished runs.
func (uc *SimulationUseCase) GetRun(ctx context.Context, id string) (*domain.SimulationRun, error) {
	if cached, err := uc.cache.Get(ctx, runCacheKey(id)); err == nil && cached != nil {
		var run domain.SimulationRun
		if err := json.Unmarshal(cached, &run); err == nil {
			return &run, nil
		}
	}

	run, err := uc.runRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Status != domain.RunPending {
		uc.cacheRun(ctx, run)
	}
	return run, nil
}

// UpdateRunTitleInput represents input for retitling a run.
type UpdateRunTitleInput struct {
	ID    string
	Title string
}

// UpdateRunTitle changes a run's title. Everything else about a finished
// run is immutable.
func (uc *SimulationUseCase) UpdateRunTitle(ctx context.Context, input UpdateRunTitleInput) (*domain.SimulationRun, error) {
	if err := uc.runRepo.UpdateTitle(ctx, input.ID, input.Title); err != nil {
		return nil, err
	}
	_ = uc.cache.Delete(ctx, runCacheKey(input.ID))
	return uc.runRepo.GetByID(ctx, input.ID)
}

// DeleteRun deletes a run.
func (uc *SimulationUseCase) DeleteRun(ctx context.Context, id string) error {
	if err := uc.runRepo.Delete(ctx, id); err != nil {
		return err
	}
	_ = uc.cache.Delete(ctx, runCacheKey(id))
	return nil
}

// ListRunsInput represents input for listing runs.
type ListRunsInput struct {
	ScenarioID string
	Limit      int
	Offset     int
}

// ListRuns lists a scenario's runs with pagination.
func (uc *SimulationUseCase) ListRuns(ctx context.Context, input ListRunsInput) ([]*domain.SimulationRun, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.runRepo.ListByScenario(ctx, input.ScenarioID, input.Limit, input.Offset)
}

func (uc *SimulationUseCase) cacheRun(ctx context.Context, run *domain.SimulationRun) {
	raw, err := json.Marshal(run)
	if err != nil {
		return
	}
	// Cache misses and write failures fall through to the repository.
	_ = uc.cache.Set(ctx, runCacheKey(run.ID), raw, RunCacheTTL)
}

func runCacheKey(id string) string {
	return "run:" + id
}

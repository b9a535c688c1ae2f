package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retiresim/retirecast/internal/adapter/http/dto"
	"github.com/retiresim/retirecast/internal/domain"
	"github.com/retiresim/retirecast/internal/usecase"
)

// SimulationService defines the behavior needed by RunHandler.
type SimulationService interface {
	RunScenario(ctx context.Context, input usecase.RunScenarioInput) (*domain.SimulationRun, error)
	GetRun(ctx context.Context, id string) (*domain.SimulationRun, error)
	UpdateRunTitle(ctx context.Context, input usecase.UpdateRunTitleInput) (*domain.SimulationRun, error)
	DeleteRun(ctx context.Context, id string) error
	ListRuns(ctx context.Context, input usecase.ListRunsInput) ([]*domain.SimulationRun, error)
}

// RunHandler handles simulation-run HTTP requests.
type RunHandler struct {
	simulationUC SimulationService
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(simulationUC SimulationService) *RunHandler {
	return &RunHandler{simulationUC: simulationUC}
}

// Create starts a simulation run for a scenario. The run executes
// synchronously; the response is the terminal run record.
func (h *RunHandler) Create(w http.ResponseWriter, r *http.Request) {
	scenarioID := chi.URLParam(r, "id")
	if scenarioID == "" {
		writeError(w, http.StatusBadRequest, "missing scenario ID", "")
		return
	}

	// An empty body means a run with no title.
	var req dto.RunScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	run, err := h.simulationUC.RunScenario(r.Context(), req.ToUseCaseInput(scenarioID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to run scenario", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RunFromDomain(run))
}

// Get retrieves a run by ID, with its snapshot and result.
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing run ID", "")
		return
	}

	run, err := h.simulationUC.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get run", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RunFromDomain(run))
}

// UpdateTitle changes a run's title.
func (h *RunHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing run ID", "")
		return
	}

	var req dto.UpdateRunTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	run, err := h.simulationUC.UpdateRunTitle(r.Context(), usecase.UpdateRunTitleInput{
		ID:    id,
		Title: req.Title,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update run title", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RunFromDomain(run))
}

// Delete removes a run.
func (h *RunHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing run ID", "")
		return
	}

	if err := h.simulationUC.DeleteRun(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete run", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByScenario lists a scenario's runs as summaries.
func (h *RunHandler) ListByScenario(w http.ResponseWriter, r *http.Request) {
	scenarioID := chi.URLParam(r, "id")
	if scenarioID == "" {
		writeError(w, http.StatusBadRequest, "missing scenario ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	runs, err := h.simulationUC.ListRuns(r.Context(), usecase.ListRunsInput{
		ScenarioID: scenarioID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListRunsResponse{
		Runs:  dto.RunSummariesFromDomain(runs),
		Total: int64(len(runs)),
	})
}

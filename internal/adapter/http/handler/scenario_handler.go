package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retiresim/retirecast/internal/adapter/http/dto"
	"github.com/retiresim/retirecast/internal/domain"
	"github.com/retiresim/retirecast/internal/usecase"
)

// ScenarioService defines the behavior needed by ScenarioHandler.
type ScenarioService interface {
	CreateScenario(ctx context.Context, input usecase.CreateScenarioInput) (*domain.Scenario, error)
	GetScenario(ctx context.Context, id string) (*domain.Scenario, error)
	UpdateScenario(ctx context.Context, input usecase.UpdateScenarioInput) (*domain.Scenario, error)
	DeleteScenario(ctx context.Context, id string) error
	ListScenarios(ctx context.Context, input usecase.ListScenariosInput) ([]*domain.Scenario, error)
}

// ScenarioHandler handles scenario-related HTTP requests.
type ScenarioHandler struct {
	scenarioUC ScenarioService
}

// NewScenarioHandler creates a new ScenarioHandler.
func NewScenarioHandler(scenarioUC ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{scenarioUC: scenarioUC}
}

// Create creates a new scenario.
func (h *ScenarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	scenario, err := h.scenarioUC.CreateScenario(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create scenario", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ScenarioFromDomain(scenario))
}

// Get retrieves a scenario by ID.
func (h *ScenarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing scenario ID", "")
		return
	}

	scenario, err := h.scenarioUC.GetScenario(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get scenario", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ScenarioFromDomain(scenario))
}

// Update replaces a scenario's name and plan.
func (h *ScenarioHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing scenario ID", "")
		return
	}

	var req dto.UpdateScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	scenario, err := h.scenarioUC.UpdateScenario(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update scenario", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ScenarioFromDomain(scenario))
}

// Delete removes a scenario and its runs.
func (h *ScenarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing scenario ID", "")
		return
	}

	if err := h.scenarioUC.DeleteScenario(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete scenario", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists scenarios.
func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	scenarios, err := h.scenarioUC.ListScenarios(r.Context(), usecase.ListScenariosInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list scenarios", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListScenariosResponse{
		Scenarios: dto.ScenariosFromDomain(scenarios),
		Total:     int64(len(scenarios)),
	})
}

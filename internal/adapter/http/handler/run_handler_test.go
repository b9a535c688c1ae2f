package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/retiresim/retirecast/internal/adapter/http/dto"
	"github.com/retiresim/retirecast/internal/domain"
	"github.com/retiresim/retirecast/internal/usecase"
)

type simulationServiceStub struct {
	runFn         func(ctx context.Context, input usecase.RunScenarioInput) (*domain.SimulationRun, error)
	getFn         func(ctx context.Context, id string) (*domain.SimulationRun, error)
	updateTitleFn func(ctx context.Context, input usecase.UpdateRunTitleInput) (*domain.SimulationRun, error)
	deleteFn      func(ctx context.Context, id string) error
	listFn        func(ctx context.Context, input usecase.ListRunsInput) ([]*domain.SimulationRun, error)
}

func (s *simulationServiceStub) RunScenario(ctx context.Context, input usecase.RunScenarioInput) (*domain.SimulationRun, error) {
	return s.runFn(ctx, input)
}

func (s *simulationServiceStub) GetRun(ctx context.Context, id string) (*domain.SimulationRun, error) {
	return s.getFn(ctx, id)
}

func (s *simulationServiceStub) UpdateRunTitle(ctx context.Context, input usecase.UpdateRunTitleInput) (*domain.SimulationRun, error) {
	return s.updateTitleFn(ctx, input)
}

func (s *simulationServiceStub) DeleteRun(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *simulationServiceStub) ListRuns(ctx context.Context, input usecase.ListRunsInput) ([]*domain.SimulationRun, error) {
	return s.listFn(ctx, input)
}

func newSimulationServiceStub() *simulationServiceStub {
	return &simulationServiceStub{
		runFn: func(ctx context.Context, input usecase.RunScenarioInput) (*domain.SimulationRun, error) {
			return nil, nil
		},
		getFn: func(ctx context.Context, id string) (*domain.SimulationRun, error) { return nil, nil },
		updateTitleFn: func(ctx context.Context, input usecase.UpdateRunTitleInput) (*domain.SimulationRun, error) {
			return nil, nil
		},
		deleteFn: func(ctx context.Context, id string) error { return nil },
		listFn:   func(ctx context.Context, input usecase.ListRunsInput) ([]*domain.SimulationRun, error) { return nil, nil },
	}
}

func TestRunHandler_Create_Success(t *testing.T) {
	stub := newSimulationServiceStub()
	var captured usecase.RunScenarioInput
	stub.runFn = func(ctx context.Context, input usecase.RunScenarioInput) (*domain.SimulationRun, error) {
		captured = input
		return &domain.SimulationRun{
			ID:         "run-1",
			ScenarioID: input.ScenarioID,
			Title:      input.Title,
			Status:     domain.RunSuccess,
			Result:     &domain.Result{},
		}, nil
	}
	handler := NewRunHandler(stub)

	body, _ := json.Marshal(dto.RunScenarioRequest{Title: "first pass"})
	req := httptest.NewRequest(http.MethodPost, "/scenarios/scn-1/runs", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "scn-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.ScenarioID != "scn-1" || captured.Title != "first pass" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.RunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "run-1" || resp.Status != domain.RunSuccess {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestRunHandler_Create_EmptyBody(t *testing.T) {
	stub := newSimulationServiceStub()
	stub.runFn = func(ctx context.Context, input usecase.RunScenarioInput) (*domain.SimulationRun, error) {
		if input.Title != "" {
			t.Fatalf("expected empty title, got %q", input.Title)
		}
		return &domain.SimulationRun{ID: "run-1", ScenarioID: input.ScenarioID, Status: domain.RunSuccess}, nil
	}
	handler := NewRunHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/scenarios/scn-1/runs", nil)
	req = setChiURLParam(req, "id", "scn-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRunHandler_Create_UnknownScenario(t *testing.T) {
	stub := newSimulationServiceStub()
	stub.runFn = func(ctx context.Context, input usecase.RunScenarioInput) (*domain.SimulationRun, error) {
		return nil, domain.ErrScenarioNotFound
	}
	handler := NewRunHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/scenarios/missing/runs", nil)
	req = setChiURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRunHandler_Create_InvalidPlan(t *testing.T) {
	stub := newSimulationServiceStub()
	stub.runFn = func(ctx context.Context, input usecase.RunScenarioInput) (*domain.SimulationRun, error) {
		return nil, domain.ErrInvalidInput
	}
	handler := NewRunHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/scenarios/scn-1/runs", nil)
	req = setChiURLParam(req, "id", "scn-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRunHandler_Get(t *testing.T) {
	stub := newSimulationServiceStub()
	stub.getFn = func(ctx context.Context, id string) (*domain.SimulationRun, error) {
		if id != "run-1" {
			t.Fatalf("expected id run-1, got %s", id)
		}
		return &domain.SimulationRun{ID: "run-1", Status: domain.RunSuccess}, nil
	}
	handler := NewRunHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/runs/run-1", nil)
	req = setChiURLParam(req, "id", "run-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRunHandler_Get_NotFound(t *testing.T) {
	stub := newSimulationServiceStub()
	stub.getFn = func(ctx context.Context, id string) (*domain.SimulationRun, error) {
		return nil, domain.ErrRunNotFound
	}
	handler := NewRunHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/runs/missing", nil)
	req = setChiURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRunHandler_UpdateTitle(t *testing.T) {
	stub := newSimulationServiceStub()
	stub.updateTitleFn = func(ctx context.Context, input usecase.UpdateRunTitleInput) (*domain.SimulationRun, error) {
		if input.ID != "run-1" || input.Title != "renamed" {
			t.Fatalf("unexpected input %+v", input)
		}
		return &domain.SimulationRun{ID: input.ID, Title: input.Title, Status: domain.RunSuccess}, nil
	}
	handler := NewRunHandler(stub)

	body, _ := json.Marshal(dto.UpdateRunTitleRequest{Title: "renamed"})
	req := httptest.NewRequest(http.MethodPatch, "/runs/run-1", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "run-1")
	rec := httptest.NewRecorder()

	handler.UpdateTitle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.RunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Title != "renamed" {
		t.Fatalf("expected title renamed, got %q", resp.Title)
	}
}

func TestRunHandler_Delete(t *testing.T) {
	stub := newSimulationServiceStub()
	deleted := ""
	stub.deleteFn = func(ctx context.Context, id string) error {
		deleted = id
		return nil
	}
	handler := NewRunHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/runs/run-1", nil)
	req = setChiURLParam(req, "id", "run-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "run-1" {
		t.Fatalf("expected run-1 deleted, got %q", deleted)
	}
}

func TestRunHandler_ListByScenario(t *testing.T) {
	stub := newSimulationServiceStub()
	stub.listFn = func(ctx context.Context, input usecase.ListRunsInput) ([]*domain.SimulationRun, error) {
		if input.ScenarioID != "scn-1" {
			t.Fatalf("expected scenario scn-1, got %s", input.ScenarioID)
		}
		return []*domain.SimulationRun{
			{ID: "run-1", ScenarioID: "scn-1", Status: domain.RunSuccess},
			{ID: "run-2", ScenarioID: "scn-1", Status: domain.RunError, Error: "boom"},
		}, nil
	}
	handler := NewRunHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/scenarios/scn-1/runs", nil)
	req = setChiURLParam(req, "id", "scn-1")
	rec := httptest.NewRecorder()

	handler.ListByScenario(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListRunsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(resp.Runs))
	}
	if resp.Runs[1].Error != "boom" {
		t.Fatalf("expected error to surface in summary, got %+v", resp.Runs[1])
	}
}

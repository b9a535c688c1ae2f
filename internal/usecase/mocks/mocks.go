package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/retiresim/retirecast/internal/domain"
)

// MockScenarioRepository is a mock implementation of ScenarioRepository.
type MockScenarioRepository struct {
	mu        sync.RWMutex
	scenarios map[string]*domain.Scenario

	CreateFunc  func(ctx context.Context, scenario *domain.Scenario) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Scenario, error)
	UpdateFunc  func(ctx context.Context, scenario *domain.Scenario) error
	DeleteFunc  func(ctx context.Context, id string) error
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.Scenario, error)
}

func NewMockScenarioRepository() *MockScenarioRepository {
	return &MockScenarioRepository{
		scenarios: make(map[string]*domain.Scenario),
	}
}

func (m *MockScenarioRepository) Create(ctx context.Context, scenario *domain.Scenario) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, scenario)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[scenario.ID] = scenario
	return nil
}

func (m *MockScenarioRepository) GetByID(ctx context.Context, id string) (*domain.Scenario, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.scenarios[id]; ok {
		return s, nil
	}
	return nil, domain.ErrScenarioNotFound
}

func (m *MockScenarioRepository) Update(ctx context.Context, scenario *domain.Scenario) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, scenario)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenarios[scenario.ID]; !ok {
		return domain.ErrScenarioNotFound
	}
	m.scenarios[scenario.ID] = scenario
	return nil
}

func (m *MockScenarioRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenarios[id]; !ok {
		return domain.ErrScenarioNotFound
	}
	delete(m.scenarios, id)
	return nil
}

func (m *MockScenarioRepository) List(ctx context.Context, limit, offset int) ([]*domain.Scenario, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var scenarios []*domain.Scenario
	for _, s := range m.scenarios {
		scenarios = append(scenarios, s)
	}
	if offset >= len(scenarios) {
		return nil, nil
	}
	scenarios = scenarios[offset:]
	if limit < len(scenarios) {
		scenarios = scenarios[:limit]
	}
	return scenarios, nil
}

// MockSimulationRunRepository is a mock implementation of SimulationRunRepository.
type MockSimulationRunRepository struct {
	mu   sync.RWMutex
	runs map[string]*domain.SimulationRun

	UpsertFunc         func(ctx context.Context, run *domain.SimulationRun) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.SimulationRun, error)
	ListByScenarioFunc func(ctx context.Context, scenarioID string, limit, offset int) ([]*domain.SimulationRun, error)
	UpdateTitleFunc    func(ctx context.Context, id, title string) error
	DeleteFunc         func(ctx context.Context, id string) error
}

func NewMockSimulationRunRepository() *MockSimulationRunRepository {
	return &MockSimulationRunRepository{
		runs: make(map[string]*domain.SimulationRun),
	}
}

func (m *MockSimulationRunRepository) Upsert(ctx context.Context, run *domain.SimulationRun) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, run)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *run
	m.runs[run.ID] = &stored
	return nil
}

func (m *MockSimulationRunRepository) GetByID(ctx context.Context, id string) (*domain.SimulationRun, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.runs[id]; ok {
		return r, nil
	}
	return nil, domain.ErrRunNotFound
}

func (m *MockSimulationRunRepository) ListByScenario(ctx context.Context, scenarioID string, limit, offset int) ([]*domain.SimulationRun, error) {
	if m.ListByScenarioFunc != nil {
		return m.ListByScenarioFunc(ctx, scenarioID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var runs []*domain.SimulationRun
	for _, r := range m.runs {
		if r.ScenarioID == scenarioID {
			runs = append(runs, r)
		}
	}
	if offset >= len(runs) {
		return nil, nil
	}
	runs = runs[offset:]
	if limit < len(runs) {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *MockSimulationRunRepository) UpdateTitle(ctx context.Context, id, title string) error {
	if m.UpdateTitleFunc != nil {
		return m.UpdateTitleFunc(ctx, id, title)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return domain.ErrRunNotFound
	}
	r.Title = title
	return nil
}

func (m *MockSimulationRunRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[id]; !ok {
		return domain.ErrRunNotFound
	}
	delete(m.runs, id)
	return nil
}

// MockEngine is a mock implementation of Engine.
type MockEngine struct {
	RunFunc func(ctx context.Context, snap *domain.Snapshot) (*domain.Result, error)
}

func (m *MockEngine) Run(ctx context.Context, snap *domain.Snapshot) (*domain.Result, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, snap)
	}
	return &domain.Result{
		Timeline:        []domain.TimelinePoint{},
		MonthlyTimeline: []domain.MonthlyTimelinePoint{},
		Explanations:    []domain.MonthExplanation{},
	}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu    sync.RWMutex
	items map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{items: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.items[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu    sync.Mutex
	items map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{items: make(map[string][]byte)}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.items[key]; ok {
		return true, existing, nil
	}
	m.items[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = response
	return nil
}

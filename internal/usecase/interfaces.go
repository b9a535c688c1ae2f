package usecase

import (
	"context"
	"time"

	"github.com/retiresim/retirecast/internal/domain"
)

// ScenarioRepository defines data access for scenario aggregates.
type ScenarioRepository interface {
	Create(ctx context.Context, scenario *domain.Scenario) error
	GetByID(ctx context.Context, id string) (*domain.Scenario, error)
	Update(ctx context.Context, scenario *domain.Scenario) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Scenario, error)
}

// SimulationRunRepository defines data access for simulation runs. Upsert
// is keyed by run ID; a finished run is immutable apart from its title.
type SimulationRunRepository interface {
	Upsert(ctx context.Context, run *domain.SimulationRun) error
	GetByID(ctx context.Context, id string) (*domain.SimulationRun, error)
	ListByScenario(ctx context.Context, scenarioID string, limit, offset int) ([]*domain.SimulationRun, error)
	UpdateTitle(ctx context.Context, id, title string) error
	Delete(ctx context.Context, id string) error
}

// Engine projects a frozen snapshot across its horizon.
type Engine interface {
	Run(ctx context.Context, snap *domain.Snapshot) (*domain.Result, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

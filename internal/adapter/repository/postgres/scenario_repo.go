package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retiresim/retirecast/internal/domain"
)

// ScenarioRepository implements usecase.ScenarioRepository. The plan is
// stored as one JSONB document: it is read and written as a unit and never
// queried field-by-field.
type ScenarioRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewScenarioRepository creates a new ScenarioRepository.
func NewScenarioRepository(pool *pgxpool.Pool, retrier *Retrier) *ScenarioRepository {
	return &ScenarioRepository{pool: pool, retrier: retrier}
}

// Create inserts a new scenario.
func (r *ScenarioRepository) Create(ctx context.Context, scenario *domain.Scenario) error {
	plan, err := json.Marshal(scenario.Plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO scenarios (id, name, plan, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			scenario.ID, scenario.Name, plan, scenario.CreatedAt, scenario.UpdatedAt,
		)
		return err
	})
}

// GetByID retrieves a scenario by ID.
func (r *ScenarioRepository) GetByID(ctx context.Context, id string) (*domain.Scenario, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, plan, created_at, updated_at
		 FROM scenarios WHERE id = $1`,
		id,
	)
	return scanScenario(row)
}

// Update replaces a scenario's name and plan.
func (r *ScenarioRepository) Update(ctx context.Context, scenario *domain.Scenario) error {
	plan, err := json.Marshal(scenario.Plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	return r.retrier.Retry(ctx, func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE scenarios SET name = $2, plan = $3, updated_at = $4
			 WHERE id = $1`,
			scenario.ID, scenario.Name, plan, scenario.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrScenarioNotFound
		}
		return nil
	})
}

// Delete removes a scenario and, through the schema's cascade, its runs.
func (r *ScenarioRepository) Delete(ctx context.Context, id string) error {
	return r.retrier.Retry(ctx, func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrScenarioNotFound
		}
		return nil
	})
}

// List retrieves scenarios ordered newest first.
func (r *ScenarioRepository) List(ctx context.Context, limit, offset int) ([]*domain.Scenario, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, plan, created_at, updated_at
		 FROM scenarios
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenarios []*domain.Scenario
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, rows.Err()
}

func scanScenario(row pgx.Row) (*domain.Scenario, error) {
	var s domain.Scenario
	var plan []byte
	var created, updated time.Time
	if err := row.Scan(&s.ID, &s.Name, &plan, &created, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScenarioNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(plan, &s.Plan); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	s.CreatedAt = created
	s.UpdatedAt = updated
	return &s, nil
}

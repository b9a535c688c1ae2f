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

// SimulationRunRepository implements usecase.SimulationRunRepository. The
// frozen snapshot and the result are JSONB documents; the run's identity and
// lifecycle fields are real columns so listings never touch the documents.
type SimulationRunRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewSimulationRunRepository creates a new SimulationRunRepository.
func NewSimulationRunRepository(pool *pgxpool.Pool, retrier *Retrier) *SimulationRunRepository {
	return &SimulationRunRepository{pool: pool, retrier: retrier}
}

// Upsert inserts the run or replaces its lifecycle state. The same row is
// written once as pending and once as terminal.
func (r *SimulationRunRepository) Upsert(ctx context.Context, run *domain.SimulationRun) error {
	snapshot, err := json.Marshal(run.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	var result []byte
	if run.Result != nil {
		result, err = json.Marshal(run.Result)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
	}
	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO simulation_runs
			   (id, scenario_id, title, status, error, snapshot, result, created_at, finished_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (id) DO UPDATE SET
			   title = EXCLUDED.title,
			   status = EXCLUDED.status,
			   error = EXCLUDED.error,
			   result = EXCLUDED.result,
			   finished_at = EXCLUDED.finished_at`,
			run.ID, run.ScenarioID, run.Title, string(run.Status), run.Error,
			snapshot, result, run.CreatedAt, run.FinishedAt,
		)
		return err
	})
}

// GetByID retrieves a run with its snapshot and result documents.
func (r *SimulationRunRepository) GetByID(ctx context.Context, id string) (*domain.SimulationRun, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, scenario_id, title, status, error, snapshot, result, created_at, finished_at
		 FROM simulation_runs WHERE id = $1`,
		id,
	)

	var run domain.SimulationRun
	var status string
	var snapshot, result []byte
	var finished *time.Time
	err := row.Scan(&run.ID, &run.ScenarioID, &run.Title, &status, &run.Error,
		&snapshot, &result, &run.CreatedAt, &finished)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, err
	}
	run.Status = domain.RunStatus(status)
	run.FinishedAt = finished
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &run.Snapshot); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", err)
		}
	}
	if len(result) > 0 {
		if err := json.Unmarshal(result, &run.Result); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
	}
	return &run, nil
}

// ListByScenario retrieves a scenario's runs newest first, as summaries: the
// snapshot and result documents stay in the database.
func (r *SimulationRunRepository) ListByScenario(ctx context.Context, scenarioID string, limit, offset int) ([]*domain.SimulationRun, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, scenario_id, title, status, error, created_at, finished_at
		 FROM simulation_runs
		 WHERE scenario_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		scenarioID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.SimulationRun
	for rows.Next() {
		var run domain.SimulationRun
		var status string
		var finished *time.Time
		if err := rows.Scan(&run.ID, &run.ScenarioID, &run.Title, &status, &run.Error,
			&run.CreatedAt, &finished); err != nil {
			return nil, err
		}
		run.Status = domain.RunStatus(status)
		run.FinishedAt = finished
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// UpdateTitle changes a run's title, the only mutable field after finishing.
func (r *SimulationRunRepository) UpdateTitle(ctx context.Context, id, title string) error {
	return r.retrier.Retry(ctx, func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE simulation_runs SET title = $2 WHERE id = $1`,
			id, title,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrRunNotFound
		}
		return nil
	})
}

// Delete removes a run.
func (r *SimulationRunRepository) Delete(ctx context.Context, id string) error {
	return r.retrier.Retry(ctx, func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM simulation_runs WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrRunNotFound
		}
		return nil
	})
}

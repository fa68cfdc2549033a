package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dd0wney/cluso-vaxsim/pkg/experiment"
	"github.com/dd0wney/cluso-vaxsim/pkg/policy"
)

// ErrNotFound is returned when an experiment id is unknown
var ErrNotFound = errors.New("experiment not found")

// ExperimentRecord is one row of the experiments table
type ExperimentRecord struct {
	ID          string
	Seed        uint64
	Population  int
	Best        policy.Kind
	Improvement float64
	Duration    time.Duration
	CreatedAt   time.Time
}

var trialColumns = []string{
	"experiment_id", "policy", "trial", "ever_infected", "final_infected", "vaccinated", "population",
}

// trialRows flattens a comparison's results into COPY rows
func trialRows(cmp *experiment.Comparison) [][]any {
	rows := make([][]any, len(cmp.Results))
	for i, r := range cmp.Results {
		rows[i] = []any{
			cmp.ExperimentID,
			r.Policy.String(),
			r.Trial,
			r.EverInfected,
			r.FinalInfected,
			r.Vaccinated,
			r.Population,
		}
	}
	return rows
}

// SaveComparison stores the experiment row and all its trials in one transaction
func (s *PGStore) SaveComparison(ctx context.Context, cmp *experiment.Comparison, cfg experiment.Config) error {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO experiments (id, seed, population, best_policy, improvement, duration_ms, config)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			cmp.ExperimentID,
			int64(cmp.Seed),
			cmp.Population,
			cmp.Best.String(),
			cmp.Improvement,
			cmp.Duration.Milliseconds(),
			configJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert experiment: %w", err)
		}

		n, err := tx.CopyFrom(ctx, pgx.Identifier{"trials"}, trialColumns, pgx.CopyFromRows(trialRows(cmp)))
		if err != nil {
			return fmt.Errorf("failed to copy trials: %w", err)
		}
		if int(n) != len(cmp.Results) {
			return fmt.Errorf("copied %d trials, expected %d", n, len(cmp.Results))
		}
		return nil
	})
}

// GetExperiment retrieves an experiment row by id
func (s *PGStore) GetExperiment(ctx context.Context, id string) (*ExperimentRecord, error) {
	var (
		rec        ExperimentRecord
		seed       int64
		best       string
		durationMs int64
	)

	err := s.pool.QueryRow(ctx, `
		SELECT id, seed, population, best_policy, improvement, duration_ms, created_at
		FROM experiments
		WHERE id = $1
	`, id).Scan(&rec.ID, &seed, &rec.Population, &best, &rec.Improvement, &durationMs, &rec.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}

	rec.Seed = uint64(seed)
	rec.Duration = time.Duration(durationMs) * time.Millisecond
	if rec.Best, err = policy.Parse(best); err != nil {
		return nil, fmt.Errorf("experiment %s: %w", id, err)
	}
	return &rec, nil
}

// LoadResults returns the trials of an experiment in (policy, trial) order
func (s *PGStore) LoadResults(ctx context.Context, id string) ([]experiment.SimulationResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT policy, trial, ever_infected, final_infected, vaccinated, population
		FROM trials
		WHERE experiment_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query trials: %w", err)
	}
	defer rows.Close()

	var results []experiment.SimulationResult
	for rows.Next() {
		var (
			r    experiment.SimulationResult
			name string
		)
		if err := rows.Scan(&name, &r.Trial, &r.EverInfected, &r.FinalInfected, &r.Vaccinated, &r.Population); err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}
		if r.Policy, err = policy.Parse(name); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trials: %w", err)
	}

	sortResults(results)
	return results, nil
}

// LoadSummaries recomputes per-policy means from the stored trials
func (s *PGStore) LoadSummaries(ctx context.Context, id string) ([]experiment.PolicySummary, error) {
	results, err := s.LoadResults(ctx, id)
	if err != nil {
		return nil, err
	}
	return experiment.Summarize(results), nil
}

// ListExperiments returns the most recent experiments first
func (s *PGStore) ListExperiments(ctx context.Context, limit int) ([]*ExperimentRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, seed, population, best_policy, improvement, duration_ms, created_at
		FROM experiments
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	var records []*ExperimentRecord
	for rows.Next() {
		var (
			rec        ExperimentRecord
			seed       int64
			best       string
			durationMs int64
		)
		if err := rows.Scan(&rec.ID, &seed, &rec.Population, &best, &rec.Improvement, &durationMs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		rec.Seed = uint64(seed)
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		if rec.Best, err = policy.Parse(best); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// DeleteExperiment removes an experiment and its trials
func (s *PGStore) DeleteExperiment(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM experiments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete experiment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func sortResults(results []experiment.SimulationResult) {
	slices.SortFunc(results, func(a, b experiment.SimulationResult) int {
		if a.Policy != b.Policy {
			return int(a.Policy) - int(b.Policy)
		}
		return a.Trial - b.Trial
	})
}

package store

import "context"

// migrate creates the necessary database tables
func (s *PGStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS experiments (
		id TEXT PRIMARY KEY,
		seed BIGINT NOT NULL,
		population INTEGER NOT NULL,
		best_policy TEXT NOT NULL,
		improvement DOUBLE PRECISION NOT NULL,
		duration_ms BIGINT NOT NULL,
		config JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS trials (
		experiment_id TEXT NOT NULL REFERENCES experiments(id) ON DELETE CASCADE,
		policy TEXT NOT NULL,
		trial INTEGER NOT NULL,
		ever_infected INTEGER NOT NULL,
		final_infected INTEGER NOT NULL,
		vaccinated INTEGER NOT NULL,
		population INTEGER NOT NULL,
		PRIMARY KEY (experiment_id, policy, trial)
	);

	CREATE INDEX IF NOT EXISTS idx_trials_policy ON trials(policy);
	CREATE INDEX IF NOT EXISTS idx_experiments_created_at ON experiments(created_at);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}

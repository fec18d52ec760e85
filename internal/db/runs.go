package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateRun records the start of a scrape run and returns its ID.
func (db *DB) CreateRun(ctx context.Context, categories []string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO scrape_runs (categories, status)
		 VALUES ($1, $2)
		 RETURNING id`,
		categories, RunStatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a scrape run as finished with its final post count.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, postCount int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE scrape_runs
		 SET status = $1, post_count = $2, completed_at = NOW()
		 WHERE id = $3`,
		status, postCount, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a scrape run by ID, or nil if it does not exist.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*ScrapeRun, error) {
	var run ScrapeRun
	err := db.pool.QueryRow(ctx,
		`SELECT id, status, categories, post_count, started_at, completed_at
		 FROM scrape_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Status, &run.Categories, &run.PostCount, &run.StartedAt, &run.CompletedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

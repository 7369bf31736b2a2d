package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/modcat"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ modcat.RunService = (*RunService)(nil)

// RunService implements modcat.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun persists a completed ingestion run.
func (s *RunService) CreateRun(ctx context.Context, run *modcat.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source_url, document_hash, regions_found, regions_skipped,
			candidates, upserted, deleted, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.SourceURL, run.DocumentHash, run.RegionsFound, run.RegionsSkipped,
		run.Candidates, run.Upserted, run.Deleted, formatTime(run.StartedAt), formatTime(run.FinishedAt))
	if err != nil {
		return modcat.StoreError("create run", err)
	}
	return nil
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter modcat.RunFilter) ([]*modcat.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, source_url, document_hash, regions_found, regions_skipped,
		candidates, upserted, deleted, started_at, finished_at FROM runs WHERE 1=1`)

	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY started_at DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, modcat.StoreError("find runs", err)
	}
	defer rows.Close()

	var runs []*modcat.Run
	for rows.Next() {
		var run modcat.Run
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.SourceURL, &run.DocumentHash, &run.RegionsFound,
			&run.RegionsSkipped, &run.Candidates, &run.Upserted, &run.Deleted,
			&startedAt, &finishedAt); err != nil {
			return nil, modcat.StoreError("find runs", err)
		}

		var parseErr error
		run.StartedAt, parseErr = parseTime(startedAt)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse started_at: %w", parseErr)
		}
		run.FinishedAt, parseErr = parseTime(finishedAt)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", parseErr)
		}

		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, modcat.StoreError("find runs", err)
	}
	return runs, nil
}

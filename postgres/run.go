package postgres

import (
	"context"
	"strings"

	"github.com/fwojciec/modcat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Compile-time interface verification.
var _ modcat.RunService = (*RunService)(nil)

// RunService implements modcat.RunService using PostgreSQL.
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

	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO runs (id, source_url, document_hash, regions_found, regions_skipped,
			candidates, upserted, deleted, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, run.ID, run.SourceURL, run.DocumentHash, run.RegionsFound, run.RegionsSkipped,
		run.Candidates, run.Upserted, run.Deleted, run.StartedAt, run.FinishedAt)
	if err != nil {
		return modcat.StoreError("create run", err)
	}
	return nil
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter modcat.RunFilter) ([]*modcat.Run, error) {
	var query strings.Builder
	var args params

	query.WriteString(`SELECT id, source_url, document_hash, regions_found, regions_skipped,
		candidates, upserted, deleted, started_at, finished_at FROM runs WHERE TRUE`)

	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = " + args.add(*filter.SourceURL))
	}

	query.WriteString(" ORDER BY started_at DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT " + args.add(filter.Limit))
	}

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, modcat.StoreError("find runs", err)
	}

	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*modcat.Run, error) {
		var run modcat.Run
		err := row.Scan(&run.ID, &run.SourceURL, &run.DocumentHash, &run.RegionsFound,
			&run.RegionsSkipped, &run.Candidates, &run.Upserted, &run.Deleted,
			&run.StartedAt, &run.FinishedAt)
		run.StartedAt = run.StartedAt.UTC()
		run.FinishedAt = run.FinishedAt.UTC()
		return &run, err
	})
	if err != nil {
		return nil, modcat.StoreError("find runs", err)
	}
	return runs, nil
}

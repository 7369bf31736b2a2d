package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/modcat"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ modcat.ModService = (*ModService)(nil)

// ModService implements modcat.ModService using SQLite.
type ModService struct {
	db *DB
}

// NewModService creates a new ModService.
func NewModService(db *DB) *ModService {
	return &ModService{db: db}
}

const modColumns = "id, name, category, summary, source_url, updated_at"

// FindModByName retrieves a mod by name, compared by modcat.NameKey.
func (s *ModService) FindModByName(ctx context.Context, name string) (*modcat.Mod, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+modColumns+" FROM mods WHERE name_key = ?", modcat.NameKey(name))

	mod, err := scanMod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, modcat.Errorf(modcat.ENOTFOUND, "mod not found")
	}
	if err != nil {
		return nil, modcat.StoreError("find mod", err)
	}
	return mod, nil
}

// FindMods retrieves mods matching the filter, ordered by name.
func (s *ModService) FindMods(ctx context.Context, filter modcat.ModFilter) ([]*modcat.Mod, error) {
	var query strings.Builder
	query.WriteString("SELECT " + modColumns + " FROM mods")
	args := writeModWhere(&query, filter)
	query.WriteString(" ORDER BY name_key")

	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, modcat.StoreError("find mods", err)
	}
	defer rows.Close()

	var mods []*modcat.Mod
	for rows.Next() {
		mod, err := scanMod(rows)
		if err != nil {
			return nil, modcat.StoreError("find mods", err)
		}
		mods = append(mods, mod)
	}

	if err := rows.Err(); err != nil {
		return nil, modcat.StoreError("find mods", err)
	}
	return mods, nil
}

// CountMods returns the number of mods matching the filter.
// Limit and Offset are ignored.
func (s *ModService) CountMods(ctx context.Context, filter modcat.ModFilter) (int, error) {
	var query strings.Builder
	query.WriteString("SELECT COUNT(*) FROM mods")
	args := writeModWhere(&query, filter)

	var n int
	if err := s.db.QueryRowContext(ctx, query.String(), args...).Scan(&n); err != nil {
		return 0, modcat.StoreError("count mods", err)
	}
	return n, nil
}

// FindCategories returns the distinct non-empty categories, sorted.
func (s *ModService) FindCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT category FROM mods
		WHERE category IS NOT NULL AND category != ''
		ORDER BY category
	`)
	if err != nil {
		return nil, modcat.StoreError("find categories", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, modcat.StoreError("find categories", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, modcat.StoreError("find categories", err)
	}
	return categories, nil
}

// UpsertMod creates the mod or overwrites category, summary, source URL and
// name casing of the existing mod with the same name.
func (s *ModService) UpsertMod(ctx context.Context, mod *modcat.Mod) error {
	if err := mod.Validate(); err != nil {
		return err
	}

	mod.UpdatedAt = s.db.Now()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO mods (id, name, name_key, category, summary, source_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name_key) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			summary = excluded.summary,
			source_url = excluded.source_url,
			updated_at = excluded.updated_at
		RETURNING id
	`, uuid.New().String(), mod.Name, modcat.NameKey(mod.Name), nullString(mod.Category), nullString(mod.Summary),
		mod.SourceURL, formatTime(mod.UpdatedAt)).Scan(&mod.ID)
	if err != nil {
		return modcat.StoreError("upsert mod", err)
	}
	return nil
}

// DeleteMods removes mods of one source matching any predicate of the filter.
func (s *ModService) DeleteMods(ctx context.Context, filter modcat.ModDelete) (int, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}

	var preds []string
	args := []any{filter.SourceURL}

	if filter.Incomplete {
		preds = append(preds, "category IS NULL OR summary IS NULL")
	}
	if len(filter.Names) > 0 {
		preds = append(preds, "name_key IN ("+placeholders(len(filter.Names))+")")
		for _, n := range filter.Names {
			args = append(args, modcat.NameKey(n))
		}
	}
	if len(filter.SummarylessSuffixes) > 0 {
		likes := make([]string, len(filter.SummarylessSuffixes))
		for i, suffix := range filter.SummarylessSuffixes {
			likes[i] = `name_key LIKE ? ESCAPE '\'`
			args = append(args, suffixPattern(modcat.NameKey(suffix)))
		}
		preds = append(preds, "summary IS NULL AND ("+strings.Join(likes, " OR ")+")")
	}

	query := "DELETE FROM mods WHERE source_url = ? AND ((" + strings.Join(preds, ") OR (") + "))"

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, modcat.StoreError("delete mods", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, modcat.StoreError("delete mods", err)
	}
	return int(n), nil
}

// writeModWhere appends the WHERE clause for filter and returns its args.
func writeModWhere(query *strings.Builder, filter modcat.ModFilter) []any {
	var args []any
	query.WriteString(" WHERE 1=1")

	if filter.Query != nil && *filter.Query != "" {
		query.WriteString(` AND (name_key LIKE ? ESCAPE '\' OR summary LIKE ? ESCAPE '\')`)
		args = append(args, containsPattern(modcat.NameKey(*filter.Query)), containsPattern(*filter.Query))
	}
	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, *filter.Category)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	return args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMod(row scanner) (*modcat.Mod, error) {
	var mod modcat.Mod
	var category, summary sql.NullString
	var updatedAt string

	if err := row.Scan(&mod.ID, &mod.Name, &category, &summary, &mod.SourceURL, &updatedAt); err != nil {
		return nil, err
	}

	if category.Valid {
		mod.Category = &category.String
	}
	if summary.Valid {
		mod.Summary = &summary.String
	}

	var err error
	mod.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return &mod, nil
}

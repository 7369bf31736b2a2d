package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/fwojciec/modcat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Compile-time interface verification.
var _ modcat.ModService = (*ModService)(nil)

// ModService implements modcat.ModService using PostgreSQL.
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
	row := s.db.pool.QueryRow(ctx, "SELECT "+modColumns+" FROM mods WHERE name_key = $1", modcat.NameKey(name))

	mod, err := scanMod(row)
	if errors.Is(err, pgx.ErrNoRows) {
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
	var args params
	query.WriteString("SELECT " + modColumns + " FROM mods")
	writeModWhere(&query, &args, filter)
	query.WriteString(" ORDER BY name_key")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT " + args.add(filter.Limit))
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET " + args.add(filter.Offset))
	}

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
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
	var args params
	query.WriteString("SELECT COUNT(*) FROM mods")
	writeModWhere(&query, &args, filter)

	var n int
	if err := s.db.pool.QueryRow(ctx, query.String(), args...).Scan(&n); err != nil {
		return 0, modcat.StoreError("count mods", err)
	}
	return n, nil
}

// FindCategories returns the distinct non-empty categories, sorted.
func (s *ModService) FindCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT DISTINCT category FROM mods
		WHERE category IS NOT NULL AND category <> ''
		ORDER BY category
	`)
	if err != nil {
		return nil, modcat.StoreError("find categories", err)
	}

	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
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

	err := s.db.pool.QueryRow(ctx, `
		INSERT INTO mods (id, name, name_key, category, summary, source_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name_key) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			summary = EXCLUDED.summary,
			source_url = EXCLUDED.source_url,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`, uuid.New().String(), mod.Name, modcat.NameKey(mod.Name), mod.Category, mod.Summary, mod.SourceURL, mod.UpdatedAt).Scan(&mod.ID)
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
	var args params
	source := args.add(filter.SourceURL)

	if filter.Incomplete {
		preds = append(preds, "category IS NULL OR summary IS NULL")
	}
	if len(filter.Names) > 0 {
		keys := make([]string, len(filter.Names))
		for i, n := range filter.Names {
			keys[i] = modcat.NameKey(n)
		}
		preds = append(preds, "name_key = ANY("+args.add(keys)+")")
	}
	if len(filter.SummarylessSuffixes) > 0 {
		likes := make([]string, len(filter.SummarylessSuffixes))
		for i, suffix := range filter.SummarylessSuffixes {
			likes[i] = "name_key LIKE " + args.add(suffixPattern(modcat.NameKey(suffix)))
		}
		preds = append(preds, "summary IS NULL AND ("+strings.Join(likes, " OR ")+")")
	}

	query := "DELETE FROM mods WHERE source_url = " + source + " AND ((" + strings.Join(preds, ") OR (") + "))"

	tag, err := s.db.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, modcat.StoreError("delete mods", err)
	}
	return int(tag.RowsAffected()), nil
}

// writeModWhere appends the WHERE clause for filter to query.
func writeModWhere(query *strings.Builder, args *params, filter modcat.ModFilter) {
	query.WriteString(" WHERE TRUE")

	if filter.Query != nil && *filter.Query != "" {
		key := args.add(containsPattern(modcat.NameKey(*filter.Query)))
		p := args.add(containsPattern(*filter.Query))
		query.WriteString(" AND (name_key LIKE " + key + " OR summary ILIKE " + p + ")")
	}
	if filter.Category != nil {
		query.WriteString(" AND category = " + args.add(*filter.Category))
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = " + args.add(*filter.SourceURL))
	}
}

func scanMod(row pgx.Row) (*modcat.Mod, error) {
	var mod modcat.Mod
	if err := row.Scan(&mod.ID, &mod.Name, &mod.Category, &mod.Summary, &mod.SourceURL, &mod.UpdatedAt); err != nil {
		return nil, err
	}
	mod.UpdatedAt = mod.UpdatedAt.UTC()
	return &mod, nil
}

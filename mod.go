package modcat

import (
	"context"
	"strings"
	"time"
)

// NameKey returns the identity of a mod name. Two names with the same key
// are the same mod, both within a batch and in the store.
func NameKey(name string) string {
	return strings.ToLower(name)
}

// Mod represents a persisted catalog entry.
// Name is unique across the whole store, compared by NameKey.
type Mod struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category"`
	Summary   *string   `json:"summary"`
	SourceURL string    `json:"sourceUrl"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the mod contains invalid fields.
func (m *Mod) Validate() error {
	if m.Name == "" {
		return Errorf(EINVALID, "mod name required")
	}
	if m.SourceURL == "" {
		return Errorf(EINVALID, "mod source URL required")
	}
	return nil
}

// Incomplete reports whether the mod is missing its category or summary.
func (m *Mod) Incomplete() bool {
	return m.Category == nil || m.Summary == nil
}

// ModService represents a service for managing persisted mods.
type ModService interface {
	// FindModByName retrieves a mod by name, compared by NameKey.
	// Returns ENOTFOUND if mod does not exist.
	FindModByName(ctx context.Context, name string) (*Mod, error)

	// FindMods retrieves mods matching the filter.
	FindMods(ctx context.Context, filter ModFilter) ([]*Mod, error)

	// CountMods returns the number of mods matching the filter.
	CountMods(ctx context.Context, filter ModFilter) (int, error)

	// FindCategories returns the distinct non-empty categories, sorted.
	FindCategories(ctx context.Context) ([]string, error)

	// UpsertMod creates the mod or overwrites the existing mod with the same
	// name. ID and UpdatedAt are set on the passed mod.
	UpsertMod(ctx context.Context, mod *Mod) error

	// DeleteMods removes mods matching the filter and returns how many
	// were deleted.
	DeleteMods(ctx context.Context, filter ModDelete) (int, error)
}

// ModFilter represents a filter for FindMods and CountMods.
type ModFilter struct {
	// Query matches a case-insensitive substring of name or summary.
	Query     *string `json:"query"`
	Category  *string `json:"category"`
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ModDelete selects mods for deletion. SourceURL is required so that a
// cleanup never reaches rows from another source. The remaining predicates
// are OR-ed together; at least one must be set.
type ModDelete struct {
	SourceURL string

	// Incomplete selects mods with an absent category or summary.
	Incomplete bool

	// Names selects mods whose name has the NameKey of one of the values.
	Names []string

	// SummarylessSuffixes selects mods with an absent summary whose name
	// ends with one of the values, compared by NameKey.
	SummarylessSuffixes []string
}

// Validate returns an error if the delete filter would be unbounded.
func (d ModDelete) Validate() error {
	if d.SourceURL == "" {
		return Errorf(EINVALID, "delete source URL required")
	}
	if !d.Incomplete && len(d.Names) == 0 && len(d.SummarylessSuffixes) == 0 {
		return Errorf(EINVALID, "delete predicate required")
	}
	return nil
}

package modcat

import (
	"cmp"
	"slices"
	"strings"
)

// RankMods returns mods ordered by relevance to query: exact name match,
// name prefix, name substring, summary substring, then everything else.
// Ties are broken by name. An empty query returns mods ordered by name.
func RankMods(mods []*Mod, query string) []*Mod {
	q := strings.ToLower(strings.TrimSpace(query))
	ranked := slices.Clone(mods)
	slices.SortStableFunc(ranked, func(a, b *Mod) int {
		if q != "" {
			if c := cmp.Compare(score(a, q), score(b, q)); c != 0 {
				return c
			}
		}
		return strings.Compare(a.Name, b.Name)
	})
	return ranked
}

// score returns the relevance of m to q; lower is better.
func score(m *Mod, q string) int {
	name := strings.ToLower(m.Name)
	var summary string
	if m.Summary != nil {
		summary = strings.ToLower(*m.Summary)
	}

	switch {
	case name == q:
		return 0
	case strings.HasPrefix(name, q):
		return 1
	case strings.Contains(name, q):
		return 2
	case strings.Contains(summary, q):
		return 3
	}
	return 9
}

package modcat

import "strings"

// Candidate is a normalized mod entry extracted from the source document.
// Candidates are never persisted directly; the ingester upserts them as Mods.
type Candidate struct {
	Name      string `json:"name"`
	Summary   string `json:"summary"`
	Category  string `json:"category"`
	SourceURL string `json:"sourceUrl"`
}

// Key returns the identity key used for deduplication.
func (c Candidate) Key() string {
	return NameKey(c.Name)
}

// Mod converts the candidate into a Mod ready for upsert.
func (c Candidate) Mod() *Mod {
	category, summary := c.Category, c.Summary
	return &Mod{
		Name:      c.Name,
		Category:  &category,
		Summary:   &summary,
		SourceURL: c.SourceURL,
	}
}

// Normalize collapses whitespace runs to a single space and trims the ends.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Table holds the normalized text content of one HTML table.
type Table struct {
	// Header holds the cells of the first row.
	Header []string

	// Rows holds the data cells of every following row.
	Rows [][]string
}

// TableMarkers identify a record table by substrings of its header cells.
type TableMarkers struct {
	Name    string
	Summary string
}

// DefaultTableMarkers match the "MOD NAME" / "SUMMARY" header of the mod list.
var DefaultTableMarkers = TableMarkers{Name: "mod name", Summary: "summary"}

// Match reports whether header contains a cell with the name marker and a
// cell with the summary marker, case-insensitively. A single cell may
// satisfy both.
func (m TableMarkers) Match(header []string) bool {
	name := strings.ToLower(m.Name)
	summary := strings.ToLower(m.Summary)

	var hasName, hasSummary bool
	for _, cell := range header {
		cell = strings.ToLower(Normalize(cell))
		if strings.Contains(cell, name) {
			hasName = true
		}
		if strings.Contains(cell, summary) {
			hasSummary = true
		}
	}
	return hasName && hasSummary
}

// ExtractCandidates turns the data rows of a qualifying table into
// candidates in row order. Rows with fewer than two cells, an empty name,
// an empty summary or the literal summary "null" are dropped.
func ExtractCandidates(table Table, category, sourceURL string) []Candidate {
	var candidates []Candidate
	for _, row := range table.Rows {
		if len(row) < 2 {
			continue
		}

		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = Normalize(cell)
		}

		name := cells[0]
		summary := Normalize(strings.Join(cells[1:], " "))

		if name == "" || summary == "" {
			continue
		}
		if strings.ToLower(summary) == "null" {
			continue
		}

		candidates = append(candidates, Candidate{
			Name:      name,
			Summary:   summary,
			Category:  category,
			SourceURL: sourceURL,
		})
	}
	return candidates
}

// DedupCandidates keeps the first candidate for each case-insensitive name
// and returns a new slice in the original order.
func DedupCandidates(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	result := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := c.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, c)
	}
	return result
}

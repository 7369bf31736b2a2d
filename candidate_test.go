package modcat_test

import (
	"testing"

	"github.com/fwojciec/modcat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = "https://example.com/wiki/mod-list/"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
		{"trims ends", "  Create  ", "Create"},
		{"collapses internal runs", "Applied\n\t  Energistics   2", "Applied Energistics 2"},
		{"non-breaking space", "Mod\u00a0Name", "Mod Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, modcat.Normalize(tt.in))
		})
	}
}

func TestTableMarkers_Match(t *testing.T) {
	t.Parallel()

	markers := modcat.DefaultTableMarkers

	tests := []struct {
		name   string
		header []string
		want   bool
	}{
		{"rejects table without summary marker", []string{"Rank", "Name"}, false},
		{"accepts mod name and summary", []string{"Mod Name", "Summary"}, true},
		{"matches case-insensitive substrings", []string{"MOD NAME", "Short Summary Text"}, true},
		{"rejects table without name marker", []string{"Name", "Summary"}, false},
		{"normalizes whitespace in cells", []string{"Mod\n  Name", " SUMMARY "}, true},
		{"rejects empty header", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, markers.Match(tt.header))
		})
	}

	t.Run("uses configured markers", func(t *testing.T) {
		t.Parallel()

		custom := modcat.TableMarkers{Name: "Addon", Summary: "Description"}
		assert.True(t, custom.Match([]string{"addon title", "long description"}))
		assert.False(t, custom.Match([]string{"Mod Name", "Summary"}))
	})
}

func TestExtractCandidates(t *testing.T) {
	t.Parallel()

	t.Run("extracts name and joined summary", func(t *testing.T) {
		t.Parallel()

		table := modcat.Table{
			Header: []string{"Mod Name", "Summary", "Notes"},
			Rows: [][]string{
				{"Create", "Rotational  power", "and contraptions"},
				{" Mekanism ", "Tech\nmod"},
			},
		}

		got := modcat.ExtractCandidates(table, "Tech", testSource)

		require.Len(t, got, 2)
		assert.Equal(t, modcat.Candidate{
			Name:      "Create",
			Summary:   "Rotational power and contraptions",
			Category:  "Tech",
			SourceURL: testSource,
		}, got[0])
		assert.Equal(t, "Mekanism", got[1].Name)
		assert.Equal(t, "Tech mod", got[1].Summary)
	})

	t.Run("drops malformed rows", func(t *testing.T) {
		t.Parallel()

		table := modcat.Table{
			Rows: [][]string{
				{"", "Does something"},
				{"Foo"},
				{"Foo", "null"},
				{"Bar", "NULL"},
				{"Baz", "  "},
				{"Baz", "", " "},
				{"Kept", "Real summary"},
			},
		}

		got := modcat.ExtractCandidates(table, "Magic", testSource)

		require.Len(t, got, 1)
		assert.Equal(t, "Kept", got[0].Name)
	})

	t.Run("returns nil for table without rows", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, modcat.ExtractCandidates(modcat.Table{}, "Magic", testSource))
	})
}

func TestDedupCandidates(t *testing.T) {
	t.Parallel()

	t.Run("keeps first occurrence case-insensitively", func(t *testing.T) {
		t.Parallel()

		in := []modcat.Candidate{
			{Name: "Foo", Summary: "first"},
			{Name: "Bar", Summary: "bar"},
			{Name: "foo", Summary: "second"},
		}

		got := modcat.DedupCandidates(in)

		require.Len(t, got, 2)
		assert.Equal(t, "first", got[0].Summary)
		assert.Equal(t, "Bar", got[1].Name)
		assert.Len(t, in, 3, "input must not be modified")
	})

	t.Run("returns empty slice for no candidates", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, modcat.DedupCandidates(nil))
	})
}

func TestCandidate_Mod(t *testing.T) {
	t.Parallel()

	c := modcat.Candidate{Name: "Create", Summary: "Gears", Category: "Tech", SourceURL: testSource}

	m := c.Mod()

	assert.Equal(t, "Create", m.Name)
	require.NotNil(t, m.Category)
	require.NotNil(t, m.Summary)
	assert.Equal(t, "Tech", *m.Category)
	assert.Equal(t, "Gears", *m.Summary)
	assert.Equal(t, testSource, m.SourceURL)
	assert.False(t, m.Incomplete())
}

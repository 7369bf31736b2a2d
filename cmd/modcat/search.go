package main

import (
	"fmt"

	"github.com/fwojciec/modcat"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	filter := modcat.ModFilter{Query: &c.Query}
	if c.Category != "" {
		filter.Category = &c.Category
	}

	mods, err := deps.Mods.FindMods(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", modcat.ErrorMessage(err))
		return err
	}

	if len(mods) == 0 {
		fmt.Fprintf(deps.Stdout, "No mods match %q.\n", c.Query)
		return nil
	}

	// Ranking needs every match, so the limit applies afterwards.
	mods = modcat.RankMods(mods, c.Query)
	if c.Limit > 0 && len(mods) > c.Limit {
		mods = mods[:c.Limit]
	}

	for _, m := range mods {
		fmt.Fprintf(deps.Stdout, "%s  [%s]  %s\n", m.Name, deref(m.Category), deref(m.Summary))
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

package main

import (
	"fmt"

	"github.com/fwojciec/modcat"
)

// Run executes the categories command.
func (c *CategoriesCmd) Run(deps *Dependencies) error {
	categories, err := deps.Mods.FindCategories(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", modcat.ErrorMessage(err))
		return err
	}

	if len(categories) == 0 {
		fmt.Fprintln(deps.Stdout, "No categories found. Use 'modcat ingest' to populate the catalog.")
		return nil
	}

	for _, category := range categories {
		n, err := deps.Mods.CountMods(deps.Ctx, modcat.ModFilter{Category: &category})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", modcat.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s  %d\n", category, n)
	}
	return nil
}

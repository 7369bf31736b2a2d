package main

import (
	"fmt"

	"github.com/fwojciec/modcat"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	total, err := deps.Mods.CountMods(deps.Ctx, modcat.ModFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", modcat.ErrorMessage(err))
		return err
	}

	source := deps.Config.SourceURL
	fromSource, err := deps.Mods.CountMods(deps.Ctx, modcat.ModFilter{SourceURL: &source})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", modcat.ErrorMessage(err))
		return err
	}

	categories, err := deps.Mods.FindCategories(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", modcat.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Mods:        %d\n", total)
	fmt.Fprintf(deps.Stdout, "From source: %d\n", fromSource)
	fmt.Fprintf(deps.Stdout, "Categories:  %d\n", len(categories))
	return nil
}

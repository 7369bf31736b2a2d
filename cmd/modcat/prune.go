package main

import (
	"fmt"

	"github.com/fwojciec/modcat"
)

// Run executes the prune command.
func (c *PruneCmd) Run(deps *Dependencies) error {
	result, err := deps.Pruner.Prune(deps.Ctx, deps.Config.SourceURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", modcat.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted (incomplete):   %d\n", result.Incomplete)
	fmt.Fprintf(deps.Stdout, "Deleted (known bad):    %d\n", result.BadNames)
	fmt.Fprintf(deps.Stdout, "Deleted (heading-like): %d\n", result.Headings)
	fmt.Fprintf(deps.Stdout, "Remaining:              %d\n", result.Remaining)
	return nil
}

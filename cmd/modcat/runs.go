package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/modcat"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := modcat.RunFilter{Limit: c.Limit}
	if !c.All {
		filter.SourceURL = &deps.Config.SourceURL
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", modcat.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'modcat ingest' to start one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  regions=%d candidates=%d upserted=%d deleted=%d  %s\n",
			r.StartedAt.Format(time.RFC3339), r.RegionsFound, r.Candidates, r.Upserted, r.Deleted, r.SourceURL)
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/modcat"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	report, err := deps.Ingester.Run(deps.Ctx, deps.Config.SourceURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", modcat.ErrorMessage(err))
		return err
	}

	printReport(deps.Stdout, report)
	return nil
}

func printReport(w io.Writer, r *modcat.Report) {
	for _, region := range r.Regions {
		if len(region.Sample) == 0 {
			fmt.Fprintf(w, "%s: %d\n", region.Name, region.Candidates)
			continue
		}
		sample := strings.Join(region.Sample, ", ")
		if region.Candidates > len(region.Sample) {
			sample += ", ..."
		}
		fmt.Fprintf(w, "%s: %d (%s)\n", region.Name, region.Candidates, sample)
	}
	if len(r.Regions) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Source:     %s\n", r.SourceURL)
	fmt.Fprintf(w, "Regions:    %d found, %d skipped\n", r.RegionsFound, r.RegionsSkipped)
	fmt.Fprintf(w, "Candidates: %d\n", r.Candidates)
	fmt.Fprintf(w, "Upserted:   %d\n", r.Upserted)
	fmt.Fprintf(w, "Deleted:    %d\n", r.Deleted)
	fmt.Fprintf(w, "Duration:   %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
}

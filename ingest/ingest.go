// Package ingest provides the mod list ingestion pipeline.
// It coordinates fetching, structure classification, record extraction and
// reconciliation of one source document against the record store.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/modcat"
)

// Ingester runs one ingestion pass over a source document. Runs are strictly
// sequential; callers must not run two ingesters against the same source at
// the same time.
type Ingester struct {
	Fetcher    modcat.Fetcher
	Classifier modcat.Classifier
	Mods       modcat.ModService

	// Runs records completed runs. Optional.
	Runs modcat.RunService

	// Logger receives structure warnings. Defaults to discarding.
	Logger *slog.Logger

	// SampleSize is the number of names kept per region in the report.
	SampleSize int

	// Strict makes a document without regions or record tables fatal.
	Strict bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Run fetches sourceURL, classifies it and reconciles the extracted
// candidates against the store.
//
// A fetch failure aborts before anything is written. A document with no
// category headings or no record tables yields an empty report, or an
// ESTRUCTURE error when Strict is set; either way the store is untouched.
// Otherwise incomplete records of the source are deleted, then every
// candidate is upserted region by region in document order. The first store
// failure aborts the run.
func (i *Ingester) Run(ctx context.Context, sourceURL string) (*modcat.Report, error) {
	if sourceURL == "" {
		return nil, modcat.Errorf(modcat.EINVALID, "source URL required")
	}

	report := modcat.NewReport(sourceURL, i.SampleSize)
	report.StartedAt = i.now()

	html, err := i.Fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	report.DocumentHash = computeHash(html)

	regions, err := i.Classifier.Classify(html)
	if err != nil {
		return nil, err
	}

	if err := checkStructure(regions); err != nil {
		if i.Strict {
			return nil, err
		}
		i.logger().Warn("zero-result run", "url", sourceURL, "reason", modcat.ErrorMessage(err))
		return i.finish(ctx, report)
	}

	deleted, err := i.Mods.DeleteMods(ctx, modcat.ModDelete{SourceURL: sourceURL, Incomplete: true})
	if err != nil {
		return nil, modcat.StoreError("cleanup", err)
	}
	report.Deleted = deleted

	for _, region := range regions {
		candidates := region.Candidates(sourceURL)
		report.AddRegion(region, candidates)

		for _, c := range candidates {
			if err := i.Mods.UpsertMod(ctx, c.Mod()); err != nil {
				return nil, modcat.StoreError(fmt.Sprintf("upsert %q", c.Name), err)
			}
			report.Upserted++
		}
	}

	return i.finish(ctx, report)
}

func (i *Ingester) finish(ctx context.Context, report *modcat.Report) (*modcat.Report, error) {
	report.FinishedAt = i.now()
	if i.Runs != nil {
		if err := i.Runs.CreateRun(ctx, report.Run()); err != nil {
			return nil, modcat.StoreError("record run", err)
		}
	}
	return report, nil
}

// checkStructure returns an ESTRUCTURE error when the document has no
// category regions or no record table in any region.
func checkStructure(regions []modcat.Region) error {
	if len(regions) == 0 {
		return modcat.Errorf(modcat.ESTRUCTURE, "no category headings found")
	}
	for _, r := range regions {
		if len(r.Tables) > 0 {
			return nil
		}
	}
	return modcat.Errorf(modcat.ESTRUCTURE, "no record tables found")
}

func (i *Ingester) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

func (i *Ingester) logger() *slog.Logger {
	if i.Logger != nil {
		return i.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// computeHash returns the hex xxhash of the fetched document.
func computeHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

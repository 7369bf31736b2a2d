package ingest

import (
	"context"

	"github.com/fwojciec/modcat"
)

// Pruner removes records of one source that are known not to be mods.
type Pruner struct {
	Mods modcat.ModService

	// BadNames are exact names to delete.
	BadNames []string

	// HeadingSuffixes select summaryless records named like category
	// headings, e.g. "Technology Mods".
	HeadingSuffixes []string
}

// PruneResult holds the counts of a prune pass.
type PruneResult struct {
	Incomplete int `json:"incomplete"`
	BadNames   int `json:"badNames"`
	Headings   int `json:"headings"`
	Remaining  int `json:"remaining"`
}

// Prune deletes incomplete records, records with a bad name, and
// summaryless heading leftovers of sourceURL, in that order. Remaining is
// the total number of records left in the store across all sources.
func (p *Pruner) Prune(ctx context.Context, sourceURL string) (*PruneResult, error) {
	if sourceURL == "" {
		return nil, modcat.Errorf(modcat.EINVALID, "source URL required")
	}

	var result PruneResult
	var err error

	result.Incomplete, err = p.Mods.DeleteMods(ctx, modcat.ModDelete{SourceURL: sourceURL, Incomplete: true})
	if err != nil {
		return nil, modcat.StoreError("prune incomplete", err)
	}

	if len(p.BadNames) > 0 {
		result.BadNames, err = p.Mods.DeleteMods(ctx, modcat.ModDelete{SourceURL: sourceURL, Names: p.BadNames})
		if err != nil {
			return nil, modcat.StoreError("prune bad names", err)
		}
	}

	if len(p.HeadingSuffixes) > 0 {
		result.Headings, err = p.Mods.DeleteMods(ctx, modcat.ModDelete{SourceURL: sourceURL, SummarylessSuffixes: p.HeadingSuffixes})
		if err != nil {
			return nil, modcat.StoreError("prune headings", err)
		}
	}

	result.Remaining, err = p.Mods.CountMods(ctx, modcat.ModFilter{})
	if err != nil {
		return nil, modcat.StoreError("count remaining", err)
	}
	return &result, nil
}

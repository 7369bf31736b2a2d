package modcat

import (
	"context"
	"time"
)

// DefaultSampleSize is the number of names kept per region for display.
const DefaultSampleSize = 6

// RegionReport summarizes one region of an ingestion run.
type RegionReport struct {
	Name       string   `json:"name"`
	Candidates int      `json:"candidates"`
	Sample     []string `json:"sample"`
}

// Report aggregates the counts of an ingestion run. It is purely
// observational and never influences the outcome of the run.
type Report struct {
	SourceURL    string `json:"sourceUrl"`
	DocumentHash string `json:"documentHash"`

	Regions []RegionReport `json:"regions"`

	RegionsFound   int `json:"regionsFound"`
	RegionsSkipped int `json:"regionsSkipped"`
	Candidates     int `json:"candidates"`
	Upserted       int `json:"upserted"`
	Deleted        int `json:"deleted"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	sampleSize int
}

// NewReport returns an empty report for sourceURL keeping sampleSize names
// per region. A non-positive sampleSize falls back to DefaultSampleSize.
func NewReport(sourceURL string, sampleSize int) *Report {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &Report{SourceURL: sourceURL, sampleSize: sampleSize}
}

// AddRegion records a region and its deduplicated candidates. Every region
// is listed; one without a qualifying table also counts as skipped.
func (r *Report) AddRegion(region Region, candidates []Candidate) {
	r.RegionsFound++
	if len(region.Tables) == 0 {
		r.RegionsSkipped++
	}

	var sample []string
	for _, c := range candidates[:min(len(candidates), r.sampleSize)] {
		sample = append(sample, c.Name)
	}

	r.Regions = append(r.Regions, RegionReport{
		Name:       region.Heading,
		Candidates: len(candidates),
		Sample:     sample,
	})
	r.Candidates += len(candidates)
}

// Run converts the report into a persistable run record.
func (r *Report) Run() *Run {
	return &Run{
		SourceURL:      r.SourceURL,
		DocumentHash:   r.DocumentHash,
		RegionsFound:   r.RegionsFound,
		RegionsSkipped: r.RegionsSkipped,
		Candidates:     r.Candidates,
		Upserted:       r.Upserted,
		Deleted:        r.Deleted,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
	}
}

// Run is the persisted record of a completed ingestion run.
type Run struct {
	ID             string    `json:"id"`
	SourceURL      string    `json:"sourceUrl"`
	DocumentHash   string    `json:"documentHash"`
	RegionsFound   int       `json:"regionsFound"`
	RegionsSkipped int       `json:"regionsSkipped"`
	Candidates     int       `json:"candidates"`
	Upserted       int       `json:"upserted"`
	Deleted        int       `json:"deleted"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SourceURL == "" {
		return Errorf(EINVALID, "run source URL required")
	}
	return nil
}

// RunService records ingestion runs.
type RunService interface {
	// CreateRun persists a run. ID is generated.
	CreateRun(ctx context.Context, run *Run) error

	// FindRuns retrieves runs matching the filter, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	SourceURL *string `json:"sourceUrl"`

	Limit int `json:"limit"`
}

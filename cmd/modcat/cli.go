package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/modcat"
	"github.com/fwojciec/modcat/config"
	"github.com/fwojciec/modcat/ingest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Config   *config.Config
	Mods     modcat.ModService
	Runs     modcat.RunService
	Ingester *ingest.Ingester
	Pruner   *ingest.Pruner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config    string `help:"Configuration file (.yaml, .yml or .toml)" env:"MODCAT_CONFIG" type:"path"`
	DB        string `name:"db" help:"SQLite path or postgres:// connection string" env:"MODCAT_DB"`
	SourceURL string `name:"source-url" help:"Mod list page to ingest" env:"MODCAT_SOURCE_URL"`
	Debug     bool   `help:"Log fetch, classify and store calls to stderr"`

	Ingest     IngestCmd     `cmd:"" help:"Fetch the mod list and reconcile it into the catalog"`
	Prune      PruneCmd      `cmd:"" help:"Delete leftover non-mod records of the source"`
	Search     SearchCmd     `cmd:"" help:"Search mods by name or summary"`
	Categories CategoriesCmd `cmd:"" help:"List categories"`
	Stats      StatsCmd      `cmd:"" help:"Show catalog totals"`
	Runs       RunsCmd       `cmd:"" help:"List recent ingestion runs"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Timeout time.Duration `short:"t" help:"Fetch timeout (default 30s)"`
	Browser bool          `short:"b" help:"Render the page in headless Chrome before parsing"`
	Strict  bool          `help:"Fail when the page has no category headings or record tables"`
	Sample  int           `help:"Names shown per category in the report (default 6)"`
}

// PruneCmd is the "prune" subcommand.
type PruneCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string `arg:"" help:"Text to match in mod names and summaries"`
	Category string `short:"c" help:"Only mods in this category"`
	Limit    int    `short:"n" default:"50" help:"Maximum number of results"`
}

// CategoriesCmd is the "categories" subcommand.
type CategoriesCmd struct{}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit int  `short:"n" default:"10" help:"Maximum number of runs"`
	All   bool `help:"Include runs of every source"`
}

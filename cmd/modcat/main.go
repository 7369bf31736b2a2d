package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/modcat"
	"github.com/fwojciec/modcat/config"
	"github.com/fwojciec/modcat/goquery"
	modhttp "github.com/fwojciec/modcat/http"
	"github.com/fwojciec/modcat/ingest"
	"github.com/fwojciec/modcat/postgres"
	"github.com/fwojciec/modcat/rod"
	modslog "github.com/fwojciec/modcat/slog"
	"github.com/fwojciec/modcat/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when neither the config file nor --db names a
	// database. Set before calling Run().
	DBPath string

	// Fetcher overrides the document fetcher. Used by end-to-end tests.
	Fetcher modcat.Fetcher

	// Open database handles.
	SQLite   *sqlite.DB
	Postgres *postgres.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.SQLite != nil {
		return m.SQLite.Close()
	}
	if m.Postgres != nil {
		return m.Postgres.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("modcat"),
		kong.Description("Ingest and query a mod list catalog"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'modcat --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd = strings.Fields(kongCtx.Command())[0]

	cfg, err := m.loadConfig(cli)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", modcat.ErrorMessage(err))
		return err
	}
	deps.Config = cfg

	var logger *slog.Logger
	if cli.Debug {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	if err := m.openStore(ctx, cfg.DatabaseConnection); err != nil {
		fmt.Fprintln(stderr, "Hint: Set MODCAT_DB or --db to use a different database")
		return err
	}
	defer m.Close()

	switch {
	case m.SQLite != nil:
		deps.Mods = sqlite.NewModService(m.SQLite)
		deps.Runs = sqlite.NewRunService(m.SQLite)
	case m.Postgres != nil:
		deps.Mods = postgres.NewModService(m.Postgres)
		deps.Runs = postgres.NewRunService(m.Postgres)
	}
	if logger != nil {
		deps.Mods = modslog.NewLoggingModService(deps.Mods, logger)
	}

	switch cmd {
	case "ingest":
		fetcher, err := m.newFetcher(cfg, cli.Ingest.Browser)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
			return err
		}
		defer fetcher.Close()

		var classifier modcat.Classifier = newClassifier(cfg)
		if logger != nil {
			fetcher = modslog.NewLoggingFetcher(fetcher, logger)
			classifier = modslog.NewLoggingClassifier(classifier, logger)
		}

		deps.Ingester = &ingest.Ingester{
			Fetcher:    fetcher,
			Classifier: classifier,
			Mods:       deps.Mods,
			Runs:       deps.Runs,
			Logger:     logger,
			SampleSize: cfg.SampleSize,
			Strict:     cli.Ingest.Strict,
		}
	case "prune":
		deps.Pruner = &ingest.Pruner{
			Mods:            deps.Mods,
			BadNames:        cfg.Prune.BadNames,
			HeadingSuffixes: cfg.Prune.HeadingSuffixes,
		}
	}

	return kongCtx.Run(deps)
}

// loadConfig layers the config file and flags over the defaults.
func (m *Main) loadConfig(cli *CLI) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cli.Config != "" {
		var err error
		if cfg, err = config.LoadFromFile(cli.Config); err != nil {
			return nil, err
		}
	}

	if cli.SourceURL != "" {
		cfg.SourceURL = cli.SourceURL
	}
	if cli.DB != "" {
		cfg.DatabaseConnection = cli.DB
	}
	if cfg.DatabaseConnection == "" {
		cfg.DatabaseConnection = m.DBPath
	}
	if cli.Ingest.Timeout > 0 {
		cfg.FetchTimeout = config.Duration{Duration: cli.Ingest.Timeout}
	}
	if cli.Ingest.Sample > 0 {
		cfg.SampleSize = cli.Ingest.Sample
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore opens Postgres for postgres:// connection strings and SQLite
// for anything else.
func (m *Main) openStore(ctx context.Context, conn string) error {
	if isPostgres(conn) {
		m.Postgres = postgres.NewDB(conn)
		if err := m.Postgres.Open(ctx); err != nil {
			m.Postgres = nil
			return fmt.Errorf("failed to open postgres database: %w", err)
		}
		return nil
	}

	m.SQLite = sqlite.NewDB(conn)
	if err := m.SQLite.Open(); err != nil {
		m.SQLite = nil
		return fmt.Errorf("failed to open database at %q: %w", conn, err)
	}
	return nil
}

func (m *Main) newFetcher(cfg *config.Config, browser bool) (modcat.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	if browser {
		opts := []rod.Option{rod.WithFetchTimeout(cfg.FetchTimeout.Duration)}
		if cfg.UserAgent != "" {
			opts = append(opts, rod.WithUserAgent(cfg.UserAgent))
		}
		f, err := rod.NewFetcher(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return f, nil
	}

	opts := []modhttp.Option{modhttp.WithTimeout(cfg.FetchTimeout.Duration)}
	if cfg.UserAgent != "" {
		opts = append(opts, modhttp.WithUserAgent(cfg.UserAgent))
	}
	return modhttp.NewFetcher(opts...), nil
}

func newClassifier(cfg *config.Config) *goquery.Classifier {
	return goquery.NewClassifier(
		goquery.WithHeadingLevel(cfg.HeadingLevel),
		goquery.WithHeadingExclusions(cfg.HeadingExclusionMarkers...),
		goquery.WithExactHeadingExclusions(cfg.HeadingExclusionExact...),
		goquery.WithTableMarkers(cfg.TableMarkers()),
		goquery.WithContentSelectors(cfg.ContentSelectors...),
	)
}

func isPostgres(conn string) bool {
	return strings.HasPrefix(conn, "postgres://") || strings.HasPrefix(conn, "postgresql://")
}

func defaultDBPath() string {
	if path := os.Getenv("MODCAT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "modcat.db"
	}
	dir := filepath.Join(home, ".modcat")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "modcat.db")
}

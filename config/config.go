// Package config loads the optional modcat configuration file.
//
// Files ending in .yaml or .yml are decoded with yaml.v3 and files ending in
// .toml with go-toml. Keys absent from the file keep their defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/modcat"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultSourceURL is the mod list page ingested when none is configured.
const DefaultSourceURL = "https://www.minecraft-guides.com/wiki/all-the-mods-10/atm-10-mod-list/"

// Config holds ingestion and storage settings.
type Config struct {
	SourceURL          string `yaml:"source_url" toml:"source_url"`
	DatabaseConnection string `yaml:"database_connection" toml:"database_connection"`

	HeadingLevel            int      `yaml:"heading_level" toml:"heading_level"`
	HeadingExclusionMarkers []string `yaml:"heading_exclusion_markers" toml:"heading_exclusion_markers"`
	HeadingExclusionExact   []string `yaml:"heading_exclusion_exact" toml:"heading_exclusion_exact"`

	TableMarkerNameColumn    string `yaml:"table_marker_name_column" toml:"table_marker_name_column"`
	TableMarkerSummaryColumn string `yaml:"table_marker_summary_column" toml:"table_marker_summary_column"`

	ContentSelectors []string `yaml:"content_selectors" toml:"content_selectors"`

	SampleSize   int      `yaml:"sample_size" toml:"sample_size"`
	FetchTimeout Duration `yaml:"fetch_timeout" toml:"fetch_timeout"`
	UserAgent    string   `yaml:"user_agent" toml:"user_agent"`

	Prune PruneConfig `yaml:"prune" toml:"prune"`
}

// PruneConfig holds the maintenance pass settings.
type PruneConfig struct {
	// BadNames are exact names known not to be mods.
	BadNames []string `yaml:"bad_names" toml:"bad_names"`

	// HeadingSuffixes identify category headings scraped as summaryless mods.
	HeadingSuffixes []string `yaml:"heading_suffixes" toml:"heading_suffixes"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		SourceURL:                DefaultSourceURL,
		HeadingLevel:             2,
		HeadingExclusionMarkers:  []string{"all the mods"},
		HeadingExclusionExact:    []string{"contents", "share"},
		TableMarkerNameColumn:    modcat.DefaultTableMarkers.Name,
		TableMarkerSummaryColumn: modcat.DefaultTableMarkers.Summary,
		ContentSelectors:         []string{"article", ".entry-content", "main"},
		SampleSize:               modcat.DefaultSampleSize,
		FetchTimeout:             Duration{30 * time.Second},
		Prune: PruneConfig{
			BadNames: []string{
				"Mod Lists", "Mods", "Servers", "Wiki", "Minecraft Guides",
				"Font ResizerAa", "Email", "Facebook", "Print", "Guides",
				"You Might Also Like", "PRIVACY POLICY", "All the Mods 10",
				"Lost your password?",
			},
			HeadingSuffixes: []string{" Mods", " Mod"},
		},
	}
}

// Validate returns an error if the configuration cannot drive a run.
func (c *Config) Validate() error {
	if c.SourceURL == "" {
		return modcat.Errorf(modcat.EINVALID, "source_url is required")
	}
	if c.HeadingLevel < 1 || c.HeadingLevel > 6 {
		return modcat.Errorf(modcat.EINVALID, "heading_level must be between 1 and 6, got %d", c.HeadingLevel)
	}
	if strings.TrimSpace(c.TableMarkerNameColumn) == "" || strings.TrimSpace(c.TableMarkerSummaryColumn) == "" {
		return modcat.Errorf(modcat.EINVALID, "table marker columns are required")
	}
	if c.SampleSize < 0 {
		return modcat.Errorf(modcat.EINVALID, "sample_size must not be negative")
	}
	if c.FetchTimeout.Duration <= 0 {
		return modcat.Errorf(modcat.EINVALID, "fetch_timeout must be positive")
	}
	return nil
}

// TableMarkers returns the configured record table markers.
func (c *Config) TableMarkers() modcat.TableMarkers {
	return modcat.TableMarkers{
		Name:    c.TableMarkerNameColumn,
		Summary: c.TableMarkerSummaryColumn,
	}
}

// LoadFromFile reads path over DefaultConfig. The format is chosen by the
// file extension.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, modcat.Errorf(modcat.EINVALID, "unsupported config format %q", ext)
	}
	if err != nil {
		return nil, modcat.Errorf(modcat.EINVALID, "parse config %s: %v", path, err)
	}
	return cfg, nil
}

// Package config loads the optional deedfind.toml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"deedfind/internal/database"
	"deedfind/internal/search"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is read when no --config flag is given. A missing file is not an error.
const DefaultPath = "deedfind.toml"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the file layout of deedfind.toml.
type Config struct {
	Data        Data        `toml:"data"`
	Columns     Columns     `toml:"columns"`
	Equivalence Equivalence `toml:"equivalence"`
}

// Data selects where the deed dataset is loaded from.
type Data struct {
	Source string `toml:"source"`
	Path   string `toml:"path"`
}

// Columns holds the spreadsheet header names recognized by bulk search.
type Columns struct {
	Primary   string `toml:"primary"`
	Secondary string `toml:"secondary"`
	Building  string `toml:"building"`
}

// Equivalence lists building ids that are interchangeable with other values.
type Equivalence struct {
	Symmetric bool            `toml:"symmetric"`
	Building  []BuildingAlias `toml:"building"`
}

// BuildingAlias declares that Aliases stand for the Canonical building id.
type BuildingAlias struct {
	Canonical string   `toml:"canonical"`
	Aliases   []string `toml:"aliases"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cols := search.DefaultColumns()
	return &Config{
		Data: Data{Source: database.SourceEmbedded},
		Columns: Columns{
			Primary:   cols.Primary,
			Secondary: cols.Secondary,
			Building:  cols.Building,
		},
		Equivalence: Equivalence{
			Building: []BuildingAlias{{Canonical: "OMZ1", Aliases: []string{"1142"}}},
		},
	}
}

// Load reads path over the defaults. When path is DefaultPath and the file does
// not exist, the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultPath {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// fileConfig mirrors Config with optional fields so that keys absent from the
// document leave the defaults alone.
type fileConfig struct {
	Data struct {
		Source *string `toml:"source"`
		Path   *string `toml:"path"`
	} `toml:"data"`
	Columns struct {
		Primary   *string `toml:"primary"`
		Secondary *string `toml:"secondary"`
		Building  *string `toml:"building"`
	} `toml:"columns"`
	Equivalence struct {
		Symmetric *bool           `toml:"symmetric"`
		Building  []BuildingAlias `toml:"building"`
	} `toml:"equivalence"`
}

// Parse decodes TOML over cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	set(&cfg.Data.Source, fc.Data.Source)
	set(&cfg.Data.Path, fc.Data.Path)
	set(&cfg.Columns.Primary, fc.Columns.Primary)
	set(&cfg.Columns.Secondary, fc.Columns.Secondary)
	set(&cfg.Columns.Building, fc.Columns.Building)
	set(&cfg.Equivalence.Symmetric, fc.Equivalence.Symmetric)
	if fc.Equivalence.Building != nil {
		cfg.Equivalence.Building = fc.Equivalence.Building
	}

	return cfg.Validate()
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks the configuration for values the tool cannot work with.
func (c *Config) Validate() error {
	if !slices.Contains(database.Sources, c.Data.Source) {
		return fmt.Errorf("%w: data.source %q must be one of %v", ErrInvalidConfig, c.Data.Source, database.Sources)
	}
	if (c.Data.Source == database.SourceFile || c.Data.Source == database.SourceShapefile) && c.Data.Path == "" {
		return fmt.Errorf("%w: data.path is required for source %q", ErrInvalidConfig, c.Data.Source)
	}

	names := []string{c.Columns.Primary, c.Columns.Secondary, c.Columns.Building}
	for i, n := range names {
		if n == "" {
			return fmt.Errorf("%w: column names cannot be empty", ErrInvalidConfig)
		}
		if slices.Contains(names[:i], n) {
			return fmt.Errorf("%w: column name %q used twice", ErrInvalidConfig, n)
		}
	}

	if _, err := c.BuildingEquivalence(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SearchColumns converts the [columns] table.
func (c *Config) SearchColumns() search.Columns {
	return search.Columns{
		Primary:   c.Columns.Primary,
		Secondary: c.Columns.Secondary,
		Building:  c.Columns.Building,
	}
}

// BuildingEquivalence builds the lookup table from [[equivalence.building]].
func (c *Config) BuildingEquivalence() (*search.Equivalence, error) {
	classes := make(map[string][]string, len(c.Equivalence.Building))
	for _, b := range c.Equivalence.Building {
		classes[b.Canonical] = append(classes[b.Canonical], b.Aliases...)
	}
	return search.NewEquivalence(classes, c.Equivalence.Symmetric)
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

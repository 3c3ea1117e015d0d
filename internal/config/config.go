// Package config loads and validates the YAML description of an index's
// categories: which qualifiers select them, what partial/similarity
// matching strategies they carry, their scoring weight, and where their
// source data comes from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PartialStrategy configures substring/prefix-expanded matching for a
// category. From and To bound the substring lengths indexed; To == 0 means
// up to the full token length.
type PartialStrategy struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	From    int  `yaml:"from" json:"from"`
	To      int  `yaml:"to" json:"to"`
}

// SimilarityStrategy configures phonetic-code matching for a category. N is
// the maximum number of sibling tokens a lookup returns.
type SimilarityStrategy struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	N       int  `yaml:"n" json:"n"`
}

// Bucketing marks a category as built by the location(...) convenience: a
// numeric source column rounded into categorical buckets at the given
// precision (1..5), accepting queries within radius of the bucketed value.
type Bucketing struct {
	Radius    float64 `yaml:"radius" json:"radius"`
	Precision int     `yaml:"precision" json:"precision"`
}

// Category describes one index.category(...) declaration.
type Category struct {
	Name       string              `yaml:"name" json:"name"`
	Qualifiers []string            `yaml:"qualifiers,omitempty" json:"qualifiers,omitempty"`
	Partial    *PartialStrategy    `yaml:"partial,omitempty" json:"partial,omitempty"`
	Similarity *SimilarityStrategy `yaml:"similarity,omitempty" json:"similarity,omitempty"`
	Weight     float64             `yaml:"weight" json:"weight"`
	From       string              `yaml:"from,omitempty" json:"from,omitempty"`
	Bucketing  *Bucketing          `yaml:"bucketing,omitempty" json:"bucketing,omitempty"`
}

// Location is the location(name, radius, precision) convenience: it
// declares a category whose source is a numeric column, matched within
// radius of the queried value after bucketing at precision (1..5).
func Location(name string, radius float64, precision int) Category {
	if precision == 0 {
		precision = defaultLocationPrecision
	}
	return Category{
		Name:      name,
		Weight:    1.0,
		Bucketing: &Bucketing{Radius: radius, Precision: precision},
	}
}

const defaultLocationPrecision = 3

// Index describes one queryable index: its name and its categories.
type Index struct {
	Name       string     `yaml:"name" json:"name"`
	Categories []Category `yaml:"categories" json:"categories"`
}

// Config is the top-level document: every index this process serves.
type Config struct {
	Indexes []Index `yaml:"indexes" json:"indexes"`
}

// NewConfig returns an empty configuration; indexes are added by the
// caller or populated by Load.
func NewConfig() *Config {
	return &Config{Indexes: []Index{}}
}

// Load reads and validates a YAML index configuration file, filling in
// category defaults before validating.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	return cfg, nil
}

// applyDefaults fills in defaults left unset in the YAML document: a
// category's implicit qualifier (its own name), an unweighted category's
// weight of 1.0, and a declared-but-unconfigured similarity strategy's N.
func (c *Config) applyDefaults() {
	for i := range c.Indexes {
		for j := range c.Indexes[i].Categories {
			cat := &c.Indexes[i].Categories[j]
			if len(cat.Qualifiers) == 0 {
				cat.Qualifiers = []string{cat.Name}
			}
			if cat.Weight == 0 {
				cat.Weight = 1.0
			}
			if cat.Similarity != nil && cat.Similarity.Enabled && cat.Similarity.N == 0 {
				cat.Similarity.N = defaultSimilarityN
			}
			if cat.Bucketing != nil && cat.Bucketing.Precision == 0 {
				cat.Bucketing.Precision = defaultLocationPrecision
			}
		}
	}
}

const defaultSimilarityN = 10

// Validate checks every index and category for structural errors,
// aggregating all violations found rather than stopping at the first.
func (c *Config) Validate() error {
	var problems []string

	seenIndexNames := make(map[string]bool)
	for _, idx := range c.Indexes {
		if idx.Name == "" {
			problems = append(problems, "index has empty name")
			continue
		}
		if seenIndexNames[idx.Name] {
			problems = append(problems, fmt.Sprintf("index %q declared more than once", idx.Name))
		}
		seenIndexNames[idx.Name] = true

		if len(idx.Categories) == 0 {
			problems = append(problems, fmt.Sprintf("index %q has no categories", idx.Name))
		}

		seenCategoryNames := make(map[string]bool)
		for _, cat := range idx.Categories {
			problems = append(problems, validateCategory(idx.Name, cat)...)
			if seenCategoryNames[cat.Name] {
				problems = append(problems, fmt.Sprintf("index %q: category %q declared more than once", idx.Name, cat.Name))
			}
			seenCategoryNames[cat.Name] = true
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(problems, "; "))
}

func validateCategory(indexName string, cat Category) []string {
	var problems []string

	if cat.Name == "" {
		problems = append(problems, fmt.Sprintf("index %q: category has empty name", indexName))
	}
	if cat.Weight < 0 {
		problems = append(problems, fmt.Sprintf("index %q: category %q has negative weight %.2f", indexName, cat.Name, cat.Weight))
	}
	if cat.Partial != nil && cat.Partial.Enabled {
		if cat.Partial.From < 1 {
			problems = append(problems, fmt.Sprintf("index %q: category %q partial.from must be >= 1", indexName, cat.Name))
		}
		if cat.Partial.To != 0 && cat.Partial.To < cat.Partial.From {
			problems = append(problems, fmt.Sprintf("index %q: category %q partial.to must be >= partial.from", indexName, cat.Name))
		}
	}
	if cat.Similarity != nil && cat.Similarity.Enabled && cat.Similarity.N < 1 {
		problems = append(problems, fmt.Sprintf("index %q: category %q similarity.n must be >= 1", indexName, cat.Name))
	}
	if cat.Bucketing != nil {
		if cat.Bucketing.Precision < 1 || cat.Bucketing.Precision > 5 {
			problems = append(problems, fmt.Sprintf("index %q: category %q bucketing precision must be 1..5, got %d", indexName, cat.Name, cat.Bucketing.Precision))
		}
		if cat.Bucketing.Radius < 0 {
			problems = append(problems, fmt.Sprintf("index %q: category %q bucketing radius must be non-negative", indexName, cat.Name))
		}
	}

	return problems
}

// WriteYAML writes the configuration to a YAML file, backing up whatever
// document already exists at path first.
func (c *Config) WriteYAML(path string) error {
	if _, err := BackupConfig(path); err != nil {
		return fmt.Errorf("failed to back up existing config: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IndexByName returns the named index and true, or a zero Index and false.
func (c *Config) IndexByName(name string) (Index, bool) {
	for _, idx := range c.Indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return Index{}, false
}

// GetUserConfigPath returns the path to the user/global index configuration
// file, following the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/picky/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/picky/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "picky", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "picky", "config.yaml")
	}
	return filepath.Join(home, ".config", "picky", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	info, err := os.Stat(GetUserConfigPath())
	return err == nil && !info.IsDir()
}

// Package config loads and saves the daylog configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Search result limits can be lowered in the config but never raised past
// these.
const (
	MaxTodoResults = 20
	MaxNoteResults = 10
)

// SearchConfig bounds agent-visible search results.
type SearchConfig struct {
	MaxTodoResults int `mapstructure:"max_todo_results" yaml:"max_todo_results"`
	MaxNoteResults int `mapstructure:"max_note_results" yaml:"max_note_results"`
}

// StreakConfig tunes the streak engine.
type StreakConfig struct {
	// BackdatePolicy is "restart" or "preserve".
	BackdatePolicy string `mapstructure:"backdate_policy" yaml:"backdate_policy"`
}

// BatchConfig tunes batch fan-out.
type BatchConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency" yaml:"max_concurrency"`
}

// Config is the top-level configuration.
type Config struct {
	DataDir string       `mapstructure:"data_dir" yaml:"data_dir"`
	OwnerID string       `mapstructure:"owner_id" yaml:"owner_id"`
	Search  SearchConfig `mapstructure:"search" yaml:"search"`
	Streak  StreakConfig `mapstructure:"streak" yaml:"streak"`
	Batch   BatchConfig  `mapstructure:"batch" yaml:"batch"`
}

// DefaultDir returns ~/.daylog, or ./.daylog when the home directory is
// unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".daylog"
	}
	return filepath.Join(home, ".daylog")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DataDir: DefaultDir(),
		OwnerID: defaultOwner(),
		Search:  SearchConfig{MaxTodoResults: MaxTodoResults, MaxNoteResults: MaxNoteResults},
		Streak:  StreakConfig{BackdatePolicy: "restart"},
		Batch:   BatchConfig{MaxConcurrency: 8},
	}
}

func defaultOwner() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

// Load reads the YAML file at path. A missing file yields the defaults.
// Every key can be overridden by a DAYLOG_ environment variable, e.g.
// DAYLOG_SEARCH_MAX_TODO_RESULTS.
func Load(path string) (*Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DAYLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("owner_id", def.OwnerID)
	v.SetDefault("search.max_todo_results", def.Search.MaxTodoResults)
	v.SetDefault("search.max_note_results", def.Search.MaxNoteResults)
	v.SetDefault("streak.backdate_policy", def.Streak.BackdatePolicy)
	v.SetDefault("batch.max_concurrency", def.Batch.MaxConcurrency)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize clamps limits into their allowed ranges.
func (c *Config) normalize() {
	if c.Search.MaxTodoResults <= 0 || c.Search.MaxTodoResults > MaxTodoResults {
		c.Search.MaxTodoResults = MaxTodoResults
	}
	if c.Search.MaxNoteResults <= 0 || c.Search.MaxNoteResults > MaxNoteResults {
		c.Search.MaxNoteResults = MaxNoteResults
	}
	if c.Batch.MaxConcurrency <= 0 {
		c.Batch.MaxConcurrency = 8
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDir()
	}
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("data_dir", cfg.DataDir)
	v.Set("owner_id", cfg.OwnerID)
	v.Set("search.max_todo_results", cfg.Search.MaxTodoResults)
	v.Set("search.max_note_results", cfg.Search.MaxNoteResults)
	v.Set("streak.backdate_policy", cfg.Streak.BackdatePolicy)
	v.Set("batch.max_concurrency", cfg.Batch.MaxConcurrency)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

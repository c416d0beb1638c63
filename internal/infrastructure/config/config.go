// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for forge configuration.
	DefaultConfigDir = ".forge"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default SQLite file name inside the config dir.
	DefaultDatabaseFile = "forge.db"
	// DefaultTablesDir is the default custom tables directory inside the config dir.
	DefaultTablesDir = "tables"
	// DefaultSession is the session used when none is named.
	DefaultSession = "default"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Engine   EngineConfig   `yaml:"engine,omitempty"`
	Random   RandomConfig   `yaml:"random,omitempty"`
	SQLite   SQLiteConfig   `yaml:"sqlite,omitempty"`
	Postgres PostgresConfig `yaml:"postgres,omitempty"`
	Narrator NarratorConfig `yaml:"narrator,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty"`
}

// EngineConfig holds table resolution settings.
type EngineConfig struct {
	MaxDepth        int    `yaml:"max_depth,omitempty"`
	OverwriteTables bool   `yaml:"overwrite_tables,omitempty"`
	TablesDir       string `yaml:"tables_dir,omitempty" env:"FORGE_TABLES_DIR"` // Relative to the config dir unless absolute
}

// RandomConfig holds the entropy settings.
type RandomConfig struct {
	// Seed fixes the random sequence. Zero means a fresh crypto seed per run.
	Seed int64 `yaml:"seed,omitempty" env:"FORGE_SEED"`
}

// SQLiteConfig holds configuration for the SQLite session store.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	// Empty means .forge/forge.db under the base path.
	Path string `yaml:"path,omitempty" env:"FORGE_SQLITE_PATH"`
}

// PostgresConfig holds configuration for the optional PostgreSQL session store.
// A non-empty DSN selects PostgreSQL over SQLite.
type PostgresConfig struct {
	DSN string `yaml:"dsn,omitempty" env:"FORGE_POSTGRES_DSN"`
}

// Enabled reports whether sessions should be stored in PostgreSQL.
func (p PostgresConfig) Enabled() bool {
	return strings.TrimSpace(p.DSN) != ""
}

// NarratorConfig holds configuration for the optional prose polishing provider.
type NarratorConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty" env:"OPENAI_API_KEY"`
	BaseURL  string `yaml:"base_url,omitempty" env:"OPENAI_BASE_URL"` // OpenAI-compatible endpoint override
}

// Enabled reports whether a narrator can be built.
func (n NarratorConfig) Enabled() bool {
	return n.Provider != "" && n.Provider != "none" && n.APIKey != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty" env:"FORGE_LOG_LEVEL"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxDepth:  10,
			TablesDir: DefaultTablesDir,
		},
		Narrator: NarratorConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from the .forge directory in the given path.
// A missing config file yields the defaults.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	// Start with defaults
	cfg := Default()

	data, err := os.ReadFile(configFile)
	switch {
	case os.IsNotExist(err):
		// Defaults only
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Apply environment variable overrides
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides overlays set environment variables onto the loaded
// config. Unset or empty variables leave the file value in place.
func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}
	return nil
}

// SeedPtr returns the configured seed, or nil when a fresh seed should be used.
func (c *Config) SeedPtr() *int64 {
	if c.Random.Seed == 0 {
		return nil
	}
	seed := c.Random.Seed
	return &seed
}

// ConfigDir returns the path to the .forge config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// SQLitePath returns the configured database path, or the default one.
func (c *Config) SQLitePath(basePath string) string {
	if c.SQLite.Path != "" {
		return c.SQLite.Path
	}
	return filepath.Join(basePath, DefaultConfigDir, DefaultDatabaseFile)
}

// TablesDir returns the custom tables directory.
func (c *Config) TablesDir(basePath string) string {
	dir := c.Engine.TablesDir
	if dir == "" {
		dir = DefaultTablesDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(basePath, DefaultConfigDir, dir)
}

// Exists checks if a forge config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}

// SanitizeSessionName converts a session name to a stable storage key.
func SanitizeSessionName(name string) string {
	// Convert to lowercase
	name = strings.ToLower(name)

	// Replace spaces and hyphens with underscores
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	// Remove any characters that aren't alphanumeric or underscore
	name = reNonAlphanumeric.ReplaceAllString(name, "")

	// Remove consecutive underscores
	name = reMultipleUnderscores.ReplaceAllString(name, "_")

	// Trim leading/trailing underscores
	name = strings.Trim(name, "_")

	if name == "" {
		return DefaultSession
	}

	return name
}

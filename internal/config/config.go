package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/jdarchive/config.yaml"

// Config holds all jdarchive configuration.
type Config struct {
	Repo     RepoConfig     `yaml:"repo"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Backfill BackfillConfig `yaml:"backfill"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

// RepoConfig locates the version-controlled working copy.
type RepoConfig struct {
	Path      string `yaml:"path"`
	GitBinary string `yaml:"git_binary"`
}

// ArchiveConfig locates the tracked data file and the archive directory,
// both relative to the repository root.
type ArchiveConfig struct {
	DataFile string `yaml:"data_file"`
	Dir      string `yaml:"dir"`
}

// BackfillConfig holds backfill behavior defaults.
type BackfillConfig struct {
	Strategy string `yaml:"strategy"`
}

// CatalogConfig locates the SQLite snapshot catalog.
type CatalogConfig struct {
	Path       string `yaml:"path"`
	SQLiteFile string `yaml:"sqlite_file"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}

// CatalogDBPath resolves the catalog database file location.
func (c *Config) CatalogDBPath() (string, error) {
	dir, err := ExpandPath(c.Catalog.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Catalog.SQLiteFile), nil
}

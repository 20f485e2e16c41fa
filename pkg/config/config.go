// Package config manages the skm configuration file: the default tool and
// the ordered source list. The file lives at <user config dir>/skm/config.toml
// and the source order is the priority order used by the registry.
package config

import (
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/skm-dev/skm/pkg/source"
)

// SourceConfig is one configured source entry.
type SourceConfig struct {
	// Type is "local" or "git".
	Type string `toml:"type"`
	// Path is the directory for local sources.
	Path string `toml:"path,omitempty"`
	// URL is the repository URL for git sources.
	URL string `toml:"url,omitempty"`
	// Name is an optional label for referring to the source.
	Name string `toml:"name,omitempty"`
}

// Display returns the user-facing identifier for the entry.
func (s SourceConfig) Display() string {
	if s.Type == "git" {
		return s.URL
	}
	return s.Path
}

// Config is the persisted skm configuration.
type Config struct {
	DefaultTool string         `toml:"default_tool"`
	Sources     []SourceConfig `toml:"sources"`
}

// Path returns the config file location.
func Path() (string, error) {
	configRoot, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to determine config directory")
	}
	return filepath.Join(configRoot, "skm", "config.toml"), nil
}

// Load reads the config file. Returns (nil, nil) when it does not exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", path)
	}
	return &cfg, nil
}

// LoadOrDefault reads the config file, falling back to a default config
// with ~/.claude-skills as the only source.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}
	return &Config{
		DefaultTool: "claude",
		Sources: []SourceConfig{
			{Type: "local", Path: "~/.claude-skills"},
		},
	}, nil
}

// Save writes the config file, creating parent directories as needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	raw, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// AddSource appends a source unless an entry with the same path/URL
// already exists. It reports whether the entry was added.
func (c *Config) AddSource(entry SourceConfig) bool {
	for _, existing := range c.Sources {
		if existing.Type == entry.Type && existing.Display() == entry.Display() {
			return false
		}
	}
	c.Sources = append(c.Sources, entry)
	return true
}

// RemoveSource removes entries matching the given path, URL, or label.
// It reports whether anything was removed.
func (c *Config) RemoveSource(pathOrURL string) bool {
	expanded := ExpandTilde(pathOrURL)
	kept := c.Sources[:0]
	removed := false
	for _, entry := range c.Sources {
		match := entry.Display() == pathOrURL ||
			(entry.Name != "" && entry.Name == pathOrURL) ||
			(entry.Type == "local" && ExpandTilde(entry.Path) == expanded)
		if match {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	c.Sources = kept
	return removed
}

// MoveSource reorders a source between priority positions.
func (c *Config) MoveSource(from, to int) error {
	if from < 0 || from >= len(c.Sources) || to < 0 || to >= len(c.Sources) {
		return errors.Errorf("invalid source index (have %d sources)", len(c.Sources))
	}
	entry := c.Sources[from]
	c.Sources = append(c.Sources[:from], c.Sources[from+1:]...)
	rest := append([]SourceConfig{}, c.Sources[to:]...)
	c.Sources = append(append(c.Sources[:to], entry), rest...)
	return nil
}

// Registry builds the source registry from the configured entries, in
// priority order. Entries that cannot be constructed are skipped.
func (c *Config) Registry() *source.Registry {
	var sources []source.Source
	for _, entry := range c.Sources {
		switch entry.Type {
		case "git":
			src, err := source.NewGitSource(entry.URL, entry.Name)
			if err != nil {
				continue
			}
			sources = append(sources, src)
		default:
			sources = append(sources, source.NewLocalSource(ExpandTilde(entry.Path), entry.Name))
		}
	}
	return source.NewRegistry(sources...)
}

// GitSources returns the constructed git sources, for the update command.
func (c *Config) GitSources() []*source.GitSource {
	var out []*source.GitSource
	for _, entry := range c.Sources {
		if entry.Type != "git" {
			continue
		}
		src, err := source.NewGitSource(entry.URL, entry.Name)
		if err != nil {
			continue
		}
		out = append(out, src)
	}
	return out
}

// ExpandTilde resolves a leading ~ to the user home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			if path == "~" {
				return home
			}
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Package manifest tracks which bundles are installed in a target
// directory per tool, stored as .skm.toml inside each tool's destination
// root (.claude/.skm.toml and so on). The manifest is advisory: removal
// still works from discovery alone, but the manifest preserves the exact
// bundle name and its source across sessions.
package manifest

import (
	"context"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/skm-dev/skm/pkg/logger"
	"github.com/skm-dev/skm/pkg/target"
)

const fileName = ".skm.toml"

// Entry records one installed bundle.
type Entry struct {
	Name   string `toml:"name"`
	Source string `toml:"source"`
}

// Manifest is the per-tool install record.
type Manifest struct {
	Bundles []Entry `toml:"bundles"`
}

// PathFor returns the manifest location for a tool under a target
// directory, e.g. target/.claude/.skm.toml.
func PathFor(tool target.Tool, targetDir string) string {
	return filepath.Join(targetDir, tool.Dir(), fileName)
}

// Load reads the manifest for a tool. Missing or corrupt files degrade to
// an empty manifest; corruption logs a warning.
func Load(ctx context.Context, tool target.Tool, targetDir string) *Manifest {
	path := PathFor(tool, targetDir)
	raw, err := os.ReadFile(path)
	if err != nil {
		return &Manifest{}
	}

	var m Manifest
	if err := toml.Unmarshal(raw, &m); err != nil {
		logger.G(ctx).WithError(err).WithField("path", path).Warn("corrupt install manifest, starting fresh")
		return &Manifest{}
	}
	return &m
}

// Save writes the manifest for a tool, creating the tool directory if
// needed.
func (m *Manifest) Save(tool target.Tool, targetDir string) error {
	path := PathFor(tool, targetDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create tool directory")
	}

	raw, err := toml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "failed to encode install manifest")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrap(err, "failed to write install manifest")
	}
	return nil
}

// RecordInstall upserts a bundle entry: the source is updated when the
// bundle is already recorded, appended otherwise.
func (m *Manifest) RecordInstall(name, src string) {
	for i := range m.Bundles {
		if m.Bundles[i].Name == name {
			m.Bundles[i].Source = src
			return
		}
	}
	m.Bundles = append(m.Bundles, Entry{Name: name, Source: src})
}

// RemoveBundle drops a bundle entry by name and reports whether an entry
// was removed.
func (m *Manifest) RemoveBundle(name string) bool {
	kept := m.Bundles[:0]
	removed := false
	for _, entry := range m.Bundles {
		if entry.Name == name {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	m.Bundles = kept
	return removed
}

// BundleNames returns the recorded bundle names in insertion order.
func (m *Manifest) BundleNames() []string {
	names := make([]string, 0, len(m.Bundles))
	for _, entry := range m.Bundles {
		names = append(names, entry.Name)
	}
	return names
}

// IsEmpty reports whether the manifest has no entries.
func (m *Manifest) IsEmpty() bool {
	return len(m.Bundles) == 0
}

// Package source provides bundle sources (local directories and git
// repositories) and the priority-ordered registry that merges their
// listings. A source's position in the registry is its priority: on name
// collisions the earlier source wins.
package source

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/skm-dev/skm/pkg/bundle"
)

// Source is a scannable origin of bundles.
type Source interface {
	// ListBundles scans the source and returns its bundles plus any
	// per-item problems encountered. An error means the source itself is
	// unavailable, not that individual items were malformed.
	ListBundles(ctx context.Context) ([]bundle.Bundle, []bundle.Problem, error)
	// DisplayPath is the user-facing identifier (path or URL).
	DisplayPath() string
	// Label is the optional configured name, "" when unset.
	Label() string
}

// LocalSource scans a local directory for bundles.
type LocalSource struct {
	path  string
	label string
}

// NewLocalSource creates a source over a local directory.
func NewLocalSource(path, label string) *LocalSource {
	return &LocalSource{path: path, label: label}
}

// ListBundles lists the bundles in the source directory. A source manifest
// (skm.toml) takes precedence; otherwise the directory itself is checked
// for a recognized layout, and failing that each immediate subdirectory is
// treated as a bundle candidate.
func (s *LocalSource) ListBundles(_ context.Context) ([]bundle.Bundle, []bundle.Problem, error) {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, errors.Wrapf(err, "source unavailable: %s", s.path)
	}

	if m := LoadManifest(s.path); m != nil {
		return m.Bundles(s.path)
	}

	if format := bundle.DetectFormat(s.path); format != bundle.FormatNone {
		return bundle.Normalize(s.path, format)
	}

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "source unavailable: %s", s.path)
	}

	var bundles []bundle.Bundle
	var problems []bundle.Problem
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "shell" {
			continue
		}

		childBundles, childProblems, err := bundle.Load(filepath.Join(s.path, name))
		if err != nil {
			problems = append(problems, bundle.Problem{Path: filepath.Join(s.path, name), Reason: err.Error()})
			continue
		}
		problems = append(problems, childProblems...)
		bundles = append(bundles, childBundles...)
	}

	sort.Slice(bundles, func(i, j int) bool { return bundles[i].Name < bundles[j].Name })
	return bundles, problems, nil
}

// DisplayPath shows the source path, abbreviated with ~ when under home.
func (s *LocalSource) DisplayPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		if rel, err := filepath.Rel(home, s.path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.Join("~", rel)
		}
	}
	return s.path
}

// Label returns the configured source name, "" when unset.
func (s *LocalSource) Label() string {
	return s.label
}

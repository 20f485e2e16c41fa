package discover

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skm-dev/skm/pkg/bundle"
	"github.com/skm-dev/skm/pkg/install"
	"github.com/skm-dev/skm/pkg/target"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// makeBundle builds a flat-format bundle on disk and loads it.
func makeBundle(t *testing.T, name string, files map[bundle.ContentType][]string) *bundle.Bundle {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	for contentType, names := range files {
		for _, n := range names {
			writeTestFile(t, filepath.Join(dir, contentType.DirName(), n+".md"), "# "+n+"\n")
		}
	}
	bundles, _, err := bundle.Load(dir)
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	return &bundles[0]
}

func TestDiscoverRoundTrip(t *testing.T) {
	// Hyphen-free names make compound splitting exact, so discovery is a
	// true inverse of install.
	b := makeBundle(t, "demo", map[bundle.ContentType][]string{
		bundle.Skill:   {"review"},
		bundle.Agent:   {"helper"},
		bundle.Command: {"deploy"},
	})

	for _, tool := range target.Tools {
		t.Run(tool.Name(), func(t *testing.T) {
			root := t.TempDir()
			report := install.NewEngine(tool, install.WithRoot(root)).Install(context.Background(), b, nil)
			_, _, failed := report.Counts()
			require.Zero(t, failed)

			entries, err := New().Discover(root)
			require.NoError(t, err)
			require.Len(t, entries, len(b.Files))

			type pair struct {
				Name string
				Type bundle.ContentType
			}
			want := map[pair]bool{}
			for _, f := range b.Files {
				contentType := f.Type
				if tool == target.Cursor && (contentType == bundle.Agent || contentType == bundle.Command) {
					// Cursor maps agents and commands onto the shared
					// rules location; discovery attributes those to Rule.
					contentType = bundle.Rule
				}
				want[pair{f.Name, contentType}] = true
			}
			for _, entry := range entries {
				assert.Equal(t, "demo", entry.Bundle, entry.Path)
				assert.True(t, want[pair{entry.Name, entry.Type}], "unexpected entry %s (%s)", entry.Name, entry.Type)
			}
		})
	}
}

func TestDiscoverEmptyRoot(t *testing.T) {
	entries, err := New().Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiscoverCollapsedCompound(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, ".opencode", "skill", "pdf-tools", "SKILL.md"), "# PDF\n")

	t.Run("with known bundles", func(t *testing.T) {
		entries, err := New(WithKnownBundles("pdf-tools")).Discover(root)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "pdf-tools", entries[0].Bundle)
		assert.Equal(t, "pdf-tools", entries[0].Name)
	})

	t.Run("without known bundles splits at the first hyphen", func(t *testing.T) {
		entries, err := New().Discover(root)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "pdf", entries[0].Bundle)
		assert.Equal(t, "tools", entries[0].Name)
	})
}

func TestSplitCompound(t *testing.T) {
	t.Run("known bundle longest prefix wins", func(t *testing.T) {
		d := New(WithKnownBundles("demo", "demo-extra"))

		b, n := d.splitCompound("demo-extra-review")
		assert.Equal(t, "demo-extra", b)
		assert.Equal(t, "review", n)

		b, n = d.splitCompound("demo-review")
		assert.Equal(t, "demo", b)
		assert.Equal(t, "review", n)
	})

	t.Run("known bundle equal to the compound collapses", func(t *testing.T) {
		d := New(WithKnownBundles("pdf-tools"))
		b, n := d.splitCompound("pdf-tools")
		assert.Equal(t, "pdf-tools", b)
		assert.Equal(t, "pdf-tools", n)
	})

	t.Run("unknown compound splits at the first hyphen", func(t *testing.T) {
		b, n := New().splitCompound("alpha-beta-gamma")
		assert.Equal(t, "alpha", b)
		assert.Equal(t, "beta-gamma", n)
	})

	t.Run("hyphen-less compound is a collapsed name", func(t *testing.T) {
		b, n := New().splitCompound("solo")
		assert.Equal(t, "solo", b)
		assert.Equal(t, "solo", n)
	})
}

func TestDiscoverClaudeBareFiles(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, ".claude", "commands", "loose.md"), "# Loose\n")
	writeTestFile(t, filepath.Join(root, ".claude", "commands", "demo", "deploy.md"), "# Deploy\n")

	entries, err := New().Discover(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]Entry{}
	for _, entry := range entries {
		byName[entry.Name] = entry
	}
	assert.Equal(t, "", byName["loose"].Bundle)
	assert.Equal(t, "demo", byName["deploy"].Bundle)
}

func TestDiscoverIgnoresNestedContent(t *testing.T) {
	// Installs only ever write {bundle}/{name}.md; deeper nesting is
	// outside the convention and must not be attributed to a bundle.
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, ".claude", "skills", "demo", "review.md"), "# Review\n")
	writeTestFile(t, filepath.Join(root, ".claude", "skills", "demo", "extra", "notes.md"), "# Notes\n")

	entries, err := New().Discover(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "demo", entries[0].Bundle)
	assert.Equal(t, "review", entries[0].Name)
}

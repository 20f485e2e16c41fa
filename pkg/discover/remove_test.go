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

func installBundle(t *testing.T, root string, tool target.Tool, b *bundle.Bundle) {
	t.Helper()
	report := install.NewEngine(tool, install.WithRoot(root)).Install(context.Background(), b, nil)
	_, _, failed := report.Counts()
	require.Zero(t, failed)
}

func TestRemoveCompleteness(t *testing.T) {
	demo := makeBundle(t, "demo", map[bundle.ContentType][]string{
		bundle.Skill:   {"review"},
		bundle.Command: {"deploy"},
		bundle.Rule:    {"style"},
	})
	other := makeBundle(t, "other", map[bundle.ContentType][]string{
		bundle.Skill:   {"search"},
		bundle.Command: {"release"},
	})

	for _, tool := range target.Tools {
		t.Run(tool.Name(), func(t *testing.T) {
			root := t.TempDir()
			installBundle(t, root, tool, demo)
			installBundle(t, root, tool, other)

			report, err := New().Remove(context.Background(), root, "demo", &tool, nil)
			require.NoError(t, err)
			assert.False(t, report.FoundNothing())
			assert.Len(t, report.Removed, len(demo.Files))
			assert.Empty(t, report.Failed)

			// Everything demo installed is gone.
			for _, f := range demo.Files {
				relPath, _ := target.Destination(tool, f.Type, "demo", f.Name)
				assert.NoFileExists(t, filepath.Join(root, relPath))
			}
			// The other bundle survives untouched.
			for _, f := range other.Files {
				relPath, _ := target.Destination(tool, f.Type, "other", f.Name)
				assert.FileExists(t, filepath.Join(root, relPath))
			}
		})
	}
}

func TestRemovePrunesEmptyDirectories(t *testing.T) {
	demo := makeBundle(t, "demo", map[bundle.ContentType][]string{
		bundle.Skill: {"review"},
	})

	root := t.TempDir()
	installBundle(t, root, target.Claude, demo)

	_, err := New().Remove(context.Background(), root, "demo", nil, nil)
	require.NoError(t, err)

	// demo/ and skills/ are pruned; the .claude root itself is kept.
	assert.NoDirExists(t, filepath.Join(root, ".claude", "skills", "demo"))
	assert.NoDirExists(t, filepath.Join(root, ".claude", "skills"))
	assert.DirExists(t, filepath.Join(root, ".claude"))
}

func TestRemoveKeepsNonEmptyDirectories(t *testing.T) {
	demo := makeBundle(t, "demo", map[bundle.ContentType][]string{
		bundle.Skill: {"review"},
	})
	other := makeBundle(t, "other", map[bundle.ContentType][]string{
		bundle.Skill: {"search"},
	})

	root := t.TempDir()
	installBundle(t, root, target.Claude, demo)
	installBundle(t, root, target.Claude, other)

	_, err := New().Remove(context.Background(), root, "demo", nil, nil)
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(root, ".claude", "skills", "demo"))
	assert.FileExists(t, filepath.Join(root, ".claude", "skills", "other", "search.md"))
}

func TestRemoveNothingInstalled(t *testing.T) {
	report, err := New().Remove(context.Background(), t.TempDir(), "ghost", nil, nil)
	require.NoError(t, err)
	assert.True(t, report.FoundNothing())
}

func TestRemoveToolFilter(t *testing.T) {
	demo := makeBundle(t, "demo", map[bundle.ContentType][]string{
		bundle.Command: {"deploy"},
	})

	root := t.TempDir()
	installBundle(t, root, target.Claude, demo)
	installBundle(t, root, target.OpenCode, demo)

	opencode := target.OpenCode
	report, err := New().Remove(context.Background(), root, "demo", &opencode, nil)
	require.NoError(t, err)
	assert.Len(t, report.Removed, 1)

	assert.NoFileExists(t, filepath.Join(root, ".opencode", "command", "demo-deploy.md"))
	assert.FileExists(t, filepath.Join(root, ".claude", "commands", "demo", "deploy.md"))
}

func TestRemoveTypeFilter(t *testing.T) {
	demo := makeBundle(t, "demo", map[bundle.ContentType][]string{
		bundle.Skill:   {"review"},
		bundle.Command: {"deploy"},
	})

	root := t.TempDir()
	installBundle(t, root, target.Claude, demo)

	report, err := New().Remove(context.Background(), root, "demo", nil, []bundle.ContentType{bundle.Command})
	require.NoError(t, err)
	assert.Len(t, report.Removed, 1)

	assert.NoFileExists(t, filepath.Join(root, ".claude", "commands", "demo", "deploy.md"))
	assert.FileExists(t, filepath.Join(root, ".claude", "skills", "demo", "review.md"))
}

func TestRemoveCollapsedCompound(t *testing.T) {
	srcDir := t.TempDir()
	writeTestFile(t, filepath.Join(srcDir, "skills", "pdf", "SKILL.md"),
		"---\nname: pdf-tools\n---\n# PDF\n")
	bundles, _, err := bundle.Load(srcDir)
	require.NoError(t, err)
	require.Len(t, bundles, 1)

	root := t.TempDir()
	installBundle(t, root, target.OpenCode, &bundles[0])
	require.FileExists(t, filepath.Join(root, ".opencode", "skill", "pdf-tools", "SKILL.md"))

	d := New(WithKnownBundles("pdf-tools"))
	report, err := d.Remove(context.Background(), root, "pdf-tools", nil, nil)
	require.NoError(t, err)
	assert.Len(t, report.Removed, 1)
	assert.NoFileExists(t, filepath.Join(root, ".opencode", "skill", "pdf-tools", "SKILL.md"))
}

func TestWithinDir(t *testing.T) {
	assert.True(t, withinDir("/a/b/c", "/a/b"))
	assert.False(t, withinDir("/a/b", "/a/b"))
	assert.False(t, withinDir("/a", "/a/b"))
	assert.False(t, withinDir("/x/y", "/a/b"))
}

func TestRemoveDoesNotAscendAboveToolRoot(t *testing.T) {
	demo := makeBundle(t, "demo", map[bundle.ContentType][]string{
		bundle.Skill: {"review"},
	})

	root := t.TempDir()
	installBundle(t, root, target.Claude, demo)

	_, err := New().Remove(context.Background(), root, "demo", nil, nil)
	require.NoError(t, err)

	// Even with .claude fully emptied, the scanned root itself survives.
	_, err = os.Stat(root)
	require.NoError(t, err)
}

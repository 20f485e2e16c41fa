package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skm-dev/skm/pkg/target"
)

func TestLoadMissing(t *testing.T) {
	m := Load(context.Background(), target.Claude, t.TempDir())
	require.NotNil(t, m)
	assert.True(t, m.IsEmpty())
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := PathFor(target.Claude, dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o644))

	m := Load(context.Background(), target.Claude, dir)
	require.NotNil(t, m)
	assert.True(t, m.IsEmpty())
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := Load(context.Background(), target.OpenCode, dir)
	m.RecordInstall("demo", "~/skills")
	m.RecordInstall("pdf-tools", "https://example.com/skills.git")
	require.NoError(t, m.Save(target.OpenCode, dir))

	assert.FileExists(t, filepath.Join(dir, ".opencode", ".skm.toml"))

	reloaded := Load(context.Background(), target.OpenCode, dir)
	assert.Equal(t, []string{"demo", "pdf-tools"}, reloaded.BundleNames())
	assert.Equal(t, "~/skills", reloaded.Bundles[0].Source)
}

func TestRecordInstallUpserts(t *testing.T) {
	m := &Manifest{}
	m.RecordInstall("demo", "first")
	m.RecordInstall("demo", "second")

	require.Len(t, m.Bundles, 1)
	assert.Equal(t, "second", m.Bundles[0].Source)
}

func TestRemoveBundle(t *testing.T) {
	m := &Manifest{Bundles: []Entry{
		{Name: "demo", Source: "a"},
		{Name: "other", Source: "b"},
	}}

	assert.True(t, m.RemoveBundle("demo"))
	assert.False(t, m.RemoveBundle("demo"))
	assert.Equal(t, []string{"other"}, m.BundleNames())
}

func TestManifestsArePerTool(t *testing.T) {
	dir := t.TempDir()

	claude := &Manifest{}
	claude.RecordInstall("demo", "src")
	require.NoError(t, claude.Save(target.Claude, dir))

	opencode := Load(context.Background(), target.OpenCode, dir)
	assert.True(t, opencode.IsEmpty())
}

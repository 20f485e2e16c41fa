package source

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/user/repo.git", "github.com/user/repo"},
		{"https://github.com/user/repo", "github.com/user/repo"},
		{"http://example.com/skills.git", "example.com/skills"},
		{"git@github.com:user/repo.git", "github.com/user/repo"},
		{"github.com/user/repo", "github.com/user/repo"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, urlToPath(tc.url), tc.url)
	}
}

func TestNewGitSource(t *testing.T) {
	src, err := NewGitSource("https://github.com/user/repo.git", "work")
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/user/repo.git", src.URL())
	assert.Equal(t, "https://github.com/user/repo.git", src.DisplayPath())
	assert.Equal(t, "work", src.Label())
	assert.True(t, strings.HasSuffix(src.CachePath(), filepath.Join("skm", "github.com", "user", "repo")))
}

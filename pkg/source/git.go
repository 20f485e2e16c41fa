package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/pkg/errors"

	"github.com/skm-dev/skm/pkg/bundle"
	"github.com/skm-dev/skm/pkg/logger"
)

// GitSource is a remote repository materialized into a local cache
// directory. Bundle scanning always runs against the cached checkout.
type GitSource struct {
	url       string
	label     string
	cachePath string
}

// NewGitSource creates a git-backed source. The cache location is derived
// from the URL under the user cache directory, e.g.
// ~/.cache/skm/github.com/user/repo.
func NewGitSource(url, label string) (*GitSource, error) {
	cacheRoot, err := os.UserCacheDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine cache directory")
	}
	return &GitSource{
		url:       url,
		label:     label,
		cachePath: filepath.Join(cacheRoot, "skm", urlToPath(url)),
	}, nil
}

// urlToPath converts a git URL to a cache-relative path.
// https://github.com/user/repo.git and git@github.com:user/repo both map
// to github.com/user/repo.
func urlToPath(url string) string {
	url = strings.TrimSuffix(url, ".git")
	switch {
	case strings.HasPrefix(url, "https://"):
		return strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		return strings.TrimPrefix(url, "http://")
	case strings.HasPrefix(url, "git@"):
		return strings.Replace(strings.TrimPrefix(url, "git@"), ":", "/", 1)
	}
	return url
}

// EnsureCloned clones the repository into the cache if it is not there yet.
func (s *GitSource) EnsureCloned(ctx context.Context) error {
	if _, err := os.Stat(s.cachePath); err == nil {
		return nil
	}

	logger.G(ctx).WithField("url", s.url).Info("cloning source repository")

	if err := os.MkdirAll(filepath.Dir(s.cachePath), 0o755); err != nil {
		return errors.Wrap(err, "failed to create cache directory")
	}

	_, err := gogit.PlainCloneContext(ctx, s.cachePath, false, &gogit.CloneOptions{
		URL:   s.url,
		Depth: 1,
	})
	if err != nil {
		os.RemoveAll(s.cachePath)
		return errors.Wrapf(err, "failed to clone %s", s.url)
	}
	return nil
}

// Update fetches and fast-forwards the cached checkout, cloning first if
// needed. It reports whether anything changed.
func (s *GitSource) Update(ctx context.Context) (bool, error) {
	if _, err := os.Stat(s.cachePath); err != nil {
		if err := s.EnsureCloned(ctx); err != nil {
			return false, err
		}
		return true, nil
	}

	repo, err := gogit.PlainOpen(s.cachePath)
	if err != nil {
		return false, errors.Wrapf(err, "failed to open cached repository at %s", s.cachePath)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, errors.Wrap(err, "failed to get worktree")
	}

	err = worktree.PullContext(ctx, &gogit.PullOptions{RemoteName: "origin"})
	if errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to update %s", s.url)
	}
	return true, nil
}

// ListBundles materializes the repository if needed and delegates bundle
// discovery to a local scan of the cache.
func (s *GitSource) ListBundles(ctx context.Context) ([]bundle.Bundle, []bundle.Problem, error) {
	if err := s.EnsureCloned(ctx); err != nil {
		return nil, nil, err
	}
	local := NewLocalSource(s.cachePath, s.label)
	return local.ListBundles(ctx)
}

// DisplayPath returns the repository URL.
func (s *GitSource) DisplayPath() string {
	return s.url
}

// Label returns the configured source name, "" when unset.
func (s *GitSource) Label() string {
	return s.label
}

// URL returns the repository URL.
func (s *GitSource) URL() string {
	return s.url
}

// CachePath returns the local checkout location.
func (s *GitSource) CachePath() string {
	return s.cachePath
}

package discover

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/skm-dev/skm/pkg/bundle"
	"github.com/skm-dev/skm/pkg/logger"
	"github.com/skm-dev/skm/pkg/target"
)

// RemovalReport lists what a removal deleted.
type RemovalReport struct {
	Bundle string
	// Removed holds the entries whose files were deleted.
	Removed []Entry
	// Failed holds entries whose files could not be deleted.
	Failed []Entry
}

// FoundNothing reports whether the removal matched no installed files.
// That case is a no-op, not an error.
func (r *RemovalReport) FoundNothing() bool {
	return len(r.Removed) == 0 && len(r.Failed) == 0
}

// Remove deletes every installed file discovery attributes to bundleName
// under root, optionally narrowed to one tool and/or a set of content
// types. Parent directories the conventions created are pruned when they
// become empty; pruning never ascends above the tool's destination root.
func (d *Discovery) Remove(ctx context.Context, root, bundleName string, tool *target.Tool, types []bundle.ContentType) (*RemovalReport, error) {
	entries, err := d.Discover(root)
	if err != nil {
		return nil, err
	}

	report := &RemovalReport{Bundle: bundleName}
	log := logger.G(ctx).WithField("bundle", bundleName)

	for _, entry := range entries {
		if entry.Bundle != bundleName {
			continue
		}
		if tool != nil && entry.Tool != *tool {
			continue
		}
		if len(types) > 0 && !containsType(types, entry.Type) {
			continue
		}

		if err := removeEntry(root, entry); err != nil {
			log.WithError(err).WithField("path", entry.Path).Warn("failed to remove file")
			report.Failed = append(report.Failed, entry)
			continue
		}
		report.Removed = append(report.Removed, entry)
	}

	return report, nil
}

func containsType(types []bundle.ContentType, t bundle.ContentType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// removeEntry deletes an entry's file and prunes newly-empty parents up to
// (but not including) the tool's destination root.
func removeEntry(root string, entry Entry) error {
	path := filepath.Join(root, entry.Path)
	if err := os.Remove(path); err != nil {
		return errors.Wrap(err, "failed to remove file")
	}

	stop := filepath.Join(root, entry.Tool.Dir())
	for dir := filepath.Dir(path); dir != stop && withinDir(dir, stop); dir = filepath.Dir(dir) {
		children, err := os.ReadDir(dir)
		if err != nil || len(children) > 0 {
			break
		}
		if err := os.Remove(dir); err != nil {
			break
		}
	}

	return nil
}

// withinDir reports whether path is strictly inside dir.
func withinDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Package install writes normalized bundles into a tool's destination
// layout. Installs are idempotent overwrites: the bundle source is the
// single source of truth, so re-installing replaces destination content
// with no merging or diff-based skipping.
package install

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/skm-dev/skm/pkg/bundle"
	"github.com/skm-dev/skm/pkg/logger"
	"github.com/skm-dev/skm/pkg/target"
)

// FileStatus describes the outcome for one destination file.
type FileStatus int

const (
	// Written means the destination file did not previously exist.
	Written FileStatus = iota
	// Overwritten means an existing destination file was replaced.
	Overwritten
	// Failed means the file could not be written; Err carries the reason.
	Failed
)

func (s FileStatus) String() string {
	switch s {
	case Written:
		return "written"
	case Overwritten:
		return "overwritten"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// FileResult is the per-file record of an install.
type FileResult struct {
	// Path is the destination path relative to the install root.
	Path string
	// Type is the content type of the installed unit.
	Type bundle.ContentType
	// Status is the write outcome.
	Status FileStatus
	// Err is set when Status is Failed.
	Err error
}

// Report aggregates the per-file results of one install.
type Report struct {
	Bundle string
	Tool   target.Tool
	Root   string
	Files  []FileResult
}

// Counts returns the number of written, overwritten, and failed files.
func (r *Report) Counts() (written, overwritten, failed int) {
	for _, f := range r.Files {
		switch f.Status {
		case Written:
			written++
		case Overwritten:
			overwritten++
		case Failed:
			failed++
		}
	}
	return
}

// Engine installs bundles for a single tool and install root.
type Engine struct {
	tool target.Tool
	root string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRoot sets the install root (defaults to the current directory).
func WithRoot(root string) Option {
	return func(e *Engine) {
		e.root = root
	}
}

// NewEngine creates an install engine for the given tool.
func NewEngine(tool target.Tool, opts ...Option) *Engine {
	e := &Engine{tool: tool, root: "."}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Install writes every file in the bundle whose content type is in types
// (nil or empty means all types) to its mapped destination. A failure on
// one file is recorded in the report and does not undo or stop the others;
// installs are deliberately non-transactional.
func (e *Engine) Install(ctx context.Context, b *bundle.Bundle, types []bundle.ContentType) *Report {
	if len(types) == 0 {
		types = bundle.ContentTypes
	}

	report := &Report{Bundle: b.Name, Tool: e.tool, Root: e.root}
	log := logger.G(ctx).WithField("bundle", b.Name).WithField("tool", e.tool.Name())

	for _, t := range types {
		for _, f := range b.FilesOfType(t) {
			relPath, content := target.Render(e.tool, f, b.Name)
			result := FileResult{Path: relPath, Type: t}

			destPath := filepath.Join(e.root, relPath)
			existed := fileExists(destPath)

			if err := writeFile(destPath, content); err != nil {
				result.Status = Failed
				result.Err = err
				log.WithError(err).WithField("path", relPath).Warn("failed to write file")
			} else if existed {
				result.Status = Overwritten
			} else {
				result.Status = Written
			}

			report.Files = append(report.Files, result)
		}
	}

	return report
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create destination directory")
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrap(err, "failed to write destination file")
	}
	return nil
}

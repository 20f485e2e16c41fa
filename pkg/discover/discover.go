// Package discover reconstructs installed-bundle state from a target tree
// by inverting the destination naming conventions, and supports selective
// removal of what it attributes to a bundle. Compound {bundle}-{name}
// entries are ambiguous when either part contains a hyphen, so bundle
// attribution is best-effort: known bundle names resolve by longest prefix,
// anything else splits on the first hyphen.
package discover

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/skm-dev/skm/pkg/bundle"
	"github.com/skm-dev/skm/pkg/target"
)

// Entry is one installed content unit reconstructed from the filesystem.
// It exists only as a discovery-time view and is never persisted.
type Entry struct {
	// Bundle is the inferred bundle name ("" when the layout carries none).
	Bundle string
	// Name is the inferred logical name.
	Name string
	// Type is the content type implied by the destination location.
	Type bundle.ContentType
	// Tool owns the destination the entry was found under.
	Tool target.Tool
	// Path is the file path relative to the scanned root.
	Path string
}

// Discovery scans install roots for installed entries.
type Discovery struct {
	knownBundles []string
}

// Option configures a Discovery.
type Option func(*Discovery)

// WithKnownBundles supplies bundle names from configured sources, used to
// resolve hyphen-ambiguous compound names by longest-prefix match.
func WithKnownBundles(names ...string) Option {
	return func(d *Discovery) {
		d.knownBundles = append([]string(nil), names...)
		sort.Strings(d.knownBundles)
	}
}

// New creates a Discovery.
func New(opts ...Option) *Discovery {
	d := &Discovery{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// typeScanOrder lists content types so that Rule comes first: Cursor maps
// agents, commands, and rules onto the same rules/ location, and shared
// locations are attributed to Rule.
var typeScanOrder = []bundle.ContentType{bundle.Rule, bundle.Command, bundle.Agent, bundle.Skill}

// Discover walks every tool's destination roots under root and returns the
// installed entries found there, sorted by path.
func (d *Discovery) Discover(root string) ([]Entry, error) {
	var entries []Entry
	for _, tool := range target.Tools {
		toolEntries, err := d.discoverTool(root, tool)
		if err != nil {
			return nil, err
		}
		entries = append(entries, toolEntries...)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// discoverTool scans one tool's destination locations. Each distinct
// (subdir, unit file) location is scanned once even when several content
// types map to it.
func (d *Discovery) discoverTool(root string, tool target.Tool) ([]Entry, error) {
	var entries []Entry
	claimed := map[string]bool{}

	for _, t := range typeScanOrder {
		spec := target.Spec(tool, t)
		locKey := spec.Subdir + "/" + spec.UnitFile
		if claimed[locKey] {
			continue
		}
		claimed[locKey] = true

		locEntries, err := d.scanLocation(root, tool, t, spec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, locEntries...)
	}

	return entries, nil
}

func (d *Discovery) scanLocation(root string, tool target.Tool, t bundle.ContentType, spec target.DestSpec) ([]Entry, error) {
	base := filepath.Join(root, tool.Dir(), spec.Subdir)

	var patterns []string
	switch {
	case !spec.Compound:
		// {bundle}/{name}.md, plus bare {name}.md files without a bundle
		// dir. Deeper nesting is outside the convention and is ignored.
		patterns = []string{
			filepath.Join(base, "*", "*.md"),
			filepath.Join(base, "*.md"),
		}
	case spec.UnitFile != "":
		patterns = []string{filepath.Join(base, "*", spec.UnitFile)}
	default:
		patterns = []string{filepath.Join(base, "*.md")}
	}

	var matches []string
	for _, pattern := range patterns {
		found, err := doublestar.FilepathGlob(filepath.ToSlash(pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to scan %s", base)
		}
		matches = append(matches, found...)
	}

	var entries []Entry
	for _, match := range matches {
		rel, err := filepath.Rel(root, match)
		if err != nil {
			continue
		}

		entry := Entry{Type: t, Tool: tool, Path: rel}
		switch {
		case !spec.Compound:
			entry.Name = strings.TrimSuffix(filepath.Base(match), ".md")
			if parent := filepath.Dir(match); parent != base {
				entry.Bundle = filepath.Base(parent)
			}
		case spec.UnitFile != "":
			compound := filepath.Base(filepath.Dir(match))
			entry.Bundle, entry.Name = d.splitCompound(compound)
		default:
			compound := strings.TrimSuffix(filepath.Base(match), ".md")
			entry.Bundle, entry.Name = d.splitCompound(compound)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// splitCompound recovers (bundle, logical name) from a {bundle}-{name}
// compound. A known bundle name matching the whole compound or its longest
// hyphen-delimited prefix wins; otherwise the compound splits at the first
// hyphen, and a hyphen-less compound is a collapsed name where bundle and
// logical name coincide.
func (d *Discovery) splitCompound(compound string) (string, string) {
	best := ""
	for _, known := range d.knownBundles {
		if len(known) <= len(best) {
			continue
		}
		if compound == known || strings.HasPrefix(compound, known+"-") {
			best = known
		}
	}
	if best != "" {
		if compound == best {
			return best, best
		}
		return best, strings.TrimPrefix(compound, best+"-")
	}

	if i := strings.Index(compound, "-"); i > 0 {
		return compound[:i], compound[i+1:]
	}
	return compound, compound
}

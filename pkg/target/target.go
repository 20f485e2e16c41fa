// Package target models the destination tools (Claude, OpenCode, Cursor)
// and the pure mapping from normalized content to tool-specific file
// layouts. The mapping is a static (Tool, ContentType) table; adding a tool
// is a data addition, not new control flow.
package target

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/skm-dev/skm/pkg/bundle"
)

// Tool is one of the destination ecosystems.
type Tool int

const (
	// Claude installs under .claude/ with per-bundle subdirectories.
	Claude Tool = iota
	// OpenCode installs under .opencode/ with compound-named entries.
	OpenCode
	// Cursor installs under .cursor/ with compound-named entries.
	Cursor
)

// Tools lists every supported tool.
var Tools = []Tool{Claude, OpenCode, Cursor}

// Name returns the tool's display name.
func (t Tool) Name() string {
	switch t {
	case Claude:
		return "Claude"
	case OpenCode:
		return "OpenCode"
	case Cursor:
		return "Cursor"
	}
	return "unknown"
}

// Dir returns the tool's destination root directory name.
func (t Tool) Dir() string {
	switch t {
	case Claude:
		return ".claude"
	case OpenCode:
		return ".opencode"
	case Cursor:
		return ".cursor"
	}
	return ""
}

// Parse maps a user-supplied tool name to a Tool.
func Parse(name string) (Tool, error) {
	switch strings.ToLower(name) {
	case "claude":
		return Claude, nil
	case "opencode":
		return OpenCode, nil
	case "cursor":
		return Cursor, nil
	}
	return 0, errors.Errorf("unknown tool %q (expected claude, opencode, or cursor)", name)
}

// GlobalRoot returns the user-level install anchor. The per-tool
// substructure under it is identical to a local install.
func GlobalRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return home, nil
}

// DestSpec is one cell of the destination table: where files of a content
// type land for a tool, and whether their content gets the frontmatter
// name transform.
type DestSpec struct {
	// Subdir is the directory under the tool root.
	Subdir string
	// Compound selects {bundle}-{name} naming instead of per-bundle
	// subdirectories ({bundle}/{name}.md).
	Compound bool
	// UnitFile, when non-empty, makes each entry a directory holding this
	// fixed file name (SKILL.md, RULE.md). Only meaningful with Compound.
	UnitFile string
	// Transform enables frontmatter name injection for the destination.
	Transform bool
}

// destTable is the full four-by-three destination matrix.
var destTable = map[Tool]map[bundle.ContentType]DestSpec{
	Claude: {
		bundle.Skill:   {Subdir: "skills"},
		bundle.Agent:   {Subdir: "agents"},
		bundle.Command: {Subdir: "commands"},
		bundle.Rule:    {Subdir: "rules"},
	},
	OpenCode: {
		bundle.Skill:   {Subdir: "skill", Compound: true, UnitFile: "SKILL.md", Transform: true},
		bundle.Agent:   {Subdir: "agent", Compound: true},
		bundle.Command: {Subdir: "command", Compound: true},
		bundle.Rule:    {Subdir: "rule", Compound: true, UnitFile: "RULE.md", Transform: true},
	},
	Cursor: {
		bundle.Skill:   {Subdir: "skills", Compound: true, UnitFile: "SKILL.md", Transform: true},
		bundle.Agent:   {Subdir: "rules", Compound: true, UnitFile: "RULE.md"},
		bundle.Command: {Subdir: "rules", Compound: true, UnitFile: "RULE.md"},
		bundle.Rule:    {Subdir: "rules", Compound: true, UnitFile: "RULE.md", Transform: true},
	},
}

// Spec returns the destination table cell for a tool and content type.
func Spec(tool Tool, t bundle.ContentType) DestSpec {
	return destTable[tool][t]
}

// CompoundName joins bundle and logical names with a hyphen. When the two
// are equal (directory-per-unit formats name the file after the bundle) the
// bundle name stands alone, so an anthropic skill "pdf-tools" lands at
// skill/pdf-tools/SKILL.md rather than skill/pdf-tools-pdf-tools/SKILL.md.
func CompoundName(bundleName, logicalName string) string {
	if bundleName == logicalName {
		return bundleName
	}
	return bundleName + "-" + logicalName
}

// Destination maps (tool, content type, bundle name, logical name) to the
// destination path relative to the install root, and reports whether the
// content must pass through the frontmatter transform. Pure; no filesystem
// access.
func Destination(tool Tool, t bundle.ContentType, bundleName, logicalName string) (string, bool) {
	spec := destTable[tool][t]

	if !spec.Compound {
		return filepath.Join(tool.Dir(), spec.Subdir, bundleName, logicalName+".md"), spec.Transform
	}

	compound := CompoundName(bundleName, logicalName)
	if spec.UnitFile != "" {
		return filepath.Join(tool.Dir(), spec.Subdir, compound, spec.UnitFile), spec.Transform
	}
	return filepath.Join(tool.Dir(), spec.Subdir, compound+".md"), spec.Transform
}

// Render produces the content to write for a skill file at the given
// destination. The source file's in-memory content is never modified.
func Render(tool Tool, f bundle.SkillFile, bundleName string) (string, string) {
	relPath, transform := Destination(tool, f.Type, bundleName, f.Name)
	if !transform {
		return relPath, f.Content
	}
	return relPath, EnsureFrontmatterName(f.Content, CompoundName(bundleName, f.Name))
}

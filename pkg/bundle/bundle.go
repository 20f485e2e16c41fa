// Package bundle defines the normalized data model for skill content and
// turns the three supported on-disk source layouts (flat, anthropic,
// resources) into that single shape. Everything downstream of normalization
// (path mapping, install, discovery) operates on Bundle and SkillFile and
// never branches on the source format again.
package bundle

// ContentType classifies a single content unit.
type ContentType int

const (
	// Skill is an autonomous capability description (SKILL.md style).
	Skill ContentType = iota
	// Agent is a subagent definition.
	Agent
	// Command is a slash-command style prompt.
	Command
	// Rule is an always-on instruction file.
	Rule
)

// ContentTypes lists all content types in stable order.
var ContentTypes = []ContentType{Skill, Agent, Command, Rule}

// DirName returns the canonical source directory name for this content type.
func (t ContentType) DirName() string {
	switch t {
	case Skill:
		return "skills"
	case Agent:
		return "agents"
	case Command:
		return "commands"
	case Rule:
		return "rules"
	}
	return ""
}

// AltDirNames returns alternative directory names accepted by the
// resources format. Rules may also live under "cursor-rules".
func (t ContentType) AltDirNames() []string {
	if t == Rule {
		return []string{"cursor-rules"}
	}
	return nil
}

func (t ContentType) String() string {
	switch t {
	case Skill:
		return "skill"
	case Agent:
		return "agent"
	case Command:
		return "command"
	case Rule:
		return "rule"
	}
	return "unknown"
}

// ParseContentType maps a user-supplied name (singular or plural) to a
// ContentType. The boolean reports whether the name was recognized.
func ParseContentType(name string) (ContentType, bool) {
	switch name {
	case "skill", "skills":
		return Skill, true
	case "agent", "agents":
		return Agent, true
	case "command", "commands":
		return Command, true
	case "rule", "rules", "cursor-rules":
		return Rule, true
	}
	return 0, false
}

// Format tags how a bundle was derived from disk. Retained for
// diagnostics only; install and discovery never consult it.
type Format int

const (
	// FormatNone marks a directory that is not a recognizable bundle source.
	FormatNone Format = iota
	// FormatFlat is a bundle directory with skills/, agents/, commands/,
	// rules/ subdirectories holding plain .md files.
	FormatFlat
	// FormatAnthropic is a skills/ directory whose children each hold a SKILL.md.
	FormatAnthropic
	// FormatResources is a resources/ tree with per-resource folders carrying
	// a meta.yaml and one content markdown file.
	FormatResources
)

func (f Format) String() string {
	switch f {
	case FormatFlat:
		return "flat"
	case FormatAnthropic:
		return "anthropic"
	case FormatResources:
		return "resources"
	}
	return "none"
}

// SkillFile is a single content unit. Immutable once read: destination
// transforms produce new content, the in-memory copy is never changed.
type SkillFile struct {
	// Name is the logical name. For flat bundles it is the filename
	// without extension; for directory-per-unit formats it equals the
	// bundle name.
	Name string
	// Type classifies the unit.
	Type ContentType
	// Path is the absolute origin path of the source file.
	Path string
	// Content is the raw file content.
	Content string
}

// Metadata carries optional descriptive fields from resources-format
// meta.yaml files.
type Metadata struct {
	Author      string
	Description string
}

// Bundle is a named, normalized collection of skill content from one
// source directory. It is a pure value: the origin directory is
// referenced, never owned or mutated.
type Bundle struct {
	// Name is unique within one source's listing, not globally.
	Name string
	// Path is the origin directory the bundle was derived from.
	Path string
	// Format records how the bundle was derived (diagnostics only).
	Format Format
	// Files holds all content units in directory scan order.
	Files []SkillFile
	// Meta holds optional author/description metadata.
	Meta Metadata
}

// FilesOfType returns the bundle's files of the given content type,
// preserving scan order.
func (b *Bundle) FilesOfType(t ContentType) []SkillFile {
	var out []SkillFile
	for _, f := range b.Files {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

// IsEmpty reports whether the bundle holds no content at all.
func (b *Bundle) IsEmpty() bool {
	return len(b.Files) == 0
}

// addFile appends a file, enforcing (type, logical name) uniqueness with
// last-wins semantics. It reports whether an existing entry was replaced.
func (b *Bundle) addFile(f SkillFile) bool {
	for i, existing := range b.Files {
		if existing.Type == f.Type && existing.Name == f.Name {
			b.Files[i] = f
			return true
		}
	}
	b.Files = append(b.Files, f)
	return false
}

package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/skm-dev/skm/pkg/bundle"
)

// Manifest is an optional skm.toml at a source root that declares bundles
// explicitly instead of relying on layout detection. Useful for repos
// whose content lives at nonstandard paths.
type Manifest struct {
	Source  *ManifestSourceMeta `toml:"source"`
	Entries []BundleDeclaration `toml:"bundles"`
}

// ManifestSourceMeta optionally names and describes the source itself.
type ManifestSourceMeta struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// BundleDeclaration declares one bundle rooted at a path inside the source.
type BundleDeclaration struct {
	Name        string         `toml:"name"`
	Path        string         `toml:"path"`
	Description string         `toml:"description"`
	Tags        []string       `toml:"tags"`
	Paths       ComponentPaths `toml:"paths"`
}

// ComponentPaths overrides the per-content-type directories inside a
// declared bundle. Unset fields fall back to the canonical names.
type ComponentPaths struct {
	Skills   string `toml:"skills"`
	Agents   string `toml:"agents"`
	Commands string `toml:"commands"`
	Rules    string `toml:"rules"`
}

func (p ComponentPaths) dir(t bundle.ContentType) string {
	var override string
	switch t {
	case bundle.Skill:
		override = p.Skills
	case bundle.Agent:
		override = p.Agents
	case bundle.Command:
		override = p.Commands
	case bundle.Rule:
		override = p.Rules
	}
	if override != "" {
		return override
	}
	return t.DirName()
}

// LoadManifest reads skm.toml from a source root. Returns nil when the
// file is absent or unparseable; a broken manifest falls back to layout
// detection rather than failing the source.
func LoadManifest(sourceRoot string) *Manifest {
	raw, err := os.ReadFile(filepath.Join(sourceRoot, "skm.toml"))
	if err != nil {
		return nil
	}

	var m Manifest
	if err := toml.Unmarshal(raw, &m); err != nil {
		return nil
	}
	if len(m.Entries) == 0 {
		return nil
	}
	return &m
}

// Bundles materializes every declared bundle by scanning its component
// directories. Declarations that produce no content are skipped with a
// problem record.
func (m *Manifest) Bundles(sourceRoot string) ([]bundle.Bundle, []bundle.Problem, error) {
	var bundles []bundle.Bundle
	var problems []bundle.Problem

	for _, decl := range m.Entries {
		if decl.Name == "" || decl.Path == "" {
			problems = append(problems, bundle.Problem{
				Path:   filepath.Join(sourceRoot, "skm.toml"),
				Reason: "bundle declaration missing name or path",
			})
			continue
		}

		bundleRoot := filepath.Join(sourceRoot, decl.Path)
		b := bundle.Bundle{
			Name:   decl.Name,
			Path:   bundleRoot,
			Format: bundle.FormatFlat,
			Meta:   bundle.Metadata{Description: decl.Description},
		}

		for _, t := range bundle.ContentTypes {
			files, probs := scanComponentDir(filepath.Join(bundleRoot, decl.Paths.dir(t)), t)
			problems = append(problems, probs...)
			b.Files = append(b.Files, files...)
		}

		if b.IsEmpty() {
			problems = append(problems, bundle.Problem{Path: bundleRoot, Reason: "declared bundle has no content"})
			continue
		}
		bundles = append(bundles, b)
	}

	return bundles, problems, nil
}

// scanComponentDir collects skill files from a declared component
// directory, accepting both flat .md files and <name>/SKILL.md style unit
// directories.
func scanComponentDir(dir string, t bundle.ContentType) ([]bundle.SkillFile, []bundle.Problem) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil
	}

	var files []bundle.SkillFile
	var problems []bundle.Problem
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}

		if !entry.IsDir() {
			if !strings.HasSuffix(name, ".md") {
				continue
			}
			path := filepath.Join(dir, name)
			content, err := os.ReadFile(path)
			if err != nil {
				problems = append(problems, bundle.Problem{Path: path, Reason: "unreadable file"})
				continue
			}
			files = append(files, bundle.SkillFile{
				Name:    strings.TrimSuffix(name, ".md"),
				Type:    t,
				Path:    path,
				Content: string(content),
			})
			continue
		}

		path := unitContentFile(filepath.Join(dir, name), t)
		if path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			problems = append(problems, bundle.Problem{Path: path, Reason: "unreadable file"})
			continue
		}
		files = append(files, bundle.SkillFile{
			Name:    name,
			Type:    t,
			Path:    path,
			Content: string(content),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, problems
}

// unitContentFile locates the content markdown inside a unit directory:
// the conventional upper/lowercase name for the type first, then the first
// .md file in listing order.
func unitContentFile(unitDir string, t bundle.ContentType) string {
	for _, candidate := range []string{
		strings.ToUpper(t.String()) + ".md",
		t.String() + ".md",
	} {
		path := filepath.Join(unitDir, candidate)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}

	entries, err := os.ReadDir(unitDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".md") {
			return filepath.Join(unitDir, entry.Name())
		}
	}
	return ""
}

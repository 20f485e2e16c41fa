package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Problem records one skipped or degraded item encountered during a scan.
// Problems never abort a whole-source scan.
type Problem struct {
	// Path is the directory or file the problem applies to.
	Path string
	// Reason explains why the item was skipped or adjusted.
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Path, p.Reason)
}

// ProblemsError folds a problem list into a single error value, or nil
// when the list is empty.
func ProblemsError(problems []Problem) error {
	var merr *multierror.Error
	for _, p := range problems {
		merr = multierror.Append(merr, errors.New(p.String()))
	}
	return merr.ErrorOrNil()
}

// resourceMeta mirrors the meta.yaml schema of the resources format.
type resourceMeta struct {
	Name        string `yaml:"name"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
}

// Normalize turns a detected source directory into zero or more bundles.
// Malformed individual items are skipped and reported as problems; name
// collisions across bundles are left to the source registry.
func Normalize(dir string, format Format) ([]Bundle, []Problem, error) {
	switch format {
	case FormatFlat:
		return normalizeFlat(dir)
	case FormatAnthropic:
		return normalizeAnthropic(dir)
	case FormatResources:
		return normalizeResources(dir)
	case FormatNone:
		return nil, nil, nil
	}
	return nil, nil, errors.Errorf("unknown bundle format %d", format)
}

// Load detects and normalizes in one step.
func Load(dir string) ([]Bundle, []Problem, error) {
	return Normalize(dir, DetectFormat(dir))
}

// normalizeFlat produces exactly one bundle named after the directory's
// basename. Every .md file directly under a content type subdirectory
// becomes one SkillFile.
func normalizeFlat(dir string) ([]Bundle, []Problem, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to resolve bundle directory")
	}

	b := Bundle{
		Name:   filepath.Base(abs),
		Path:   abs,
		Format: FormatFlat,
	}

	var problems []Problem
	for _, t := range ContentTypes {
		typeDir := filepath.Join(abs, t.DirName())
		entries, err := os.ReadDir(typeDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}
			path := filepath.Join(typeDir, entry.Name())
			content, err := os.ReadFile(path)
			if err != nil {
				problems = append(problems, Problem{Path: path, Reason: "unreadable file"})
				continue
			}
			replaced := b.addFile(SkillFile{
				Name:    strings.TrimSuffix(entry.Name(), ".md"),
				Type:    t,
				Path:    path,
				Content: string(content),
			})
			if replaced {
				problems = append(problems, Problem{Path: path, Reason: "duplicate logical name, previous entry replaced"})
			}
		}
	}

	if b.IsEmpty() {
		return nil, problems, nil
	}
	return []Bundle{b}, problems, nil
}

// normalizeAnthropic produces one bundle per skill subdirectory. The bundle
// name comes from the SKILL.md frontmatter name when present, falling back
// to the subdirectory basename. Each bundle carries exactly one Skill file
// whose logical name equals the bundle name.
func normalizeAnthropic(dir string) ([]Bundle, []Problem, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to resolve bundle directory")
	}

	skillsDir := filepath.Join(abs, "skills")
	entries, err := os.ReadDir(skillsDir)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list skills directory")
	}

	var bundles []Bundle
	var problems []Problem
	for _, entry := range entries {
		if !entry.IsDir() || skipName(entry.Name()) {
			continue
		}

		skillDir := filepath.Join(skillsDir, entry.Name())
		path := filepath.Join(skillDir, skillFileName)
		if !containsExactName(skillDir, skillFileName) {
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			problems = append(problems, Problem{Path: path, Reason: "unreadable file"})
			continue
		}

		name := frontmatterName(content)
		if name == "" {
			name = entry.Name()
		}

		bundles = append(bundles, Bundle{
			Name:   name,
			Path:   skillDir,
			Format: FormatAnthropic,
			Files: []SkillFile{{
				Name:    name,
				Type:    Skill,
				Path:    path,
				Content: string(content),
			}},
		})
	}

	sort.Slice(bundles, func(i, j int) bool { return bundles[i].Name < bundles[j].Name })
	return bundles, problems, nil
}

// normalizeResources produces one bundle per leaf resource directory under
// the recognized type folders. The bundle name comes from the required
// meta.yaml name field; its single content file keeps the bundle name as
// its logical name.
func normalizeResources(dir string) ([]Bundle, []Problem, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to resolve bundle directory")
	}

	resourcesDir := filepath.Join(abs, "resources")
	typeEntries, err := os.ReadDir(resourcesDir)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list resources directory")
	}

	var bundles []Bundle
	var problems []Problem
	for _, typeEntry := range typeEntries {
		if !typeEntry.IsDir() {
			continue
		}
		contentType, ok := resourceTypeDirs[typeEntry.Name()]
		if !ok {
			continue
		}

		typeDir := filepath.Join(resourcesDir, typeEntry.Name())
		resEntries, err := os.ReadDir(typeDir)
		if err != nil {
			problems = append(problems, Problem{Path: typeDir, Reason: "unreadable directory"})
			continue
		}

		for _, resEntry := range resEntries {
			if !resEntry.IsDir() || skipName(resEntry.Name()) {
				continue
			}
			resDir := filepath.Join(typeDir, resEntry.Name())
			b, probs := scanResource(resDir, contentType)
			problems = append(problems, probs...)
			if b != nil {
				bundles = append(bundles, *b)
			}
		}
	}

	sort.Slice(bundles, func(i, j int) bool { return bundles[i].Name < bundles[j].Name })
	return bundles, problems, nil
}

// scanResource reads one resource folder (meta.yaml plus one content
// markdown file) into a single-file bundle. A missing or invalid meta.yaml
// fails just this resource.
func scanResource(resDir string, contentType ContentType) (*Bundle, []Problem) {
	var problems []Problem

	metaRaw, err := os.ReadFile(filepath.Join(resDir, "meta.yaml"))
	if err != nil {
		return nil, append(problems, Problem{Path: resDir, Reason: "missing meta.yaml"})
	}

	var rm resourceMeta
	if err := yaml.Unmarshal(metaRaw, &rm); err != nil {
		return nil, append(problems, Problem{Path: resDir, Reason: "invalid meta.yaml: " + err.Error()})
	}
	if rm.Name == "" {
		return nil, append(problems, Problem{Path: resDir, Reason: "meta.yaml missing required field 'name'"})
	}
	if rm.Author == "" {
		return nil, append(problems, Problem{Path: resDir, Reason: "meta.yaml missing required field 'author'"})
	}

	contentPath, extra := findContentFile(resDir, contentType)
	if contentPath == "" {
		return nil, append(problems, Problem{Path: resDir, Reason: "no content markdown file"})
	}
	if extra {
		problems = append(problems, Problem{Path: resDir, Reason: "multiple content markdown files, using " + filepath.Base(contentPath)})
	}

	content, err := os.ReadFile(contentPath)
	if err != nil {
		return nil, append(problems, Problem{Path: contentPath, Reason: "unreadable file"})
	}

	return &Bundle{
		Name:   rm.Name,
		Path:   resDir,
		Format: FormatResources,
		Files: []SkillFile{{
			Name:    rm.Name,
			Type:    contentType,
			Path:    contentPath,
			Content: string(content),
		}},
		Meta: Metadata{Author: rm.Author, Description: rm.Description},
	}, problems
}

// findContentFile picks the content markdown file for a resource folder.
// Conventional names for the content type win; otherwise the first .md file
// in listing order is used. The boolean reports whether more than one
// candidate markdown file was present.
func findContentFile(resDir string, contentType ContentType) (string, bool) {
	preferred := []string{
		contentType.String() + ".md",
		strings.ToUpper(contentType.String()) + ".md",
	}

	entries, err := os.ReadDir(resDir)
	if err != nil {
		return "", false
	}

	var mdFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") || name == "meta.md" {
			continue
		}
		mdFiles = append(mdFiles, name)
	}
	if len(mdFiles) == 0 {
		return "", false
	}

	for _, want := range preferred {
		for _, name := range mdFiles {
			if name == want {
				return filepath.Join(resDir, name), len(mdFiles) > 1
			}
		}
	}
	return filepath.Join(resDir, mdFiles[0]), len(mdFiles) > 1
}

// skipName reports whether a directory basename follows the hidden or
// template convention and should be excluded from scans.
func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

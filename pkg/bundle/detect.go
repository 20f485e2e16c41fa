package bundle

import (
	"os"
	"path/filepath"
)

const skillFileName = "SKILL.md"

// resourceTypeDirs is the fixed set of type folders recognized directly
// under resources/.
var resourceTypeDirs = map[string]ContentType{
	"skills":       Skill,
	"agents":       Agent,
	"commands":     Command,
	"rules":        Rule,
	"cursor-rules": Rule,
}

// DetectFormat classifies a directory as one of the three bundle source
// layouts, or FormatNone. Detection order is significant: resources, then
// anthropic, then flat. An anthropic layout (skills/ with per-skill
// SKILL.md directories) is structurally a subset of what flat would match,
// so it must be checked first. Read-only; no side effects.
func DetectFormat(dir string) Format {
	if isResourcesFormat(dir) {
		return FormatResources
	}
	if isAnthropicFormat(dir) {
		return FormatAnthropic
	}
	if isFlatFormat(dir) {
		return FormatFlat
	}
	return FormatNone
}

// isResourcesFormat reports whether dir contains a resources/ subdirectory
// with at least one recognized type folder under it.
func isResourcesFormat(dir string) bool {
	entries, err := os.ReadDir(filepath.Join(dir, "resources"))
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := resourceTypeDirs[entry.Name()]; ok {
			return true
		}
	}
	return false
}

// isAnthropicFormat reports whether dir has a skills/ subdirectory whose
// children are directories each holding a SKILL.md (exact, case-sensitive).
func isAnthropicFormat(dir string) bool {
	entries, err := os.ReadDir(filepath.Join(dir, "skills"))
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		marker := filepath.Join(dir, "skills", entry.Name(), skillFileName)
		if info, err := os.Stat(marker); err == nil && info.Mode().IsRegular() {
			// Case-sensitive check: on case-insensitive filesystems Stat
			// would also match skill.md, so confirm via the listing.
			if containsExactName(filepath.Join(dir, "skills", entry.Name()), skillFileName) {
				return true
			}
		}
	}
	return false
}

func containsExactName(dir, name string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.Name() == name && !entry.IsDir() {
			return true
		}
	}
	return false
}

// isFlatFormat reports whether dir has at least one of the four canonical
// content type subdirectories.
func isFlatFormat(dir string) bool {
	for _, t := range ContentTypes {
		if info, err := os.Stat(filepath.Join(dir, t.DirName())); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

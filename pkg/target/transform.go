package target

import "strings"

// EnsureFrontmatterName guarantees the content begins with a YAML
// frontmatter block carrying a name field. Existing names are left alone;
// a frontmatter block without one gets the name injected as its first
// field; content without frontmatter gets a minimal block prepended.
// A leading "---" with no closing delimiter is a thematic break, not
// frontmatter, and gets the minimal block too.
// Idempotent: already-correct content passes through byte-for-byte.
func EnsureFrontmatterName(content, name string) string {
	lines := strings.Split(content, "\n")

	if len(lines) == 0 || lines[0] != "---" || !frontmatterClosed(lines) {
		var b strings.Builder
		b.WriteString("---\n")
		b.WriteString("name: " + name + "\n")
		b.WriteString("---\n")
		b.WriteString(content)
		return b.String()
	}

	if frontmatterHasName(lines) {
		return content
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("name: " + name + "\n")
	b.WriteString(strings.Join(lines[1:], "\n"))
	return b.String()
}

// frontmatterClosed reports whether the block opened by a leading "---"
// has a closing delimiter.
func frontmatterClosed(lines []string) bool {
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "---" {
			return true
		}
	}
	return false
}

// frontmatterHasName reports whether the leading frontmatter block (lines
// between the first "---" and the next) contains a name field.
func frontmatterHasName(lines []string) bool {
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "---" {
			return false
		}
		if strings.HasPrefix(line, "name:") {
			return true
		}
	}
	return false
}

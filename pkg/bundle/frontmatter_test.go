package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrontmatterName(t *testing.T) {
	tests := []struct {
		desc    string
		content string
		want    string
	}{
		{"name present", "---\nname: pdf-tools\ndescription: d\n---\n# Body", "pdf-tools"},
		{"no frontmatter", "# Just a body", ""},
		{"frontmatter without name", "---\ndescription: d\n---\n# Body", ""},
		{"empty document", "", ""},
		{"non-string name", "---\nname: [a, b]\n---\n# Body", ""},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, frontmatterName([]byte(tc.content)))
		})
	}
}

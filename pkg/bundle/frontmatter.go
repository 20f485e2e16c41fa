package bundle

import (
	"bytes"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// frontmatterName extracts the name field from a markdown document's YAML
// frontmatter. Returns "" when there is no frontmatter, no name field, or
// the document fails to parse.
func frontmatterName(content []byte) string {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return ""
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return ""
	}

	name, _ := metaData["name"].(string)
	return name
}

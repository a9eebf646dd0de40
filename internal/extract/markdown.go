package extract

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// MarkdownText reduces markdown content to plain text by walking the parsed
// AST: heading and paragraph text is kept, markup is dropped, and block
// boundaries become blank lines so paragraph chunking still works.
func MarkdownText(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	doc := markdownParser.Parser().Parse(text.NewReader(content))

	var builder strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if builder.Len() > 0 {
				builder.WriteString("\n\n")
			}
		case *ast.Text:
			builder.Write(node.Segment.Value(content))
			if node.SoftLineBreak() || node.HardLineBreak() {
				builder.WriteByte(' ')
			}
		case *ast.String:
			builder.Write(node.Value)
		case *ast.CodeBlock:
			// Code blocks rarely carry prose worth indexing; skip them.
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(builder.String())
}

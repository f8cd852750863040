// Package markdown derives the plain-text mirror of a note's rich content.
// The mirror feeds substring search and list previews, so extraction is
// best-effort: malformed markup degrades to the literal text and this
// package never fails.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// GFM so strikethrough markers are stripped like the other emphasis markers.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// PlainText strips markup from source: emphasis and strikethrough markers,
// inline code backticks, heading prefixes, link targets (keeping link text),
// list-item and blockquote prefixes. Block boundaries become newlines.
func PlainText(source string) (result string) {
	if strings.TrimSpace(source) == "" {
		return ""
	}

	// A parser panic must not take down a content edit; fall back to the
	// literal text.
	defer func() {
		if r := recover(); r != nil {
			result = strings.TrimSpace(source)
		}
	}()

	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindParagraph, ast.KindTextBlock, ast.KindHeading:
			writeLine(&b, n.Text(src))
			return ast.WalkSkipChildren, nil
		case ast.KindCodeBlock, ast.KindFencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				writeLine(&b, bytes.TrimRight(seg.Value(src), "\n"))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	out := strings.TrimSpace(b.String())
	if out == "" {
		// Nothing textual survived parsing; keep the literal input so the
		// note stays searchable.
		return strings.TrimSpace(source)
	}
	return out
}

func writeLine(b *strings.Builder, line []byte) {
	if len(line) == 0 {
		return
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	b.Write(line)
}

// ContainsFold reports whether s contains substr case-insensitively. It is
// the matching rule for note search.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

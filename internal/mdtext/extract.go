// Package mdtext extracts plain text fragments from markdown bodies using
// the goldmark AST. It backs title synthesis and description generation.
package mdtext

import (
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const (
	// minDescriptionLength filters out stub paragraphs ("See below.") when
	// generating a description from body text.
	minDescriptionLength = 20
	// maxDescriptionLength bounds generated descriptions; longer paragraphs
	// are truncated with an ellipsis marker.
	maxDescriptionLength = 160
)

// The engine is stateless, so a single instance serves every extraction.
var (
	engineOnce sync.Once
	engine     goldmark.Markdown
)

func markdownEngine() goldmark.Markdown {
	engineOnce.Do(func() {
		engine = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return engine
}

// FirstHeading returns the text of the first heading in body, or "".
func FirstHeading(body []byte) string {
	var heading string

	doc := markdownEngine().Parser().Parse(text.NewReader(body))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			heading = strings.TrimSpace(string(h.Text(body)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	return heading
}

// FirstParagraph returns the text of the first paragraph longer than
// minDescriptionLength characters, or "".
func FirstParagraph(body []byte) string {
	var paragraph string

	doc := markdownEngine().Parser().Parse(text.NewReader(body))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if p, ok := n.(*ast.Paragraph); ok {
			candidate := strings.TrimSpace(string(p.Text(body)))
			if len([]rune(candidate)) > minDescriptionLength {
				paragraph = candidate
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})

	return paragraph
}

// Description generates a page description from body text, falling back to
// a generic sentence built from the title.
func Description(body []byte, title string) string {
	if paragraph := FirstParagraph(body); paragraph != "" {
		return Truncate(paragraph, maxDescriptionLength)
	}
	if strings.TrimSpace(title) == "" {
		title = "this topic"
	}
	return "Learn about " + title
}

// Truncate shortens value to max runes, reserving three for the ellipsis
// marker when a cut is needed.
func Truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return strings.TrimSpace(string(runes[:max-3])) + "..."
}

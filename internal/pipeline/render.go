package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// documentTemplate wraps Goldmark's fragment output in a complete HTML5
// document: title, inline theme stylesheet, body.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>%s</style>
</head>
<body>
%s
</body>
</html>`

// Renderer converts Markdown into a complete, styled HTML document using
// goldmark (pure Go).
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer with GFM extensions (tables, fenced code,
// autolinks), syntax highlighting, auto heading IDs (TOC anchors), and
// hard-wrap line breaks.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes instead of inline styles
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Heading anchors for in-document TOC links
		),
		goldmark.WithRendererOptions(
			ghtml.WithHardWraps(), // Treat newlines as <br>
			ghtml.WithXHTML(),     // Self-closing tags
		),
	)
	return &Renderer{md: md}
}

// Render converts Markdown content and wraps it in the document skeleton
// with the given title and theme stylesheet. Inline SVG images survive the
// renderer's URL sanitization via the placeholder guard. Supports context
// cancellation via goroutine + select pattern since Goldmark doesn't
// natively support context.
func (r *Renderer) Render(ctx context.Context, content, title, stylesheet string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		guarded, svgURIs := guardSVGURIs(content)

		var buf bytes.Buffer
		if err := r.md.Convert([]byte(guarded), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}

		body := restoreSVGURIs(buf.String(), svgURIs)
		done <- result{html: fmt.Sprintf(documentTemplate, html.EscapeString(title), stylesheet, body)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

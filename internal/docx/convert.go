package docx

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	// Decoders for reading intrinsic image dimensions. WebP images are
	// re-encoded as PNG since Word predates the format.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

// Convert walks an HTML body fragment into a Document model. Inline images
// must already be staged to files (see StageDataURIs); images that cannot
// be read or decoded degrade to their alt text instead of failing the
// conversion.
func Convert(body string) (*Document, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(body), ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML body: %w", err)
	}

	doc := &Document{}
	for _, n := range nodes {
		convertBlock(doc, n, 0)
	}
	return doc, nil
}

// convertBlock appends the block-level representation of n to doc.
func convertBlock(doc *Document, n *html.Node, listLevel int) {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			doc.Blocks = append(doc.Blocks, &Paragraph{Runs: []Run{{Text: text}}})
		}
		return
	case html.ElementNode:
		// handled below
	default:
		return
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		doc.Blocks = append(doc.Blocks, &Paragraph{
			Style: "Heading" + n.Data[1:],
			Runs:  inlineRuns(n, runFormat{}),
		})

	case "p":
		doc.Blocks = append(doc.Blocks, &Paragraph{Runs: inlineRuns(n, runFormat{})})

	case "ul":
		convertList(doc, n, NumIDBullet, listLevel)

	case "ol":
		convertList(doc, n, NumIDDecimal, listLevel)

	case "table":
		doc.Blocks = append(doc.Blocks, convertTable(n))

	case "pre":
		convertPre(doc, n)

	case "blockquote":
		start := len(doc.Blocks)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			convertBlock(doc, c, listLevel)
		}
		for _, b := range doc.Blocks[start:] {
			if p, ok := b.(*Paragraph); ok && p.Style == "" {
				p.Style = "Quote"
			}
		}

	case "img":
		doc.Blocks = append(doc.Blocks, &Paragraph{Runs: []Run{imageRun(n)}})

	case "hr":
		doc.Blocks = append(doc.Blocks, &Paragraph{})

	case "script", "style":
		// dropped

	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			convertBlock(doc, c, listLevel)
		}
	}
}

// convertList emits one paragraph per list item, recursing into nested
// lists with an increased indent level.
func convertList(doc *Document, list *html.Node, numID, level int) {
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}

		item := &Paragraph{List: &ListInfo{NumID: numID, Level: level}}
		var nested []*html.Node

		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				nested = append(nested, c)
				continue
			}
			item.Runs = append(item.Runs, collectInline(c, runFormat{})...)
		}

		doc.Blocks = append(doc.Blocks, item)

		for _, sub := range nested {
			id := NumIDBullet
			if sub.Data == "ol" {
				id = NumIDDecimal
			}
			convertList(doc, sub, id, level+1)
		}
	}
}

// convertTable builds a Table from tr/th/td elements, looking through
// thead/tbody wrappers. Header cells render bold.
func convertTable(table *html.Node) *Table {
	t := &Table{FirstColumnBanding: true} // Word's default look until restyled

	var walkRows func(n *html.Node)
	walkRows = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead", "tbody", "tfoot":
				walkRows(c)
			case "tr":
				t.Rows = append(t.Rows, convertRow(c))
			}
		}
	}
	walkRows(table)

	return t
}

func convertRow(tr *html.Node) []Cell {
	var row []Cell
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		header := c.Data == "th"
		row = append(row, Cell{
			Header:     header,
			Paragraphs: []Paragraph{{Runs: inlineRuns(c, runFormat{Bold: header})}},
		})
	}
	return row
}

// convertPre emits one Code paragraph per source line so Word preserves the
// block's line structure.
func convertPre(doc *Document, pre *html.Node) {
	text := nodeText(pre)
	text = strings.TrimSuffix(text, "\n")
	for _, line := range strings.Split(text, "\n") {
		doc.Blocks = append(doc.Blocks, &Paragraph{
			Style: "Code",
			Runs:  []Run{{Text: line, Code: true}},
		})
	}
}

// runFormat is the inherited inline formatting state.
type runFormat struct {
	Bold      bool
	Italic    bool
	Code      bool
	Underline bool
}

// inlineRuns collects the formatted runs of n's children.
func inlineRuns(n *html.Node, f runFormat) []Run {
	var runs []Run
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		runs = append(runs, collectInline(c, f)...)
	}
	return runs
}

// collectInline converts one inline node (and its children) to runs.
func collectInline(n *html.Node, f runFormat) []Run {
	switch n.Type {
	case html.TextNode:
		text := strings.ReplaceAll(n.Data, "\n", " ")
		if text == "" {
			return nil
		}
		return []Run{{Text: text, Bold: f.Bold, Italic: f.Italic, Code: f.Code, Underline: f.Underline}}

	case html.ElementNode:
		// handled below
	default:
		return nil
	}

	switch n.Data {
	case "strong", "b":
		f.Bold = true
	case "em", "i":
		f.Italic = true
	case "code":
		f.Code = true
	case "a":
		f.Underline = true
	case "br":
		return []Run{{Break: true}}
	case "img":
		return []Run{imageRun(n)}
	case "script", "style":
		return nil
	}

	return inlineRuns(n, f)
}

// imageRun loads the staged image file referenced by the img element and
// returns an inline drawing run sized at the image's intrinsic dimensions
// (96 DPI). Unreadable or unsupported images (SVG in particular) degrade to
// an alt text run.
func imageRun(img *html.Node) Run {
	src := attr(img, "src")
	alt := attr(img, "alt")

	fallback := Run{Text: alt, Italic: true}

	if src == "" || strings.Contains(src, "://") || strings.HasPrefix(src, "data:") {
		return fallback
	}

	data, err := os.ReadFile(src) // #nosec G304 -- staged under the export's own temp dir
	if err != nil {
		return fallback
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fallback
	}

	switch format {
	case "png", "jpeg", "gif":
		// embeddable as-is
	default:
		// Re-encode formats Word does not accept (webp).
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return fallback
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, decoded); err != nil {
			return fallback
		}
		data, format = buf.Bytes(), "png"
	}

	return Run{Image: &Image{
		Data:   data,
		Format: format,
		Width:  int64(cfg.Width) * emuPerPixel,
		Height: int64(cfg.Height) * emuPerPixel,
	}}
}

// nodeText returns the concatenated text content of n.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

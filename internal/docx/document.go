// Package docx builds WordprocessingML documents from rendered HTML bodies.
//
// The conversion is split in three: StageDataURIs rewrites inline image data
// to temporary files, Convert walks the HTML into a Document model, and
// Document.Write serializes the model as an OOXML package. Structural
// fix-ups (table styling, leading-paragraph trimming, image page-fit) are
// methods on the model, applied between Convert and Write.
package docx

import "strings"

// EMU (English Metric Unit) conversions. OOXML measures drawings in EMU.
const (
	emuPerInch  = 914400
	emuPerPixel = 9525 // 96 DPI
)

// Page geometry: US Letter with 0.5 inch margins on all sides. The usable
// area bounds inline image sizes.
const (
	pageWidthTwips  = 12240 // 8.5in
	pageHeightTwips = 15840 // 11in
	pageMarginTwips = 720   // 0.5in

	usableWidthEMU  = int64(7.5 * emuPerInch)
	usableHeightEMU = int64(10 * emuPerInch)
)

// tableStyleID is the banded-rows table style applied to every table.
const tableStyleID = "LightListAccent1"

// Numbering definition IDs referenced by list paragraphs (see numbering.xml
// in write.go).
const (
	NumIDBullet  = 1
	NumIDDecimal = 2
)

// Document is the in-memory WordprocessingML model: a flat sequence of
// paragraphs and tables in body order.
type Document struct {
	Blocks []Block
}

// Block is a body-level element: *Paragraph or *Table.
type Block interface {
	isBlock()
}

// Paragraph is a run sequence with an optional named style and optional
// list numbering.
type Paragraph struct {
	Style string // "", "Heading1".."Heading6", "Quote", "Code"
	List  *ListInfo
	Runs  []Run
}

func (*Paragraph) isBlock() {}

// ListInfo marks a paragraph as a list item.
type ListInfo struct {
	NumID int // NumIDBullet or NumIDDecimal
	Level int // nesting depth, zero-based
}

// Run is a formatted text span, a line break, or an inline image.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Code      bool // monospace font
	Underline bool
	Break     bool   // hard line break; Text ignored
	Image     *Image // inline drawing; Text ignored
}

// Image is an inline picture with its bytes and display size in EMU.
type Image struct {
	Data   []byte
	Format string // "png", "jpeg", "gif"
	Width  int64
	Height int64
}

// Table is a grid of cells styled by a named table style.
type Table struct {
	Style string
	// FirstColumnBanding mirrors the tblLook firstColumn flag; cleared by
	// ApplyTableStyles so the first column gets no visual emphasis.
	FirstColumnBanding bool
	Rows               [][]Cell
}

func (*Table) isBlock() {}

// Cell holds the paragraphs of one table cell.
type Cell struct {
	Header     bool
	Paragraphs []Paragraph
}

// Text returns the concatenated run text of the paragraph.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// empty reports whether the paragraph has no non-whitespace text and no
// image or break runs.
func (p *Paragraph) empty() bool {
	for _, r := range p.Runs {
		if r.Image != nil || r.Break {
			return false
		}
	}
	return strings.TrimSpace(p.Text()) == ""
}

// ApplyTableStyles sets the fixed banded-rows table style on every table
// and clears the first-column emphasis flag in the table's look properties.
func (d *Document) ApplyTableStyles() {
	for _, b := range d.Blocks {
		if t, ok := b.(*Table); ok {
			t.Style = tableStyleID
			t.FirstColumnBanding = false
		}
	}
}

// TrimLeadingEmptyParagraphs removes empty paragraphs from the start of the
// body until the first remaining paragraph has content or none remain.
// Idempotent: a second application is a no-op.
func (d *Document) TrimLeadingEmptyParagraphs() {
	for len(d.Blocks) > 0 {
		p, ok := d.Blocks[0].(*Paragraph)
		if !ok || !p.empty() {
			return
		}
		d.Blocks = d.Blocks[1:]
	}
}

// FitImagesToPage downscales every inline image that exceeds the usable
// page area. Both dimensions are scaled by the same ratio (the smaller of
// the two required shrink ratios) so the image fits without distortion.
// Images already within bounds keep their original size; nothing is ever
// upscaled.
func (d *Document) FitImagesToPage() {
	for _, b := range d.Blocks {
		switch blk := b.(type) {
		case *Paragraph:
			fitParagraphImages(blk)
		case *Table:
			for _, row := range blk.Rows {
				for i := range row {
					for j := range row[i].Paragraphs {
						fitParagraphImages(&row[i].Paragraphs[j])
					}
				}
			}
		}
	}
}

func fitParagraphImages(p *Paragraph) {
	for _, r := range p.Runs {
		if r.Image == nil {
			continue
		}
		fitImage(r.Image, usableWidthEMU, usableHeightEMU)
	}
}

func fitImage(img *Image, maxW, maxH int64) {
	if img.Width <= 0 || img.Height <= 0 {
		return
	}

	ratio := 1.0
	if img.Width > maxW {
		ratio = min(ratio, float64(maxW)/float64(img.Width))
	}
	if img.Height > maxH {
		ratio = min(ratio, float64(maxH)/float64(img.Height))
	}
	if ratio >= 1.0 {
		return
	}

	img.Width = int64(float64(img.Width) * ratio)
	img.Height = int64(float64(img.Height) * ratio)
}

package pdfengine

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/alnah/go-mdexport/internal/fileutil"
)

// DefaultFontDir is where the Unicode-capable font family is searched when
// no directory is configured.
const DefaultFontDir = "/usr/share/fonts/truetype/dejavu"

// Font family names.
const (
	unicodeFontFamily = "DejaVuSans"
	builtinFontFamily = "Helvetica" // non-Unicode fallback, built into fpdf
)

// fontVariants are the four styles loaded from the font directory. All four
// must be present; otherwise the builtin family is used for everything.
var fontVariants = []struct {
	style string
	file  string
}{
	{"", "DejaVuSans.ttf"},
	{"B", "DejaVuSans-Bold.ttf"},
	{"I", "DejaVuSans-Oblique.ttf"},
	{"BI", "DejaVuSans-BoldOblique.ttf"},
}

// Layout constants in points and millimeters.
const (
	bodyFontSize = 11.0
	lineHeightMM = 5.5
	blankGapMM   = 3.0
	headingGapMM = 2.0
)

// headingSizes maps the number of leading '#' characters to a font size in
// points, decreasing with depth. Mirrors the compact theme's heading scale.
var headingSizes = map[int]float64{1: 18, 2: 14, 3: 12, 4: 11}

// DirectDrawEngine renders Markdown straight to PDF drawing primitives
// without a browser. It is the fallback strategy when headless Chrome is
// unavailable: output fidelity is lower (no tables, no images, no syntax
// highlighting), but every document still produces a readable PDF.
//
// Heuristics, applied line by line: lines starting with one to four '#'
// become headings at decreasing fixed sizes with spacing after; lines
// starting with "- " or "* " become bulleted items; blank lines insert fixed
// vertical spacing; everything else is a regular paragraph.
type DirectDrawEngine struct {
	fontDir string
}

// Compile-time interface check.
var _ Engine = (*DirectDrawEngine)(nil)

// NewDirectDrawEngine creates a DirectDrawEngine loading Unicode fonts from
// fontDir. Empty fontDir means DefaultFontDir.
func NewDirectDrawEngine(fontDir string) *DirectDrawEngine {
	if fontDir == "" {
		fontDir = DefaultFontDir
	}
	return &DirectDrawEngine{fontDir: fontDir}
}

// Render draws doc.Markdown onto A4 pages with 15mm margins, breaking pages
// automatically when content exceeds the page height.
func (e *DirectDrawEngine) Render(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)

	family := e.loadFonts(pdf)

	pdf.AddPage()

	for _, line := range strings.Split(doc.Markdown, "\n") {
		if level, text, ok := headingLine(line); ok {
			pdf.SetFont(family, "B", headingSizes[level])
			pdf.MultiCell(0, lineHeightMM+headingSizes[level]/8, text, "", "L", false)
			pdf.Ln(headingGapMM)
			continue
		}

		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
			pdf.SetFont(family, "", bodyFontSize)
			pdf.MultiCell(0, lineHeightMM, "• "+line[2:], "", "L", false)
			continue
		}

		if strings.TrimSpace(line) == "" {
			pdf.Ln(blankGapMM)
			continue
		}

		pdf.SetFont(family, "", bodyFontSize)
		pdf.MultiCell(0, lineHeightMM, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	return buf.Bytes(), nil
}

// Close is a no-op; the engine holds no external resources.
func (e *DirectDrawEngine) Close() error {
	return nil
}

// loadFonts registers the bundled Unicode font family if all four variants
// exist on disk, returning the family to use. Falls back to the builtin
// non-Unicode family otherwise.
func (e *DirectDrawEngine) loadFonts(pdf *fpdf.Fpdf) string {
	for _, v := range fontVariants {
		if !fileutil.FileExists(filepath.Join(e.fontDir, v.file)) {
			return builtinFontFamily
		}
	}

	for _, v := range fontVariants {
		pdf.AddUTF8Font(unicodeFontFamily, v.style, filepath.Join(e.fontDir, v.file))
	}

	if pdf.Err() {
		// A corrupt font file poisons the document state; start clean with
		// the builtin family.
		pdf.ClearError()
		return builtinFontFamily
	}

	return unicodeFontFamily
}

// headingLine reports whether line is an ATX heading of level 1-4 and
// returns its level and text.
func headingLine(line string) (level int, text string, ok bool) {
	for l := 4; l >= 1; l-- {
		prefix := strings.Repeat("#", l) + " "
		if strings.HasPrefix(line, prefix) {
			return l, strings.TrimPrefix(line, prefix), true
		}
	}
	return 0, "", false
}

package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// xmlHeader starts every part in the package.
const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// relsXML wires the package root to the main document part.
const relsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

// imageRef is the writer-assigned identity of one embedded image.
type imageRef struct {
	relID string
	part  string // media file name, e.g. "image1.png"
	docPr int    // unique drawing id within document.xml
}

// Write serializes the document as an OOXML package.
func (d *Document) Write(w io.Writer) error {
	refs := d.assignImageRefs()

	zw := zip.NewWriter(w)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", d.contentTypesXML(refs)},
		{"_rels/.rels", relsXML},
		{"word/_rels/document.xml.rels", documentRelsXML(refs)},
		{"word/styles.xml", stylesXML},
		{"word/numbering.xml", numberingXML},
		{"word/document.xml", d.documentXML(refs)},
	}

	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", p.name, err)
		}
		if _, err := f.Write([]byte(p.content)); err != nil {
			return fmt.Errorf("writing %s: %w", p.name, err)
		}
	}

	for img, ref := range refs {
		f, err := zw.Create("word/media/" + ref.part)
		if err != nil {
			return fmt.Errorf("creating media part: %w", err)
		}
		if _, err := f.Write(img.Data); err != nil {
			return fmt.Errorf("writing media part: %w", err)
		}
	}

	return zw.Close()
}

// assignImageRefs walks the document in body order and gives every inline
// image a stable relationship id and media part name.
func (d *Document) assignImageRefs() map[*Image]imageRef {
	refs := make(map[*Image]imageRef)
	n := 0

	add := func(img *Image) {
		if img == nil {
			return
		}
		n++
		ext := img.Format
		if ext == "jpeg" {
			ext = "jpg"
		}
		refs[img] = imageRef{
			// rId1/rId2 are taken by styles and numbering.
			relID: fmt.Sprintf("rId%d", n+2),
			part:  fmt.Sprintf("image%d.%s", n, ext),
			docPr: n,
		}
	}

	forEachParagraph(d, func(p *Paragraph) {
		for i := range p.Runs {
			add(p.Runs[i].Image)
		}
	})

	return refs
}

// forEachParagraph visits every paragraph, including those in table cells.
func forEachParagraph(d *Document, visit func(*Paragraph)) {
	for _, b := range d.Blocks {
		switch blk := b.(type) {
		case *Paragraph:
			visit(blk)
		case *Table:
			for _, row := range blk.Rows {
				for i := range row {
					for j := range row[i].Paragraphs {
						visit(&row[i].Paragraphs[j])
					}
				}
			}
		}
	}
}

// contentTypesXML declares the part content types, including one default per
// embedded image format.
func (d *Document) contentTypesXML(refs map[*Image]imageRef) string {
	formats := map[string]bool{}
	for img := range refs {
		formats[img.Format] = true
	}

	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	if formats["png"] {
		sb.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	}
	if formats["jpeg"] {
		sb.WriteString(`<Default Extension="jpg" ContentType="image/jpeg"/>`)
	}
	if formats["gif"] {
		sb.WriteString(`<Default Extension="gif" ContentType="image/gif"/>`)
	}
	sb.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	sb.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	sb.WriteString(`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>`)
	sb.WriteString(`</Types>`)
	return sb.String()
}

// documentRelsXML wires the main document to styles, numbering, and media.
func documentRelsXML(refs map[*Image]imageRef) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	sb.WriteString(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>`)
	for _, ref := range refs {
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/%s"/>`, ref.relID, ref.part)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

// documentXML serializes the body: blocks in order, then section properties
// (US Letter, 0.5in margins).
func (d *Document) documentXML(refs map[*Image]imageRef) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:document` +
		` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">`)
	sb.WriteString(`<w:body>`)

	for _, b := range d.Blocks {
		switch blk := b.(type) {
		case *Paragraph:
			paragraphXML(&sb, blk, refs)
		case *Table:
			tableXML(&sb, blk, refs)
		}
	}

	fmt.Fprintf(&sb, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`,
		pageWidthTwips, pageHeightTwips,
		pageMarginTwips, pageMarginTwips, pageMarginTwips, pageMarginTwips)
	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

func paragraphXML(sb *strings.Builder, p *Paragraph, refs map[*Image]imageRef) {
	sb.WriteString(`<w:p>`)
	if p.Style != "" || p.List != nil {
		sb.WriteString(`<w:pPr>`)
		if p.Style != "" {
			fmt.Fprintf(sb, `<w:pStyle w:val="%s"/>`, p.Style)
		}
		if p.List != nil {
			fmt.Fprintf(sb, `<w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr>`, p.List.Level, p.List.NumID)
		}
		sb.WriteString(`</w:pPr>`)
	}
	for i := range p.Runs {
		runXML(sb, &p.Runs[i], refs)
	}
	sb.WriteString(`</w:p>`)
}

func runXML(sb *strings.Builder, r *Run, refs map[*Image]imageRef) {
	if r.Break {
		sb.WriteString(`<w:r><w:br/></w:r>`)
		return
	}
	if r.Image != nil {
		drawingXML(sb, r.Image, refs[r.Image])
		return
	}

	sb.WriteString(`<w:r>`)
	if r.Bold || r.Italic || r.Code || r.Underline {
		sb.WriteString(`<w:rPr>`)
		if r.Code {
			sb.WriteString(`<w:rFonts w:ascii="Consolas" w:hAnsi="Consolas"/>`)
		}
		if r.Bold {
			sb.WriteString(`<w:b/>`)
		}
		if r.Italic {
			sb.WriteString(`<w:i/>`)
		}
		if r.Underline {
			sb.WriteString(`<w:u w:val="single"/>`)
		}
		sb.WriteString(`</w:rPr>`)
	}
	sb.WriteString(`<w:t xml:space="preserve">`)
	sb.WriteString(escapeXML(r.Text))
	sb.WriteString(`</w:t></w:r>`)
}

// drawingXML emits an inline picture sized in EMU.
func drawingXML(sb *strings.Builder, img *Image, ref imageRef) {
	name := fmt.Sprintf("Picture %d", ref.docPr)
	fmt.Fprintf(sb, `<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="%d" name="%s"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`,
		img.Width, img.Height,
		ref.docPr, name,
		ref.docPr, name,
		ref.relID,
		img.Width, img.Height)
}

func tableXML(sb *strings.Builder, t *Table, refs map[*Image]imageRef) {
	sb.WriteString(`<w:tbl><w:tblPr>`)
	if t.Style != "" {
		fmt.Fprintf(sb, `<w:tblStyle w:val="%s"/>`, t.Style)
	}
	sb.WriteString(`<w:tblW w:w="0" w:type="auto"/>`)

	firstColumn := "0"
	if t.FirstColumnBanding {
		firstColumn = "1"
	}
	fmt.Fprintf(sb, `<w:tblLook w:val="04A0" w:firstRow="1" w:lastRow="0" w:firstColumn="%s" w:lastColumn="0" w:noHBand="0" w:noVBand="1"/>`, firstColumn)
	sb.WriteString(`</w:tblPr>`)

	cols := 0
	if len(t.Rows) > 0 {
		cols = len(t.Rows[0])
	}
	sb.WriteString(`<w:tblGrid>`)
	for i := 0; i < cols; i++ {
		sb.WriteString(`<w:gridCol/>`)
	}
	sb.WriteString(`</w:tblGrid>`)

	for _, row := range t.Rows {
		sb.WriteString(`<w:tr>`)
		for i := range row {
			sb.WriteString(`<w:tc>`)
			if len(row[i].Paragraphs) == 0 {
				// A table cell must contain at least one paragraph.
				sb.WriteString(`<w:p/>`)
			}
			for j := range row[i].Paragraphs {
				paragraphXML(sb, &row[i].Paragraphs[j], refs)
			}
			sb.WriteString(`</w:tc>`)
		}
		sb.WriteString(`</w:tr>`)
	}

	sb.WriteString(`</w:tbl>`)
}

// escapeXML escapes text for embedding in an XML element.
func escapeXML(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

// stylesXML defines the named styles the converter emits plus the
// banded-rows table style (pale blue bands, emphasized header row, no
// first-column emphasis).
const stylesXML = xmlHeader + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:docDefaults><w:rPrDefault><w:rPr><w:sz w:val="22"/><w:szCs w:val="22"/></w:rPr></w:rPrDefault><w:pPrDefault/></w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="240" w:after="60"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="36"/><w:color w:val="365F91"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="200" w:after="60"/><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:sz w:val="28"/><w:color w:val="4F81BD"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="160" w:after="40"/><w:outlineLvl w:val="2"/></w:pPr><w:rPr><w:b/><w:sz w:val="24"/><w:color w:val="4F81BD"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading4"><w:name w:val="heading 4"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="120" w:after="40"/><w:outlineLvl w:val="3"/></w:pPr><w:rPr><w:b/><w:sz w:val="22"/><w:color w:val="4F81BD"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading5"><w:name w:val="heading 5"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="120" w:after="40"/><w:outlineLvl w:val="4"/></w:pPr><w:rPr><w:b/><w:sz w:val="22"/><w:color w:val="243F60"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading6"><w:name w:val="heading 6"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="120" w:after="40"/><w:outlineLvl w:val="5"/></w:pPr><w:rPr><w:b/><w:sz w:val="22"/><w:color w:val="243F60"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/><w:basedOn w:val="Normal"/><w:pPr><w:ind w:left="480"/></w:pPr><w:rPr><w:i/><w:color w:val="666666"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Code"><w:name w:val="Code"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:after="0"/><w:shd w:val="clear" w:color="auto" w:fill="F4F4F4"/></w:pPr><w:rPr><w:rFonts w:ascii="Consolas" w:hAnsi="Consolas"/><w:sz w:val="18"/></w:rPr></w:style>` +
	`<w:style w:type="table" w:styleId="LightListAccent1"><w:name w:val="Light List Accent 1"/>` +
	`<w:tblPr><w:tblBorders>` +
	`<w:top w:val="single" w:sz="8" w:space="0" w:color="DBE5F1"/>` +
	`<w:left w:val="single" w:sz="8" w:space="0" w:color="DBE5F1"/>` +
	`<w:bottom w:val="single" w:sz="8" w:space="0" w:color="DBE5F1"/>` +
	`<w:right w:val="single" w:sz="8" w:space="0" w:color="DBE5F1"/>` +
	`<w:insideH w:val="single" w:sz="8" w:space="0" w:color="DBE5F1"/>` +
	`<w:insideV w:val="single" w:sz="8" w:space="0" w:color="DBE5F1"/>` +
	`</w:tblBorders></w:tblPr>` +
	`<w:tblStylePr w:type="firstRow"><w:rPr><w:b/><w:color w:val="365F91"/></w:rPr><w:tcPr><w:shd w:val="clear" w:color="auto" w:fill="DBE5F1"/></w:tcPr></w:tblStylePr>` +
	`<w:tblStylePr w:type="band1Horz"><w:tcPr><w:shd w:val="clear" w:color="auto" w:fill="EFF4FA"/></w:tcPr></w:tblStylePr>` +
	`</w:style>` +
	`</w:styles>`

// numberingXML defines the bullet and decimal list numbering referenced by
// NumIDBullet and NumIDDecimal, with indentation per nesting level.
const numberingXML = xmlHeader + `<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:abstractNum w:abstractNumId="0">` +
	`<w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl>` +
	`<w:lvl w:ilvl="1"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#9702;"/><w:pPr><w:ind w:left="1440" w:hanging="360"/></w:pPr></w:lvl>` +
	`<w:lvl w:ilvl="2"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#9642;"/><w:pPr><w:ind w:left="2160" w:hanging="360"/></w:pPr></w:lvl>` +
	`</w:abstractNum>` +
	`<w:abstractNum w:abstractNumId="1">` +
	`<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl>` +
	`<w:lvl w:ilvl="1"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%2."/><w:pPr><w:ind w:left="1440" w:hanging="360"/></w:pPr></w:lvl>` +
	`<w:lvl w:ilvl="2"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%3."/><w:pPr><w:ind w:left="2160" w:hanging="360"/></w:pPr></w:lvl>` +
	`</w:abstractNum>` +
	`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>` +
	`<w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>` +
	`</w:numbering>`

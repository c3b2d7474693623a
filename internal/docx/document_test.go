package docx

import "testing"

func TestApplyTableStyles(t *testing.T) {
	t.Parallel()

	d := &Document{Blocks: []Block{
		&Paragraph{Runs: []Run{{Text: "intro"}}},
		&Table{FirstColumnBanding: true, Rows: [][]Cell{{{}}}},
		&Table{Style: "Something", FirstColumnBanding: true},
	}}

	d.ApplyTableStyles()

	for i, b := range d.Blocks {
		tbl, ok := b.(*Table)
		if !ok {
			continue
		}
		if tbl.Style != tableStyleID {
			t.Errorf("block %d style = %q, want %q", i, tbl.Style, tableStyleID)
		}
		if tbl.FirstColumnBanding {
			t.Errorf("block %d FirstColumnBanding = true, want false", i)
		}
	}
}

func TestTrimLeadingEmptyParagraphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		blocks []Block
		want   int
	}{
		{
			name: "leading empties removed",
			blocks: []Block{
				&Paragraph{},
				&Paragraph{Runs: []Run{{Text: "   "}}},
				&Paragraph{Runs: []Run{{Text: "content"}}},
			},
			want: 1,
		},
		{
			name: "stops at first table",
			blocks: []Block{
				&Paragraph{},
				&Table{},
				&Paragraph{},
			},
			want: 2,
		},
		{
			name: "image paragraph is not empty",
			blocks: []Block{
				&Paragraph{Runs: []Run{{Image: &Image{}}}},
			},
			want: 1,
		},
		{
			name: "break paragraph is not empty",
			blocks: []Block{
				&Paragraph{Runs: []Run{{Break: true}}},
			},
			want: 1,
		},
		{
			name:   "all empty",
			blocks: []Block{&Paragraph{}, &Paragraph{}},
			want:   0,
		},
		{
			name:   "no blocks",
			blocks: nil,
			want:   0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := &Document{Blocks: tt.blocks}
			d.TrimLeadingEmptyParagraphs()
			if len(d.Blocks) != tt.want {
				t.Errorf("blocks after trim = %d, want %d", len(d.Blocks), tt.want)
			}

			// Idempotence: a second pass removes nothing more.
			d.TrimLeadingEmptyParagraphs()
			if len(d.Blocks) != tt.want {
				t.Errorf("blocks after second trim = %d, want %d", len(d.Blocks), tt.want)
			}
		})
	}
}

func TestFitImagesToPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		width, height int64
		wantW, wantH  int64
	}{
		{
			name:  "within bounds unchanged",
			width: emuPerInch, height: emuPerInch,
			wantW: emuPerInch, wantH: emuPerInch,
		},
		{
			name:  "too wide scales uniformly",
			width: 15 * emuPerInch, height: 5 * emuPerInch,
			wantW: usableWidthEMU, wantH: int64(2.5 * emuPerInch),
		},
		{
			name:  "too tall scales uniformly",
			width: 5 * emuPerInch, height: 20 * emuPerInch,
			wantW: int64(2.5 * emuPerInch), wantH: usableHeightEMU,
		},
		{
			name:  "both over uses the stronger shrink",
			width: 15 * emuPerInch, height: 40 * emuPerInch,
			wantW: int64(3.75 * emuPerInch), wantH: usableHeightEMU,
		},
		{
			name:  "zero dimensions untouched",
			width: 0, height: 0,
			wantW: 0, wantH: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			img := &Image{Width: tt.width, Height: tt.height}
			d := &Document{Blocks: []Block{
				&Paragraph{Runs: []Run{{Image: img}}},
			}}

			d.FitImagesToPage()

			if img.Width != tt.wantW || img.Height != tt.wantH {
				t.Errorf("fit = %dx%d, want %dx%d", img.Width, img.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFitImagesToPageInsideTable(t *testing.T) {
	t.Parallel()

	img := &Image{Width: 20 * emuPerInch, Height: 2 * emuPerInch}
	d := &Document{Blocks: []Block{
		&Table{Rows: [][]Cell{{
			{Paragraphs: []Paragraph{{Runs: []Run{{Image: img}}}}},
		}}},
	}}

	d.FitImagesToPage()

	if img.Width != usableWidthEMU {
		t.Errorf("table image width = %d, want %d", img.Width, usableWidthEMU)
	}
}

func TestParagraphText(t *testing.T) {
	t.Parallel()

	p := &Paragraph{Runs: []Run{{Text: "a"}, {Text: "b", Bold: true}, {Break: true}, {Text: "c"}}}
	if got := p.Text(); got != "abc" {
		t.Errorf("Text() = %q, want %q", got, "abc")
	}
}

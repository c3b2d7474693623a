package pipeline

import (
	"errors"
	"strings"
	"testing"
)

const twoBlocks = "intro\n\n```mermaid\ngraph TD\nA-->B\n```\n\nmiddle\n\n```mermaid\nsequenceDiagram\n```\n\noutro"

func TestSubstituteVector(t *testing.T) {
	t.Parallel()

	s := &MermaidSubstitutor{}
	diagrams := []Diagram{
		{Index: 0, SVG: "data:image/svg+xml;base64,Zmlyc3Q="},
		{Index: 1, SVG: "data:image/svg+xml;base64,c2Vjb25k"},
	}

	got := s.Substitute(twoBlocks, diagrams, false)

	if strings.Contains(got, "```mermaid") {
		t.Errorf("Substitute() left a mermaid block: %q", got)
	}
	if !strings.Contains(got, "![Mermaid Diagram](data:image/svg+xml;base64,Zmlyc3Q=)") {
		t.Errorf("Substitute() missing first diagram image: %q", got)
	}
	if !strings.Contains(got, "![Mermaid Diagram](data:image/svg+xml;base64,c2Vjb25k)") {
		t.Errorf("Substitute() missing second diagram image: %q", got)
	}
}

func TestSubstituteVectorIgnoresPNG(t *testing.T) {
	t.Parallel()

	s := &MermaidSubstitutor{}
	diagrams := []Diagram{{Index: 0, SVG: "data:image/svg+xml;base64,dg==", PNG: "data:image/png;base64,cg=="}}

	got := s.Substitute("```mermaid\nx\n```", diagrams, false)

	if !strings.Contains(got, "svg") || strings.Contains(got, "image/png") {
		t.Errorf("Substitute(preferRaster=false) = %q, want the SVG", got)
	}
}

func TestSubstitutePreferRaster(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		diagram   Diagram
		rasterize RasterizeFunc
		wantURI   string
	}{
		{
			name:    "supplied PNG wins",
			diagram: Diagram{Index: 0, SVG: "data:image/svg+xml;base64,dg==", PNG: "data:image/png;base64,cg=="},
			wantURI: "data:image/png;base64,cg==",
		},
		{
			name:    "SVG converted when no PNG",
			diagram: Diagram{Index: 0, SVG: "data:image/svg+xml;base64,dg=="},
			rasterize: func(string) (string, error) {
				return "data:image/png;base64,Y29udmVydGVk", nil
			},
			wantURI: "data:image/png;base64,Y29udmVydGVk",
		},
		{
			name:    "conversion failure falls back to SVG",
			diagram: Diagram{Index: 0, SVG: "data:image/svg+xml;base64,dg=="},
			rasterize: func(string) (string, error) {
				return "", errors.New("boom")
			},
			wantURI: "data:image/svg+xml;base64,dg==",
		},
		{
			name:    "nil rasterizer falls back to SVG",
			diagram: Diagram{Index: 0, SVG: "data:image/svg+xml;base64,dg=="},
			wantURI: "data:image/svg+xml;base64,dg==",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &MermaidSubstitutor{Rasterize: tt.rasterize}
			got := s.Substitute("```mermaid\nx\n```", []Diagram{tt.diagram}, true)

			want := "![Mermaid Diagram](" + tt.wantURI + ")"
			if got != want {
				t.Errorf("Substitute() = %q, want %q", got, want)
			}
		})
	}
}

func TestSubstituteMissingDescriptorLeavesBlock(t *testing.T) {
	t.Parallel()

	s := &MermaidSubstitutor{}
	// Only the second block has a descriptor.
	diagrams := []Diagram{{Index: 1, SVG: "data:image/svg+xml;base64,dg=="}}

	got := s.Substitute(twoBlocks, diagrams, false)

	if !strings.Contains(got, "```mermaid\ngraph TD") {
		t.Errorf("Substitute() replaced an undescribed block: %q", got)
	}
	if strings.Contains(got, "sequenceDiagram") {
		t.Errorf("Substitute() left the described block: %q", got)
	}
}

func TestSubstituteNoDiagrams(t *testing.T) {
	t.Parallel()

	s := &MermaidSubstitutor{}
	if got := s.Substitute(twoBlocks, nil, true); got != twoBlocks {
		t.Errorf("Substitute(nil diagrams) changed content: %q", got)
	}
}

func TestSubstituteReentrant(t *testing.T) {
	t.Parallel()

	s := &MermaidSubstitutor{}
	diagrams := []Diagram{{Index: 0, SVG: "data:image/svg+xml;base64,dg=="}}
	content := "```mermaid\nx\n```"

	first := s.Substitute(content, diagrams, false)
	second := s.Substitute(content, diagrams, false)

	if first != second {
		t.Errorf("Substitute() not reentrant: %q vs %q", first, second)
	}
}

package pipeline

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
)

func TestGuardAndRestoreSVGURIs(t *testing.T) {
	t.Parallel()

	uri1 := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte("one"))
	uri2 := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte("two"))
	content := "![a](" + uri1 + ") and ![b](" + uri2 + ")"

	guarded, uris := guardSVGURIs(content)

	if strings.Contains(guarded, "svg+xml") {
		t.Errorf("guardSVGURIs() left an SVG URI: %q", guarded)
	}
	if !strings.Contains(guarded, "svgref:0") || !strings.Contains(guarded, "svgref:1") {
		t.Errorf("guardSVGURIs() = %q, want numbered placeholders", guarded)
	}
	if len(uris) != 2 || uris[0] != uri1 || uris[1] != uri2 {
		t.Errorf("guarded uris = %v", uris)
	}

	html := `<img src="svgref:0" alt="a"><img src="svgref:1" alt="b">`
	restored := restoreSVGURIs(html, uris)
	if !strings.Contains(restored, `src="`+uri1+`"`) || !strings.Contains(restored, `src="`+uri2+`"`) {
		t.Errorf("restoreSVGURIs() = %q", restored)
	}
}

func TestGuardSVGURIsIgnoresOtherDataURIs(t *testing.T) {
	t.Parallel()

	content := "![a](data:image/png;base64,AAAA)"
	guarded, uris := guardSVGURIs(content)
	if guarded != content || len(uris) != 0 {
		t.Errorf("guardSVGURIs(%q) = (%q, %v), want unchanged", content, guarded, uris)
	}
}

func TestRenderKeepsInlineSVGImage(t *testing.T) {
	t.Parallel()

	uri := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(`<svg/>`))

	r := NewRenderer()
	got, err := r.Render(context.Background(), "![Mermaid Diagram]("+uri+")", "t", "")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(got, `src="`+uri+`"`) {
		t.Errorf("Render() sanitized the SVG image: %q", got)
	}
}

func TestRenderKeepsInlinePNGImage(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	got, err := r.Render(context.Background(), "![x](data:image/png;base64,AAAA)", "t", "")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(got, `src="data:image/png;base64,AAAA"`) {
		t.Errorf("Render() lost the PNG image: %q", got)
	}
}

package pipeline

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbedImagesLocalFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pngBytes := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	if err := os.WriteFile(filepath.Join(dir, "chart.png"), pngBytes, 0o600); err != nil {
		t.Fatal(err)
	}

	got := EmbedImages("before ![A chart](chart.png) after", dir)

	want := "before ![A chart](data:image/png;base64," +
		base64.StdEncoding.EncodeToString(pngBytes) + ") after"
	if got != want {
		t.Errorf("EmbedImages() = %q, want %q", got, want)
	}
}

func TestEmbedImagesPercentEncodedPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "my chart.png"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got := EmbedImages("![c](my%20chart.png)", dir)

	if !strings.Contains(got, "data:image/png;base64,") {
		t.Errorf("EmbedImages() = %q, want embedded data URI", got)
	}
}

func TestEmbedImagesTitleDiscarded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.gif"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got := EmbedImages(`![a](a.gif "hover title")`, dir)

	if strings.Contains(got, "hover title") {
		t.Errorf("EmbedImages() kept the title: %q", got)
	}
	if !strings.Contains(got, "data:image/gif;base64,") {
		t.Errorf("EmbedImages() = %q, want gif data URI", got)
	}
}

func TestEmbedImagesPassThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "http reference",
			content: "![a](http://example.com/a.png)",
		},
		{
			name:    "https reference",
			content: "![a](https://example.com/a.png)",
		},
		{
			name:    "data URI reference",
			content: "![a](data:image/png;base64,AAAA)",
		},
		{
			name:    "missing file",
			content: "![a](no-such-file.png)",
		},
		{
			name:    "no image references",
			content: "plain paragraph with [a link](somewhere.md)",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := EmbedImages(tt.content, t.TempDir())
			if got != tt.content {
				t.Errorf("EmbedImages(%q) = %q, want unchanged", tt.content, got)
			}
		})
	}
}

func TestEmbedImagesUnknownExtensionFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "img.xyz"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got := EmbedImages("![a](img.xyz)", dir)

	if !strings.Contains(got, "data:application/octet-stream;base64,") {
		t.Errorf("EmbedImages() = %q, want octet-stream fallback", got)
	}
}

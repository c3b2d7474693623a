package pdfengine

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestHeadingLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		line      string
		wantLevel int
		wantText  string
		wantOK    bool
	}{
		{
			name:      "h1",
			line:      "# Title",
			wantLevel: 1,
			wantText:  "Title",
			wantOK:    true,
		},
		{
			name:      "h4",
			line:      "#### Deep",
			wantLevel: 4,
			wantText:  "Deep",
			wantOK:    true,
		},
		{
			name:   "h5 not treated as heading",
			line:   "##### Too deep",
			wantOK: false,
		},
		{
			name:   "hash without space",
			line:   "#nospace",
			wantOK: false,
		},
		{
			name:   "plain text",
			line:   "just a line",
			wantOK: false,
		},
		{
			name:   "empty line",
			line:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			level, text, ok := headingLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("headingLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if level != tt.wantLevel || text != tt.wantText {
				t.Errorf("headingLine(%q) = (%d, %q), want (%d, %q)",
					tt.line, level, text, tt.wantLevel, tt.wantText)
			}
		})
	}
}

func TestDirectDrawRender(t *testing.T) {
	t.Parallel()

	// Empty temp dir forces the builtin font fallback regardless of the host.
	e := NewDirectDrawEngine(t.TempDir())

	md := "# Title\n\nA paragraph of text.\n\n- first item\n- second item\n\n## Section\n\nMore text."
	data, err := e.Render(context.Background(), Document{Markdown: md})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("Render() output does not start with %%PDF, got %q", data[:min(len(data), 8)])
	}
}

func TestDirectDrawRenderEmptyDocument(t *testing.T) {
	t.Parallel()

	e := NewDirectDrawEngine(t.TempDir())
	data, err := e.Render(context.Background(), Document{Markdown: ""})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("Render() produced no output for an empty document")
	}
}

func TestDirectDrawRenderCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewDirectDrawEngine(t.TempDir())
	_, err := e.Render(ctx, Document{Markdown: "# x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestDirectDrawClose(t *testing.T) {
	t.Parallel()

	e := NewDirectDrawEngine("")
	if err := e.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestChromeRenderCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewChromeEngine(0)
	defer func() { _ = e.Close() }()

	// Cancellation is checked before any browser launch.
	_, err := e.Render(ctx, Document{HTML: "<html></html>"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

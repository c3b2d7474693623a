package mdexport

import "time"

// Theme selects one of the two built-in stylesheets.
type Theme string

// Built-in themes.
const (
	ThemeStandard Theme = "standard" // wide reading layout, generous spacing
	ThemeCompact  Theme = "compact"  // print-oriented, used ahead of PDF rendering
)

// PDF engine selection constants.
const (
	EngineAuto    = "auto"    // Chrome when available, direct-draw otherwise
	EngineChrome  = "chrome"  // headless Chrome via go-rod
	EngineBuiltin = "builtin" // direct-draw PDF, no browser required
)

// Diagram carries caller-supplied pre-rendered image data for one mermaid
// code block. Index correlates with the Nth mermaid block in the source by
// occurrence order (zero-based). Both images are data URIs; either may be
// empty.
//
// Correlation by bare occurrence order is fragile: if blocks are reordered
// or inserted between client-side pre-rendering and the export call, images
// attach to the wrong blocks. This matches the pre-render protocol and is
// kept as-is.
type Diagram struct {
	Index int    `json:"index"`
	SVG   string `json:"svg,omitempty"`
	PNG   string `json:"png,omitempty"`
}

// Artifact is the terminal output of one export: the generated bytes plus
// the metadata the hosting layer needs to stream them to the caller.
type Artifact struct {
	Data        []byte
	Filename    string
	ContentType string
}

// MIME types of the produced artifacts.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEHTML = "text/html; charset=utf-8"
)

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	engine  string
	fontDir string
	timeout time.Duration
}

// defaultTimeout bounds a single PDF render when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithPDFEngine selects the PDF rendering strategy: EngineAuto, EngineChrome,
// or EngineBuiltin. Default is EngineAuto.
func WithPDFEngine(name string) Option {
	return func(e *Exporter) {
		e.cfg.engine = name
	}
}

// WithFontDir sets the directory searched for the Unicode font family used
// by the direct-draw PDF engine.
func WithFontDir(dir string) Option {
	return func(e *Exporter) {
		e.cfg.fontDir = dir
	}
}

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdexport: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

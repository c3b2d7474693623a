package mdexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdexport/internal/assets"
	"github.com/alnah/go-mdexport/internal/docx"
	"github.com/alnah/go-mdexport/internal/fileutil"
	"github.com/alnah/go-mdexport/internal/pdfengine"
	"github.com/alnah/go-mdexport/internal/pipeline"
	"github.com/alnah/go-mdexport/internal/rasterize"
)

// Exporter converts Markdown documents under a root directory into HTML,
// PDF, and DOCX artifacts. One Exporter serves concurrent exports; the
// underlying renderer is stateless and the Chrome engine isolates renders in
// separate pages.
type Exporter struct {
	root string
	cfg  exporterConfig

	renderer    *pipeline.Renderer
	substitutor *pipeline.MermaidSubstitutor

	chrome  pdfengine.Engine
	builtin pdfengine.Engine
}

// New creates an Exporter resolving document paths against root.
func New(root string, opts ...Option) *Exporter {
	e := &Exporter{
		root: root,
		cfg: exporterConfig{
			engine:  EngineAuto,
			timeout: defaultTimeout,
		},
		renderer:    pipeline.NewRenderer(),
		substitutor: &pipeline.MermaidSubstitutor{Rasterize: rasterize.SVGToPNG},
	}

	for _, opt := range opts {
		opt(e)
	}

	switch e.cfg.engine {
	case EngineBuiltin:
		e.builtin = pdfengine.NewDirectDrawEngine(e.cfg.fontDir)
	case EngineChrome:
		e.chrome = pdfengine.NewChromeEngine(e.cfg.timeout)
	default:
		// Auto: try Chrome first, keep the direct-draw engine as fallback.
		e.chrome = pdfengine.NewChromeEngine(e.cfg.timeout)
		e.builtin = pdfengine.NewDirectDrawEngine(e.cfg.fontDir)
	}

	return e
}

// Close releases engine resources. The Exporter must not be used afterwards.
func (e *Exporter) Close() error {
	var errs []error
	if e.chrome != nil {
		errs = append(errs, e.chrome.Close())
	}
	if e.builtin != nil {
		errs = append(errs, e.builtin.Close())
	}
	return errors.Join(errs...)
}

// ExportHTML renders the document at path as a standalone styled HTML page.
// Mermaid blocks render as vector images; local image references embed as
// data URIs so the page is self-contained.
func (e *Exporter) ExportHTML(ctx context.Context, path string, diagrams []Diagram) (*Artifact, error) {
	content, full, err := e.load(path)
	if err != nil {
		return nil, err
	}

	html, err := e.prepare(ctx, content, full, diagrams, ThemeStandard, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	return &Artifact{
		Data:        []byte(html),
		Filename:    fileutil.Stem(path) + ".html",
		ContentType: MIMEHTML,
	}, nil
}

// ExportPDF renders the document at path to PDF. Mermaid blocks render as
// raster images since PDF printing handles them more reliably than inline
// SVG. The compact theme keeps the printed layout dense.
func (e *Exporter) ExportPDF(ctx context.Context, path string, diagrams []Diagram) (*Artifact, error) {
	content, full, err := e.load(path)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.timeout)
	defer cancel()

	markdown := e.substitute(content, full, diagrams, true)

	html, err := e.render(ctx, markdown, fileutil.Stem(path), ThemeCompact)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	data, err := e.renderPDF(ctx, pdfengine.Document{HTML: html, Markdown: markdown})
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Data:        data,
		Filename:    fileutil.Stem(path) + ".pdf",
		ContentType: MIMEPDF,
	}, nil
}

// ExportDOCX renders the document at path to a Word document. The styled
// HTML is converted block by block; inline images are staged to a temporary
// directory removed before returning.
func (e *Exporter) ExportDOCX(ctx context.Context, path string, diagrams []Diagram) (*Artifact, error) {
	content, full, err := e.load(path)
	if err != nil {
		return nil, err
	}

	html, err := e.prepare(ctx, content, full, diagrams, ThemeStandard, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	stagingDir, err := os.MkdirTemp("", "mdexport-docx-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating staging dir: %v", ErrDocxGeneration, err)
	}
	defer func() { _ = os.RemoveAll(stagingDir) }()

	body := docx.StageDataURIs(extractBody(html), stagingDir)

	doc, err := docx.Convert(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocxGeneration, err)
	}

	doc.ApplyTableStyles()
	doc.TrimLeadingEmptyParagraphs()
	doc.FitImagesToPage()

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocxGeneration, err)
	}

	return &Artifact{
		Data:        buf.Bytes(),
		Filename:    fileutil.Stem(path) + ".docx",
		ContentType: MIMEDOCX,
	}, nil
}

// load resolves path against the root directory and reads the document.
func (e *Exporter) load(path string) (content, fullPath string, err error) {
	if strings.TrimSpace(path) == "" {
		return "", "", ErrNoPath
	}

	full := path
	if e.root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(e.root, path)
	}

	if !fileutil.FileExists(full) {
		return "", "", ErrDocumentNotFound
	}

	data, err := os.ReadFile(full) // #nosec G304 -- resolved against the configured root
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrReadDocument, err)
	}

	return string(data), full, nil
}

// substitute normalizes the Markdown, replaces mermaid blocks with supplied
// diagram images, and embeds local image references as data URIs.
func (e *Exporter) substitute(content, fullPath string, diagrams []Diagram, preferRaster bool) string {
	md := pipeline.NormalizeMarkdown(content)
	md = e.substitutor.Substitute(md, toPipelineDiagrams(diagrams), preferRaster)
	return pipeline.EmbedImages(md, filepath.Dir(fullPath))
}

// render converts prepared Markdown to a complete HTML document in the
// given theme.
func (e *Exporter) render(ctx context.Context, markdown, title string, theme Theme) (string, error) {
	style, err := assets.LoadStyle(string(theme))
	if err != nil {
		return "", err
	}
	return e.renderer.Render(ctx, markdown, title, style)
}

// prepare runs the shared substitute-then-render front half of a pipeline.
func (e *Exporter) prepare(ctx context.Context, content, fullPath string, diagrams []Diagram, theme Theme, preferRaster bool) (string, error) {
	md := e.substitute(content, fullPath, diagrams, preferRaster)
	return e.render(ctx, md, fileutil.Stem(fullPath), theme)
}

// renderPDF runs the configured engine. In auto mode a Chrome launch failure
// falls back to the direct-draw engine instead of failing the export.
func (e *Exporter) renderPDF(ctx context.Context, doc pdfengine.Document) ([]byte, error) {
	engine := e.chrome
	if engine == nil {
		engine = e.builtin
	}

	data, err := engine.Render(ctx, doc)
	if err == nil {
		return data, nil
	}

	if errors.Is(err, pdfengine.ErrUnavailable) {
		if e.cfg.engine == EngineAuto && engine == e.chrome {
			return e.renderBuiltinPDF(ctx, doc)
		}
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
}

func (e *Exporter) renderBuiltinPDF(ctx context.Context, doc pdfengine.Document) ([]byte, error) {
	data, err := e.builtin.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// toPipelineDiagrams converts the public diagram descriptors to the internal
// pipeline representation.
func toPipelineDiagrams(diagrams []Diagram) []pipeline.Diagram {
	if len(diagrams) == 0 {
		return nil
	}
	out := make([]pipeline.Diagram, len(diagrams))
	for i, d := range diagrams {
		out[i] = pipeline.Diagram{Index: d.Index, SVG: d.SVG, PNG: d.PNG}
	}
	return out
}

// extractBody returns the content between the <body> and </body> tags of a
// rendered document, or the input unchanged if either tag is missing.
func extractBody(html string) string {
	start := strings.Index(html, "<body>")
	end := strings.LastIndex(html, "</body>")
	if start == -1 || end == -1 || end < start {
		return html
	}
	return strings.TrimSpace(html[start+len("<body>") : end])
}

// Package mdexport converts Markdown documents into HTML, PDF, and DOCX
// artifacts.
//
// An Exporter resolves document paths against a root directory and runs one
// pipeline per format: the Markdown is normalized, mermaid code blocks are
// replaced with caller-supplied pre-rendered images, local image references
// are embedded inline, and the result is rendered through goldmark into a
// styled HTML document. HTML exports return that document directly; PDF
// exports print it with headless Chrome (or a browser-free direct-draw
// fallback); DOCX exports convert its body into a WordprocessingML package.
//
//	exp := mdexport.New("/srv/docs")
//	defer exp.Close()
//
//	art, err := exp.ExportPDF(ctx, "guide.md", diagrams)
//
// Exporters are safe for concurrent use.
package mdexport

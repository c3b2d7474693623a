// Package pdfengine provides the pluggable PDF rendering strategies behind
// the PDF exporter: headless Chrome printing the styled HTML document, and a
// browser-free direct-draw engine walking the Markdown with fixed layout
// heuristics. The two are interchangeable behind the Engine interface; the
// exporter picks one per its configuration and may fall back from Chrome to
// direct-draw when no browser is available.
package pdfengine

import (
	"context"
	"errors"
)

// Document is the render input. Each engine consumes the representation it
// understands: the Chrome engine prints the styled HTML, the direct-draw
// engine walks the post-substitution Markdown line by line.
type Document struct {
	HTML     string
	Markdown string
}

// Engine abstracts PDF rendering to allow different backends.
type Engine interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
	Close() error
}

// Sentinel errors for PDF rendering failures.
var (
	// ErrUnavailable indicates the engine's external capability (the
	// browser) could not be loaded at all; callers may fall back to
	// another engine.
	ErrUnavailable = errors.New("PDF engine unavailable")

	ErrPageCreate = errors.New("failed to create browser page")
	ErrPageLoad   = errors.New("failed to load page")
	ErrRender     = errors.New("PDF generation failed")
)

// A4 page geometry shared by both engines: 210x297mm with 15mm margins on
// all sides. Chrome takes inches, fpdf takes millimeters.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 0.59 // 15mm

	marginMM = 15.0
)

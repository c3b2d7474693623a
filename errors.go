package mdexport

import "errors"

// Sentinel errors for export operations.
var (
	ErrNoPath           = errors.New("No path provided")
	ErrDocumentNotFound = errors.New("File not found")
	ErrReadDocument     = errors.New("failed to read document")
	ErrRender           = errors.New("HTML rendering failed")
	ErrPDFGeneration    = errors.New("PDF generation failed")
	ErrDocxGeneration   = errors.New("DOCX generation failed")

	// ErrEngineUnavailable indicates a required external rendering capability
	// could not be loaded. The wrapped message names the capability and an
	// installation hint.
	ErrEngineUnavailable = errors.New("rendering engine unavailable")
)

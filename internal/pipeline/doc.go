// Package pipeline implements the document transformation stages applied to
// raw Markdown before format-specific rendering: line normalization, mermaid
// diagram substitution, local image embedding, and Markdown-to-HTML
// rendering with a theme stylesheet.
//
// All stages are pure functions of their inputs (no shared counters or
// caches), so they are safe to invoke from concurrent export requests.
package pipeline

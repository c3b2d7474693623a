package pipeline

import "regexp"

// mermaidBlockPattern matches fenced code blocks whose info-string is
// exactly "mermaid", including multi-line bodies, non-greedily.
var mermaidBlockPattern = regexp.MustCompile("(?s)```mermaid\\s*\n.*?```")

// mermaidAltText is the alt text emitted for substituted diagram images.
const mermaidAltText = "Mermaid Diagram"

// Diagram carries pre-rendered image data for one mermaid block, keyed by
// occurrence index. SVG and PNG are inline-encoded data URIs; either may be
// empty.
type Diagram struct {
	Index int
	SVG   string
	PNG   string
}

// RasterizeFunc converts an inline-encoded SVG data URI to an
// inline-encoded PNG data URI.
type RasterizeFunc func(svgDataURI string) (string, error)

// MermaidSubstitutor replaces fenced mermaid code blocks with pre-rendered
// images supplied by the caller.
type MermaidSubstitutor struct {
	// Rasterize converts an SVG data URI to PNG when a raster image is
	// preferred but none was supplied. Nil disables server-side conversion.
	Rasterize RasterizeFunc
}

// Substitute replaces the Nth mermaid block (zero-based, document order)
// with an image reference built from the diagram descriptor at index N.
// Blocks without a matching descriptor are left verbatim, so stale or
// incomplete descriptor sets degrade to unrendered code blocks instead of
// failing the export. The occurrence counter is local to one call, making
// Substitute reentrant.
//
// With preferRaster, the descriptor's PNG wins when supplied; otherwise the
// SVG is converted to PNG, and when conversion is unavailable or fails the
// SVG is emitted directly. Without preferRaster the SVG is always emitted,
// ignoring any raster alternative.
func (s *MermaidSubstitutor) Substitute(content string, diagrams []Diagram, preferRaster bool) string {
	if len(diagrams) == 0 {
		return content
	}

	byIndex := make(map[int]Diagram, len(diagrams))
	for _, d := range diagrams {
		byIndex[d.Index] = d
	}

	next := 0
	return mermaidBlockPattern.ReplaceAllStringFunc(content, func(block string) string {
		idx := next
		next++

		d, ok := byIndex[idx]
		if !ok {
			return block
		}

		uri := d.SVG
		if preferRaster {
			switch {
			case d.PNG != "":
				// Prefer the raster image rendered client-side.
				uri = d.PNG
			case s.Rasterize != nil && d.SVG != "":
				if png, err := s.Rasterize(d.SVG); err == nil {
					uri = png
				}
				// Conversion failure: fall back to the vector image.
			}
		}

		return "![" + mermaidAltText + "](" + uri + ")"
	})
}

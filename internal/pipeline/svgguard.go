package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// Goldmark sanitizes data: image destinations it cannot prove safe, and
// inline SVG is on the unsafe list. Rather than disabling sanitization for
// the whole document, SVG data URIs are swapped for placeholder URIs before
// rendering and restored in the HTML output afterwards.

// svgDataURIPattern matches an inline-encoded SVG data URI.
var svgDataURIPattern = regexp.MustCompile(`data:image/svg\+xml;base64,[A-Za-z0-9+/=]+`)

// svgPlaceholderScheme prefixes guarded destinations. The scheme passes the
// renderer's URL checks untouched.
const svgPlaceholderScheme = "svgref:"

// guardSVGURIs replaces every inline SVG data URI with a numbered
// placeholder and returns the originals in placeholder order.
func guardSVGURIs(content string) (string, []string) {
	var uris []string
	guarded := svgDataURIPattern.ReplaceAllStringFunc(content, func(uri string) string {
		uris = append(uris, uri)
		return fmt.Sprintf("%s%d", svgPlaceholderScheme, len(uris)-1)
	})
	return guarded, uris
}

// restoreSVGURIs puts the guarded data URIs back into the rendered HTML.
func restoreSVGURIs(html string, uris []string) string {
	for i, uri := range uris {
		placeholder := fmt.Sprintf(`"%s%d"`, svgPlaceholderScheme, i)
		html = strings.ReplaceAll(html, placeholder, `"`+uri+`"`)
	}
	return html
}

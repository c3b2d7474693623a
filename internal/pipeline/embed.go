package pipeline

import (
	"encoding/base64"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// imageRefPattern matches Markdown image syntax ![alt](path), where path may
// carry a trailing quoted title. The title is discarded on output.
var imageRefPattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)"\s]+)(?:\s+"[^"]*")?\)`)

// mimeByExtension maps image file extensions to MIME types for data URIs.
var mimeByExtension = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

// fallbackMIME is used for extensions outside the fixed mapping.
const fallbackMIME = "application/octet-stream"

// EmbedImages rewrites local image references into inline data URIs so the
// rendered document carries no dependency on relative file paths. Paths are
// URL-decoded and resolved against baseDir, the directory of the source
// document.
//
// Embedding is best-effort and never fails the document: references already
// using http(s):// or data: pass through unchanged, and so does any
// reference whose file is missing or unreadable. No network origin is ever
// dereferenced.
func EmbedImages(content string, baseDir string) string {
	return imageRefPattern.ReplaceAllStringFunc(content, func(ref string) string {
		m := imageRefPattern.FindStringSubmatch(ref)
		altText, srcPath := m[1], m[2]

		if strings.HasPrefix(srcPath, "http://") ||
			strings.HasPrefix(srcPath, "https://") ||
			strings.HasPrefix(srcPath, "data:") {
			return ref
		}

		// Percent-escapes (%20 for spaces, etc.) appear in paths produced by
		// Markdown editors; decode before touching the filesystem.
		decoded, err := url.PathUnescape(srcPath)
		if err != nil {
			decoded = srcPath
		}

		fullPath := filepath.Join(baseDir, decoded)
		data, err := os.ReadFile(fullPath) // #nosec G304 -- resolved against the document's own directory
		if err != nil {
			return ref
		}

		mimeType := mimeByExtension[strings.ToLower(filepath.Ext(fullPath))]
		if mimeType == "" {
			mimeType = fallbackMIME
		}

		encoded := base64.StdEncoding.EncodeToString(data)
		return "![" + altText + "](data:" + mimeType + ";base64," + encoded + ")"
	})
}

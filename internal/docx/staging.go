package docx

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
)

// dataImgPattern matches img elements whose src is an inline base64 data URI.
var dataImgPattern = regexp.MustCompile(`<img\s+[^>]*src=["']data:image/([^;]+);base64,([^"']+)["'][^>]*/?>`)

// stagingExtensions maps data URI image subtypes to staged file extensions.
var stagingExtensions = map[string]string{
	"png":     ".png",
	"jpeg":    ".jpg",
	"jpg":     ".jpg",
	"gif":     ".gif",
	"svg+xml": ".svg",
	"webp":    ".webp",
}

// StageDataURIs rewrites every inline image element in the HTML body to
// reference a file under dir, because the DOCX conversion step cannot
// consume inline-encoded data. File names derive from a truncated content
// hash, so identical images stage once and names never collide within one
// export. On any decode or write failure the original element is left
// unchanged.
//
// dir must be a per-export temporary directory; the caller owns its removal.
func StageDataURIs(body, dir string) string {
	return dataImgPattern.ReplaceAllStringFunc(body, func(el string) string {
		m := dataImgPattern.FindStringSubmatch(el)
		imgType, payload := m[1], m[2]

		ext, ok := stagingExtensions[imgType]
		if !ok {
			ext = ".png"
		}

		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return el
		}

		sum := sha256.Sum256(data)
		name := "img_" + hex.EncodeToString(sum[:])[:8] + ext
		path := filepath.Join(dir, name)

		if err := os.WriteFile(path, data, 0o600); err != nil {
			return el
		}

		return `<img src="` + path + `">`
	})
}

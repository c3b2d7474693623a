// Package rasterize converts inline-encoded SVG images to PNG. PDF and DOCX
// renderers handle raster images more reliably than SVG (embedded fonts in
// particular), so diagram substitution prefers PNG for those formats.
package rasterize

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// svgDataURIPrefix is the only accepted input encoding.
const svgDataURIPrefix = "data:image/svg+xml;base64,"

// pngDataURIPrefix prefixes the produced output.
const pngDataURIPrefix = "data:image/png;base64,"

// Sentinel errors for rasterization failures.
var (
	ErrNotSVGDataURI = errors.New("input is not a base64 SVG data URI")
	ErrDecodeSVG     = errors.New("failed to decode SVG payload")
	ErrRasterize     = errors.New("SVG rasterization failed")
)

// defaultSize is used when the SVG declares no usable viewbox.
const defaultSize = 512

// SVGToPNG converts an inline-encoded SVG data URI to an inline-encoded PNG
// data URI. It fails if the input does not carry the expected inline-SVG
// prefix or if the rasterizer rejects the bytes.
func SVGToPNG(svgDataURI string) (string, error) {
	if !bytes.HasPrefix([]byte(svgDataURI), []byte(svgDataURIPrefix)) {
		return "", ErrNotSVGDataURI
	}

	svgBytes, err := base64.StdEncoding.DecodeString(svgDataURI[len(svgDataURIPrefix):])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecodeSVG, err)
	}

	pngBytes, err := render(svgBytes)
	if err != nil {
		return "", err
	}

	return pngDataURIPrefix + base64.StdEncoding.EncodeToString(pngBytes), nil
}

// render rasterizes raw SVG bytes to PNG bytes at the SVG's intrinsic size.
func render(svgBytes []byte) (pngBytes []byte, err error) {
	// oksvg panics on some malformed path data; degrade to an error so a bad
	// diagram falls back to vector embedding instead of killing the request.
	defer func() {
		if r := recover(); r != nil {
			pngBytes, err = nil, fmt.Errorf("%w: %v", ErrRasterize, r)
		}
	}()

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterize, err)
	}

	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = defaultSize, defaultSize
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)

	icon.SetTarget(0, 0, float64(w), float64(h))
	icon.Draw(dasher, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encoding PNG: %v", ErrRasterize, err)
	}

	return buf.Bytes(), nil
}

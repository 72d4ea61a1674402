// Package image bounds uploaded images to the storefront's display sizes,
// replacing client-supplied dimensions with server-side re-encoding.
package image

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const (
	productMaxDim = 1200
	profileMaxDim = 500
	jpegQuality   = 85
)

// Resizer shrinks images to fit a bounding box, never enlarging.
type Resizer struct{}

func NewResizer() *Resizer {
	return &Resizer{}
}

// FitProduct bounds a catalog image to 1200x1200.
func (r *Resizer) FitProduct(data []byte, contentType string) ([]byte, error) {
	return fit(data, contentType, productMaxDim)
}

// FitProfile bounds an avatar to 500x500.
func (r *Resizer) FitProfile(data []byte, contentType string) ([]byte, error) {
	return fit(data, contentType, profileMaxDim)
}

func fit(data []byte, contentType string, maxDim int) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return encode(src, format, contentType)
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	return encode(dst, format, contentType)
}

func encode(img image.Image, format, contentType string) ([]byte, error) {
	var buf bytes.Buffer
	switch {
	case format == "png" || contentType == "image/png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	default:
		// JPEG for everything else, matching the upload formats the store accepts.
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	}
	return buf.Bytes(), nil
}

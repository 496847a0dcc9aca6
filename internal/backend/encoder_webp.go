//go:build cgo

package backend

import (
	"image"
	"io"

	"github.com/chai2010/webp"

	"faviconkit/internal/catalog"
)

// The WebP encoder wraps libwebp and only exists in cgo builds.
func init() {
	registerEncoder(catalog.WebP, encodeWebP)
}

func encodeWebP(w io.Writer, img image.Image, quality int) error {
	return webp.Encode(w, img, &webp.Options{Lossless: false, Quality: float32(quality)})
}

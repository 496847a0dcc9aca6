package backend

import (
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/disintegration/imaging"

	"faviconkit/internal/catalog"
)

type encodeFunc func(w io.Writer, img image.Image, quality int) error

var (
	encodersMu sync.RWMutex
	encoders   = map[catalog.Format]encodeFunc{
		catalog.PNG: encodePNG,
	}
)

func registerEncoder(format catalog.Format, fn encodeFunc) {
	encodersMu.Lock()
	encoders[format] = fn
	encodersMu.Unlock()
}

func encoderFor(format catalog.Format) (encodeFunc, bool) {
	encodersMu.RLock()
	defer encodersMu.RUnlock()
	fn, ok := encoders[format]
	return fn, ok
}

// encodePNG ignores quality; PNG is lossless.
func encodePNG(w io.Writer, img image.Image, _ int) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
}

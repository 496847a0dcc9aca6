package favicon

import (
	"errors"
	"fmt"

	"faviconkit/internal/backend"
)

var (
	ErrSourceNotFound = errors.New("source image not found")
	ErrInvalidImage   = errors.New("invalid image file")
	ErrImageTooSmall  = errors.New("source image too small")
	ErrInvalidQuality = errors.New("quality must be between 1 and 100")

	ErrInvalidGenerationMethod = backend.ErrInvalidGenerationMethod
	ErrBackendUnavailable      = backend.ErrBackendUnavailable
	ErrEncoderUnsupported      = backend.ErrEncoderUnsupported
	ErrUnsupportedDimension    = backend.ErrUnsupportedDimension
	ErrEncodeFailed            = backend.ErrEncodeFailed
)

// ImageTooSmallError reports a source whose short side is below the configured minimum.
type ImageTooSmallError struct {
	Required int
	Width    int
	Height   int
}

func (e *ImageTooSmallError) Error() string {
	return fmt.Sprintf("source image too small: minimum size is %dx%d pixels, current size is %dx%d; provide a larger image to avoid upscaling",
		e.Required, e.Required, e.Width, e.Height)
}

func (e *ImageTooSmallError) Is(target error) bool {
	return target == ErrImageTooSmall
}

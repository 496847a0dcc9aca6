package backend

import "errors"

var (
	ErrInvalidGenerationMethod = errors.New("invalid generation method")
	ErrBackendUnavailable      = errors.New("image backend unavailable")
	ErrEncoderUnsupported      = errors.New("image backend cannot encode output format")
	ErrUnsupportedDimension    = errors.New("dimension would require upscaling")
	ErrDecodeFailed            = errors.New("image decode failed")
	ErrEncodeFailed            = errors.New("image encode failed")
)

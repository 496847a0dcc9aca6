package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the encoding of generated raster icons.
type Format string

const (
	WebP Format = "webp"
	PNG  Format = "png"
)

const DefaultFormat = WebP

func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "webp":
		return WebP, nil
	case "png":
		return PNG, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", raw)
	}
}

func (f Format) Extension() string {
	return string(f)
}

func (f Format) MIMEType() string {
	return "image/" + string(f)
}

// MIMETypeForPath guesses an icon MIME type from a file extension, defaulting to PNG.
func MIMETypeForPath(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "webp":
		return "image/webp"
	case "ico":
		return "image/x-icon"
	case "svg":
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

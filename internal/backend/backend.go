// Package backend abstracts the image engines that crop, resize and encode icons.
//
// Two engines exist: Bitmap decodes and encodes in-process, CommandLine drives an
// external ImageMagick binary. Both normalize a source to its largest centered
// square and refuse to upscale.
package backend

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"faviconkit/internal/catalog"
	"faviconkit/internal/logging"
)

const (
	MethodBitmap = "bitmap"
	MethodCLI    = "cli"

	DefaultToolPath = "magick"
	DefaultTimeout  = 30 * time.Second
	DefaultQuality  = 90
)

type Backend interface {
	Name() string
	// Available reports why the backend cannot produce the given format, or nil.
	Available(ctx context.Context, format catalog.Format) error
	Prepare(ctx context.Context, sourcePath string) (*Prepared, error)
	Resize(ctx context.Context, prepared *Prepared, dim int, enc Encoding) ([]byte, error)
}

type Encoding struct {
	Format  catalog.Format
	Quality int
}

// Prepared is a source image normalized to a square region.
type Prepared struct {
	Source string
	Width  int
	Height int
	// Crop is the square region of the source, in source pixel coordinates.
	Crop image.Rectangle

	img image.Image
}

func (p *Prepared) Side() int {
	if p == nil {
		return 0
	}
	return p.Crop.Dx()
}

type Options struct {
	ToolPath string
	Timeout  time.Duration
	Filter   string
	Logger   *logging.Logger
}

// SquareCrop returns the largest centered square inside a width x height image.
// The offset is floor((long-short)/2) along the long axis only.
func SquareCrop(width, height int) image.Rectangle {
	if width <= 0 || height <= 0 {
		return image.Rectangle{}
	}
	if width == height {
		return image.Rect(0, 0, width, height)
	}
	if width > height {
		offset := (width - height) / 2
		return image.Rect(offset, 0, offset+height, height)
	}
	offset := (height - width) / 2
	return image.Rect(0, offset, width, offset+width)
}

// ResolveMethod normalizes a generation method name, accepting legacy aliases.
func ResolveMethod(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MethodBitmap, "gd":
		return MethodBitmap, nil
	case MethodCLI, "imagemagick", "imagick":
		return MethodCLI, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGenerationMethod, name)
	}
}

func New(method string, opts Options) (Backend, error) {
	if opts.Logger == nil {
		panic("backend.New: logger must not be nil")
	}
	resolved, err := ResolveMethod(method)
	if err != nil {
		return nil, err
	}
	switch resolved {
	case MethodCLI:
		return NewCommandLine(opts), nil
	default:
		return NewBitmap(opts)
	}
}

func checkDimension(p *Prepared, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("%w: invalid dimension %d", ErrUnsupportedDimension, dim)
	}
	if dim > p.Side() {
		return fmt.Errorf("%w: %dx%d from %dx%d source", ErrUnsupportedDimension, dim, dim, p.Width, p.Height)
	}
	return nil
}

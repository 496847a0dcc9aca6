package backend

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"faviconkit/internal/catalog"
	"faviconkit/internal/logging"
)

// Bitmap decodes, crops and encodes in-process.
type Bitmap struct {
	filter imaging.ResampleFilter
	logger *logging.Logger
}

func NewBitmap(opts Options) (*Bitmap, error) {
	filter, err := parseFilter(opts.Filter)
	if err != nil {
		return nil, err
	}
	return &Bitmap{filter: filter, logger: opts.Logger}, nil
}

func (b *Bitmap) Name() string {
	return MethodBitmap
}

func (b *Bitmap) Available(_ context.Context, format catalog.Format) error {
	if _, ok := encoderFor(format); !ok {
		return fmt.Errorf("%w: %s encoder not compiled in (rebuild with cgo or use the cli method)", ErrEncoderUnsupported, format)
	}
	return nil
}

func (b *Bitmap) Prepare(ctx context.Context, sourcePath string) (*Prepared, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := imaging.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, sourcePath, err)
	}
	bounds := src.Bounds()
	crop := SquareCrop(bounds.Dx(), bounds.Dy())
	if crop.Empty() {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrDecodeFailed, sourcePath)
	}

	// imaging.Crop returns NRGBA, so alpha survives and nothing is padded.
	var square image.Image = src
	if bounds.Dx() != bounds.Dy() {
		square = imaging.Crop(src, crop.Add(bounds.Min))
	}
	b.logger.Debug("normalized source image",
		logging.Field("source", sourcePath),
		logging.Field("size", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy())),
		logging.Field("crop", crop.String()),
	)
	return &Prepared{
		Source: sourcePath,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Crop:   crop,
		img:    square,
	}, nil
}

func (b *Bitmap) Resize(ctx context.Context, prepared *Prepared, dim int, enc Encoding) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if prepared == nil || prepared.img == nil {
		return nil, fmt.Errorf("%w: image was not prepared by the bitmap backend", ErrEncodeFailed)
	}
	if err := checkDimension(prepared, dim); err != nil {
		return nil, err
	}
	encode, ok := encoderFor(enc.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEncoderUnsupported, enc.Format)
	}

	resized := imaging.Resize(prepared.img, dim, dim, b.filter)
	var buf bytes.Buffer
	if err := encode(&buf, resized, enc.Quality); err != nil {
		return nil, fmt.Errorf("%w: %s %dx%d: %w", ErrEncodeFailed, enc.Format, dim, dim, err)
	}
	return buf.Bytes(), nil
}

func parseFilter(name string) (imaging.ResampleFilter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lanczos":
		return imaging.Lanczos, nil
	case "catmullrom":
		return imaging.CatmullRom, nil
	case "linear":
		return imaging.Linear, nil
	case "box":
		return imaging.Box, nil
	case "nearest":
		return imaging.NearestNeighbor, nil
	default:
		return imaging.ResampleFilter{}, fmt.Errorf("unknown resample filter %q", name)
	}
}

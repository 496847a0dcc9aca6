package backend

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"faviconkit/internal/catalog"
	"faviconkit/internal/testutil"
)

func newTestBitmap(t *testing.T) *Bitmap {
	t.Helper()
	b, err := NewBitmap(Options{})
	if err != nil {
		t.Fatalf("NewBitmap() error = %v", err)
	}
	return b
}

func TestBitmapPrepareCropsCenteredSquare(t *testing.T) {
	dir := t.TempDir()
	source := testutil.WriteBanded(t, dir, 1024, 768)

	prepared, err := newTestBitmap(t).Prepare(context.Background(), source)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if got, want := prepared.Crop, image.Rect(128, 0, 896, 768); got != want {
		t.Fatalf("Crop = %v, want %v", got, want)
	}
	if prepared.Side() != 768 {
		t.Fatalf("Side() = %d, want 768", prepared.Side())
	}
	bounds := prepared.img.Bounds()
	if bounds.Dx() != 768 || bounds.Dy() != 768 {
		t.Fatalf("normalized bounds = %v, want 768x768", bounds)
	}
	for _, pt := range []image.Point{bounds.Min, {X: bounds.Max.X - 1, Y: bounds.Max.Y - 1}, {X: 384, Y: 10}} {
		got := color.NRGBAModel.Convert(prepared.img.At(pt.X, pt.Y)).(color.NRGBA)
		if got != testutil.Green {
			t.Fatalf("pixel %v = %v, want green (margins must be cropped away)", pt, got)
		}
	}
}

func TestBitmapPreparePortrait(t *testing.T) {
	dir := t.TempDir()
	source := testutil.WriteBanded(t, dir, 600, 900)

	prepared, err := newTestBitmap(t).Prepare(context.Background(), source)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if got, want := prepared.Crop, image.Rect(0, 150, 600, 750); got != want {
		t.Fatalf("Crop = %v, want %v", got, want)
	}
}

func TestBitmapPrepareRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteBanded(t, dir, 4, 4)
	// Overwrite with bytes that no registered decoder accepts.
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	if _, err := newTestBitmap(t).Prepare(context.Background(), path); !errors.Is(err, ErrDecodeFailed) {
		t.Fatalf("Prepare() error = %v, want ErrDecodeFailed", err)
	}
}

func TestBitmapResizePNG(t *testing.T) {
	dir := t.TempDir()
	source := testutil.WriteBanded(t, dir, 1024, 768)
	b := newTestBitmap(t)

	prepared, err := b.Prepare(context.Background(), source)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	data, err := b.Resize(context.Background(), prepared, 48, Encoding{Format: catalog.PNG, Quality: 90})
	if err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 48 || img.Bounds().Dy() != 48 {
		t.Fatalf("output bounds = %v, want 48x48", img.Bounds())
	}
	got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	if got != testutil.Green {
		t.Fatalf("corner pixel = %v, want green", got)
	}
}

func TestBitmapResizePreservesAlpha(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	source := testutil.WriteImage(t, dir, "transparent.png", src)
	b := newTestBitmap(t)

	prepared, err := b.Prepare(context.Background(), source)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	data, err := b.Resize(context.Background(), prepared, 16, Encoding{Format: catalog.PNG})
	if err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if _, _, _, a := img.At(8, 8).RGBA(); a != 0 {
		t.Fatalf("alpha = %d, want fully transparent", a)
	}
}

func TestBitmapResizeRefusesUpscale(t *testing.T) {
	dir := t.TempDir()
	source := testutil.WriteBanded(t, dir, 200, 100)
	b := newTestBitmap(t)

	prepared, err := b.Prepare(context.Background(), source)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	_, err = b.Resize(context.Background(), prepared, 101, Encoding{Format: catalog.PNG})
	if !errors.Is(err, ErrUnsupportedDimension) {
		t.Fatalf("Resize(101) error = %v, want ErrUnsupportedDimension", err)
	}
	if _, err := b.Resize(context.Background(), prepared, 100, Encoding{Format: catalog.PNG}); err != nil {
		t.Fatalf("Resize(100) error = %v", err)
	}
}

func TestBitmapAvailableReflectsEncoders(t *testing.T) {
	b := newTestBitmap(t)
	if err := b.Available(context.Background(), catalog.PNG); err != nil {
		t.Fatalf("Available(png) error = %v", err)
	}
	_, hasWebP := encoderFor(catalog.WebP)
	err := b.Available(context.Background(), catalog.WebP)
	if hasWebP && err != nil {
		t.Fatalf("Available(webp) error = %v with encoder registered", err)
	}
	if !hasWebP && !errors.Is(err, ErrEncoderUnsupported) {
		t.Fatalf("Available(webp) error = %v, want ErrEncoderUnsupported", err)
	}
	if err := b.Available(context.Background(), catalog.Format("avif")); !errors.Is(err, ErrEncoderUnsupported) {
		t.Fatalf("Available(avif) error = %v, want ErrEncoderUnsupported", err)
	}
}

func TestBitmapResizeWebP(t *testing.T) {
	if _, ok := encoderFor(catalog.WebP); !ok {
		t.Skip("webp encoder requires cgo")
	}
	dir := t.TempDir()
	source := testutil.WriteBanded(t, dir, 512, 512)
	b := newTestBitmap(t)

	prepared, err := b.Prepare(context.Background(), source)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	data, err := b.Resize(context.Background(), prepared, 32, Encoding{Format: catalog.WebP, Quality: 80})
	if err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if format != "webp" || cfg.Width != 32 || cfg.Height != 32 {
		t.Fatalf("output = %s %dx%d, want webp 32x32", format, cfg.Width, cfg.Height)
	}
}

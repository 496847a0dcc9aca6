// Package testutil provides fixtures shared by faviconkit package tests.
package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/disintegration/imaging"
)

var (
	Red   = color.NRGBA{R: 0xFF, A: 0xFF}
	Green = color.NRGBA{G: 0xFF, A: 0xFF}
	Blue  = color.NRGBA{B: 0xFF, A: 0xFF}
)

// Banded returns a width x height image whose centered square is green and whose
// remaining margins are red (leading) and blue (trailing) along the long axis.
func Banded(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	side := min(width, height)
	offset := (max(width, height) - side) / 2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pos := x
			if height > width {
				pos = y
			}
			switch {
			case pos < offset:
				img.SetNRGBA(x, y, Red)
			case pos >= offset+side:
				img.SetNRGBA(x, y, Blue)
			default:
				img.SetNRGBA(x, y, Green)
			}
		}
	}
	return img
}

// WriteImage saves img under dir; the format follows the file extension.
func WriteImage(t testing.TB, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save fixture %s: %v", name, err)
	}
	return path
}

// WriteBanded writes a Banded PNG fixture and returns its path.
func WriteBanded(t testing.TB, dir string, width, height int) string {
	t.Helper()
	return WriteImage(t, dir, fmt.Sprintf("source-%dx%d.png", width, height), Banded(width, height))
}

func EncodePNG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// FakeMagick describes a shell script standing in for the ImageMagick binary.
type FakeMagick struct {
	// Dimensions is printed for identify calls ending in "info:".
	Dimensions string
	// Output is the file streamed to stdout for conversions.
	Output string
	// FailOn makes conversions whose arguments contain this text exit 1.
	FailOn string
	// Delegates is printed on the -version "Delegates" line.
	Delegates string
	// Sleep delays conversions, in seconds.
	Sleep int
	// BrokenVersion makes -version exit 1.
	BrokenVersion bool
}

// WriteFakeMagick writes an executable script and returns its path. Tests using it
// are skipped on Windows.
func WriteFakeMagick(t testing.TB, dir string, fake FakeMagick) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake image tool requires a POSIX shell")
	}
	if fake.Delegates == "" {
		fake.Delegates = "png webp zlib"
	}
	versionExit := 0
	if fake.BrokenVersion {
		versionExit = 1
	}
	failOn := fake.FailOn
	if failOn == "" {
		failOn = "__fake_magick_never_fails__"
	}
	script := fmt.Sprintf(`#!/bin/sh
if [ "$1" = "-version" ]; then
  printf 'Version: ImageMagick 7.1.1-0 Q16 x86_64\nDelegates (built-in): %s\n'
  exit %d
fi
last=""
for arg in "$@"; do last="$arg"; done
if [ "$last" = "info:" ]; then
  echo "%s"
  exit 0
fi
case "$*" in
  *'%s'*) echo "convert: unable to write image" >&2; exit 1 ;;
esac
if [ %d -gt 0 ]; then sleep %d; fi
cat '%s'
`, fake.Delegates, versionExit, fake.Dimensions, failOn, fake.Sleep, fake.Sleep, fake.Output)

	path := filepath.Join(dir, "magick")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake magick: %v", err)
	}
	return path
}

package backend

import (
	"errors"
	"image"
	"testing"

	"faviconkit/internal/logging"
)

func TestSquareCrop(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          image.Rectangle
	}{
		{name: "landscape", width: 1024, height: 768, want: image.Rect(128, 0, 896, 768)},
		{name: "portrait", width: 768, height: 1024, want: image.Rect(0, 128, 768, 896)},
		{name: "square", width: 512, height: 512, want: image.Rect(0, 0, 512, 512)},
		{name: "odd difference floors", width: 1025, height: 768, want: image.Rect(128, 0, 896, 768)},
		{name: "empty", width: 0, height: 10, want: image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SquareCrop(tt.width, tt.height); got != tt.want {
				t.Fatalf("SquareCrop(%d, %d) = %v, want %v", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestResolveMethod(t *testing.T) {
	tests := map[string]string{
		"":            MethodBitmap,
		"bitmap":      MethodBitmap,
		"GD":          MethodBitmap,
		"cli":         MethodCLI,
		"imagemagick": MethodCLI,
		"imagick":     MethodCLI,
	}
	for input, want := range tests {
		got, err := ResolveMethod(input)
		if err != nil {
			t.Fatalf("ResolveMethod(%q) error = %v", input, err)
		}
		if got != want {
			t.Fatalf("ResolveMethod(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := ResolveMethod("vips"); !errors.Is(err, ErrInvalidGenerationMethod) {
		t.Fatalf("ResolveMethod(vips) error = %v, want ErrInvalidGenerationMethod", err)
	}
}

func TestNewSelectsVariant(t *testing.T) {
	logger := logging.New(false)
	logger.SetTerminalOutputEnabled(false)

	b, err := New("gd", Options{Logger: logger})
	if err != nil {
		t.Fatalf("New(gd) error = %v", err)
	}
	if _, ok := b.(*Bitmap); !ok {
		t.Fatalf("New(gd) = %T, want *Bitmap", b)
	}

	b, err = New("imagemagick", Options{Logger: logger, ToolPath: "convert"})
	if err != nil {
		t.Fatalf("New(imagemagick) error = %v", err)
	}
	cli, ok := b.(*CommandLine)
	if !ok {
		t.Fatalf("New(imagemagick) = %T, want *CommandLine", b)
	}
	if cli.Tool() != "convert" {
		t.Fatalf("Tool() = %q, want convert", cli.Tool())
	}

	if _, err := New("bitmap", Options{Logger: logger, Filter: "sinc"}); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}

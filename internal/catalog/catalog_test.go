package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		family Family
		dim    Dimension
		format Format
		want   string
	}{
		{Favicon, 32, WebP, "favicon-32x32.webp"},
		{AppleTouch, 180, WebP, "apple-touch-icon-180x180.webp"},
		{Android, 192, WebP, "android-chrome-192x192.webp"},
		{MSTile, 150, WebP, "mstile-150x150.webp"},
		{Favicon, 16, PNG, "favicon-16x16.png"},
		{Family("unknown"), 16, PNG, ""},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Filename(tt.family, tt.dim, tt.format); got != tt.want {
				t.Fatalf("Filename(%q, %v, %q) = %q, want %q", tt.family, tt.dim, tt.format, got, tt.want)
			}
		})
	}
}

func TestTargetsKeepsDeclarationOrder(t *testing.T) {
	got := []string{}
	for _, target := range Targets([]Family{Android, Favicon}, WebP) {
		got = append(got, target.Filename)
	}
	want := []string{
		"android-chrome-36x36.webp",
		"android-chrome-48x48.webp",
		"android-chrome-72x72.webp",
		"android-chrome-96x96.webp",
		"android-chrome-144x144.webp",
		"android-chrome-192x192.webp",
		"android-chrome-512x512.webp",
		"favicon-16x16.webp",
		"favicon-32x32.webp",
		"favicon-48x48.webp",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Targets() mismatch (-want +got):\n%s", diff)
	}
}

func TestTargetsIgnoresUnknownFamily(t *testing.T) {
	if got := Targets([]Family{"bogus"}, WebP); len(got) != 0 {
		t.Fatalf("Targets(bogus) = %v, want empty", got)
	}
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		raw     string
		want    Dimension
		wantErr bool
	}{
		{raw: "180x180", want: 180},
		{raw: " 16X16 ", want: 16},
		{raw: "16x32", wantErr: true},
		{raw: "0x0", wantErr: true},
		{raw: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDimension(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDimension(%q) expected error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDimension(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("ParseDimension(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseFamily(t *testing.T) {
	if got, err := ParseFamily("Apple-Touch"); err != nil || got != AppleTouch {
		t.Fatalf("ParseFamily(Apple-Touch) = %q, %v", got, err)
	}
	if _, err := ParseFamily("windows"); err == nil {
		t.Fatalf("expected error for unknown family")
	}
}

func TestLookup(t *testing.T) {
	target, ok := Lookup("apple-touch-icon-167x167.png", PNG)
	if !ok {
		t.Fatalf("Lookup() did not find apple touch icon")
	}
	if target.Family != AppleTouch || target.Dimension != 167 {
		t.Fatalf("Lookup() = %+v", target)
	}
	if _, ok := Lookup("apple-touch-icon-167x167.png", WebP); ok {
		t.Fatalf("Lookup() matched a filename with the wrong extension")
	}
}

func TestMIMETypeForPath(t *testing.T) {
	tests := map[string]string{
		"/icons/favicon-32x32.webp": "image/webp",
		"/icons/favicon-32x32.PNG":  "image/png",
		"/favicon.ico":              "image/x-icon",
		"/icons/noext":              "image/png",
	}
	for path, want := range tests {
		if got := MIMETypeForPath(path); got != want {
			t.Fatalf("MIMETypeForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

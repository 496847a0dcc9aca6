package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"

	"faviconkit/internal/favicon"
)

func sampleResult() *favicon.Result {
	return &favicon.Result{
		Written: []favicon.File{
			{Filename: "favicon-16x16.webp", Bytes: 412},
			{Filename: "android-chrome-192x192.webp", Bytes: 12800},
		},
		Skipped: []favicon.File{
			{Filename: "favicon-32x32.webp", Reason: favicon.SkipExists},
			{Filename: "android-chrome-512x512.webp", Reason: favicon.SkipUpscale},
		},
		Failed: []favicon.File{
			{Filename: "mstile-150x150.webp", Err: errors.New("image encode failed: magick exited 1")},
		},
	}
}

func TestRenderPlain(t *testing.T) {
	got := Render(sampleResult(), Options{})
	want := strings.Join([]string{
		"STATUS   FILE                          SIZE  DETAIL",
		"written  favicon-16x16.webp           412 B",
		"written  android-chrome-192x192.webp  13 kB",
		"skipped  favicon-32x32.webp               -  already exists",
		"skipped  android-chrome-512x512.webp      -  source too small, would require upscaling",
		"failed   mstile-150x150.webp              -  image encode failed: magick exited 1",
		"2 written, 2 skipped, 1 failed",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderColorKeepsLayout(t *testing.T) {
	plain := Render(sampleResult(), Options{})
	colored := Render(sampleResult(), Options{Color: true})
	if diff := cmp.Diff(plain, ansi.Strip(colored)); diff != "" {
		t.Fatalf("colored layout differs (-plain +stripped):\n%s", diff)
	}
}

func TestRenderTruncatesReason(t *testing.T) {
	result := &favicon.Result{Failed: []favicon.File{{Filename: "a.webp", Err: errors.New(strings.Repeat("x", 100))}}}
	got := Render(result, Options{ReasonWidth: 10})
	if !strings.Contains(got, "xxxxxxxxx…\n") {
		t.Fatalf("Render() did not truncate reason:\n%s", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	want := "STATUS  FILE  SIZE  DETAIL\n0 written, 0 skipped, 0 failed\n"
	if got := Render(nil, Options{}); got != want {
		t.Fatalf("Render(nil) = %q, want %q", got, want)
	}
}

func TestTruncateDisplayWidth(t *testing.T) {
	tests := []struct {
		value string
		width int
		want  string
	}{
		{value: "short", width: 10, want: "short"},
		{value: "abcdef", width: 4, want: "abc…"},
		{value: "abcdef", width: 1, want: "…"},
		{value: "abcdef", width: 0, want: ""},
	}
	for _, tt := range tests {
		if got := truncateDisplayWidth(tt.value, tt.width); got != tt.want {
			t.Fatalf("truncateDisplayWidth(%q, %d) = %q, want %q", tt.value, tt.width, got, tt.want)
		}
	}
}

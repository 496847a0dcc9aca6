package favicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"faviconkit/internal/catalog"
)

func TestSkipSet(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"favicon-16x16.webp", "favicon-16x16.png", "mstile-150x150.webp", "android-chrome-192x192.webp"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	got := SkipSet(dir, []catalog.Family{catalog.Favicon, catalog.MSTile}, catalog.WebP)
	want := map[string]struct{}{
		"favicon-16x16.webp":  {},
		"mstile-150x150.webp": {},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("SkipSet() mismatch (-want +got):\n%s", diff)
	}

	if got := SkipSet(filepath.Join(dir, "missing"), catalog.Families, catalog.WebP); len(got) != 0 {
		t.Fatalf("SkipSet() on missing dir = %v, want empty", got)
	}
}

package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"faviconkit/internal/config"
	"faviconkit/internal/favicon"
)

func TestBuildOnlyListsRegisteredAndroidSizes(t *testing.T) {
	registry := favicon.NewRegistry()
	registry.SetAndroidIcon(192, "/icons/android-chrome-192x192.webp")
	registry.SetPNGIcon(32, "/icons/favicon-32x32.webp")

	m := Build(config.Default(), Fields{}, registry.Snapshot())
	want := []Icon{{Src: "/icons/android-chrome-192x192.webp", Sizes: "192x192", Type: "image/webp"}}
	if diff := cmp.Diff(want, m.Icons); diff != "" {
		t.Fatalf("Icons mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildIconsFollowCatalogOrder(t *testing.T) {
	registry := favicon.NewRegistry()
	registry.SetAndroidIcon(512, "/a/512.png")
	registry.SetAndroidIcon(36, "/a/36.png")
	registry.SetAndroidIcon(144, "/a/144.png")

	m := Build(config.Default(), Fields{}, registry.Snapshot())
	var sizes []string
	for _, icon := range m.Icons {
		sizes = append(sizes, icon.Sizes)
		if icon.Type != "image/png" {
			t.Fatalf("icon %s type = %q, want image/png", icon.Src, icon.Type)
		}
	}
	if diff := cmp.Diff([]string{"36x36", "144x144", "512x512"}, sizes); diff != "" {
		t.Fatalf("sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPrecedence(t *testing.T) {
	cfg := config.Default()
	cfg.AppName = "Config Name"
	cfg.AppShortName = "CN"
	cfg.Manifest = config.ManifestConfig{StartURL: "/home", Lang: "en-US"}

	registry := favicon.NewRegistry()
	registry.SetThemeColor("#4F46E5")

	m := Build(cfg, Fields{ShortName: "Caller", Display: "fullscreen"}, registry.Snapshot())
	want := Manifest{
		Name:            "Config Name",
		ShortName:       "Caller",
		ThemeColor:      "#4F46E5",
		BackgroundColor: DefaultBackgroundColor,
		Display:         "fullscreen",
		Orientation:     DefaultOrientation,
		StartURL:        "/home",
		Lang:            "en-US",
		Icons:           []Icon{},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDefaults(t *testing.T) {
	m := Build(config.Config{}, Fields{}, favicon.NewRegistry().Snapshot())
	if m.Name != "My App" || m.ShortName != "App" || m.StartURL != "/" || m.Display != "standalone" || m.Orientation != "portrait" {
		t.Fatalf("Build() defaults = %+v", m)
	}
	if m.Icons == nil {
		t.Fatalf("Icons is nil, want empty list")
	}
}

func TestEncodeKeepsSlashesAndIndents(t *testing.T) {
	m := Manifest{
		Name:  "Tom & Jerry",
		Icons: []Icon{{Src: "https://cdn.example.com/icons/a.webp", Sizes: "192x192", Type: "image/webp"}},
	}
	payload, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	text := string(payload)
	for _, want := range []string{
		`"src": "https://cdn.example.com/icons/a.webp"`,
		`"name": "Tom & Jerry"`,
		"\n    \"short_name\"",
		`"icons": [`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("encoded manifest missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, `\/`) || strings.Contains(text, `\u0026`) {
		t.Fatalf("encoded manifest escapes characters:\n%s", text)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "public", Filename)
	m := Build(config.Default(), Fields{Name: "Written"}, favicon.NewRegistry().Snapshot())
	if err := Write(path, m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := Write(path, m); err != nil {
		t.Fatalf("second Write() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var decoded Manifest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("manifest is not JSON: %v", err)
	}
	if diff := cmp.Diff(m, decoded); diff != "" {
		t.Fatalf("decoded manifest mismatch (-want +got):\n%s", diff)
	}
}

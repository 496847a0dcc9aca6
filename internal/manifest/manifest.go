// Package manifest builds the web app manifest that references Android icons.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"faviconkit/internal/catalog"
	"faviconkit/internal/config"
	"faviconkit/internal/favicon"
)

const (
	DefaultName            = "My App"
	DefaultShortName       = "App"
	DefaultThemeColor      = "#ffffff"
	DefaultBackgroundColor = "#ffffff"
	DefaultDisplay         = "standalone"
	DefaultOrientation     = "portrait"
	DefaultStartURL        = "/"

	// Filename is the conventional manifest name written next to the icons.
	Filename = "manifest.json"
)

type Icon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

type Manifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	Description     string `json:"description,omitempty"`
	ThemeColor      string `json:"theme_color"`
	BackgroundColor string `json:"background_color"`
	Display         string `json:"display"`
	Orientation     string `json:"orientation"`
	StartURL        string `json:"start_url"`
	Scope           string `json:"scope,omitempty"`
	ID              string `json:"id,omitempty"`
	Lang            string `json:"lang,omitempty"`
	Dir             string `json:"dir,omitempty"`
	Icons           []Icon `json:"icons"`
}

// Fields are caller overrides; empty values keep the configured or built-in value.
type Fields = config.ManifestConfig

// Build merges built-in defaults, cfg and fields, then lists every Android icon
// size present in snap in catalog order. Sizes absent from snap are left out.
func Build(cfg config.Config, fields Fields, snap favicon.Snapshot) Manifest {
	m := Manifest{
		Name:            DefaultName,
		ShortName:       DefaultShortName,
		ThemeColor:      DefaultThemeColor,
		BackgroundColor: DefaultBackgroundColor,
		Display:         DefaultDisplay,
		Orientation:     DefaultOrientation,
		StartURL:        DefaultStartURL,
		Icons:           []Icon{},
	}
	override(&m.Name, cfg.AppName)
	override(&m.ShortName, cfg.AppShortName)
	override(&m.ThemeColor, snap.ThemeColor)
	apply(&m, cfg.Manifest)
	apply(&m, fields)

	for _, size := range catalog.Sizes(catalog.Android) {
		path, ok := snap.AndroidIcon(size)
		if !ok {
			continue
		}
		m.Icons = append(m.Icons, Icon{
			Src:   path,
			Sizes: size.String(),
			Type:  catalog.MIMETypeForPath(path),
		})
	}
	return m
}

func apply(m *Manifest, f Fields) {
	override(&m.Name, f.Name)
	override(&m.ShortName, f.ShortName)
	override(&m.Description, f.Description)
	override(&m.ThemeColor, f.ThemeColor)
	override(&m.BackgroundColor, f.BackgroundColor)
	override(&m.Display, f.Display)
	override(&m.Orientation, f.Orientation)
	override(&m.StartURL, f.StartURL)
	override(&m.Scope, f.Scope)
	override(&m.ID, f.ID)
	override(&m.Lang, f.Lang)
	override(&m.Dir, f.Dir)
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// Encode writes m as indented JSON without escaping slashes or HTML characters.
func Encode(w io.Writer, m Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(m)
}

func Marshal(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write persists m at path, replacing any previous manifest.
func Write(path string, m Manifest) error {
	payload, err := Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

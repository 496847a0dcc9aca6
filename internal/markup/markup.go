// Package markup renders the <link> and <meta> tags for a registry snapshot.
package markup

import (
	"fmt"
	"html"
	"strings"

	"faviconkit/internal/catalog"
	"faviconkit/internal/config"
	"faviconkit/internal/favicon"
)

type Options struct {
	AppName             string
	MobileWebAppCapable bool
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{AppName: cfg.AppName, MobileWebAppCapable: cfg.MobileWebAppCapable}
}

// Render returns one tag per line. Android icons are referenced by the manifest
// and never appear here.
func Render(snap favicon.Snapshot, opts Options) string {
	var out []string
	add := func(format string, args ...any) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	if snap.Favicon != "" {
		href := esc(snap.Favicon)
		add(`<link rel="icon" href="%s" type="image/x-icon">`, href)
		add(`<link rel="shortcut icon" href="%s" type="image/x-icon">`, href)
	}
	for _, icon := range snap.PNG {
		add(`<link rel="icon" type="%s" sizes="%s" href="%s">`,
			catalog.MIMETypeForPath(icon.Path), icon.Size, esc(icon.Path))
	}
	for _, icon := range snap.AppleTouch {
		add(`<link rel="apple-touch-icon" sizes="%s" href="%s">`, icon.Size, esc(icon.Path))
	}
	if snap.MSTileColor != "" {
		add(`<meta name="msapplication-TileColor" content="%s">`, esc(snap.MSTileColor))
	}
	if snap.MSTile != "" {
		add(`<meta name="msapplication-TileImage" content="%s">`, esc(snap.MSTile))
	}
	if mask := snap.SafariPinnedTab; mask != nil {
		add(`<link rel="mask-icon" href="%s" color="%s">`, esc(mask.Path), esc(mask.Color))
	}
	if snap.ThemeColor != "" {
		add(`<meta name="theme-color" content="%s">`, esc(snap.ThemeColor))
	}
	if snap.Manifest != "" {
		add(`<link rel="manifest" href="%s">`, esc(snap.Manifest))
	}
	if opts.MobileWebAppCapable {
		add(`<meta name="mobile-web-app-capable" content="yes">`)
		add(`<meta name="apple-mobile-web-app-capable" content="yes">`)
	}
	if opts.AppName != "" {
		name := esc(opts.AppName)
		add(`<meta name="application-name" content="%s">`, name)
		add(`<meta name="apple-mobile-web-app-title" content="%s">`, name)
	}
	return strings.Join(out, "\n")
}

func esc(value string) string {
	return html.EscapeString(value)
}

package favicon

import (
	"slices"
	"sync"

	"faviconkit/internal/catalog"
	"faviconkit/internal/config"
)

type MaskIcon struct {
	Path  string
	Color string
}

type SizedIcon struct {
	Size catalog.Dimension
	Path string
}

// Registry holds the resolved icon paths and colours that markup and manifest
// rendering read. It only grows until Reset.
type Registry struct {
	mu              sync.RWMutex
	favicon         string
	png             map[catalog.Dimension]string
	appleTouch      map[catalog.Dimension]string
	android         map[catalog.Dimension]string
	msTile          string
	msTileColor     string
	safariPinnedTab *MaskIcon
	themeColor      string
	manifest        string
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.favicon = ""
	r.png = map[catalog.Dimension]string{}
	r.appleTouch = map[catalog.Dimension]string{}
	r.android = map[catalog.Dimension]string{}
	r.msTile = ""
	r.msTileColor = ""
	r.safariPinnedTab = nil
	r.themeColor = ""
	r.manifest = ""
}

// Seed copies the icons block and site colours of cfg into the registry.
// Sizes that do not parse are ignored; config.Validate rejects them earlier.
func (r *Registry) Seed(cfg config.Config) {
	icons := cfg.Icons
	if icons.Favicon != "" {
		r.SetFavicon(icons.Favicon)
	}
	if icons.Manifest != "" {
		r.SetManifest(icons.Manifest)
	}
	if icons.MSTile != "" {
		r.SetMSTileImage(icons.MSTile)
	}
	seedSized(icons.PNG, r.SetPNGIcon)
	seedSized(icons.AppleTouch, r.SetAppleTouchIcon)
	seedSized(icons.Android, r.SetAndroidIcon)
	if cfg.ThemeColor != "" {
		r.SetThemeColor(cfg.ThemeColor)
	}
	if cfg.MSTileColor != "" {
		r.SetMSTileColor(cfg.MSTileColor)
	}
	if cfg.SafariPinnedTab != nil {
		r.SetSafariPinnedTab(cfg.SafariPinnedTab.Path, cfg.SafariPinnedTab.Color)
	}
}

func seedSized(sizes map[string]string, set func(catalog.Dimension, string)) {
	for raw, path := range sizes {
		dim, err := catalog.ParseDimension(raw)
		if err != nil {
			continue
		}
		set(dim, path)
	}
}

func (r *Registry) SetFavicon(path string) {
	r.mu.Lock()
	r.favicon = path
	r.mu.Unlock()
}

func (r *Registry) SetPNGIcon(size catalog.Dimension, path string) {
	r.mu.Lock()
	r.png[size] = path
	r.mu.Unlock()
}

func (r *Registry) SetAppleTouchIcon(size catalog.Dimension, path string) {
	r.mu.Lock()
	r.appleTouch[size] = path
	r.mu.Unlock()
}

func (r *Registry) SetAndroidIcon(size catalog.Dimension, path string) {
	r.mu.Lock()
	r.android[size] = path
	r.mu.Unlock()
}

func (r *Registry) SetMSTileImage(path string) {
	r.mu.Lock()
	r.msTile = path
	r.mu.Unlock()
}

func (r *Registry) SetMSTileColor(color string) {
	r.mu.Lock()
	r.msTileColor = color
	r.mu.Unlock()
}

func (r *Registry) SetSafariPinnedTab(path, color string) {
	r.mu.Lock()
	r.safariPinnedTab = &MaskIcon{Path: path, Color: color}
	r.mu.Unlock()
}

func (r *Registry) SetThemeColor(color string) {
	r.mu.Lock()
	r.themeColor = color
	r.mu.Unlock()
}

func (r *Registry) SetManifest(path string) {
	r.mu.Lock()
	r.manifest = path
	r.mu.Unlock()
}

// Register stores a generated catalog file under the slot of its family.
func (r *Registry) Register(target catalog.Target, path string) {
	switch target.Family {
	case catalog.Favicon:
		r.SetPNGIcon(target.Dimension, path)
	case catalog.AppleTouch:
		r.SetAppleTouchIcon(target.Dimension, path)
	case catalog.Android:
		r.SetAndroidIcon(target.Dimension, path)
	case catalog.MSTile:
		r.SetMSTileImage(path)
	}
}

// Snapshot is a point-in-time copy of a Registry. Sized icons are ordered by size.
type Snapshot struct {
	Favicon         string
	PNG             []SizedIcon
	AppleTouch      []SizedIcon
	Android         []SizedIcon
	MSTile          string
	MSTileColor     string
	SafariPinnedTab *MaskIcon
	ThemeColor      string
	Manifest        string
}

func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := Snapshot{
		Favicon:     r.favicon,
		PNG:         sortedIcons(r.png),
		AppleTouch:  sortedIcons(r.appleTouch),
		Android:     sortedIcons(r.android),
		MSTile:      r.msTile,
		MSTileColor: r.msTileColor,
		ThemeColor:  r.themeColor,
		Manifest:    r.manifest,
	}
	if r.safariPinnedTab != nil {
		mask := *r.safariPinnedTab
		snap.SafariPinnedTab = &mask
	}
	return snap
}

// AndroidIcon returns the registered path of an Android icon size.
func (s Snapshot) AndroidIcon(size catalog.Dimension) (string, bool) {
	for _, icon := range s.Android {
		if icon.Size == size {
			return icon.Path, true
		}
	}
	return "", false
}

func sortedIcons(icons map[catalog.Dimension]string) []SizedIcon {
	out := make([]SizedIcon, 0, len(icons))
	for size, path := range icons {
		out = append(out, SizedIcon{Size: size, Path: path})
	}
	slices.SortFunc(out, func(a, b SizedIcon) int { return int(a.Size) - int(b.Size) })
	return out
}

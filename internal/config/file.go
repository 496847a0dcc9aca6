package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"faviconkit/internal/catalog"
)

const (
	DefaultQuality       = 90
	DefaultMinSourceSize = 512
	DefaultTimeout       = 30 * time.Second
	DefaultLockTimeout   = 30 * time.Second
)

// Config is the site and generation configuration read from YAML.
type Config struct {
	BasePath            string           `yaml:"base_path"`
	BaseURL             string           `yaml:"base_url"`
	AppName             string           `yaml:"app_name"`
	AppShortName        string           `yaml:"app_short_name"`
	MobileWebAppCapable bool             `yaml:"mobile_web_app_capable"`
	ThemeColor          string           `yaml:"theme_color"`
	MSTileColor         string           `yaml:"ms_tile_color"`
	SafariPinnedTab     *MaskIcon        `yaml:"safari_pinned_tab,omitempty"`
	Icons               IconsConfig      `yaml:"icons"`
	Generation          GenerationConfig `yaml:"generation"`
	Manifest            ManifestConfig   `yaml:"manifest"`
}

type MaskIcon struct {
	Path  string `yaml:"path"`
	Color string `yaml:"color"`
}

// IconsConfig seeds the icon registry with paths that are not generated.
type IconsConfig struct {
	Favicon    string            `yaml:"favicon,omitempty"`
	Manifest   string            `yaml:"manifest,omitempty"`
	MSTile     string            `yaml:"mstile,omitempty"`
	PNG        map[string]string `yaml:"png,omitempty"`
	AppleTouch map[string]string `yaml:"apple_touch,omitempty"`
	Android    map[string]string `yaml:"android,omitempty"`
}

type GenerationConfig struct {
	Method        string        `yaml:"method"`
	ToolPath      string        `yaml:"tool_path,omitempty"`
	Quality       int           `yaml:"quality"`
	Format        string        `yaml:"format"`
	Filter        string        `yaml:"filter,omitempty"`
	MinSourceSize int           `yaml:"min_source_size"`
	Timeout       time.Duration `yaml:"timeout"`
	LockTimeout   time.Duration `yaml:"lock_timeout"`
}

// ManifestConfig holds web app manifest defaults.
type ManifestConfig struct {
	Name            string `yaml:"name,omitempty"`
	ShortName       string `yaml:"short_name,omitempty"`
	Description     string `yaml:"description,omitempty"`
	StartURL        string `yaml:"start_url,omitempty"`
	Scope           string `yaml:"scope,omitempty"`
	ID              string `yaml:"id,omitempty"`
	Display         string `yaml:"display,omitempty"`
	Orientation     string `yaml:"orientation,omitempty"`
	ThemeColor      string `yaml:"theme_color,omitempty"`
	BackgroundColor string `yaml:"background_color,omitempty"`
	Lang            string `yaml:"lang,omitempty"`
	Dir             string `yaml:"dir,omitempty"`
}

func Default() Config {
	return Config{
		BasePath: ".",
		Generation: GenerationConfig{
			Method:        "bitmap",
			Quality:       DefaultQuality,
			Format:        string(catalog.DefaultFormat),
			MinSourceSize: DefaultMinSourceSize,
			Timeout:       DefaultTimeout,
			LockTimeout:   DefaultLockTimeout,
		},
	}
}

func DefaultPath() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "faviconkit", "config.yaml"), nil
}

// Load reads a YAML file over Default and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Resolve loads explicit when set, otherwise the default config file when it exists,
// otherwise returns Default. The second value is the file that was read, if any.
func Resolve(explicit string) (Config, string, error) {
	if path := strings.TrimSpace(explicit); path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	path, err := DefaultPath()
	if err != nil {
		return Default(), "", nil
	}
	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return Default(), "", nil
		}
		return Config{}, "", fmt.Errorf("failed to stat config file: %w", statErr)
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Save writes cfg as YAML, refusing to replace an existing file.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.BasePath) == "" {
		return errors.New("base_path is required")
	}
	if err := validateBaseURL(c.BaseURL); err != nil {
		return err
	}
	gen := c.Generation
	if gen.Quality < 0 || gen.Quality > 100 {
		return fmt.Errorf("generation.quality must be between 1 and 100, got %d", gen.Quality)
	}
	if gen.MinSourceSize < 0 {
		return fmt.Errorf("generation.min_source_size must not be negative, got %d", gen.MinSourceSize)
	}
	if _, err := catalog.ParseFormat(gen.Format); err != nil {
		return fmt.Errorf("generation.format: %w", err)
	}
	if gen.Timeout < 0 || gen.LockTimeout < 0 {
		return errors.New("generation timeouts must not be negative")
	}
	if c.SafariPinnedTab != nil && strings.TrimSpace(c.SafariPinnedTab.Path) == "" {
		return errors.New("safari_pinned_tab.path is required when safari_pinned_tab is set")
	}
	for _, sizes := range []map[string]string{c.Icons.PNG, c.Icons.AppleTouch, c.Icons.Android} {
		for size := range sizes {
			if _, err := catalog.ParseDimension(size); err != nil {
				return fmt.Errorf("icons: %w", err)
			}
		}
	}
	return nil
}

// OutputFormat returns the parsed raster format; Validate guarantees it parses.
func (c Config) OutputFormat() catalog.Format {
	format, err := catalog.ParseFormat(c.Generation.Format)
	if err != nil {
		return catalog.DefaultFormat
	}
	return format
}

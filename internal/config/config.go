package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"faviconkit/internal/catalog"
)

// Options are the global command-line flags.
type Options struct {
	Config      string `long:"config" short:"c" env:"FAVICONKIT_CONFIG" description:"YAML configuration file (default: <user config dir>/faviconkit/config.yaml when present)"`
	Debug       bool   `long:"debug" env:"FAVICONKIT_DEBUG" description:"Enable verbose debug output"`
	PersistLogs bool   `long:"persist-logs" env:"FAVICONKIT_PERSIST_LOGS" description:"Write JSONL logs to the log directory"`
	LogDir      string `long:"log-dir" env:"FAVICONKIT_LOG_DIR" description:"Directory for persisted logs (default: <user cache dir>/faviconkit/logs)"`
}

// SiteOptions override the site section of the configuration file.
type SiteOptions struct {
	OutputDir string `long:"out" short:"o" env:"FAVICONKIT_OUTPUT_DIR" description:"Output directory for icons (config: base_path)"`
	BaseURL   string `long:"base-url" env:"FAVICONKIT_BASE_URL" description:"Public URL prefix of the output directory (config: base_url)"`
	Format    string `long:"format" env:"FAVICONKIT_FORMAT" description:"Raster output format: webp or png"`
}

// GenerationOptions override the generation section of the configuration file.
type GenerationOptions struct {
	Method        string        `long:"method" short:"m" env:"FAVICONKIT_METHOD" description:"Image backend: bitmap (gd) or cli (imagemagick)"`
	ToolPath      string        `long:"tool" env:"FAVICONKIT_TOOL_PATH" description:"ImageMagick binary for the cli backend"`
	Quality       int           `long:"quality" short:"q" env:"FAVICONKIT_QUALITY" description:"Lossy encode quality 1-100"`
	Filter        string        `long:"filter" env:"FAVICONKIT_FILTER" description:"Resample filter for the bitmap backend: lanczos, catmullrom, linear, box, nearest"`
	MinSourceSize int           `long:"min-source-size" env:"FAVICONKIT_MIN_SOURCE_SIZE" description:"Minimum short side of the source image in pixels"`
	Timeout       time.Duration `long:"timeout" env:"FAVICONKIT_TIMEOUT" description:"Per-process timeout for the cli backend"`
	Families      []string      `long:"family" short:"f" description:"Icon family to generate (repeatable): favicon, apple-touch, android, mstile"`
}

// MergeSite applies non-empty command-line values over cfg.
func MergeSite(cfg Config, opts SiteOptions) Config {
	if v := strings.TrimSpace(opts.OutputDir); v != "" {
		cfg.BasePath = v
	}
	if v := strings.TrimSpace(opts.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(opts.Format); v != "" {
		cfg.Generation.Format = v
	}
	return cfg
}

// MergeGeneration applies non-zero command-line values over cfg.
func MergeGeneration(cfg Config, opts GenerationOptions) Config {
	gen := &cfg.Generation
	if v := strings.TrimSpace(opts.Method); v != "" {
		gen.Method = v
	}
	if v := strings.TrimSpace(opts.ToolPath); v != "" {
		gen.ToolPath = v
	}
	if opts.Quality != 0 {
		gen.Quality = opts.Quality
	}
	if v := strings.TrimSpace(opts.Filter); v != "" {
		gen.Filter = v
	}
	if opts.MinSourceSize != 0 {
		gen.MinSourceSize = opts.MinSourceSize
	}
	if opts.Timeout != 0 {
		gen.Timeout = opts.Timeout
	}
	return cfg
}

// ParseFamilies converts family names; an empty list means every family.
func ParseFamilies(names []string) ([]catalog.Family, error) {
	if len(names) == 0 {
		return append([]catalog.Family(nil), catalog.Families...), nil
	}
	out := make([]catalog.Family, 0, len(names))
	seen := map[catalog.Family]bool{}
	for _, raw := range names {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			family, err := catalog.ParseFamily(part)
			if err != nil {
				return nil, err
			}
			if seen[family] {
				continue
			}
			seen[family] = true
			out = append(out, family)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no icon families selected")
	}
	return out, nil
}

func validateBaseURL(raw string) error {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if parsed.Scheme == "" {
		if parsed.Host != "" || !strings.HasPrefix(parsed.Path, "/") {
			return errors.New("base_url: expected an absolute path like /icons or a URL like https://example.com/icons")
		}
		return nil
	}
	if !strings.EqualFold(parsed.Scheme, "http") && !strings.EqualFold(parsed.Scheme, "https") {
		return errors.New("base_url: scheme must be http or https")
	}
	if parsed.Host == "" {
		return errors.New("base_url: missing host")
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return errors.New("base_url: query and fragment are not allowed")
	}
	return nil
}

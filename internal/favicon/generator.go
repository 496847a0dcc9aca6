// Package favicon turns one source image into the platform icon set of a site.
//
// A Generator validates the source, asks its backend for every catalog file that
// is missing from the output directory and records what it wrote in a Registry
// that markup and manifest rendering read later. Existing files are never
// replaced: regeneration only fills gaps.
package favicon

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/webp"

	"faviconkit/internal/backend"
	"faviconkit/internal/catalog"
	"faviconkit/internal/config"
	"faviconkit/internal/dirlock"
	"faviconkit/internal/logging"
)

var sourceFormats = []string{"jpeg", "png", "gif", "webp"}

type Generator struct {
	cfg      config.Config
	format   catalog.Format
	backend  backend.Backend
	registry *Registry
	logger   *logging.Logger
}

type Option func(*Generator)

// WithBackend replaces the backend resolved from the configuration.
func WithBackend(b backend.Backend) Option {
	return func(g *Generator) {
		g.backend = b
	}
}

// New validates cfg, resolves its backend once and seeds a fresh registry.
func New(cfg config.Config, logger *logging.Logger, opts ...Option) (*Generator, error) {
	if logger == nil {
		panic("favicon.New: logger must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	g := &Generator{
		cfg:      cfg,
		format:   cfg.OutputFormat(),
		registry: NewRegistry(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.backend == nil {
		b, err := backend.New(cfg.Generation.Method, backend.Options{
			ToolPath: cfg.Generation.ToolPath,
			Timeout:  cfg.Generation.Timeout,
			Filter:   cfg.Generation.Filter,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		g.backend = b
	}
	g.registry.Seed(cfg)
	return g, nil
}

func (g *Generator) Registry() *Registry {
	return g.registry
}

func (g *Generator) Backend() backend.Backend {
	return g.backend
}

func (g *Generator) Config() config.Config {
	return g.cfg
}

func (g *Generator) Format() catalog.Format {
	return g.format
}

// Request describes one Generate call. Zero fields fall back to the configuration.
type Request struct {
	Source    string
	OutputDir string
	Families  []catalog.Family
	Quality   int
}

// Available probes the backend for every format a request for families needs.
func (g *Generator) Available(ctx context.Context, families []catalog.Family) error {
	if err := g.backend.Available(ctx, g.format); err != nil {
		return err
	}
	if slices.Contains(families, catalog.Favicon) && g.format != catalog.PNG {
		if err := g.backend.Available(ctx, catalog.PNG); err != nil {
			return fmt.Errorf("favicon.ico frames: %w", err)
		}
	}
	return nil
}

// Generate writes every missing catalog file of the requested families plus
// favicon.ico. Validation and backend errors abort before anything is written;
// per-file failures are collected in the Result and the run continues.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	req = g.withDefaults(req)
	if req.Quality < 1 || req.Quality > 100 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuality, req.Quality)
	}
	if _, err := g.validateSource(req.Source); err != nil {
		return nil, err
	}
	if err := g.Available(ctx, req.Families); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock, err := dirlock.Acquire(ctx, req.OutputDir, g.cfg.Generation.LockTimeout, g.logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			g.logger.Warn("failed to release output directory lock", logging.Field("error", err))
		}
	}()

	r := &run{
		gen:     g,
		req:     req,
		result:  &Result{},
		skipSet: SkipSet(req.OutputDir, req.Families, g.format),
	}
	for _, target := range catalog.Targets(req.Families, g.format) {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}
		if err := r.target(ctx, target); err != nil {
			return r.result, err
		}
	}
	if slices.Contains(req.Families, catalog.Favicon) {
		if err := r.ico(ctx); err != nil {
			return r.result, err
		}
	}

	g.logger.Info("icon generation finished",
		logging.Field("dir", req.OutputDir),
		logging.Field("written", len(r.result.Written)),
		logging.Field("skipped", len(r.result.Skipped)),
		logging.Field("failed", len(r.result.Failed)))
	return r.result, nil
}

// Discover registers catalog files and favicon.ico already present in outputDir
// and returns their filenames in catalog order.
func (g *Generator) Discover(outputDir string) []string {
	if outputDir == "" {
		outputDir = g.cfg.BasePath
	}
	found := make([]string, 0, 16)
	for _, target := range catalog.Targets(catalog.Families, g.format) {
		if !fileExists(filepath.Join(outputDir, target.Filename)) {
			continue
		}
		g.registry.Register(target, g.PublicURL(target.Filename))
		found = append(found, target.Filename)
	}
	if fileExists(filepath.Join(outputDir, catalog.IcoFilename)) {
		g.registry.SetFavicon(g.PublicURL(catalog.IcoFilename))
		found = append(found, catalog.IcoFilename)
	}
	g.logger.Debug("discovered existing icons", logging.Field("dir", outputDir), logging.Field("count", len(found)))
	return found
}

// PublicURL joins the configured base URL and filename.
func (g *Generator) PublicURL(filename string) string {
	return strings.TrimRight(g.cfg.BaseURL, "/") + "/" + filename
}

func (g *Generator) withDefaults(req Request) Request {
	if strings.TrimSpace(req.OutputDir) == "" {
		req.OutputDir = g.cfg.BasePath
	}
	if len(req.Families) == 0 {
		req.Families = catalog.Families
	}
	if req.Quality == 0 {
		req.Quality = g.cfg.Generation.Quality
	}
	if req.Quality == 0 {
		req.Quality = config.DefaultQuality
	}
	return req
}

func (g *Generator) minSourceSize() int {
	if g.cfg.Generation.MinSourceSize > 0 {
		return g.cfg.Generation.MinSourceSize
	}
	return config.DefaultMinSourceSize
}

// validateSource checks existence, decodability and minimum size without decoding pixels.
func (g *Generator) validateSource(path string) (image.Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return image.Config{}, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return image.Config{}, fmt.Errorf("%w: %s: %w", ErrSourceNotFound, path, err)
	}
	if info.IsDir() {
		return image.Config{}, fmt.Errorf("%w: %s is a directory", ErrInvalidImage, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidImage, path, err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidImage, path, err)
	}
	if !slices.Contains(sourceFormats, format) {
		return image.Config{}, fmt.Errorf("%w: %s: unsupported format %s", ErrInvalidImage, path, format)
	}
	if required := g.minSourceSize(); min(cfg.Width, cfg.Height) < required {
		return image.Config{}, &ImageTooSmallError{Required: required, Width: cfg.Width, Height: cfg.Height}
	}
	g.logger.Debug("validated source image",
		logging.Field("source", path),
		logging.Field("format", format),
		logging.Field("size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)))
	return cfg, nil
}

// run is the state of one Generate call.
type run struct {
	gen      *Generator
	req      Request
	result   *Result
	skipSet  map[string]struct{}
	prepared *backend.Prepared
}

// prepare decodes the source on first use so fully populated directories never
// touch it.
func (r *run) prepare(ctx context.Context) (*backend.Prepared, error) {
	if r.prepared != nil {
		return r.prepared, nil
	}
	prepared, err := r.gen.backend.Prepare(ctx, r.req.Source)
	if err != nil {
		if errors.Is(err, backend.ErrDecodeFailed) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
		}
		return nil, err
	}
	r.prepared = prepared
	return prepared, nil
}

func (r *run) target(ctx context.Context, target catalog.Target) error {
	logger := r.gen.logger
	file := File{
		Filename:  target.Filename,
		Path:      filepath.Join(r.req.OutputDir, target.Filename),
		Family:    target.Family,
		Dimension: target.Dimension,
	}
	if _, ok := r.skipSet[target.Filename]; ok {
		logger.Debug("skipping existing icon", logging.Field("file", target.Filename))
		r.skip(file, SkipExists)
		return nil
	}

	prepared, err := r.prepare(ctx)
	if err != nil {
		return err
	}
	if int(target.Dimension) > prepared.Side() {
		logger.Warn("skipping icon: would require upscaling",
			logging.Field("file", target.Filename),
			logging.Field("source_side", prepared.Side()))
		r.skip(file, SkipUpscale)
		return nil
	}

	data, err := r.gen.backend.Resize(ctx, prepared, int(target.Dimension), backend.Encoding{
		Format:  r.gen.format,
		Quality: r.req.Quality,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, backend.ErrUnsupportedDimension) {
			logger.Warn("skipping icon: would require upscaling", logging.Field("file", target.Filename))
			r.skip(file, SkipUpscale)
			return nil
		}
		r.fail(file, err)
		return nil
	}
	if r.write(file, data) {
		r.gen.registry.Register(target, r.gen.PublicURL(target.Filename))
	}
	return nil
}

func (r *run) ico(ctx context.Context) error {
	logger := r.gen.logger
	file := File{
		Filename: catalog.IcoFilename,
		Path:     filepath.Join(r.req.OutputDir, catalog.IcoFilename),
		Family:   catalog.Favicon,
	}
	if fileExists(file.Path) {
		logger.Debug("skipping existing icon", logging.Field("file", file.Filename))
		r.skip(file, SkipExists)
		return nil
	}

	prepared, err := r.prepare(ctx)
	if err != nil {
		return err
	}
	frames := make([]icoFrame, 0, len(catalog.IcoDimensions))
	for _, dim := range catalog.IcoDimensions {
		if int(dim) > prepared.Side() {
			logger.Warn("omitting favicon.ico frame: would require upscaling", logging.Field("frame", dim.String()))
			continue
		}
		data, err := r.gen.backend.Resize(ctx, prepared, int(dim), backend.Encoding{Format: catalog.PNG})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			r.fail(file, fmt.Errorf("frame %s: %w", dim, err))
			return nil
		}
		frames = append(frames, icoFrame{side: int(dim), png: data})
	}
	if len(frames) == 0 {
		r.skip(file, SkipUpscale)
		return nil
	}
	data, err := encodeICO(frames)
	if err != nil {
		r.fail(file, fmt.Errorf("%w: %w", backend.ErrEncodeFailed, err))
		return nil
	}
	file.Dimension = catalog.Dimension(frames[len(frames)-1].side)
	if r.write(file, data) {
		r.gen.registry.SetFavicon(r.gen.PublicURL(catalog.IcoFilename))
	}
	return nil
}

// write creates file exclusively. A file that appeared since the skip set was
// computed is left alone and reported as existing.
func (r *run) write(file File, data []byte) bool {
	err := writeExclusive(file.Path, data)
	switch {
	case err == nil:
		file.Bytes = len(data)
		r.result.Written = append(r.result.Written, file)
		r.gen.logger.Debug("wrote icon", logging.Field("file", file.Filename), logging.Field("bytes", len(data)))
		return true
	case errors.Is(err, fs.ErrExist):
		r.gen.logger.Debug("skipping existing icon", logging.Field("file", file.Filename))
		r.skip(file, SkipExists)
	default:
		r.fail(file, err)
	}
	return false
}

func (r *run) skip(file File, reason SkipReason) {
	file.Reason = reason
	r.result.Skipped = append(r.result.Skipped, file)
}

func (r *run) fail(file File, err error) {
	r.gen.logger.Warn("failed to generate icon",
		logging.Field("file", file.Filename),
		logging.Field("error", err))
	file.Err = err
	r.result.Failed = append(r.result.Failed, file)
}

func writeExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

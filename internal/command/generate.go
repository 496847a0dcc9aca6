package command

import (
	"fmt"
	"path/filepath"

	"faviconkit/internal/config"
	"faviconkit/internal/favicon"
	"faviconkit/internal/manifest"
	"faviconkit/internal/markup"
	"faviconkit/internal/report"
)

type sourceArgs struct {
	Source string `positional-arg-name:"source" description:"Source image (JPEG, PNG, GIF or WEBP)"`
}

type generateCommand struct {
	config.SiteOptions
	config.GenerationOptions

	Manifest bool       `long:"manifest" description:"Also write manifest.json into the output directory"`
	HTML     bool       `long:"html" description:"Print the HTML head tags after generating"`
	Args     sourceArgs `positional-args:"yes" required:"yes"`

	app *app
}

func (c *generateCommand) Execute(_ []string) error {
	a := c.app
	cfg, err := a.loadConfig(c.SiteOptions, c.GenerationOptions)
	if err != nil {
		return err
	}
	families, err := config.ParseFamilies(c.Families)
	if err != nil {
		return err
	}
	gen, err := a.generator(cfg)
	if err != nil {
		return err
	}

	result, err := gen.Generate(a.ctx, favicon.Request{
		Source:    c.Args.Source,
		OutputDir: cfg.BasePath,
		Families:  families,
		Quality:   cfg.Generation.Quality,
	})
	if result != nil {
		a.printf("%s", report.Render(result, report.Options{Color: a.colorEnabled()}))
	}
	if err != nil {
		return err
	}

	if c.Manifest || c.HTML {
		gen.Discover(cfg.BasePath)
	}
	if c.Manifest {
		if err := writeManifest(gen, cfg, manifest.Fields{}, filepath.Join(cfg.BasePath, manifest.Filename)); err != nil {
			return err
		}
	}
	if c.HTML {
		a.printf("%s\n", markup.Render(gen.Registry().Snapshot(), markup.OptionsFromConfig(cfg)))
	}
	if n := len(result.Failed); n > 0 {
		return fmt.Errorf("%d icon(s) failed to generate", n)
	}
	return nil
}

// writeManifest writes the manifest and registers its public URL.
func writeManifest(gen *favicon.Generator, cfg config.Config, fields manifest.Fields, path string) error {
	m := manifest.Build(cfg, fields, gen.Registry().Snapshot())
	if err := manifest.Write(path, m); err != nil {
		return err
	}
	if cfg.Icons.Manifest == "" {
		gen.Registry().SetManifest(gen.PublicURL(filepath.Base(path)))
	}
	return nil
}

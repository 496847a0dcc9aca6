package command

import (
	"os"
	"path/filepath"

	"faviconkit/internal/config"
	"faviconkit/internal/manifest"
	"faviconkit/internal/markup"
)

type manifestCommand struct {
	config.SiteOptions

	Output          string `long:"output" description:"Manifest path, - for stdout (default: <output dir>/manifest.json)"`
	Name            string `long:"name" description:"Application name"`
	ShortName       string `long:"short-name" description:"Short application name"`
	Description     string `long:"description" description:"Application description"`
	StartURL        string `long:"start-url" description:"Start URL"`
	Display         string `long:"display" description:"Display mode"`
	Orientation     string `long:"orientation" description:"Default orientation"`
	ThemeColor      string `long:"theme-color" description:"Theme colour"`
	BackgroundColor string `long:"background-color" description:"Background colour"`

	app *app
}

func (c *manifestCommand) Execute(_ []string) error {
	a := c.app
	cfg, err := a.loadConfig(c.SiteOptions, config.GenerationOptions{})
	if err != nil {
		return err
	}
	gen, err := a.generator(cfg)
	if err != nil {
		return err
	}
	gen.Discover(cfg.BasePath)

	fields := manifest.Fields{
		Name:            c.Name,
		ShortName:       c.ShortName,
		Description:     c.Description,
		StartURL:        c.StartURL,
		Display:         c.Display,
		Orientation:     c.Orientation,
		ThemeColor:      c.ThemeColor,
		BackgroundColor: c.BackgroundColor,
	}
	if c.Output == "-" {
		return manifest.Encode(a.streams.Stdout, manifest.Build(cfg, fields, gen.Registry().Snapshot()))
	}
	path := c.Output
	if path == "" {
		path = filepath.Join(cfg.BasePath, manifest.Filename)
	}
	if err := writeManifest(gen, cfg, fields, path); err != nil {
		return err
	}
	a.printf("wrote %s\n", path)
	return nil
}

type renderCommand struct {
	config.SiteOptions

	app *app
}

func (c *renderCommand) Execute(_ []string) error {
	a := c.app
	cfg, err := a.loadConfig(c.SiteOptions, config.GenerationOptions{})
	if err != nil {
		return err
	}
	gen, err := a.generator(cfg)
	if err != nil {
		return err
	}
	gen.Discover(cfg.BasePath)
	if cfg.Icons.Manifest == "" && fileExists(filepath.Join(cfg.BasePath, manifest.Filename)) {
		gen.Registry().SetManifest(gen.PublicURL(manifest.Filename))
	}
	a.printf("%s\n", markup.Render(gen.Registry().Snapshot(), markup.OptionsFromConfig(cfg)))
	return nil
}

type initCommand struct {
	Path    string `long:"path" description:"Where to write the configuration (default: <user config dir>/faviconkit/config.yaml)"`
	AppName string `long:"app-name" description:"Application name to record"`

	app *app
}

func (c *initCommand) Execute(_ []string) error {
	path := c.Path
	if path == "" {
		path = c.app.opts.Config
	}
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg := config.Default()
	cfg.AppName = c.AppName
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	c.app.printf("wrote %s\n", path)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package command

import (
	"time"

	"faviconkit/internal/config"
	"faviconkit/internal/favicon"
	"faviconkit/internal/report"
	"faviconkit/internal/watch"
)

type watchCommand struct {
	config.SiteOptions
	config.GenerationOptions

	Debounce time.Duration `long:"debounce" default:"500ms" description:"Quiet period before regenerating"`
	Args     sourceArgs    `positional-args:"yes" required:"yes"`

	app *app
}

func (c *watchCommand) Execute(_ []string) error {
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
	w, err := watch.New(gen, watch.Options{
		Request: favicon.Request{
			Source:    c.Args.Source,
			OutputDir: cfg.BasePath,
			Families:  families,
			Quality:   cfg.Generation.Quality,
		},
		Debounce: c.Debounce,
	}, a.logger, watch.Callbacks{
		OnResult: func(result *favicon.Result) {
			if len(result.Written) == 0 && len(result.Failed) == 0 {
				return
			}
			a.printf("%s", report.Render(result, report.Options{Color: a.colorEnabled()}))
		},
	})
	if err != nil {
		return err
	}
	return w.Run(a.ctx)
}

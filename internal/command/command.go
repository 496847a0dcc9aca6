// Package command wires configuration, logging and the icon pipeline into the
// faviconkit subcommands.
package command

import (
	"context"
	"fmt"
	"io"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"faviconkit/internal/config"
	"faviconkit/internal/favicon"
	"faviconkit/internal/logging"
)

type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

type app struct {
	ctx     context.Context
	version string
	streams Streams
	opts    config.Options
	logger  *logging.Logger
}

// Run parses args and executes the selected subcommand.
func Run(ctx context.Context, version string, args []string, streams Streams) error {
	_ = godotenv.Load()
	if streams.Stdout == nil {
		streams.Stdout = os.Stdout
	}
	if streams.Stderr == nil {
		streams.Stderr = os.Stderr
	}
	a := &app{ctx: ctx, version: version, streams: streams}

	parser := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "faviconkit"
	parser.LongDescription = "Generate favicons, platform icons, a web app manifest and the matching HTML tags from one source image."
	commands := []struct {
		name, short, long string
		data              flags.Commander
	}{
		{"init", "Write a starter configuration file", "Writes a YAML configuration with default values. Existing files are never replaced.", &initCommand{app: a}},
		{"generate", "Generate missing icons", "Generates every missing icon of the selected families from the source image. Existing files are left untouched.", &generateCommand{app: a}},
		{"manifest", "Write the web app manifest", "Builds manifest.json from the configuration and the Android icons present in the output directory.", &manifestCommand{app: a}},
		{"render", "Print the HTML head tags", "Prints the <link> and <meta> tags for the icons present in the output directory.", &renderCommand{app: a}},
		{"watch", "Keep icons generated while the source changes", "Generates once, then regenerates when the source image changes or a generated icon is removed.", &watchCommand{app: a}},
		{"version", "Print the version", "", &versionCommand{app: a}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return err
		}
	}
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if err := a.setupLogger(); err != nil {
			return err
		}
		defer a.logger.Close()
		return cmd.Execute(args)
	}

	_, err := parser.ParseArgs(args)
	return err
}

func (a *app) setupLogger() error {
	a.logger = logging.New(a.opts.Debug)
	if a.streams.Stderr != os.Stderr {
		a.logger.SetOutput(a.streams.Stderr)
	}
	if a.opts.PersistLogs {
		if err := a.logger.EnableFilePersistence(a.opts.LogDir, 0); err != nil {
			return fmt.Errorf("enable log persistence: %w", err)
		}
	}
	return nil
}

// loadConfig resolves the configuration file and applies command-line overrides.
func (a *app) loadConfig(site config.SiteOptions, gen config.GenerationOptions) (config.Config, error) {
	cfg, path, err := config.Resolve(a.opts.Config)
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		a.logger.Debug("loaded configuration", logging.Field("path", path))
	}
	cfg = config.MergeSite(cfg, site)
	cfg = config.MergeGeneration(cfg, gen)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (a *app) generator(cfg config.Config) (*favicon.Generator, error) {
	return favicon.New(cfg, a.logger)
}

func (a *app) colorEnabled() bool {
	return logging.ColorEnabled(a.streams.Stdout)
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.streams.Stdout, format, args...)
}

type versionCommand struct {
	app *app
}

func (c *versionCommand) Execute(_ []string) error {
	c.app.printf("faviconkit %s\n", c.app.version)
	return nil
}

package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/xmlsite/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"xmlsite.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the site from the configured input root"`
	Watch WatchCmd `cmd:"" help:"Rebuild automatically when input documents change"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// parseParams converts CLI name=value pairs to template parameters. A pair
// without a value becomes boolean true.
func parseParams(pairs []string) map[string]any {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if found {
			params[name] = strings.TrimSpace(value)
		} else {
			params[name] = true
		}
	}
	return params
}

// applyOverrides layers non-empty CLI flags over the loaded configuration.
func applyOverrides(cfg *config.Config, input, output, rules string, templates []string) {
	if input != "" {
		cfg.Input = input
	}
	if output != "" {
		cfg.Output = output
	}
	if rules != "" {
		cfg.Rules = rules
	}
	if len(templates) > 0 {
		cfg.Templates = append(templates, cfg.Templates...)
	}
}

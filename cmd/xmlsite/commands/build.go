package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/xmlsite/internal/config"
	"git.home.luguber.info/inful/xmlsite/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Input     string   `short:"i" help:"Input root directory (overrides config)"`
	Output    string   `short:"o" help:"Output root directory (overrides config)"`
	Rules     string   `short:"r" help:"Starting rule registry file (overrides config)"`
	Templates []string `short:"s" name:"search" help:"Template search path (repeatable, prepended to config paths)"`
	Define    []string `short:"d" help:"name=value template parameter; bare names become boolean true"`
	Force     bool     `short:"f" help:"Rebuild even when outputs are up to date"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(cfg, b.Input, b.Output, b.Rules, b.Templates)

	slog.Info("Starting site build",
		"input", cfg.Input,
		"output", cfg.Output,
		"rules", cfg.Rules)

	builder := site.NewBuilder(cfg, site.Options{
		Params: parseParams(b.Define),
		Force:  b.Force,
	})
	if err := builder.Build(context.Background()); err != nil {
		slog.Error("Build failed", "error", err)
		return err
	}

	slog.Info("Site build completed", "output", cfg.Output)
	return nil
}

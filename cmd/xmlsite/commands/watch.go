package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/xmlsite/internal/config"
	"git.home.luguber.info/inful/xmlsite/internal/site"
)

// WatchCmd implements the 'watch' command: rebuild whenever an input
// document, rule file, or template changes. The staleness check keeps
// rebuilds cheap, since untouched documents are skipped.
type WatchCmd struct {
	Input     string        `short:"i" help:"Input root directory (overrides config)"`
	Output    string        `short:"o" help:"Output root directory (overrides config)"`
	Rules     string        `short:"r" help:"Starting rule registry file (overrides config)"`
	Templates []string      `short:"s" name:"search" help:"Template search path (repeatable)"`
	Define    []string      `short:"d" help:"name=value template parameter"`
	Debounce  time.Duration `help:"Quiet period before rebuilding after a change" default:"250ms"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(cfg, w.Input, w.Output, w.Rules, w.Templates)
	params := parseParams(w.Define)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rebuild := func(force bool) {
		// A fresh builder per rebuild: registry and template caches must
		// not outlive the files they were parsed from.
		builder := site.NewBuilder(cfg, site.Options{Params: params, Force: force})
		if err := builder.Build(ctx); err != nil {
			slog.Error("Rebuild failed", "error", err)
		}
	}

	slog.Info("Initial build", "input", cfg.Input)
	rebuild(false)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watchTree(watcher, cfg.Input); err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(cfg.Rules)); err != nil {
		slog.Warn("Cannot watch rules directory", "error", err)
	}
	for _, dir := range cfg.Templates {
		if err := watcher.Add(dir); err != nil {
			slog.Warn("Cannot watch template directory", "dir", dir, "error", err)
		}
	}

	slog.Info("Watching for changes", "input", cfg.Input)

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutdown signal received")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			// New directories need watching too.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchTree(watcher, event.Name)
				}
			}
			slog.Debug("Change detected", "file", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.Debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			rebuild(false)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}

// watchTree adds root and all its subdirectories to the watcher.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// relevantEvent filters editor noise: only writes, creates, renames and
// removals of XML, rule, and template files trigger a rebuild.
func relevantEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	switch ext {
	case ".xml", ".ini", ".tmpl", "":
		return true
	default:
		return false
	}
}

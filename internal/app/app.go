// Package app wires the scanner, the dumb renderer and the URL and file
// handlers into a terminal engine at startup. An App replaces process-wide
// state: everything a command needs is reached through it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/macterm/quillkit/internal/config"
	"github.com/macterm/quillkit/internal/engine"
	"github.com/macterm/quillkit/internal/handlers"
	"github.com/macterm/quillkit/internal/session"
	"github.com/macterm/quillkit/internal/termtext"
)

// Option adjusts an App while it is built.
type Option func(*App)

// WithLauncher replaces the launcher chosen from the config.
func WithLauncher(l session.Launcher) Option {
	return func(a *App) { a.launcher = l }
}

// WithTerminal registers handlers with an existing engine terminal.
func WithTerminal(t *engine.Terminal) Option {
	return func(a *App) { a.terminal = t }
}

var _ handlers.MacroSink = (*App)(nil)

// App is the startup context shared by the CLI and the selection view.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	launcher session.Launcher
	terminal *engine.Terminal
	registry *handlers.Registry
	scanner  *termtext.Scanner

	mu        sync.Mutex
	macros    *handlers.MacroSet
	workspace string
	closed    bool
}

// New builds an App from cfg and registers every handler.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	mode, err := termtext.ParseMode(cfg.WordMode)
	if err != nil {
		return nil, fmt.Errorf("invalid word.mode: %w", err)
	}

	a := &App{
		cfg:       cfg,
		logger:    logger,
		workspace: cfg.InitialWorkspace,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.launcher == nil {
		if cfg.DryRun {
			a.launcher = session.NewDryRunLauncher(logger)
		} else {
			a.launcher = session.NewExecLauncher(logger, cfg.ScrubEnv)
		}
	}
	if a.terminal == nil {
		a.terminal = engine.NewTerminal(logger)
	}

	a.scanner = termtext.NewScanner(mode, logger)
	a.terminal.OnSeekWord(a.scanner.FindWord)

	for code := 0; code < engine.DumbTableSize; code++ {
		a.terminal.SetDumbString(code, termtext.DumbRendering(code))
	}

	a.registry = handlers.NewRegistry()
	handlers.NewURLOpener(cfg.Programs(), a.launcher).Register(a.registry)
	handlers.NewFileOpener(a.launcher, cfg.PrefsDir, a, logger).Register(a.registry)

	logger.Debug("startup complete",
		"word_mode", mode.String(),
		"dry_run", cfg.DryRun,
		"url_kinds", len(a.registry.URLKinds()),
		"extensions", len(a.registry.Extensions()),
	)
	return a, nil
}

func (a *App) Config() *config.Config { return a.cfg }
func (a *App) Logger() *slog.Logger { return a.logger }
func (a *App) Launcher() session.Launcher { return a.launcher }
func (a *App) Terminal() *engine.Terminal { return a.terminal }
func (a *App) Registry() *handlers.Registry { return a.registry }
func (a *App) Scanner() *termtext.Scanner { return a.scanner }

// SetCurrentMacros makes set the active macro set.
func (a *App) SetCurrentMacros(set *handlers.MacroSet) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.macros = set
}

// CurrentMacros returns the active macro set, or nil.
func (a *App) CurrentMacros() *handlers.MacroSet {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.macros
}

// InitialWorkspace is the file opened by Start, if any.
func (a *App) InitialWorkspace() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.workspace
}

// OpenURL dispatches rawURL to its handler. Failures are logged as well as
// returned so callers may ignore them.
func (a *App) OpenURL(ctx context.Context, rawURL string) error {
	if err := a.registry.OpenURL(ctx, rawURL); err != nil {
		a.logger.Warn("failed to open url", "url", rawURL, "error", err)
		return err
	}
	a.logger.Debug("opened url", "url", rawURL)
	return nil
}

// OpenFile dispatches path to the handler for its extension. Failures are
// logged as well as returned.
func (a *App) OpenFile(ctx context.Context, path string) error {
	if err := a.registry.OpenFile(ctx, path); err != nil {
		a.logger.Warn("failed to open file", "file", path, "error", err)
		return err
	}
	a.logger.Debug("opened file", "file", path)
	return nil
}

// Start opens the initial workspace file when one is configured.
func (a *App) Start(ctx context.Context) error {
	ws := a.InitialWorkspace()
	if ws == "" {
		return nil
	}
	return a.OpenFile(ctx, ws)
}

// ProcessCwds reports the working directory of each pid.
func (a *App) ProcessCwds(ctx context.Context, pids []int) (map[int]string, error) {
	return session.ProcessCwds(ctx, a.cfg.BinLsof, pids)
}

// Close runs the hooks.on_finish command, if set. The hook's failure is
// logged and never returned. Close is safe to call more than once.
func (a *App) Close(ctx context.Context) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	argv := strings.Fields(a.cfg.OnFinish)
	if len(argv) == 0 {
		return
	}

	out, err := session.CommandData(ctx, argv, false)
	if err != nil {
		a.logger.Warn("finish hook failed", "command", a.cfg.OnFinish, "error", err)
		return
	}
	a.logger.Debug("finish hook ran", "command", a.cfg.OnFinish, "output", strings.TrimSpace(string(out)))
}

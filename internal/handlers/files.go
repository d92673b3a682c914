package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/macterm/quillkit/internal/kvp"
	"github.com/macterm/quillkit/internal/session"
)

// ErrNoCommand is returned for a session file without a "command" key.
var ErrNoCommand = errors.New(`no "command" was found in the file`)

// FileOpener handles files handed to the terminal.
type FileOpener struct {
	launcher session.Launcher
	prefsDir string
	macros   MacroSink
	logger   *slog.Logger
}

// NewFileOpener creates an opener. Imported preferences go to prefsDir and
// loaded macro sets go to macros.
func NewFileOpener(launcher session.Launcher, prefsDir string, macros MacroSink, logger *slog.Logger) *FileOpener {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileOpener{
		launcher: launcher,
		prefsDir: prefsDir,
		macros:   macros,
		logger:   logger,
	}
}

// Register installs a handler for every file kind.
func (o *FileOpener) Register(r *Registry) {
	r.HandleFile(FileScript, FileHandlerFunc(o.Script))
	r.HandleFile(FilePrefs, FileHandlerFunc(o.Prefs))
	r.HandleFile(FileSession, FileHandlerFunc(o.Session))
	r.HandleFile(FileMacros, FileHandlerFunc(o.Macros))
}

// Script starts a session that runs the file itself.
func (o *FileOpener) Script(ctx context.Context, path string) error {
	return o.launcher.Launch(ctx, []string{path})
}

// Session starts the command named by a ".session" file.
func (o *FileOpener) Session(ctx context.Context, path string) error {
	values, err := kvp.ParseFile(path)
	if err != nil {
		return err
	}

	command, ok := values.Text("command")
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrNoCommand)
	}
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return fmt.Errorf("%s: %w", path, ErrNoCommand)
	}

	return o.launcher.Launch(ctx, argv)
}

// Macros makes the macros of a ".macros" file the current set.
func (o *FileOpener) Macros(ctx context.Context, path string) error {
	values, err := kvp.ParseFile(path)
	if err != nil {
		return err
	}

	set, err := MacroSetFromValues(path, values)
	if err != nil {
		return err
	}

	if o.macros != nil {
		o.macros.SetCurrentMacros(set)
	}
	o.logger.Info("loaded macros", "file", path, "count", len(set.Macros))
	return nil
}

// Prefs imports a property list of preferences, renaming it if needed.
func (o *FileOpener) Prefs(ctx context.Context, path string) error {
	dest, err := ImportPrefs(path, o.prefsDir)
	if err != nil {
		return err
	}
	o.logger.Info("imported preferences", "file", path, "saved", dest)
	return nil
}

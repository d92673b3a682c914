package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// ErrEmptyCommand is returned when there is no program to run.
var ErrEmptyCommand = errors.New("empty command")

// DefaultScrubEnv lists the variables a launcher front end sets for itself
// that should not leak into user sessions.
var DefaultScrubEnv = []string{
	"DYLD_FRAMEWORK_PATH",
	"DYLD_LIBRARY_PATH",
	"INITIAL_APP_BUNDLE_DIR",
	"PYTHONEXECUTABLE",
	"PYTHONPATH",
	"VERSIONER_PYTHON_PREFER_32_BIT",
	"VERSIONER_PYTHON_VERSION",
}

// Launcher starts a session running a program. Launch returns once the
// program has started; failures after that point are not reported to the
// caller.
type Launcher interface {
	Launch(ctx context.Context, argv []string) error
}

// ExecLauncher runs sessions as child processes.
type ExecLauncher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	env    []string
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewExecLauncher creates a launcher whose children get the current
// environment minus the scrubbed variables.
func NewExecLauncher(logger *slog.Logger, scrub []string) *ExecLauncher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecLauncher{
		env:    ScrubEnv(os.Environ(), scrub),
		logger: logger,
	}
}

// Env returns the environment children are started with.
func (l *ExecLauncher) Env() []string {
	return l.env
}

func (l *ExecLauncher) Launch(ctx context.Context, argv []string) error {
	if len(argv) == 0 || argv[0] == "" {
		return ErrEmptyCommand
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// sessions outlive the request that opened them, so ctx does not
	// bound the process
	// #nosec G204 - running user-chosen programs is the point of a session
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = l.env
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	l.logger.Debug("session started", "argv", argv, "pid", cmd.Process.Pid)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := cmd.Wait(); err != nil {
			l.logger.Warn("session ended with error", "argv", argv, "error", err)
			return
		}
		l.logger.Debug("session ended", "argv", argv)
	}()

	return nil
}

// Wait blocks until every session started so far has exited.
func (l *ExecLauncher) Wait() {
	l.wg.Wait()
}

// DryRunLauncher records sessions instead of starting them.
type DryRunLauncher struct {
	mu       sync.Mutex
	launched [][]string
	logger   *slog.Logger
}

// NewDryRunLauncher creates a recording launcher. A nil logger disables
// logging.
func NewDryRunLauncher(logger *slog.Logger) *DryRunLauncher {
	return &DryRunLauncher{logger: logger}
}

func (l *DryRunLauncher) Launch(ctx context.Context, argv []string) error {
	if len(argv) == 0 || argv[0] == "" {
		return ErrEmptyCommand
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	l.launched = append(l.launched, append([]string(nil), argv...))
	l.mu.Unlock()

	if l.logger != nil {
		l.logger.Info("dry run, not starting session", "argv", argv)
	}
	return nil
}

// Launched returns a copy of every argv recorded so far.
func (l *DryRunLauncher) Launched() [][]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([][]string, len(l.launched))
	copy(out, l.launched)
	return out
}

// Last returns the most recently recorded argv, or nil.
func (l *DryRunLauncher) Last() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.launched) == 0 {
		return nil
	}
	return l.launched[len(l.launched)-1]
}

// ScrubEnv returns environ without the named variables.
func ScrubEnv(environ []string, names []string) []string {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}

	out := make([]string, 0, len(environ))
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if drop[name] {
			continue
		}
		out = append(out, kv)
	}
	return out
}

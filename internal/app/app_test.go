package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/macterm/quillkit/internal/config"
	"github.com/macterm/quillkit/internal/engine"
	"github.com/macterm/quillkit/internal/handlers"
	"github.com/macterm/quillkit/internal/logging"
	"github.com/macterm/quillkit/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.PrefsDir = filepath.Join(dir, "preferences")
	cfg.DryRun = true
	return cfg
}

func TestNewRegistersEverything(t *testing.T) {
	a, err := New(testConfig(t), logging.Discard())
	require.NoError(t, err)

	assert.True(t, a.Terminal().HasWordSeeker())
	assert.Equal(t, handlers.AllURLKinds, a.Registry().URLKinds())
	assert.Contains(t, a.Registry().Extensions(), "macros")
	assert.IsType(t, &session.DryRunLauncher{}, a.Launcher())

	start, length := a.Terminal().SeekWord("say (hello) now", 6)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, length)

	assert.Equal(t, "<ESC>", a.Terminal().DumbString(27))
	assert.Equal(t, "^A", a.Terminal().DumbString(1))
	assert.Equal(t, "A", a.Terminal().DumbString('A'))
	assert.Equal(t, "<u200>", a.Terminal().DumbString(200))
}

func TestNewSimpleMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.WordMode = "simple"
	a, err := New(cfg, logging.Discard())
	require.NoError(t, err)

	start, length := a.Terminal().SeekWord("say (hello) now", 6)
	assert.Equal(t, 4, start)
	assert.Equal(t, 7, length)
}

func TestNewRejectsBadMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.WordMode = "greedy"
	_, err := New(cfg, logging.Discard())
	assert.Error(t, err)
}

func TestNewUsesExecLauncher(t *testing.T) {
	cfg := testConfig(t)
	cfg.DryRun = false
	a, err := New(cfg, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &session.ExecLauncher{}, a.Launcher())
}

func TestOptions(t *testing.T) {
	launcher := session.NewDryRunLauncher(nil)
	terminal := engine.NewTerminal(nil)
	cfg := testConfig(t)
	cfg.DryRun = false

	a, err := New(cfg, logging.Discard(), WithLauncher(launcher), WithTerminal(terminal))
	require.NoError(t, err)
	assert.Same(t, terminal, a.Terminal())
	assert.True(t, terminal.HasWordSeeker())

	require.NoError(t, a.OpenURL(context.Background(), "x-man-page://3/printf"))
	assert.Equal(t, []string{"/usr/bin/man", "3", "printf"}, launcher.Last())
}

func TestOpenURLLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	a, err := New(testConfig(t), logger)
	require.NoError(t, err)

	err = a.OpenURL(context.Background(), "gopher://example.com")
	assert.ErrorIs(t, err, handlers.ErrUnsupported)
	assert.Contains(t, buf.String(), "failed to open url")
	assert.Contains(t, buf.String(), "gopher://example.com")
}

func TestOpenMacrosFileSetsCurrentSet(t *testing.T) {
	a, err := New(testConfig(t), logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, a.CurrentMacros())

	path := filepath.Join(t.TempDir(), "keys.macros")
	require.NoError(t, os.WriteFile(path, []byte("f1 = \"make test\"\n"), 0644))

	require.NoError(t, a.OpenFile(context.Background(), path))
	set := a.CurrentMacros()
	require.NotNil(t, set)
	m, ok := set.Get(1)
	require.True(t, ok)
	assert.Equal(t, "make test", m.Contents)
}

func TestStartOpensInitialWorkspace(t *testing.T) {
	launcher := session.NewDryRunLauncher(nil)
	cfg := testConfig(t)

	a, err := New(cfg, logging.Discard(), WithLauncher(launcher))
	require.NoError(t, err)
	require.NoError(t, a.Start(context.Background()))
	assert.Empty(t, launcher.Launched())

	path := filepath.Join(t.TempDir(), "start.session")
	require.NoError(t, os.WriteFile(path, []byte("command = top -o cpu\n"), 0644))
	cfg.InitialWorkspace = path

	a, err = New(cfg, logging.Discard(), WithLauncher(launcher))
	require.NoError(t, err)
	assert.Equal(t, path, a.InitialWorkspace())
	require.NoError(t, a.Start(context.Background()))
	assert.Equal(t, []string{"top", "-o", "cpu"}, launcher.Last())
}

func TestCloseRunsFinishHook(t *testing.T) {
	touch, err := exec.LookPath("touch")
	if err != nil {
		t.Skip("touch not available")
	}

	marker := filepath.Join(t.TempDir(), "finished")
	cfg := testConfig(t)
	cfg.OnFinish = touch + " " + marker

	a, err := New(cfg, logging.Discard())
	require.NoError(t, err)
	a.Close(context.Background())
	assert.FileExists(t, marker)

	require.NoError(t, os.Remove(marker))
	a.Close(context.Background())
	assert.NoFileExists(t, marker)
}

func TestCloseLogsHookFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cfg := testConfig(t)
	cfg.OnFinish = filepath.Join(t.TempDir(), "no-such-hook")

	a, err := New(cfg, logger)
	require.NoError(t, err)
	a.Close(context.Background())
	assert.Contains(t, buf.String(), "finish hook failed")
}

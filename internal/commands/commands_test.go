package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/macterm/quillkit/internal/app"
	"github.com/macterm/quillkit/internal/config"
	"github.com/macterm/quillkit/internal/handlers"
	"github.com/macterm/quillkit/internal/logging"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T) AppFunc {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.PrefsDir = filepath.Join(cfg.DataDir, "preferences")
	cfg.DryRun = true

	a, err := app.New(cfg, logging.Discard())
	require.NoError(t, err)
	return func() (*app.App, error) { return a, nil }
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestWordCmd(t *testing.T) {
	out, err := run(t, NewWordCmd(testApp(t)), "see (https://example.com) now", "10")
	require.NoError(t, err)
	assert.Equal(t, "5 19 https://example.com\n", out)

	out, err = run(t, NewWordCmd(testApp(t)), "--simple", "see (https://example.com) now", "10")
	require.NoError(t, err)
	assert.Equal(t, "4 21 (https://example.com)\n", out)
}

func TestWordCmdJSON(t *testing.T) {
	out, err := run(t, NewWordCmd(testApp(t)), "--json", `say "hi"`, "5")
	require.NoError(t, err)

	var res wordResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, wordResult{Start: 5, Length: 2, Word: "hi", Mode: "full"}, res)
}

func TestWordCmdErrors(t *testing.T) {
	_, err := run(t, NewWordCmd(testApp(t)), "text", "four")
	assert.ErrorContains(t, err, "integer")

	_, err = run(t, NewWordCmd(testApp(t)), "text", "9")
	assert.ErrorContains(t, err, "out of range")

	_, err = run(t, NewWordCmd(testApp(t)), "text")
	assert.Error(t, err)
}

func TestRenderCmdCodes(t *testing.T) {
	out, err := run(t, NewRenderCmd(testApp(t)), "27", "0x01", "A", "300")
	require.NoError(t, err)
	assert.Equal(t, "27\t<ESC>\n1\t^A\n65\tA\n300\t<u300>\n", out)

	_, err = run(t, NewRenderCmd(testApp(t)), "abc")
	assert.ErrorContains(t, err, "not a character code")
}

func TestRenderCmdTable(t *testing.T) {
	out, err := run(t, NewRenderCmd(testApp(t)), "--width", "38")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// three 12-wide cells with single spaces fit in 38 columns
	assert.Len(t, lines, 86)
	assert.True(t, strings.HasPrefix(lines[0], "  0 ^@"))
	assert.Contains(t, out, " 27 <ESC>")
	assert.Contains(t, out, "255 <u255>")
}

func TestOpenURLCmdDryRun(t *testing.T) {
	out, err := run(t, NewOpenCmd(testApp(t)), "url", "ssh://me@example.com:2222")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/ssh -2 -l me -p 2222 example.com\n", out)

	_, err = run(t, NewOpenCmd(testApp(t)), "url", "gopher://example.com")
	assert.ErrorIs(t, err, handlers.ErrUnsupported)
}

func TestOpenFileCmd(t *testing.T) {
	dir := t.TempDir()
	session := filepath.Join(dir, "box.session")
	require.NoError(t, os.WriteFile(session, []byte("command = \"ssh -2 box\"\n"), 0644))
	macros := filepath.Join(dir, "keys.macros")
	require.NoError(t, os.WriteFile(macros, []byte("f1 = ls\nm1 = pwd\n"), 0644))

	getApp := testApp(t)

	out, err := run(t, NewOpenCmd(getApp), "file", session)
	require.NoError(t, err)
	assert.Equal(t, "ssh -2 box\n", out)

	out, err = run(t, NewOpenCmd(getApp), "file", macros)
	require.NoError(t, err)
	assert.Equal(t, "Macro 1   ls\nMacro 2   pwd\n", out)

	_, err = run(t, NewOpenCmd(getApp), "file", filepath.Join(dir, "notes.txt"))
	assert.ErrorIs(t, err, handlers.ErrUnsupported)
}

func TestOpenKindsCmd(t *testing.T) {
	out, err := run(t, NewOpenCmd(testApp(t)), "kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "URL schemes: file, sftp, ssh, telnet, ftp, rlogin, x-man-page")
	assert.Contains(t, out, "session")
}

func TestKvpCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.session")
	require.NoError(t, os.WriteFile(path, []byte("name = \"box\"\nports = {22, \"80\", x}\n"), 0644))

	out, err := run(t, NewKvpCmd(), path)
	require.NoError(t, err)
	assert.Equal(t, "name: box\nports: (22, 80, x)\n", out)

	out, err = run(t, NewKvpCmd(), "--json", path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "box", decoded["name"])
	assert.Equal(t, []any{float64(22), float64(80), "x"}, decoded["ports"])

	_, err = run(t, NewKvpCmd(), filepath.Join(t.TempDir(), "missing.session"))
	assert.Error(t, err)
}

func TestCwdCmdRejectsBadPid(t *testing.T) {
	_, err := run(t, NewCwdCmd(testApp(t)), "12", "abc")
	assert.ErrorContains(t, err, "not a process ID")

	_, err = run(t, NewCwdCmd(testApp(t)), "0")
	assert.Error(t, err)
}

func TestSelfCmd(t *testing.T) {
	out, err := run(t, NewSelfCmd(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "quillkit version:")
}

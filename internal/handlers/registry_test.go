package handlers

import (
	"context"
	"testing"

	"github.com/macterm/quillkit/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLKindRoundTrip(t *testing.T) {
	for _, kind := range AllURLKinds {
		got, err := ParseURLKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	_, err := ParseURLKind("gopher")
	assert.ErrorIs(t, err, ErrUnsupported)

	got, err := ParseURLKind("SSH")
	require.NoError(t, err)
	assert.Equal(t, URLSSH, got)
}

func TestSchemeOf(t *testing.T) {
	tests := map[string]string{
		"ssh://host":            "ssh",
		"X-Man-Page://ls":       "x-man-page",
		"file:///tmp":           "file",
		"/just/a/path":          "",
		"1bad://scheme":         "",
		"no scheme at all":      "",
		"svn+ssh://example.com": "svn+ssh",
	}
	for in, want := range tests {
		assert.Equal(t, want, SchemeOf(in), "input %q", in)
	}
}

func TestRegistryOpenURL(t *testing.T) {
	launcher := session.NewDryRunLauncher(nil)
	r := NewRegistry()
	NewURLOpener(DefaultPrograms(), launcher).Register(r)

	require.NoError(t, r.OpenURL(context.Background(), "ssh://me@host:2222"))
	assert.Equal(t, []string{"/usr/bin/ssh", "-2", "-l", "me", "-p", "2222", "host"}, launcher.Last())

	assert.ErrorIs(t, r.OpenURL(context.Background(), "gopher://host"), ErrUnsupported)
	assert.ErrorIs(t, r.OpenURL(context.Background(), "no-colon-here"), ErrUnsupported)

	assert.Equal(t, AllURLKinds, r.URLKinds())
}

func TestRegistryUnregisteredKind(t *testing.T) {
	r := NewRegistry()
	called := false
	r.HandleURL(URLSSH, URLHandlerFunc(func(ctx context.Context, rawURL string) error {
		called = true
		return nil
	}))

	require.NoError(t, r.OpenURL(context.Background(), "ssh://host"))
	assert.True(t, called)

	kind, _, err := r.ResolveURL("telnet://host")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Equal(t, URLTelnet, kind)
}

func TestRegistryResolveFile(t *testing.T) {
	r := NewRegistry()
	NewFileOpener(session.NewDryRunLauncher(nil), t.TempDir(), nil, nil).Register(r)

	tests := map[string]FileKind{
		"/tmp/run.sh":         FileScript,
		"/tmp/RUN.ZSH":        FileScript,
		"/tmp/tool.command":   FileScript,
		"/tmp/prefs.plist":    FilePrefs,
		"/tmp/export.xml":     FilePrefs,
		"/tmp/host.session":   FileSession,
		"/tmp/my.macros":      FileMacros,
		"/tmp/script.py":      FileScript,
		"/tmp/older.tcsh":     FileScript,
		"/tmp/something.tool": FileScript,
	}
	for path, want := range tests {
		kind, h, err := r.ResolveFile(path)
		require.NoError(t, err, path)
		assert.NotNil(t, h, path)
		assert.Equal(t, want, kind, path)
	}

	_, _, err := r.ResolveFile("/tmp/readme.txt")
	assert.ErrorIs(t, err, ErrUnsupported)

	r.MapExtension("txt", FileScript)
	kind, _, err := r.ResolveFile("/tmp/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, FileScript, kind)

	assert.Contains(t, r.Extensions(), "session")
	assert.Contains(t, r.Extensions(), "txt")
}

func TestRegistryFileKindWithoutHandler(t *testing.T) {
	r := NewRegistry()
	_, _, err := r.ResolveFile("/tmp/run.sh")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Empty(t, r.Extensions())
}

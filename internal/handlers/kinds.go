package handlers

import (
	"fmt"
	"path/filepath"
	"strings"
)

// URLKind identifies a URL scheme that can be opened as a session.
type URLKind int

const (
	URLFile URLKind = iota
	URLSFTP
	URLSSH
	URLTelnet
	URLFTP
	URLRlogin
	URLXManPage
)

var urlSchemes = map[URLKind]string{
	URLFile:     "file",
	URLSFTP:     "sftp",
	URLSSH:      "ssh",
	URLTelnet:   "telnet",
	URLFTP:      "ftp",
	URLRlogin:   "rlogin",
	URLXManPage: "x-man-page",
}

// AllURLKinds lists every known URL kind.
var AllURLKinds = []URLKind{URLFile, URLSFTP, URLSSH, URLTelnet, URLFTP, URLRlogin, URLXManPage}

// String returns the URL scheme.
func (k URLKind) String() string {
	if s, ok := urlSchemes[k]; ok {
		return s
	}
	return fmt.Sprintf("URLKind(%d)", int(k))
}

// ParseURLKind maps a scheme to its kind.
func ParseURLKind(scheme string) (URLKind, error) {
	scheme = strings.ToLower(scheme)
	for kind, s := range urlSchemes {
		if s == scheme {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: URL scheme %q", ErrUnsupported, scheme)
}

// SchemeOf returns the scheme of rawURL, or "" when it has none.
func SchemeOf(rawURL string) string {
	i := strings.Index(rawURL, ":")
	if i <= 0 {
		return ""
	}
	scheme := rawURL[:i]
	for j, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return ""
		}
	}
	return strings.ToLower(scheme)
}

// FileKind identifies how a file is opened.
type FileKind int

const (
	// FileScript runs the file itself as the session's program.
	FileScript FileKind = iota
	// FilePrefs imports an XML property list of preferences.
	FilePrefs
	// FileSession starts the command described by a ".session" file.
	FileSession
	// FileMacros installs the macros of a ".macros" file.
	FileMacros
)

func (k FileKind) String() string {
	switch k {
	case FileScript:
		return "script"
	case FilePrefs:
		return "prefs"
	case FileSession:
		return "session"
	case FileMacros:
		return "macros"
	default:
		return fmt.Sprintf("FileKind(%d)", int(k))
	}
}

// DefaultExtensions maps file name extensions, without the dot, to kinds.
var DefaultExtensions = map[string]FileKind{
	"bash":    FileScript,
	"command": FileScript,
	"csh":     FileScript,
	"pl":      FileScript,
	"py":      FileScript,
	"sh":      FileScript,
	"tcl":     FileScript,
	"tcsh":    FileScript,
	"tool":    FileScript,
	"zsh":     FileScript,
	"plist":   FilePrefs,
	"xml":     FilePrefs,
	"session": FileSession,
	"macros":  FileMacros,
}

// Extension returns the lowercase extension of path without the dot.
func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

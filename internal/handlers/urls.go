package handlers

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/macterm/quillkit/internal/session"
	"github.com/macterm/quillkit/internal/urlparse"
)

// Programs holds the paths of the programs sessions run.
type Programs struct {
	Emacs  string
	SFTP   string
	SSH    string
	Telnet string
	FTP    string
	Man    string
}

// DefaultPrograms returns the standard system locations.
func DefaultPrograms() Programs {
	return Programs{
		Emacs:  "/usr/bin/emacs",
		SFTP:   "/usr/bin/sftp",
		SSH:    "/usr/bin/ssh",
		Telnet: "/usr/bin/telnet",
		FTP:    "/usr/bin/ftp",
		Man:    "/usr/bin/man",
	}
}

// URLOpener starts sessions for URLs.
type URLOpener struct {
	programs Programs
	launcher session.Launcher
	homeDir  func() string
}

// NewURLOpener creates an opener that starts sessions with launcher.
func NewURLOpener(programs Programs, launcher session.Launcher) *URLOpener {
	return &URLOpener{
		programs: programs,
		launcher: launcher,
		homeDir:  homeDir,
	}
}

// Register installs a handler for every URL kind.
func (o *URLOpener) Register(r *Registry) {
	r.HandleURL(URLFile, URLHandlerFunc(o.File))
	r.HandleURL(URLSFTP, URLHandlerFunc(o.SFTP))
	r.HandleURL(URLSSH, URLHandlerFunc(o.SSH))
	r.HandleURL(URLTelnet, URLHandlerFunc(o.Telnet))
	r.HandleURL(URLFTP, URLHandlerFunc(o.FTP))
	r.HandleURL(URLRlogin, URLHandlerFunc(o.Rlogin))
	r.HandleURL(URLXManPage, URLHandlerFunc(o.XManPage))
}

// File opens emacs in file browser mode on the URL's path. Emacs can start
// at a given location and stays running for other tasks.
func (o *URLOpener) File(ctx context.Context, rawURL string) error {
	loc, err := urlparse.File(rawURL)
	if err != nil {
		return err
	}

	path := loc.Path
	switch {
	case path == "" || path == "~":
		path = o.homeDir()
	case strings.HasPrefix(path, "~/"):
		path = filepath.Join(o.homeDir(), path[2:])
	}

	return o.launcher.Launch(ctx, []string{o.programs.Emacs, "--file=" + path})
}

// SFTP runs sftp, which takes the user in "user@host" form.
func (o *URLOpener) SFTP(ctx context.Context, rawURL string) error {
	loc, err := urlparse.SFTP(rawURL)
	if err != nil {
		return err
	}
	if loc.Host == "" {
		return fmt.Errorf("%w: sftp %q", ErrUnsupportedForm, rawURL)
	}

	argv := []string{o.programs.SFTP}
	if loc.Port != 0 {
		argv = append(argv, "-oPort="+strconv.Itoa(loc.Port))
	}
	argv = append(argv, userAtHost(loc))

	return o.launcher.Launch(ctx, argv)
}

// SSH runs ssh with protocol version 2.
func (o *URLOpener) SSH(ctx context.Context, rawURL string) error {
	loc, err := urlparse.SSH(rawURL)
	if err != nil {
		return err
	}
	if loc.Host == "" {
		return fmt.Errorf("%w: ssh %q", ErrUnsupportedForm, rawURL)
	}

	argv := []string{o.programs.SSH, "-2"}
	if loc.User != "" {
		argv = append(argv, "-l", loc.User)
	}
	if loc.Port != 0 {
		argv = append(argv, "-p", strconv.Itoa(loc.Port))
	}
	argv = append(argv, loc.Host)

	return o.launcher.Launch(ctx, argv)
}

// Telnet runs telnet, which takes the port as a trailing argument.
func (o *URLOpener) Telnet(ctx context.Context, rawURL string) error {
	loc, err := urlparse.Telnet(rawURL)
	if err != nil {
		return err
	}
	return o.telnet(ctx, rawURL, loc)
}

// Rlogin is an alias of Telnet for "rlogin://" URLs.
func (o *URLOpener) Rlogin(ctx context.Context, rawURL string) error {
	loc, err := urlparse.Rlogin(rawURL)
	if err != nil {
		return err
	}
	return o.telnet(ctx, rawURL, loc)
}

func (o *URLOpener) telnet(ctx context.Context, rawURL string, loc urlparse.Location) error {
	if loc.Host == "" {
		return fmt.Errorf("%w: telnet %q", ErrUnsupportedForm, rawURL)
	}

	argv := []string{o.programs.Telnet}
	if loc.User != "" {
		argv = append(argv, "-l", loc.User)
	}
	argv = append(argv, loc.Host)
	if loc.Port != 0 {
		argv = append(argv, strconv.Itoa(loc.Port))
	}

	return o.launcher.Launch(ctx, argv)
}

// FTP runs ftp with "user@host" and a trailing port.
func (o *URLOpener) FTP(ctx context.Context, rawURL string) error {
	loc, err := urlparse.FTP(rawURL)
	if err != nil {
		return err
	}
	if loc.Host == "" {
		return fmt.Errorf("%w: ftp %q", ErrUnsupportedForm, rawURL)
	}

	argv := []string{o.programs.FTP, userAtHost(loc)}
	if loc.Port != 0 {
		argv = append(argv, strconv.Itoa(loc.Port))
	}

	return o.launcher.Launch(ctx, argv)
}

// XManPage runs man for the URL's command and optional section.
func (o *URLOpener) XManPage(ctx context.Context, rawURL string) error {
	loc, err := urlparse.XManPage(rawURL)
	if err != nil {
		return err
	}

	switch {
	case loc.Cmd == "":
		return fmt.Errorf("%w: x-man-page %q", ErrUnsupportedForm, rawURL)
	case loc.Section != "":
		return o.launcher.Launch(ctx, []string{o.programs.Man, loc.Section, loc.Cmd})
	default:
		return o.launcher.Launch(ctx, []string{o.programs.Man, loc.Cmd})
	}
}

func userAtHost(loc urlparse.Location) string {
	if loc.User != "" {
		return loc.User + "@" + loc.Host
	}
	return loc.Host
}

// homeDir looks up the user's home directory, falling back to $HOME and
// then to the root directory.
func homeDir() string {
	if u, err := user.Current(); err == nil && u.HomeDir != "" {
		return u.HomeDir
	}
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	return "/"
}

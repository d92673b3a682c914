// Package urlparse distills the URL types a terminal can open into their
// user, host, port, path and man page components.
package urlparse

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrWrongScheme is wrapped by every error for a URL of the wrong type.
var ErrWrongScheme = errors.New("wrong URL scheme")

// SchemeError reports a URL that does not have the scheme a parser expects.
type SchemeError struct {
	Scheme string
	URL    string
}

func (e *SchemeError) Error() string {
	article := "a"
	switch e.Scheme {
	case "ftp", "sftp", "ssh", "x-man-page":
		article = "an"
	}
	return fmt.Sprintf("not %s %s URL: %q", article, e.Scheme, e.URL)
}

func (e *SchemeError) Is(target error) bool {
	return target == ErrWrongScheme
}

// Location holds the parts of a URL. Empty strings and a zero Port mean the
// part is absent.
type Location struct {
	User    string
	Host    string
	Port    int
	Path    string
	Section string
	Cmd     string
}

// String describes the location with its present parts in sorted key order.
func (l Location) String() string {
	var parts []string
	if l.Cmd != "" {
		parts = append(parts, "cmd:"+l.Cmd)
	}
	if l.Host != "" {
		parts = append(parts, "host:"+l.Host)
	}
	if l.Path != "" {
		parts = append(parts, "path:"+l.Path)
	}
	if l.Port != 0 {
		parts = append(parts, "port:"+strconv.Itoa(l.Port))
	}
	if l.Section != "" {
		parts = append(parts, "section:"+l.Section)
	}
	if l.User != "" {
		parts = append(parts, "user:"+l.User)
	}
	return strings.Join(parts, " ")
}

// File returns the path of a "file://" URL. A string without a scheme is
// treated as a file URL unless it contains spaces. An empty path becomes "/".
// "file://~/dir" keeps the "~" so the opener can expand it.
func File(rawURL string) (Location, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Location{}, &SchemeError{Scheme: "file", URL: rawURL}
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return Location{}, &SchemeError{Scheme: "file", URL: rawURL}
	}

	path := u.Path
	if u.Opaque != "" {
		path = u.Opaque
	}
	if u.Host == "~" {
		path = "~" + path
	}
	if strings.Contains(path, " ") {
		return Location{}, &SchemeError{Scheme: "file", URL: rawURL}
	}
	if path == "" {
		path = "/"
	}

	return Location{Path: path}, nil
}

// SFTP returns the user, host and port of an "sftp://user@host:port" URL.
func SFTP(rawURL string) (Location, error) {
	return netLocation("sftp", rawURL)
}

// SSH returns the user, host and port of an "ssh://user@host:port" URL.
func SSH(rawURL string) (Location, error) {
	return netLocation("ssh", rawURL)
}

// Telnet returns the user, host and port of a "telnet://user@host:port" URL.
func Telnet(rawURL string) (Location, error) {
	return netLocation("telnet", rawURL)
}

// Rlogin returns the user, host and port of an "rlogin://user@host:port" URL.
func Rlogin(rawURL string) (Location, error) {
	return netLocation("rlogin", rawURL)
}

// FTP returns the user, host and port of an "ftp://user@host:port" URL.
func FTP(rawURL string) (Location, error) {
	return netLocation("ftp", rawURL)
}

// netLocation parses URL types whose format is not fully standardized, so the
// scheme is matched by prefix rather than with net/url.
func netLocation(scheme, rawURL string) (Location, error) {
	prefix := scheme + "://"
	if !strings.HasPrefix(strings.ToLower(rawURL), prefix) {
		return Location{}, &SchemeError{Scheme: scheme, URL: rawURL}
	}

	netloc := SlashFreePath(rawURL[len(scheme)+1:])
	var path string
	if i := strings.IndexByte(netloc, '/'); i >= 0 {
		netloc, path = netloc[:i], netloc[i:]
	}

	user, host, port := UserHostPort(netloc)
	return Location{User: user, Host: host, Port: port, Path: path}, nil
}

// XManPage returns the command and optional section of an
// "x-man-page://section/cmd" URL.
func XManPage(rawURL string) (Location, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "x-man-page" {
		return Location{}, &SchemeError{Scheme: "x-man-page", URL: rawURL}
	}

	if u.Opaque != "" {
		return Location{Cmd: SlashFreePath(u.Opaque)}, nil
	}

	if path := SlashFreePath(u.Path); path != "" {
		return Location{Section: u.Host, Cmd: path}, nil
	}

	return Location{Cmd: u.Host}, nil
}

// UserHostPort splits a "user@host:port" net location. Missing or malformed
// parts come back empty, or zero for the port.
func UserHostPort(netloc string) (user, host string, port int) {
	elements := strings.Split(netloc, "@")
	if len(elements) > 2 {
		return "", "", 0
	}

	remainder := elements[0]
	if len(elements) == 2 {
		user = elements[0]
		remainder = elements[1]
	}

	host, port = HostPort(remainder)
	return user, host, port
}

// HostPort splits a "host:port" net location. Bracketed IPv6 hosts such as
// "[::1]:22" are accepted. A port that is not a number from 1 to 65535 is
// treated as absent.
func HostPort(netloc string) (host string, port int) {
	var portText string

	if strings.HasPrefix(netloc, "[") {
		end := strings.IndexByte(netloc, ']')
		if end < 0 {
			return "", 0
		}
		host = netloc[1:end]
		rest := netloc[end+1:]
		if rest != "" {
			if !strings.HasPrefix(rest, ":") {
				return "", 0
			}
			portText = rest[1:]
		}
	} else {
		elements := strings.Split(netloc, ":")
		if len(elements) > 2 {
			return "", 0
		}
		host = elements[0]
		if len(elements) == 2 {
			portText = elements[1]
		}
	}

	if portText != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(portText)); err == nil && n > 0 && n <= 65535 {
			port = n
		}
	}

	return host, port
}

// SlashFreePath removes all leading and trailing slashes from path. Inner
// slashes are kept.
func SlashFreePath(path string) string {
	return strings.Trim(path, "/")
}

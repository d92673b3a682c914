package version

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Repository URL for quillkit
	RepoUrl = "https://github.com/macterm/quillkit"
)

type PackageInfo struct {
	PackageName        string `json:"package_name"`
	RepoUrl            string `json:"repo_url"`
	RepoUser           string `json:"repo_user"`
	RepoName           string `json:"repo_name"`
	PackageVersion     string `json:"version"`
	PackageCommit      string `json:"commit"`
	PackageReleaseDate string `json:"date"`
	GoVersion          string `json:"go_version"`
	Platform           string `json:"platform"`
}

// GetPackageInfo returns a struct with information about the current package
func GetPackageInfo() PackageInfo {
	exePath, err := os.Executable()
	binName := "<unknown>"

	if err == nil {
		binName = filepath.Base(exePath)
	}

	repoUser, repoName := parseRepoUrl()
	version, commit := buildVersion()

	return PackageInfo{
		PackageName:        binName,
		RepoUrl:            RepoUrl,
		RepoUser:           repoUser,
		RepoName:           repoName,
		PackageVersion:     version,
		PackageCommit:      commit,
		PackageReleaseDate: Date,
		GoVersion:          runtime.Version(),
		Platform:           runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// buildVersion prefers values injected with -ldflags and falls back to the
// module build info for "go install" builds.
func buildVersion() (version, commit string) {
	version, commit = Version, Commit

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit
	}
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	if commit == "none" {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				commit = s.Value
			}
		}
	}
	return version, commit
}

// parseRepoUrl extracts the user/org and repo name from the repository URL
func parseRepoUrl() (user, repo string) {
	u, err := url.Parse(RepoUrl)
	if err != nil {
		return "<unknown>", "<unknown>"
	}

	// Path should be like "/macterm/quillkit"
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) >= 2 {
		return parts[0], parts[1]
	}

	return "<unknown>", "<unknown>"
}

// GetVersionString returns a formatted version string
func GetVersionString() string {
	version, commit := buildVersion()
	return fmt.Sprintf("quillkit version:%s commit:%s date:%s", version, commit, Date)
}

// GetShortVersion returns just the version number
func GetShortVersion() string {
	return Version
}

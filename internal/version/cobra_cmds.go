package version

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates a 'version' subcommand that prints the package's version
func NewVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print quillkit's version",
		Long:  "Display version information including git commit and build date.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), GetShortVersion())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), GetVersionString())
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")

	return cmd
}

// NewInfoCommand creates an 'info' subcommand that prints detailed package information
func NewInfoCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show detailed information about quillkit",
		Long:  "Display build and repository details for this quillkit binary.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgInfo := GetPackageInfo()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(pkgInfo)
			}

			fmt.Fprintf(out, "Program: %s\n", pkgInfo.PackageName)
			fmt.Fprintf(out, "Owner: %s\n", pkgInfo.RepoUser)
			fmt.Fprintf(out, "Repository: %s\n", pkgInfo.RepoName)
			fmt.Fprintf(out, "Repository URL: %s\n", pkgInfo.RepoUrl)
			fmt.Fprintf(out, "Version: %s\n", pkgInfo.PackageVersion)
			fmt.Fprintf(out, "Commit: %s\n", pkgInfo.PackageCommit)
			fmt.Fprintf(out, "Build Date: %s\n", pkgInfo.PackageReleaseDate)
			fmt.Fprintf(out, "Go: %s (%s)\n", pkgInfo.GoVersion, pkgInfo.Platform)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the information as JSON")

	return cmd
}

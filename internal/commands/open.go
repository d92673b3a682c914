package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/macterm/quillkit/internal/app"
	"github.com/macterm/quillkit/internal/session"
	"github.com/spf13/cobra"
)

// NewOpenCmd creates the open command with its url and file subcommands
func NewOpenCmd(getApp AppFunc) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open URLs and files the way the terminal does",
		Long: `Dispatches a URL by scheme, or a file by extension, to the handler that
starts a session for it. Use --dry-run to print the command instead.`,
	}

	urlCmd := &cobra.Command{
		Use:   "url <url>",
		Short: "Open a file, sftp, ssh, telnet, rlogin, ftp or x-man-page URL",
		Example: `  qk open url ssh://me@example.com:2222
  qk --dry-run open url x-man-page://3/printf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			before := launchCount(a)
			if err := a.OpenURL(cmd.Context(), args[0]); err != nil {
				return err
			}
			return finishOpen(cmd, a, wait, before)
		},
	}

	fileCmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Open a script, .session, .macros or property list file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", args[0], err)
			}
			before := launchCount(a)
			if err := a.OpenFile(cmd.Context(), path); err != nil {
				return err
			}
			if set := a.CurrentMacros(); set != nil {
				for _, m := range set.Macros {
					fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s\n", m.Name, m.Contents)
				}
			}
			return finishOpen(cmd, a, wait, before)
		},
	}

	kindsCmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the registered URL schemes and file extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			schemes := make([]string, 0)
			for _, kind := range a.Registry().URLKinds() {
				schemes = append(schemes, kind.String())
			}
			fmt.Fprintf(out, "URL schemes: %s\n", strings.Join(schemes, ", "))
			fmt.Fprintf(out, "File extensions: %s\n", strings.Join(a.Registry().Extensions(), ", "))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&wait, "wait", false, "Wait for the started session to exit")
	cmd.AddCommand(urlCmd, fileCmd, kindsCmd)

	return cmd
}

func launchCount(a *app.App) int {
	if l, ok := a.Launcher().(*session.DryRunLauncher); ok {
		return len(l.Launched())
	}
	return 0
}

// finishOpen prints what a dry run would have started, or waits for the
// session when asked to.
func finishOpen(cmd *cobra.Command, a *app.App, wait bool, before int) error {
	switch l := a.Launcher().(type) {
	case *session.DryRunLauncher:
		if launched := l.Launched(); len(launched) > before {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(launched[len(launched)-1], " "))
		}
	case *session.ExecLauncher:
		if wait {
			l.Wait()
		}
	}
	return nil
}

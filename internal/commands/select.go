package commands

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/macterm/quillkit/internal/tui"
	"github.com/macterm/quillkit/internal/utils"
	"github.com/spf13/cobra"
)

// NewSelectCmd creates the select command
func NewSelectCmd(getApp AppFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select [file]",
		Short: "Try double-click word selection in a full-screen view",
		Long: `Shows the lines of a file, or of standard input, and selects words the way
the terminal does on double-click. Selections can be copied or opened as URLs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}

			var (
				lines    []string
				title    = "quillkit select"
				progOpts []tea.ProgramOption
			)

			switch {
			case len(args) == 1:
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				if lines, err = tui.LoadLines(f); err != nil {
					return err
				}
				title = filepath.Base(args[0])

			case !utils.IsTerminal(os.Stdin):
				if lines, err = tui.LoadLines(os.Stdin); err != nil {
					return err
				}
				title = "stdin"
				// keys and mouse come from the terminal, not the pipe
				progOpts = append(progOpts, tea.WithInputTTY())
			}

			return tui.Run(lines, tui.Options{
				Title:  title,
				Seeker: a.Terminal(),
				Copy:   utils.CopyToClipboard,
				Open:   a.OpenURL,
				Logger: a.Logger(),
			}, progOpts...)
		},
	}

	return cmd
}

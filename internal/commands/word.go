package commands

import (
	"fmt"
	"strconv"

	"github.com/macterm/quillkit/internal/termtext"
	"github.com/spf13/cobra"
)

type wordResult struct {
	Start  int    `json:"start"`
	Length int    `json:"length"`
	Word   string `json:"word"`
	Mode   string `json:"mode"`
}

// NewWordCmd creates the word command
func NewWordCmd(getApp AppFunc) *cobra.Command {
	var (
		simple bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "word <text> <offset>",
		Short: "Find the word a double-click at offset would select",
		Long: `Runs the word boundary scanner over text, as if the character at offset
(counted in characters, starting at 0) had been double-clicked.`,
		Example: `  qk word 'see (https://example.com) now' 10
  qk word --simple --json 'say "hi"' 5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("offset must be an integer: %w", err)
			}

			a, err := getApp()
			if err != nil {
				return err
			}

			scanner := a.Scanner()
			if simple {
				scanner = termtext.NewScanner(termtext.ModeSimple, a.Logger())
			}

			start, length, err := scanner.FindWord(args[0], offset)
			if err != nil {
				return err
			}

			res := wordResult{
				Start:  start,
				Length: length,
				Word:   termtext.Slice(args[0], start, length),
				Mode:   scanner.Mode().String(),
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %d %s\n", res.Start, res.Length, res.Word)
			return nil
		},
	}

	cmd.Flags().BoolVar(&simple, "simple", false, "Only split on whitespace")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

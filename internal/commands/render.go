package commands

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/macterm/quillkit/internal/engine"
	"github.com/macterm/quillkit/internal/termtext"
	"github.com/macterm/quillkit/internal/utils"
	"github.com/spf13/cobra"
)

// NewRenderCmd creates the render command
func NewRenderCmd(getApp AppFunc) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "render [code...]",
		Short: "Show how a dumb terminal renders character codes",
		Long: `Prints the dumb terminal rendering of each code. Codes may be decimal,
hex (0x1b) or a single quoted character. Without arguments the whole
table for codes 0-255 is printed in as many columns as the terminal fits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			terminal := a.Terminal()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				if width <= 0 {
					width = utils.DetectTerminalWidth(80)
				}
				fmt.Fprint(out, renderTable(terminal, width))
				return nil
			}

			for _, arg := range args {
				code, err := parseCode(arg)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d\t%s\n", code, renderCode(terminal, code))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "Table width (defaults to the terminal width)")

	return cmd
}

// renderCode prefers the engine table and renders codes outside it directly.
func renderCode(t *engine.Terminal, code int) string {
	if s := t.DumbString(code); s != "" {
		return s
	}
	return termtext.DumbRendering(code)
}

func parseCode(arg string) (int, error) {
	if n, err := strconv.ParseInt(arg, 0, 32); err == nil {
		return int(n), nil
	}
	if utf8.RuneCountInString(arg) == 1 {
		r, _ := utf8.DecodeRuneInString(arg)
		return int(r), nil
	}
	return 0, fmt.Errorf("not a character code: %q", arg)
}

func renderTable(t *engine.Terminal, width int) string {
	const cell = 12

	cols := utils.ColumnsFor(width, cell, 1)
	rows := (engine.DumbTableSize + cols - 1) / cols

	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			code := c*rows + r
			if code >= engine.DumbTableSize {
				break
			}
			entry := fmt.Sprintf("%3d %-8s", code, t.DumbString(code))
			if c > 0 {
				b.WriteString(" ")
			}
			b.WriteString(entry)
		}
		b.WriteString("\n")
	}
	return b.String()
}

package commands

import (
	"fmt"

	"github.com/macterm/quillkit/internal/kvp"
	"github.com/spf13/cobra"
)

// NewKvpCmd creates the kvp command
func NewKvpCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "kvp <file>",
		Short: "Parse a .session or .macros key-value file",
		Long: `Parses a file of "key = value" lines and prints the keys in sorted order.
Values in braces are lists; an "encoding" key selects the file's character set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := kvp.ParseFile(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), values)
			}
			for _, key := range values.Keys() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, values[key])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the values as JSON")

	return cmd
}

package commands

import (
	"github.com/macterm/quillkit/internal/version"
	"github.com/spf13/cobra"
)

// NewSelfCmd creates the self command
func NewSelfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "self",
		Short: "Show information about this quillkit binary",
		Long:  `Commands that report on the quillkit installation itself.`,
	}

	cmd.AddCommand(version.NewVersionCommand())
	cmd.AddCommand(version.NewInfoCommand())

	return cmd
}

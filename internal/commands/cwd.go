package commands

import (
	"fmt"
	"strconv"

	"github.com/macterm/quillkit/internal/session"
	"github.com/macterm/quillkit/internal/utils"
	"github.com/spf13/cobra"
)

// NewCwdCmd creates the cwd command
func NewCwdCmd(getApp AppFunc) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "cwd <pid>...",
		Short: "Show the working directory of running processes",
		Long:  `Looks up the current directory of each process with a single lsof call.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pids := make([]int, 0, len(args))
			for _, arg := range args {
				pid, err := strconv.Atoi(arg)
				if err != nil || pid <= 0 {
					return fmt.Errorf("not a process ID: %q", arg)
				}
				pids = append(pids, pid)
			}

			a, err := getApp()
			if err != nil {
				return err
			}

			spin := utils.NewSpinnerOn(cmd.ErrOrStderr())
			spin.Start("looking up working directories")
			cwds, err := a.ProcessCwds(cmd.Context(), pids)
			if err != nil {
				spin.Error("lookup failed")
				return err
			}
			spin.Success(fmt.Sprintf("found %d of %d", len(cwds), len(pids)))

			if asJSON {
				byPid := make(map[string]string, len(cwds))
				for pid, dir := range cwds {
					byPid[strconv.Itoa(pid)] = dir
				}
				return writeJSON(cmd.OutOrStdout(), byPid)
			}

			for _, pid := range session.SortedPids(cwds) {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", pid, cwds[pid])
			}
			for _, pid := range pids {
				if _, ok := cwds[pid]; !ok {
					a.Logger().Warn("no working directory found", "pid", pid)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the directories as JSON")

	return cmd
}

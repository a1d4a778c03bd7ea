package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var revertForce bool

var revertCmd = &cobra.Command{
	Use:   "revert <ref>",
	Short: "Reset the workspace to a snapshot",
	Long: `Hard-reset the workspace to a snapshot. Commits after it disappear
from the history and uncommitted changes are discarded, so --force is
required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !revertForce {
			return fmt.Errorf("revert discards later snapshots and uncommitted changes; re-run with --force")
		}
		repo, err := openRepo()
		if err != nil {
			return err
		}
		if err := repo.Revert(args[0]); err != nil {
			return err
		}
		fmt.Printf("Workspace reset to %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revertCmd)
	revertCmd.Flags().BoolVar(&revertForce, "force", false, "Confirm the destructive reset")
}

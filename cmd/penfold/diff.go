package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff <ref>",
	Short: "Show what a snapshot changed",
	Long: `Show the unified diff a snapshot introduced relative to its parent.
Accepts full or abbreviated commit ids.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepo()
		if err != nil {
			return err
		}
		patch, err := repo.Diff(args[0])
		if err != nil {
			return err
		}
		fmt.Print(patch)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

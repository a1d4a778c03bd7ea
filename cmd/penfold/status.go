package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show uncommitted workspace changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepo()
		if err != nil {
			return err
		}
		st, err := repo.Status()
		if err != nil {
			return err
		}
		fmt.Printf("On branch %s\n", st.Branch)
		if !st.HasChanges {
			fmt.Println("Working tree clean")
			return nil
		}
		printFileGroup("Staged", st.Staged)
		printFileGroup("Modified", st.Modified)
		printFileGroup("Untracked", st.Untracked)
		return nil
	},
}

func printFileGroup(label string, files []string) {
	if len(files) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, f := range files {
		fmt.Printf("  %s\n", f)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	commitMessage string
	commitAuthor  string
	commitEmail   string
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Snapshot the workspace",
	Long: `Stage every change under the project and record a commit. A clean
workspace commits nothing and exits successfully.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepo()
		if err != nil {
			return err
		}
		sha, err := repo.Commit(commitMessage, commitAuthor, commitEmail)
		if err != nil {
			return err
		}
		if sha == "" {
			fmt.Println("Nothing to commit")
			return nil
		}
		fmt.Printf("Committed %s\n", sha[:8])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commitCmd)
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message")
	commitCmd.Flags().StringVar(&commitAuthor, "author", "", "Author name (defaults to the system identity)")
	commitCmd.Flags().StringVar(&commitEmail, "email", "", "Author email (defaults to the system identity)")
	_ = commitCmd.MarkFlagRequired("message")
}

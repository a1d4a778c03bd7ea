package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyPath  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List workspace snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepo()
		if err != nil {
			return err
		}
		commits, err := repo.History(historyLimit, historyPath)
		if err != nil {
			return err
		}
		for _, c := range commits {
			fmt.Printf("%s  %s  %-20s  %s\n",
				c.ShortSHA, c.Date.Format("2006-01-02 15:04"), c.Author, c.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of commits to list")
	historyCmd.Flags().StringVar(&historyPath, "path", "", "Only commits touching this file or directory")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ostrander/penfold/vcs"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a project workspace",
	Long: `Create the project workspace with its standard directory layout and
an initial git snapshot. Running init on an existing project is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, _, err := openWorkspace()
		if err != nil {
			return err
		}
		if err := ws.Init(); err != nil {
			return fmt.Errorf("initialize workspace: %w", err)
		}
		if _, err := vcs.Open(ws.Root()); err != nil {
			return fmt.Errorf("initialize history: %w", err)
		}
		fmt.Printf("Initialized project %s/%s at %s\n", owner, project, ws.Root())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

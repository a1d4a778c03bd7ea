package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ostrander/penfold/config"
	"github.com/ostrander/penfold/vcs"
	"github.com/ostrander/penfold/workspace"
)

var (
	owner   string
	project string
)

var rootCmd = &cobra.Command{
	Use:   "penfold",
	Short: "AI-assisted novel project workspaces",
	Long: `Penfold manages sandboxed novel-writing workspaces, each with a
fixed project layout, full git history, and an AI agent that edits the
files through tool calls.

Quick Start:
  penfold init -u alice -p novel          # Create a project workspace
  penfold chat -u alice -p novel "..."    # Talk to the agent
  penfold commit -u alice -p novel -m ... # Snapshot the workspace
  penfold history -u alice -p novel       # Browse snapshots`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&owner, "user", "u", "", "Workspace owner identifier")
	rootCmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project identifier")
	_ = rootCmd.MarkPersistentFlagRequired("user")
	_ = rootCmd.MarkPersistentFlagRequired("project")
}

// openWorkspace resolves the workspace for the global owner/project
// flags without touching the filesystem.
func openWorkspace() (*workspace.Workspace, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	ws, err := workspace.New(cfg.DataDir, owner, project)
	if err != nil {
		return nil, nil, err
	}
	return ws, cfg, nil
}

// openRepo opens the history store for an existing workspace.
func openRepo() (*vcs.Repository, error) {
	ws, _, err := openWorkspace()
	if err != nil {
		return nil, err
	}
	if !ws.Exists() {
		return nil, fmt.Errorf("project %s/%s does not exist, run init first", owner, project)
	}
	return vcs.Open(filepath.Clean(ws.Root()))
}

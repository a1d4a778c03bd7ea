package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ostrander/penfold/workspace"
)

var treeJSON bool

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the project file tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, _, err := openWorkspace()
		if err != nil {
			return err
		}
		nodes, err := ws.ListTree()
		if err != nil {
			return err
		}
		if treeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(nodes)
		}
		if len(nodes) == 0 {
			fmt.Println("(empty)")
			return nil
		}
		printNodes(nodes, "")
		return nil
	},
}

func printNodes(nodes []workspace.Node, indent string) {
	for _, n := range nodes {
		if n.IsDir {
			fmt.Printf("%s%s/\n", indent, n.Name)
			printNodes(n.Children, indent+"  ")
		} else {
			fmt.Printf("%s%s\n", indent, n.Name)
		}
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "Emit the tree as JSON")
}

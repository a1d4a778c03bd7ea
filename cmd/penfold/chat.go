package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ostrander/penfold/agent"
	"github.com/ostrander/penfold/llm"
)

var (
	chatSystemPromptFile string
	chatPlain            bool
	chatCommit           bool
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send a message to the project agent",
	Long: `Send one message to the agent. The agent can read and write project
files through its tools; by default every event (text, tool results,
file operations) is emitted as a JSON line on stdout.

With --plain only the final reply is printed. With --commit the
workspace is snapshotted after the agent finishes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, cfg, err := openWorkspace()
		if err != nil {
			return err
		}
		if !ws.Exists() {
			return fmt.Errorf("project %s/%s does not exist, run init first", owner, project)
		}

		opts := []llm.GollmOption{
			llm.WithTemperature(cfg.Temperature),
			llm.WithMaxTokens(cfg.MaxTokens),
		}
		if cfg.Model != "" {
			opts = append(opts, llm.WithModel(cfg.Model))
		}
		if cfg.APIKey != "" {
			opts = append(opts, llm.WithAPIKey(cfg.APIKey))
		}
		gollmEndpoint, err := llm.NewGollmEndpoint(cfg.Provider, opts...)
		if err != nil {
			return err
		}
		// The loop never retries on its own; transient transport failures
		// are absorbed here instead.
		endpoint := llm.NewRetryEndpoint(gollmEndpoint, llm.DefaultRetryPolicy())

		var loopOpts []agent.Option
		if chatSystemPromptFile != "" {
			prompt, err := os.ReadFile(chatSystemPromptFile)
			if err != nil {
				return fmt.Errorf("read system prompt: %w", err)
			}
			loopOpts = append(loopOpts, agent.WithSystemPrompt(strings.TrimSpace(string(prompt))))
		}
		loop := agent.NewLoop(endpoint, agent.NewFileToolRegistry(ws), loopOpts...)

		ctx := cmd.Context()
		if chatPlain {
			reply, ops, err := loop.Chat(ctx, args[0], nil)
			if err != nil {
				return err
			}
			fmt.Println(reply)
			for _, op := range ops {
				fmt.Fprintf(os.Stderr, "wrote %s\n", op.Path)
			}
		} else {
			enc := json.NewEncoder(os.Stdout)
			err := loop.ChatStream(ctx, args[0], nil, func(ev agent.Event) {
				_ = enc.Encode(ev)
			})
			if err != nil {
				return err
			}
		}

		if chatCommit {
			repo, err := openRepo()
			if err != nil {
				return err
			}
			sha, err := repo.Commit("Agent session changes", "", "")
			if err != nil {
				return err
			}
			if sha != "" {
				fmt.Fprintf(os.Stderr, "committed %s\n", sha[:8])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatSystemPromptFile, "system", "", "File holding a custom system prompt")
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "Print only the final reply instead of the event stream")
	chatCmd.Flags().BoolVar(&chatCommit, "commit", false, "Snapshot the workspace after the agent finishes")
}

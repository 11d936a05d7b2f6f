// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-assistant/internal/webchat"
	"github.com/pdiddy/arxiv-assistant/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve <papers.json>",
	Short: "Serve a browser chat over crawled papers",
	Long: `Serve starts a web chat over a crawled JSON file. Small paper sets are
answered in one combined prompt; larger sets fan the question out per paper.
Conversations are written back into the paper file, and papers can be
skipped from the page to narrow the context.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Int("max-load-papers", 0, "papers combined into one prompt before fanning out (default 10)")
	addLLMFlags(serveCmd)

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	client, llmCfg := llmClientFromFlags(cmd)
	addr, _ := cmd.Flags().GetString("addr")
	maxLoad, _ := cmd.Flags().GetInt("max-load-papers")

	cfg := types.WebConfig{Addr: addr}
	cfg.LLMConfig = llmCfg
	cfg.MaxLoadPapers = maxLoad

	srv, err := webchat.NewServer(client, cfg, args[0])
	if err != nil {
		return err
	}
	return srv.Run(os.Stdout)
}

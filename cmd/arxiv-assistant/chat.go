// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-assistant/internal/chatbot"
	"github.com/pdiddy/arxiv-assistant/internal/sink"
)

var chatCmd = &cobra.Command{
	Use:   "chat <papers.json>",
	Short: "Chat about crawled papers on the console",
	Long: `Chat loads a crawled JSON file and answers questions about the papers in a
console loop, grounded in their abstracts (translations preferred when
present). Type quit to leave.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Int("history-limit", 0, "prior exchanges replayed per request (default 10)")
	addLLMFlags(chatCmd)

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	papers, err := sink.ReadJSON(args[0])
	if err != nil {
		return err
	}

	client, _ := llmClientFromFlags(cmd)
	historyLimit, _ := cmd.Flags().GetInt("history-limit")

	bot := chatbot.NewBot(client, papers, historyLimit)
	return bot.RunConsole(cmd.Context(), os.Stdin, os.Stdout)
}

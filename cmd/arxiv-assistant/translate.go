// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-assistant/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate <papers.json>",
	Short: "Translate crawled paper abstracts to Chinese",
	Long: `Translate reads a crawled JSON file, translates each non-empty abstract
through the LLM endpoint, and writes the records back to the same file with
the translation in the abstract_cn field. Papers that already failed keep
their original abstract, so the run is safe to repeat.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().Int("concurrency", 0, "parallel translation requests (default 5)")
	addLLMFlags(translateCmd)

	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	client, _ := llmClientFromFlags(cmd)
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	tr := translate.New(client, concurrency)
	sum, err := tr.TranslateFile(cmd.Context(), args[0], os.Stdout)
	if err != nil {
		return err
	}
	if sum.Failed > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d abstract(s) kept their original text\n", sum.Failed)
	}
	return nil
}

package main

import (
	"github.com/spf13/cobra"
)

var textCmd = &cobra.Command{
	Use:   "text <input> [output]",
	Short: "Convert a plain-text file to Markdown",
	Long: `Text normalizes a plain-text file (.txt, .md, .json and friends) to
UTF-8 Markdown, detecting the source character set when it is not UTF-8.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingle("text", []string{".txt", ".text", ".md", ".markdown", ".json", ".jsonl"}, args)
	},
}

func init() {
	rootCmd.AddCommand(textCmd)
}

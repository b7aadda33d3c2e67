package main

import (
	"github.com/spf13/cobra"
)

var wordCmd = &cobra.Command{
	Use:   "word <input> [output]",
	Short: "Convert a Word document to Markdown",
	Long: `Word converts a .docx file to Markdown, preserving headings, lists,
tables, hyperlinks, and embedded images (as data URIs).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingle("word", []string{".docx"}, args)
	},
}

func init() {
	rootCmd.AddCommand(wordCmd)
}

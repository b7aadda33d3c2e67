package main

import (
	"github.com/spf13/cobra"
)

var powerpointCmd = &cobra.Command{
	Use:   "powerpoint <input> [output]",
	Short: "Convert a PowerPoint presentation to Markdown",
	Long: `Powerpoint converts a .pptx file to Markdown. Slides appear in
presentation order with their titles as headings, followed by body text,
tables, image placeholders, and speaker notes.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingle("powerpoint", []string{".pptx"}, args)
	},
}

func init() {
	rootCmd.AddCommand(powerpointCmd)
}

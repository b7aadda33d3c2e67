package main

import (
	"github.com/spf13/cobra"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf <input> [output]",
	Short: "Extract Markdown text from a PDF",
	Long: `Pdf extracts the text layer of a .pdf file as Markdown. Scanned PDFs
without a text layer produce a placeholder note instead of content.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingle("pdf", []string{".pdf"}, args)
	},
}

func init() {
	rootCmd.AddCommand(pdfCmd)
}

package main

import (
	"github.com/spf13/cobra"
)

var excelCmd = &cobra.Command{
	Use:   "excel <input> [output]",
	Short: "Convert an Excel workbook to Markdown",
	Long: `Excel converts an .xlsx, .xls, or .csv file to Markdown. Each sheet
becomes a second-level heading followed by a pipe table; a CSV file
becomes a single table.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingle("excel", []string{".xlsx", ".xls", ".csv"}, args)
	},
}

func init() {
	rootCmd.AddCommand(excelCmd)
}

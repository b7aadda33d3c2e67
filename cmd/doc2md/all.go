package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nicholasgasior/doc2md/internal/batch"
)

// defaultOutputDir receives directory-mode results when --output is unset.
const defaultOutputDir = "converted-markdown"

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

var allCmd = &cobra.Command{
	Use:   "all (--filepath <file> | --directorypath <dir>)",
	Short: "Batch-convert documents to Markdown",
	Long: `All converts a single file or every eligible file under a directory.
With --output (or in directory mode, where it defaults to ` + defaultOutputDir + `)
each input becomes one .md file in the output directory; a single file
without --output prints to stdout. Files with unsupported extensions are
skipped, and one document's failure never stops the rest of the batch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("filepath")
		dir, _ := cmd.Flags().GetString("directorypath")
		outDir := viper.GetString("output")
		recursive := viper.GetBool("recursive")

		runner := batch.NewRunner(newEngineAdapter(),
			batch.WithRecursive(recursive),
			batch.WithLogger(logger),
		)

		if file != "" {
			output := ""
			if outDir != "" {
				stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
				output = filepath.Join(outDir, stem+".md")
			}
			res := runner.ConvertOne(file, output)
			if res.Status == batch.StatusFailed {
				return res.Err
			}
			if output != "" {
				fmt.Println(okStyle.Render("converted"), file, dimStyle.Render("->"), output)
			}
			return nil
		}

		if outDir == "" {
			outDir = defaultOutputDir
		}
		report, err := runner.ConvertDirectory(dir, outDir)
		if err != nil {
			return err
		}
		printReport(report, outDir)
		return nil
	},
}

// printReport renders the batch summary. Per-file failures are reported
// here, not through the exit code; only a fatal setup error fails the
// command.
func printReport(report *batch.Report, outDir string) {
	for _, res := range report.Results {
		if res.Status == batch.StatusFailed {
			fmt.Println(failStyle.Render("failed"), res.Task.Source, dimStyle.Render(res.Err.Error()))
		}
	}

	converted := okStyle.Render(fmt.Sprintf("%d converted", report.Converted()))
	failed := fmt.Sprintf("%d failed", report.Failed())
	if report.HasFailures() {
		failed = failStyle.Render(failed)
	}
	skipped := dimStyle.Render(fmt.Sprintf("%d skipped", report.Ineligible))

	fmt.Printf("%s, %s, %s %s\n", converted, failed, skipped, dimStyle.Render("-> "+outDir))
}

func init() {
	allCmd.Flags().String("filepath", "", "convert a single file")
	allCmd.Flags().String("directorypath", "", "convert every eligible file under a directory")
	allCmd.Flags().StringP("output", "o", "", "output directory for .md files (directory mode default: "+defaultOutputDir+")")
	allCmd.Flags().Bool("recursive", true, "descend into subdirectories")
	allCmd.MarkFlagsOneRequired("filepath", "directorypath")
	allCmd.MarkFlagsMutuallyExclusive("filepath", "directorypath")

	viper.BindPFlag("output", allCmd.Flags().Lookup("output"))
	viper.BindPFlag("recursive", allCmd.Flags().Lookup("recursive"))

	rootCmd.AddCommand(allCmd)
}

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nicholasgasior/doc2md/internal/batch"
)

// runSingle converts one file for a format subcommand. The input
// extension must belong to the subcommand's family; the converted
// Markdown goes to the optional output path or to stdout.
func runSingle(family string, exts []string, args []string) error {
	input := args[0]
	output := ""
	if len(args) > 1 {
		output = args[1]
	}

	ext := strings.ToLower(filepath.Ext(input))
	if !containsExt(exts, ext) {
		return fmt.Errorf("%s expects one of %s, got %q", family, strings.Join(exts, ", "), ext)
	}

	runner := batch.NewRunner(newEngineAdapter(), batch.WithLogger(logger))
	res := runner.ConvertOne(input, output)
	if res.Status == batch.StatusFailed {
		return res.Err
	}
	if output != "" {
		logger.Info("converted", "source", input, "output", output)
	}
	return nil
}

func containsExt(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

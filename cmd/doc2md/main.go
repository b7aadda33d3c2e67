// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Package main is the entry point for the doc2md CLI. Each supported
// document family is a subcommand (excel, word, powerpoint, pdf, text);
// the all subcommand batch-converts a file or a directory tree.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	charm "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nicholasgasior/doc2md/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in the root PersistentPreRun from the verbosity
// flags; subcommands log through it.
var logger *charm.Logger = logging.Discard()

// rootCmd is the base command for the doc2md CLI.
var rootCmd = &cobra.Command{
	Use:   "doc2md",
	Short: "Convert office documents to Markdown",
	Long: `doc2md converts Excel, Word, PowerPoint, PDF, and plain-text documents
into Markdown.

Each document family is a subcommand that converts one file to stdout or
to an output path. The all subcommand converts a single file or every
eligible file under a directory, writing one .md file per input.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		quiet, _ := cmd.Flags().GetBool("quiet")
		logger = logging.New(os.Stderr, logging.LevelFor(verbose, quiet))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doc2md.yaml or ~/.config/doc2md/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doc2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doc2md"))
		}
	}

	viper.SetEnvPrefix("DOC2MD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

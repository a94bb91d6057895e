// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the imgextract CLI, which pulls
// embedded raster images out of a PDF and writes them as web-sized JPEGs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-image-extractor/internal/extract"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the imgextract CLI.
var rootCmd = &cobra.Command{
	Use:   "imgextract",
	Short: "Extract and optimize images embedded in a PDF",
	Long: `imgextract opens a PDF, extracts every embedded raster image page by
page, scales images whose longest side exceeds the limit, and writes them as
JPEG files named from a fixed table.

Settings come from flags, an imgextract.yaml config file, or IMGEXTRACT_*
environment variables, in that order of precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./imgextract.yaml or ~/.config/imgextract/imgextract.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging on stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("imgextract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "imgextract"))
		}
	}

	viper.SetEnvPrefix("IMGEXTRACT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger returns the diagnostic logger. Progress output goes to stdout;
// diagnostics go to stderr at warn level, or debug with --verbose.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// reportError prints err to w unless the extractor has already printed it.
func reportError(w io.Writer, err error) {
	if errors.Is(err, extract.ErrDocumentOpen) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

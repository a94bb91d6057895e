// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-image-extractor/internal/naming"
)

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Print the naming table used for extracted images",
	Long: `Names prints the counter-to-filename table. The counter counts images
written successfully, across all pages. Counters past the end of the table
fall back to portfolio-image-<n>.jpg.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("names")
		tbl := naming.Default()
		if path != "" {
			t, err := naming.Load(path)
			if err != nil {
				return err
			}
			tbl = t
		}
		printNames(os.Stdout, tbl)
		return nil
	},
}

func printNames(w io.Writer, tbl naming.Table) {
	for i := 0; i < tbl.Len(); i++ {
		fmt.Fprintf(w, "%2d  %s\n", i, tbl.Filename(i))
	}
	fmt.Fprintf(w, "%2d+ %s\n", tbl.Len(), tbl.Filename(tbl.Len()))
}

func init() {
	namesCmd.Flags().String("names", "", "YAML file overriding the built-in naming table")

	rootCmd.AddCommand(namesCmd)
}

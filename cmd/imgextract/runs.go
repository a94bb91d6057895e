// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-image-extractor/internal/catalog"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List extraction runs recorded in a catalog",
	Long: `Runs lists the runs stored by "extract --catalog", newest first. Use
--run to list the images written by one run.`,
	RunE: runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		return fmt.Errorf("--catalog is required")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetInt64("run")

	c, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer c.Close()

	if runID > 0 {
		records, err := c.Images(cmd.Context(), runID)
		if err != nil {
			return err
		}
		for i, r := range records {
			fmt.Fprintf(os.Stdout, "%2d. %-40s %7.1f KB  page %d\n", i+1, r.Name, float64(r.Size)/1024, r.Page)
		}
		return nil
	}

	runs, err := c.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-9s  %-6s  %s\n", "Run", "Started", "Extracted", "Failed", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 72))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-4d  %-20s  %-9d  %-6d  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Extracted, r.Failed, r.Source)
	}
	return nil
}

func init() {
	runsCmd.Flags().String("catalog", "", "SQLite catalog database")
	runsCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	runsCmd.Flags().Int64("run", 0, "list the images of this run")

	rootCmd.AddCommand(runsCmd)
}

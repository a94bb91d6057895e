// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-image-extractor/internal/catalog"
	"github.com/pdiddy/pdf-image-extractor/internal/extract"
	"github.com/pdiddy/pdf-image-extractor/internal/report"
	"github.com/pdiddy/pdf-image-extractor/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf]",
	Short: "Extract embedded images from a PDF as optimized JPEGs",
	Long: `Extract walks every page of the PDF in order and writes each embedded
raster image to the output directory as a JPEG. Images whose longest side
exceeds --max-dimension are scaled down proportionally. CMYK images are
converted to RGB.

The first images extracted are named from the naming table (see "imgextract
names"); later ones are named portfolio-image-<n>.jpg. An image that fails
to decode or write is reported and skipped without using up a name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("pdf", "", "source PDF file (or pass it as the argument)")
	extractCmd.Flags().String("output-dir", "", "destination directory (default: the PDF's directory)")
	extractCmd.Flags().Int("max-dimension", types.DefaultMaxDimension, "longest side in pixels before images are scaled down")
	extractCmd.Flags().Int("quality", types.DefaultQuality, "JPEG quality, 1-100")
	extractCmd.Flags().String("names", "", "YAML file overriding the built-in naming table")
	extractCmd.Flags().IntSlice("pages", nil, "only scan these 1-based pages (default: all)")
	extractCmd.Flags().String("manifest", "", "also write manifest.yaml or manifest.json: yaml or json")
	extractCmd.Flags().String("catalog", "", "SQLite database to record the run in")
	extractCmd.Flags().Bool("dry-run", false, "decode and size images without writing files")

	bindFlags(extractCmd, map[string]string{
		"pdf_path":      "pdf",
		"output_dir":    "output-dir",
		"max_dimension": "max-dimension",
		"quality":       "quality",
		"names_file":    "names",
		"pages":         "pages",
		"manifest":      "manifest",
		"catalog":       "catalog",
		"dry_run":       "dry-run",
	})

	rootCmd.AddCommand(extractCmd)
}

// bindFlags binds each viper key to the named flag of cmd.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

// extractConfig assembles the run configuration from v and args.
func extractConfig(v *viper.Viper, args []string) (types.ExtractionConfig, error) {
	cfg := types.ExtractionConfig{
		PDFPath:      v.GetString("pdf_path"),
		OutputDir:    v.GetString("output_dir"),
		MaxDimension: v.GetInt("max_dimension"),
		Quality:      v.GetInt("quality"),
		NamesFile:    v.GetString("names_file"),
		Pages:        v.GetIntSlice("pages"),
		Manifest:     types.ManifestFormat(v.GetString("manifest")),
		Catalog:      v.GetString("catalog"),
		DryRun:       v.GetBool("dry_run"),
	}
	if len(args) > 0 {
		cfg.PDFPath = args[0]
	}
	if len(cfg.Pages) == 0 {
		cfg.Pages = nil
	}

	if cfg.PDFPath == "" {
		return cfg, fmt.Errorf("provide a PDF path as the argument, with --pdf, or as pdf_path in the config file")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Dir(cfg.PDFPath)
	}
	if cfg.Quality == 0 {
		cfg.Quality = types.DefaultQuality
	}
	if cfg.Quality < 1 || cfg.Quality > 100 {
		return cfg, fmt.Errorf("quality %d out of range 1-100", cfg.Quality)
	}
	switch cfg.Manifest {
	case types.ManifestNone, types.ManifestYAML, types.ManifestJSON:
	default:
		return cfg, fmt.Errorf("unsupported manifest format %q: use yaml or json", cfg.Manifest)
	}
	return cfg.WithDefaults(), nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := extractConfig(viper.GetViper(), args)
	if err != nil {
		return err
	}
	log := newLogger(cmd)

	result, err := extract.Extract(cmd.Context(), cfg, os.Stdout, log)
	if err != nil {
		return err
	}

	if cfg.Manifest != types.ManifestNone && !cfg.DryRun {
		path, err := report.WriteManifest(cfg.OutputDir, result, cfg.Manifest)
		if err != nil {
			return err
		}
		fmt.Printf("Manifest: %s\n", path)
	}

	if cfg.Catalog != "" {
		c, err := catalog.Open(cfg.Catalog)
		if err != nil {
			return err
		}
		defer c.Close()

		runID, err := c.RecordRun(cmd.Context(), result)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded run %d in %s\n", runID, cfg.Catalog)
	}
	return nil
}

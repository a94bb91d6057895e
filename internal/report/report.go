// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report prints the end-of-run summary table and exports the
// extraction records as a YAML or JSON manifest.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-image-extractor/pkg/types"
)

const ruleWidth = 60

// PrintSummary writes the completion banner and one fixed-width row per
// extracted image: index, filename, and size in KB.
func PrintSummary(w io.Writer, result types.Result, outputDir string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintln(w, "IMAGE EXTRACTION COMPLETE")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total images extracted: %d\n", result.Extracted())
	if result.HasFailures() {
		fmt.Fprintf(w, "Images failed: %d\n", len(result.Failures))
	}
	fmt.Fprintf(w, "Output directory: %s\n\n", outputDir)

	for i, rec := range result.Records {
		fmt.Fprintf(w, "%2d. %-40s %7.1f KB\n", i+1, rec.Name, float64(rec.Size)/1024)
	}
}

// ManifestPath returns the manifest file path for format inside dir.
func ManifestPath(dir string, format types.ManifestFormat) string {
	return filepath.Join(dir, "manifest."+string(format))
}

// WriteManifest writes result to dir/manifest.yaml or dir/manifest.json and
// returns the path written.
func WriteManifest(dir string, result types.Result, format types.ManifestFormat) (string, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case types.ManifestYAML:
		data, err = yaml.Marshal(&result)
		if err != nil {
			return "", fmt.Errorf("marshaling YAML: %w", err)
		}
	case types.ManifestJSON:
		data, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling JSON: %w", err)
		}
	default:
		return "", fmt.Errorf("unsupported manifest format %q: use yaml or json", format)
	}

	path := ManifestPath(dir, format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return path, nil
}

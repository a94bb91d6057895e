// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Default values for ExtractionConfig fields left at their zero value.
const (
	DefaultMaxDimension = 1200
	DefaultQuality      = 85
)

// ManifestFormat selects the manifest export format.
type ManifestFormat string

const (
	ManifestNone ManifestFormat = ""
	ManifestYAML ManifestFormat = "yaml"
	ManifestJSON ManifestFormat = "json"
)

// ExtractionConfig holds settings for one extraction run.
type ExtractionConfig struct {
	// PDFPath is the source PDF document.
	PDFPath string `json:"pdf_path" yaml:"pdf_path" mapstructure:"pdf_path"`

	// OutputDir is the destination directory for JPEG files. It is created
	// with its parents when absent.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// MaxDimension caps the longest side of every written image (default 1200).
	MaxDimension int `json:"max_dimension" yaml:"max_dimension" mapstructure:"max_dimension"`

	// Quality is the JPEG encoder quality, 1-100 (default 85).
	Quality int `json:"quality" yaml:"quality" mapstructure:"quality"`

	// NamesFile is an optional YAML file overriding the built-in naming table.
	NamesFile string `json:"names_file,omitempty" yaml:"names_file,omitempty" mapstructure:"names_file"`

	// Pages restricts extraction to these 1-based page numbers. Empty means all pages.
	Pages []int `json:"pages,omitempty" yaml:"pages,omitempty" mapstructure:"pages"`

	// Manifest writes manifest.yaml or manifest.json into OutputDir when set.
	Manifest ManifestFormat `json:"manifest,omitempty" yaml:"manifest,omitempty" mapstructure:"manifest"`

	// Catalog is an optional SQLite database path that records each run.
	Catalog string `json:"catalog,omitempty" yaml:"catalog,omitempty" mapstructure:"catalog"`

	// DryRun decodes and sizes images without writing any files.
	DryRun bool `json:"dry_run" yaml:"dry_run" mapstructure:"dry_run"`
}

// WithDefaults returns a copy of c with zero-valued limits replaced by
// DefaultMaxDimension and DefaultQuality.
func (c ExtractionConfig) WithDefaults() ExtractionConfig {
	if c.MaxDimension <= 0 {
		c.MaxDimension = DefaultMaxDimension
	}
	if c.Quality <= 0 {
		c.Quality = DefaultQuality
	}
	return c
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package naming maps the global image counter to output base names.
package naming

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// fallbackPrefix names images whose counter falls outside the table.
const fallbackPrefix = "portfolio-image-"

// defaultNames is the built-in table, indexed by counter.
var defaultNames = []string{
	"lambert-graphic-design-cover",
	"digital-portrait-hijab",
	"casino-banners",
	"posters-labour-day",
	"posters-pi-mai-lao",
	"tshirt-wiz-khalifa",
	"family-portrait-vector",
	"embroidery-ai-mockup",
	"embroidery-ps-mockup",
	"ornament-3d",
	"creatives-iron-mindset",
}

// Table is an immutable counter-to-name mapping.
type Table struct {
	names []string
}

// Default returns the built-in eleven-entry table.
func Default() Table {
	return New(defaultNames)
}

// New returns a table holding a copy of names.
func New(names []string) Table {
	cp := make([]string, len(names))
	copy(cp, names)
	return Table{names: cp}
}

// Len returns the number of fixed entries.
func (t Table) Len() int {
	return len(t.names)
}

// Names returns a copy of the fixed entries in counter order.
func (t Table) Names() []string {
	cp := make([]string, len(t.names))
	copy(cp, t.names)
	return cp
}

// Name returns the base name for counter. Counters outside the table, and
// blank entries, fall back to "portfolio-image-<counter>".
func (t Table) Name(counter int) string {
	if counter >= 0 && counter < len(t.names) && t.names[counter] != "" {
		return t.names[counter]
	}
	return fmt.Sprintf("%s%d", fallbackPrefix, counter)
}

// Filename returns Name(counter) with a .jpg extension.
func (t Table) Filename(counter int) string {
	return t.Name(counter) + ".jpg"
}

// file is the on-disk shape of a names override.
type file struct {
	Names []string `yaml:"names"`
}

// Load reads a YAML file of the form
//
//	names:
//	  - first-image
//	  - second-image
//
// and returns a table built from it. Names are trimmed and must not contain
// path separators.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("reading names file %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Table{}, fmt.Errorf("parsing names file %s: %w", path, err)
	}

	names := make([]string, len(f.Names))
	for i, n := range f.Names {
		n = strings.TrimSpace(n)
		if strings.ContainsAny(n, `/\`) {
			return Table{}, fmt.Errorf("names file %s: entry %d (%q) contains a path separator", path, i, n)
		}
		names[i] = strings.TrimSuffix(n, ".jpg")
	}
	return New(names), nil
}

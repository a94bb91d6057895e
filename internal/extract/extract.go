// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls embedded raster images out of a PDF, scales oversized
// ones down, and writes them as JPEG files named from a fixed table.
//
// Processing is strictly sequential: pages in document order, images in page
// order. A failing image is reported and skipped; only a document that cannot
// be opened aborts the run.
package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pdf-image-extractor/internal/imaging"
	"github.com/pdiddy/pdf-image-extractor/internal/naming"
	"github.com/pdiddy/pdf-image-extractor/internal/pdfsource"
	"github.com/pdiddy/pdf-image-extractor/internal/report"
	"github.com/pdiddy/pdf-image-extractor/pkg/types"
)

// ErrDocumentOpen wraps any failure to open the source document.
var ErrDocumentOpen = errors.New("document open failed")

// Document is an opened source document.
type Document interface {
	pdfsource.Source
	Close() error
}

// opener opens a document at path.
type opener func(path string) (Document, error)

// decoder decodes embedded image bytes of the given file type.
type decoder func(fileType string, data []byte) (image.Image, error)

func openPDF(path string) (Document, error) {
	doc, err := pdfsource.Open(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Extractor runs one extraction over a single document.
type Extractor struct {
	cfg    types.ExtractionConfig
	names  naming.Table
	w      io.Writer
	log    logrus.FieldLogger
	open   opener
	decode decoder
}

// New creates an Extractor that prints progress to w. A nil logger
// discards diagnostics.
func New(cfg types.ExtractionConfig, names naming.Table, w io.Writer, log logrus.FieldLogger) *Extractor {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Extractor{
		cfg:    cfg.WithDefaults(),
		names:  names,
		w:      w,
		log:    log,
		open:   openPDF,
		decode: imaging.Decode,
	}
}

// Extract loads the naming table named by cfg.NamesFile (or the built-in
// table) and runs a single extraction.
func Extract(ctx context.Context, cfg types.ExtractionConfig, w io.Writer, log logrus.FieldLogger) (types.Result, error) {
	names := naming.Default()
	if cfg.NamesFile != "" {
		t, err := naming.Load(cfg.NamesFile)
		if err != nil {
			return types.Result{Source: cfg.PDFPath}, err
		}
		names = t
	}
	return New(cfg, names, w, log).Run(ctx)
}

// Run extracts every embedded image and returns the records of the images
// written, in processing order. The naming counter advances only when an
// image is written successfully, so a failed image does not consume a name.
//
// If the document cannot be opened Run prints the error and returns an
// empty result together with an error wrapping ErrDocumentOpen. Other
// returned errors are left to the caller to report. Per-image failures are
// collected in Result.Failures and never produce an error.
func (e *Extractor) Run(ctx context.Context) (types.Result, error) {
	cfg := e.cfg
	result := types.Result{Source: cfg.PDFPath}

	if !cfg.DryRun {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return result, fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
		}
	}

	doc, err := e.open(cfg.PDFPath)
	if err != nil {
		fmt.Fprintf(e.w, "Error: %v\n", err)
		e.log.WithError(err).WithField("pdf", cfg.PDFPath).Error("cannot open document")
		return result, fmt.Errorf("%w: %w", ErrDocumentOpen, err)
	}
	defer doc.Close()

	result.PageCount = doc.PageCount()
	fmt.Fprintf(e.w, "Opened PDF: %s\n", cfg.PDFPath)
	fmt.Fprintf(e.w, "Total pages: %d\n", result.PageCount)

	counter := 0
	for _, page := range e.pages(result.PageCount) {
		images, err := doc.PageImages(page)
		if err != nil {
			fmt.Fprintf(e.w, "\n  ✗ Error reading images on page %d: %v\n", page, err)
			e.log.WithError(err).WithField("page", page).Warn("cannot enumerate page images")
			result.Failures = append(result.Failures, types.ImageFailure{Page: page, Index: -1, Reason: err.Error()})
			continue
		}
		if len(images) > 0 {
			fmt.Fprintf(e.w, "\nPage %d: Found %d image(s)\n", page, len(images))
		}

		for idx, raw := range images {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			rec, err := e.process(raw, counter)
			if err != nil {
				fmt.Fprintf(e.w, "  ✗ Error processing image %d on page %d: %v\n", idx, page, err)
				e.log.WithError(err).WithFields(logrus.Fields{
					"page":  page,
					"index": idx,
					"obj":   raw.ObjNr,
				}).Warn("skipping image")
				result.Failures = append(result.Failures, types.ImageFailure{
					Page:   page,
					Index:  idx,
					ObjNr:  raw.ObjNr,
					Reason: err.Error(),
				})
				continue
			}

			rec.Page = page
			rec.Index = idx
			result.Records = append(result.Records, rec)
			counter++
		}
	}

	report.PrintSummary(e.w, result, cfg.OutputDir)
	return result, nil
}

// pages returns the 1-based page numbers to scan, in document order.
func (e *Extractor) pages(count int) []int {
	if len(e.cfg.Pages) == 0 {
		all := make([]int, count)
		for i := range all {
			all[i] = i + 1
		}
		return all
	}

	wanted := make(map[int]bool, len(e.cfg.Pages))
	for _, p := range e.cfg.Pages {
		if p < 1 || p > count {
			fmt.Fprintf(e.w, "warning: page %d out of range 1-%d, ignored\n", p, count)
			continue
		}
		wanted[p] = true
	}
	selected := make([]int, 0, len(wanted))
	for p := 1; p <= count; p++ {
		if wanted[p] {
			selected = append(selected, p)
		}
	}
	return selected
}

// process decodes, normalizes, resizes, and writes one image under the
// name assigned to counter.
func (e *Extractor) process(raw pdfsource.RawImage, counter int) (types.ExtractionRecord, error) {
	log := e.log.WithFields(logrus.Fields{"page": raw.Page, "obj": raw.ObjNr, "type": raw.FileType})

	img, err := e.decode(raw.FileType, raw.Data)
	if err != nil {
		return types.ExtractionRecord{}, err
	}

	cmyk := imaging.IsCMYK(raw.Samples(), raw.Alpha)
	if _, ok := img.(*image.CMYK); ok {
		cmyk = true
	}
	if cmyk {
		log.Debug("converting CMYK to RGB")
		img = imaging.ToRGB(img)
	}

	name := e.names.Filename(counter)
	path := filepath.Join(e.cfg.OutputDir, name)

	b := img.Bounds()
	rec := types.ExtractionRecord{
		Name:     name,
		Path:     path,
		Counter:  counter,
		Original: types.Dimensions{Width: b.Dx(), Height: b.Dy()},
	}

	img, rec.Resized = imaging.FitWithin(img, e.cfg.MaxDimension)
	fb := img.Bounds()
	rec.Final = types.Dimensions{Width: fb.Dx(), Height: fb.Dy()}

	rgb := imaging.ToRGB(img)

	if !e.cfg.DryRun {
		size, err := imaging.WriteJPEG(path, rgb, e.cfg.Quality)
		if err != nil {
			return types.ExtractionRecord{}, err
		}
		rec.Size = size
		log.WithField("bytes", size).Debug("wrote image")
	}

	if rec.Resized {
		fmt.Fprintf(e.w, "  ✓ %s: Resized from %dx%d to %dx%d\n",
			name, rec.Original.Width, rec.Original.Height, rec.Final.Width, rec.Final.Height)
	} else {
		fmt.Fprintf(e.w, "  ✓ %s: %dx%d (original size)\n", name, rec.Original.Width, rec.Original.Height)
	}
	return rec, nil
}

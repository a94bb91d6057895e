// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfsource opens PDF documents and enumerates the raster images
// embedded on each page. It is backed by pdfcpu.
package pdfsource

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrOpen reports that a document could not be opened or parsed.
	ErrOpen = errors.New("opening PDF")

	// ErrPage reports that the images of a page could not be enumerated.
	ErrPage = errors.New("reading page images")
)

// RawImage is one embedded image resource as stored in the document.
type RawImage struct {
	// ObjNr is the PDF object number of the image XObject.
	ObjNr int

	// Name is the resource name on the page (e.g. "Im0").
	Name string

	// Page is the 1-based page the image was found on.
	Page int

	// FileType is the container format of Data: "jpg", "png", "tif", or
	// another pdfcpu file type such as "jpx".
	FileType string

	Width  int
	Height int

	// ColorSpace is the PDF color space name (e.g. "DeviceCMYK").
	ColorSpace string

	// Channels is the number of color components, excluding alpha.
	Channels int

	// Alpha reports whether the image carries a soft mask or image mask.
	Alpha bool

	// Data holds the encoded image bytes.
	Data []byte
}

// Samples returns the number of samples per pixel, alpha included.
func (r RawImage) Samples() int {
	if r.Alpha {
		return r.Channels + 1
	}
	return r.Channels
}

// Source enumerates embedded images page by page.
type Source interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageImages returns the images embedded on the 1-based page, in page order.
	PageImages(page int) ([]RawImage, error)
}

// Document is an opened PDF.
type Document struct {
	path string
	ctx  *model.Context
}

func init() {
	// Keep pdfcpu from creating a config directory under the user's home.
	api.DisableConfigDir()
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.Cmd = model.EXTRACTIMAGES
	return conf
}

// Open reads and validates the PDF at path. The file handle is released
// before Open returns, on success and failure alike.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	return &Document{path: path, ctx: ctx}, nil
}

// Path returns the path the document was opened from.
func (d *Document) Path() string { return d.path }

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	if d.ctx == nil {
		return 0
	}
	return d.ctx.PageCount
}

// PageImages returns the images embedded on page, ordered by object number.
// The page thumbnail, if any, is not included.
func (d *Document) PageImages(page int) ([]RawImage, error) {
	if d.ctx == nil {
		return nil, fmt.Errorf("%w: page %d: document is closed", ErrPage, page)
	}
	if page < 1 || page > d.ctx.PageCount {
		return nil, fmt.Errorf("%w: page %d out of range 1-%d", ErrPage, page, d.ctx.PageCount)
	}

	// Stubs carry the dictionary metadata; full extraction carries only the
	// rendered stream.
	stubs, err := pdfcpu.ExtractPageImages(d.ctx, page, true)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", ErrPage, page, err)
	}
	found, err := pdfcpu.ExtractPageImages(d.ctx, page, false)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", ErrPage, page, err)
	}

	objNrs := make([]int, 0, len(found))
	for objNr, img := range found {
		if img.Thumb {
			continue
		}
		objNrs = append(objNrs, objNr)
	}
	sort.Ints(objNrs)

	images := make([]RawImage, 0, len(objNrs))
	for _, objNr := range objNrs {
		img := found[objNr]
		meta := stubs[objNr]
		raw := RawImage{
			ObjNr:      objNr,
			Name:       img.Name,
			Page:       page,
			FileType:   img.FileType,
			Width:      meta.Width,
			Height:     meta.Height,
			ColorSpace: meta.Cs,
			Channels:   meta.Comp,
			Alpha:      meta.HasSMask || meta.HasImgMask,
		}
		if img.Reader != nil {
			data, err := io.ReadAll(img.Reader)
			if err != nil {
				return nil, fmt.Errorf("%w: page %d object %d: %w", ErrPage, page, objNr, err)
			}
			raw.Data = data
		}
		images = append(images, raw)
	}
	return images, nil
}

// Close releases the parsed document. It is safe to call more than once.
func (d *Document) Close() error {
	d.ctx = nil
	return nil
}

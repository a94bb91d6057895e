// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfsourcetest builds small PDF documents with embedded raster
// images for tests.
package pdfsourcetest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"os"
	"strings"
)

// Image is one 8-bit image XObject stored with FlateDecode.
type Image struct {
	Width      int
	Height     int
	ColorSpace string // DeviceGray, DeviceRGB or DeviceCMYK
	Pix        []byte
}

// Solid returns a w x h image in colorSpace with every pixel set to sample.
func Solid(w, h int, colorSpace string, sample ...byte) Image {
	pix := make([]byte, 0, w*h*len(sample))
	for i := 0; i < w*h; i++ {
		pix = append(pix, sample...)
	}
	return Image{Width: w, Height: h, ColorSpace: colorSpace, Pix: pix}
}

// OnePage returns a single-page PDF that draws images in order. A non-nil
// thumb is attached as the page's /Thumb.
func OnePage(images []Image, thumb *Image) ([]byte, error) {
	const firstImage = 5

	var xobjects, content strings.Builder
	for i, img := range images {
		fmt.Fprintf(&xobjects, " /Im%d %d 0 R", i, firstImage+i)
		fmt.Fprintf(&content, "q %d 0 0 %d 0 %d cm /Im%d Do Q\n", img.Width, img.Height, i*img.Height, i)
	}

	page := fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /XObject <<%s >> >> /Contents 4 0 R", xobjects.String())
	if thumb != nil {
		page += fmt.Sprintf(" /Thumb %d 0 R", firstImage+len(images))
	}
	page += " >>"

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>",
		page,
		stream("<<", []byte(content.String())),
	}
	for _, img := range images {
		obj, err := imageObject(img)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	if thumb != nil {
		obj, err := imageObject(*thumb)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return assemble(objects), nil
}

// WriteOnePage writes the document built by OnePage to path.
func WriteOnePage(path string, images []Image, thumb *Image) error {
	data, err := OnePage(images, thumb)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func imageObject(img Image) (string, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(img.Pix); err != nil {
		return "", fmt.Errorf("compressing image: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compressing image: %w", err)
	}
	dict := fmt.Sprintf("<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /%s /BitsPerComponent 8 /Filter /FlateDecode",
		img.Width, img.Height, img.ColorSpace)
	return stream(dict, buf.Bytes()), nil
}

// stream closes the open dictionary dict with a /Length entry and appends data.
func stream(dict string, data []byte) string {
	return fmt.Sprintf("%s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

// assemble numbers objects from 1 and appends the cross-reference table.
func assemble(objects []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

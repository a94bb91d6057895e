// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imaging decodes embedded PDF images, normalizes them to opaque RGB,
// scales them down proportionally, and encodes them as JPEG.
package imaging

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/hhrutter/tiff"
	xdraw "golang.org/x/image/draw"
)

var (
	// ErrDecode reports that image bytes could not be decoded.
	ErrDecode = errors.New("decoding image")

	// ErrUnsupportedFormat reports an embedded format with no decoder (e.g. JPX).
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrEncode reports a JPEG encoder failure.
	ErrEncode = errors.New("encoding JPEG")

	// ErrWrite reports a failure writing the output file.
	ErrWrite = errors.New("writing image")
)

// Decode decodes data according to fileType, which is one of the container
// formats pdfcpu emits for embedded images: "jpg", "png", or "tif". CMYK
// TIFFs decode to *image.CMYK.
func Decode(fileType string, data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty %s stream", ErrDecode, fileType)
	}

	var decode func(io.Reader) (image.Image, error)
	switch fileType {
	case "jpg", "jpeg":
		decode = jpeg.Decode
	case "png":
		decode = png.Decode
	case "tif", "tiff":
		decode = tiff.Decode
	default:
		return nil, fmt.Errorf("%w: %w %q", ErrDecode, ErrUnsupportedFormat, fileType)
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %w", ErrDecode, fileType, err)
	}
	return img, nil
}

// IsCMYK reports whether an image with n samples per pixel, alpha included,
// must be treated as CMYK. Fewer than four color samples means RGB or
// grayscale.
func IsCMYK(n int, alpha bool) bool {
	if alpha {
		n--
	}
	return n >= 4
}

// ToRGB returns an opaque RGB copy of img with its origin at (0, 0). Alpha is
// dropped without compositing; CMYK and grayscale sources go through the
// standard color model conversion. An opaque zero-origin *image.RGBA is
// returned unchanged.
func ToRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Opaque() {
		return rgba
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i := dst.PixOffset(x-b.Min.X, y-b.Min.Y)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}

// TargetSize returns the dimensions after fitting w×h within a square of
// side maxDim. When the longest side already fits, w and h are returned
// unchanged. Otherwise both sides are scaled by maxDim/longest and rounded
// to the nearest pixel, never below one.
func TargetSize(w, h, maxDim int) (int, int) {
	longest := max(w, h)
	if maxDim <= 0 || longest <= maxDim {
		return w, h
	}
	ratio := float64(maxDim) / float64(longest)
	nw := int(math.Round(float64(w) * ratio))
	nh := int(math.Round(float64(h) * ratio))
	return max(nw, 1), max(nh, 1)
}

// FitWithin scales img down so its longest side is at most maxDim, using a
// Catmull-Rom filter. It reports whether scaling happened.
func FitWithin(img image.Image, maxDim int) (image.Image, bool) {
	b := img.Bounds()
	nw, nh := TargetSize(b.Dx(), b.Dy(), maxDim)
	if nw == b.Dx() && nh == b.Dy() {
		return img, false
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst, true
}

// clampQuality bounds q to the JPEG encoder's 1-100 range.
func clampQuality(q int) int {
	switch {
	case q < 1:
		return 1
	case q > 100:
		return 100
	}
	return q
}

// EncodeJPEG writes img to w as a baseline RGB JPEG at the given quality.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if err := jpeg.Encode(w, ToRGB(img), &jpeg.Options{Quality: clampQuality(quality)}); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// WriteJPEG encodes img to path, replacing any existing file, and returns
// the resulting size on disk.
func WriteJPEG(path string, img image.Image, quality int) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}

	bw := bufio.NewWriter(f)
	if err := EncodeJPEG(bw, img, quality); err != nil {
		f.Close()
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return 0, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	return info.Size(), nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/hhrutter/tiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodeWith(t *testing.T, img image.Image, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, enc(&buf, img))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	src := gradient(20, 10)
	pngData := encodeWith(t, src, func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) })
	jpgData := encodeWith(t, src, func(b *bytes.Buffer, i image.Image) error { return jpeg.Encode(b, i, nil) })
	tifData := encodeWith(t, src, func(b *bytes.Buffer, i image.Image) error { return tiff.Encode(b, i, nil) })

	tests := []struct {
		name     string
		fileType string
		data     []byte
		wantErr  error
	}{
		{name: "png", fileType: "png", data: pngData},
		{name: "jpg", fileType: "jpg", data: jpgData},
		{name: "tif", fileType: "tif", data: tifData},
		{name: "jpx unsupported", fileType: "jpx", data: []byte{0, 0, 0, 12}, wantErr: ErrUnsupportedFormat},
		{name: "empty stream", fileType: "png", data: nil, wantErr: ErrDecode},
		{name: "garbage png", fileType: "png", data: []byte("not a png"), wantErr: ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(tt.fileType, tt.data)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrDecode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 20, img.Bounds().Dx())
			assert.Equal(t, 10, img.Bounds().Dy())
		})
	}
}

func TestDecode_CMYKTIFF(t *testing.T) {
	src := image.NewCMYK(image.Rect(0, 0, 30, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 30; x++ {
			src.SetCMYK(x, y, color.CMYK{C: 0, M: 255, Y: 255, K: 0})
		}
	}
	data := encodeWith(t, src, func(b *bytes.Buffer, i image.Image) error { return tiff.Encode(b, i, nil) })

	img, err := Decode("tif", data)
	require.NoError(t, err)
	cmyk, ok := img.(*image.CMYK)
	require.True(t, ok, "got %T", img)
	assert.Equal(t, image.Rect(0, 0, 30, 20), cmyk.Bounds())

	rgb := ToRGB(img)
	r, g, b, a := rgb.At(7, 3).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0), b)
	assert.Equal(t, uint32(0xffff), a)
}

func TestIsCMYK(t *testing.T) {
	tests := []struct {
		n     int
		alpha bool
		want  bool
	}{
		{1, false, false},
		{2, true, false},
		{3, false, false},
		{4, true, false},
		{4, false, true},
		{5, true, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCMYK(tt.n, tt.alpha), "n=%d alpha=%v", tt.n, tt.alpha)
	}
}

func TestToRGB_CMYK(t *testing.T) {
	src := image.NewCMYK(image.Rect(0, 0, 2, 1))
	src.SetCMYK(0, 0, color.CMYK{C: 0, M: 0, Y: 0, K: 0})     // white
	src.SetCMYK(1, 0, color.CMYK{C: 255, M: 0, Y: 255, K: 0}) // green

	dst := ToRGB(src)
	require.Equal(t, image.Rect(0, 0, 2, 1), dst.Bounds())
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, dst.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 0, G: 255, B: 0, A: 255}, dst.RGBAAt(1, 0))
}

func TestToRGB_DropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 0})

	dst := ToRGB(src)
	assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, dst.RGBAAt(0, 0))
	assert.True(t, dst.Opaque())
}

func TestToRGB_GrayAndOffsetOrigin(t *testing.T) {
	src := image.NewGray(image.Rect(5, 5, 8, 7))
	src.SetGray(5, 5, color.Gray{Y: 77})

	dst := ToRGB(src)
	assert.Equal(t, image.Rect(0, 0, 3, 2), dst.Bounds())
	assert.Equal(t, color.RGBA{R: 77, G: 77, B: 77, A: 255}, dst.RGBAAt(0, 0))
}

func TestToRGB_OpaqueRGBAPassesThrough(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 0xff
	}
	assert.Same(t, src, ToRGB(src))
}

func TestTargetSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"fits", 800, 600, 1200, 800, 600},
		{"exactly max", 1200, 900, 1200, 1200, 900},
		{"landscape", 2400, 1600, 1200, 1200, 800},
		{"portrait", 1000, 3000, 1200, 400, 1200},
		{"square", 5000, 5000, 1200, 1200, 1200},
		{"rounds to nearest", 1201, 1001, 1200, 1200, 1000},
		{"rounds up", 3000, 1999, 1200, 1200, 800},
		{"thin strip keeps one pixel", 10000, 2, 1200, 1200, 1},
		{"non-positive max disables", 5000, 10, 0, 5000, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := TargetSize(tt.w, tt.h, tt.max)
			assert.Equal(t, tt.wantW, gotW)
			assert.Equal(t, tt.wantH, gotH)
		})
	}
}

func TestTargetSize_PreservesAspect(t *testing.T) {
	for _, dims := range [][2]int{{1201, 7}, {4032, 3024}, {1999, 1201}, {1300, 1299}, {7, 4999}} {
		w, h := dims[0], dims[1]
		nw, nh := TargetSize(w, h, 1200)
		assert.Equal(t, 1200, max(nw, nh))

		ratio := 1200.0 / float64(max(w, h))
		assert.InDelta(t, float64(w)*ratio, float64(nw), 1.0)
		assert.InDelta(t, float64(h)*ratio, float64(nh), 1.0)
	}
}

func TestFitWithin(t *testing.T) {
	small := gradient(100, 50)
	out, resized := FitWithin(small, 1200)
	assert.False(t, resized)
	assert.Same(t, image.Image(small), out)

	big := gradient(300, 150)
	out, resized = FitWithin(big, 120)
	assert.True(t, resized)
	assert.Equal(t, image.Rect(0, 0, 120, 60), out.Bounds())
}

func TestEncodeJPEG_ProducesRGB(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJPEG(&buf, image.NewGray(image.Rect(0, 0, 16, 16)), 85))

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, color.YCbCrModel, cfg.ColorModel)
	assert.Equal(t, 16, cfg.Width)
}

func TestEncodeJPEG_Deterministic(t *testing.T) {
	img := gradient(64, 48)
	var a, b bytes.Buffer
	require.NoError(t, EncodeJPEG(&a, img, 85))
	require.NoError(t, EncodeJPEG(&b, img, 85))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestClampQuality(t *testing.T) {
	assert.Equal(t, 1, clampQuality(-5))
	assert.Equal(t, 85, clampQuality(85))
	assert.Equal(t, 100, clampQuality(150))
}

func TestWriteJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	size, err := WriteJPEG(path, gradient(32, 32), 85)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), size)
	assert.Positive(t, size)
}

func TestWriteJPEG_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.jpg")
	_, err := WriteJPEG(path, gradient(4, 4), 85)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)
}

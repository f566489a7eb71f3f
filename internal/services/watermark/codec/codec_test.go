package codec

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7 % 256), G: uint8(y * 5 % 256), B: 0x40, A: 0xFF})
		}
	}
	return img
}

func TestForFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"photo.jpg", "jpeg"},
		{"photo.JPG", "jpeg"},
		{"photo.jpeg", "jpeg"},
		{"wedding.2024.JpEg", "jpeg"},
		{"photo.png", "png"},
		{"photo.PNG", "png"},
		{"photo.heic", "heif"},
		{"photo.HEIC", "heif"},
		{"photo.heif", "heif"},
		{"nested/dir/photo.jpg", "jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			c, err := ForFilename(tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Name())
		})
	}
}

func TestForFilenameUnsupported(t *testing.T) {
	for _, name := range []string{"photo.gif", "photo.webp", "photo.txt", "photo", "photo.heic.bak", ""} {
		_, err := ForFilename(name)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, "filename %q", name)
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.jpg"))
	assert.True(t, Supported("a.HEIC"))
	assert.True(t, Supported("a.png"))
	assert.False(t, Supported("a.bmp"))
	assert.False(t, Supported("jpg"))
}

func TestJPEGRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JPEG{}.Encode(&buf, testImage(64, 48)))

	decoded, err := JPEG{}.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), decoded.Bounds())
}

func TestPNGRoundTrip(t *testing.T) {
	src := testImage(32, 32)
	var buf bytes.Buffer
	require.NoError(t, PNG{}.Encode(&buf, src))

	decoded, err := PNG{}.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), decoded.Bounds())

	// PNG is lossless; spot-check pixels survive exactly.
	for _, pt := range []image.Point{{0, 0}, {13, 7}, {31, 31}} {
		want := src.NRGBAAt(pt.X, pt.Y)
		got := color.NRGBAModel.Convert(decoded.At(pt.X, pt.Y)).(color.NRGBA)
		assert.Equal(t, want, got, "pixel %v", pt)
	}
}

func TestHEIFRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := (HEIF{}).Encode(&buf, testImage(40, 30)); err != nil {
		t.Skipf("heif encoder unavailable: %v", err)
	}

	decoded, err := HEIF{}.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 40, decoded.Bounds().Dx())
	assert.Equal(t, 30, decoded.Bounds().Dy())
}

func TestDecodeGarbage(t *testing.T) {
	garbage := bytes.NewReader([]byte("not an image at all"))
	_, err := JPEG{}.Decode(garbage)
	assert.Error(t, err)

	_, err = PNG{}.Decode(bytes.NewReader([]byte{0x00, 0x01}))
	assert.Error(t, err)
}

func TestMIMETypes(t *testing.T) {
	assert.Equal(t, "image/jpeg", JPEG{}.MIME())
	assert.Equal(t, "image/png", PNG{}.MIME())
	assert.Equal(t, "image/heic", HEIF{}.MIME())
}

package codec

import (
	"image"
	"image/png"
	"io"
)

// PNG handles .png files with the standard library codec. PNG is lossless,
// so the encode side needs no quality handling.
type PNG struct{}

func (PNG) Name() string { return "png" }

func (PNG) MIME() string { return "image/png" }

func (PNG) Decode(r io.Reader) (image.Image, error) {
	return png.Decode(r)
}

func (PNG) Encode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

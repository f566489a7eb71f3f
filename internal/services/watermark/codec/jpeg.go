package codec

import (
	"image"
	"image/jpeg"
	"io"
)

// maxQuality keeps quantization loss on re-encode as low as the encoder
// allows. Watermarked copies are the only copy a client downloads, so they
// are written at first-save quality.
const maxQuality = 100

// JPEG handles .jpg and .jpeg files with the standard library codec.
type JPEG struct{}

func (JPEG) Name() string { return "jpeg" }

func (JPEG) MIME() string { return "image/jpeg" }

func (JPEG) Decode(r io.Reader) (image.Image, error) {
	return jpeg.Decode(r)
}

func (JPEG) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: maxQuality})
}

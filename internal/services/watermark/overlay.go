package watermark

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Overlay is the logo composited onto every photo. It is loaded once at
// startup and shared read-only across requests.
type Overlay struct {
	img *image.NRGBA
}

// LoadOverlay reads and decodes the overlay asset from disk. PNG with an
// alpha channel is the usual format, but any registered format works,
// including WebP.
func LoadOverlay(path string) (*Overlay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open overlay %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode overlay %s: %w", path, err)
	}
	return NewOverlay(img), nil
}

// NewOverlay wraps an already decoded image as an overlay.
func NewOverlay(img image.Image) *Overlay {
	return &Overlay{img: imaging.Clone(img)}
}

// Bounds returns the dimensions of the unscaled overlay.
func (o *Overlay) Bounds() image.Rectangle {
	return o.img.Bounds()
}

// scaledTo resizes the overlay to the given width, keeping its aspect ratio.
func (o *Overlay) scaledTo(width int) *image.NRGBA {
	return imaging.Resize(o.img, width, 0, imaging.Lanczos)
}

// fade scales the alpha channel by opacity, leaving color samples untouched.
// The input is not modified.
func fade(img *image.NRGBA, opacity float64) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = uint8(float64(out.Pix[i]) * opacity)
	}
	return out
}

package watermark

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/18steinc/watermark-server/internal/config"
	"github.com/18steinc/watermark-server/internal/services/watermark/codec"
)

// OutputPrefix marks watermarked filenames apart from their originals.
const OutputPrefix = "watermarked_"

// Pipeline turns an uploaded photo into its watermarked copy: decode,
// orientation fix, overlay scale and fade, composite, re-encode. The output
// keeps the input's container format and carries no EXIF metadata, since
// none of the encoders writes any.
type Pipeline struct {
	overlay *Overlay
	cfg     config.WatermarkConfig
}

func NewPipeline(overlay *Overlay, cfg config.WatermarkConfig) *Pipeline {
	return &Pipeline{overlay: overlay, cfg: cfg}
}

// Apply watermarks a single photo held in memory and returns the encoded
// result together with its output filename. Errors wrap
// codec.ErrUnsupportedFormat, codec.ErrDecode or codec.ErrEncode; on error
// no output bytes are returned.
func (p *Pipeline) Apply(data []byte, filename string) ([]byte, string, error) {
	// Select codec by extension
	c, err := codec.ForFilename(filename)
	if err != nil {
		return nil, "", err
	}

	// Decode
	img, err := c.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", codec.ErrDecode, err)
	}

	// Orientation fix, then composite
	stamped := p.stamp(orient(img, data))

	// Re-encode in the source format
	var buf bytes.Buffer
	if err := c.Encode(&buf, stamped); err != nil {
		return nil, "", fmt.Errorf("%w: %v", codec.ErrEncode, err)
	}
	return buf.Bytes(), OutputName(filename), nil
}

// stamp composites the faded overlay into the bottom-right corner of base.
func (p *Pipeline) stamp(base image.Image) *image.NRGBA {
	bounds := base.Bounds()

	width := max(1, int(float64(bounds.Dx())*p.cfg.WidthRatio))
	logo := fade(p.overlay.scaledTo(width), p.cfg.Opacity)

	pos := image.Pt(
		bounds.Dx()-logo.Bounds().Dx()-p.cfg.Margin,
		bounds.Dy()-logo.Bounds().Dy()-p.cfg.Margin,
	)
	return imaging.Overlay(base, logo, pos, 1.0)
}

// OutputName derives the watermarked filename from the original one. The
// base name and extension survive, so the container format stays visible in
// the name.
func OutputName(filename string) string {
	return OutputPrefix + filepath.Base(filename)
}

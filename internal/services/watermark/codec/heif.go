package codec

import (
	"fmt"
	"image"
	"io"

	"github.com/strukturag/libheif/go/heif"
)

// HEIF handles .heic and .heif containers through libheif. The library
// applies the container's rotation and mirror transforms during decode, so
// decoded pixels arrive display-upright, and it writes no metadata boxes on
// encode. Encoding uses the lossless HEVC path.
type HEIF struct{}

func (HEIF) Name() string { return "heif" }

func (HEIF) MIME() string { return "image/heic" }

func (HEIF) Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read heif input: %w", err)
	}

	ctx, err := heif.NewContext()
	if err != nil {
		return nil, fmt.Errorf("create heif context: %w", err)
	}
	if err := ctx.ReadFromMemory(data); err != nil {
		return nil, fmt.Errorf("parse heif container: %w", err)
	}

	handle, err := ctx.GetPrimaryImageHandle()
	if err != nil {
		return nil, fmt.Errorf("get primary image: %w", err)
	}
	img, err := handle.DecodeImage(heif.ColorspaceUndefined, heif.ChromaUndefined, nil)
	if err != nil {
		return nil, fmt.Errorf("decode heif image: %w", err)
	}
	return img.GetImage()
}

func (HEIF) Encode(w io.Writer, img image.Image) error {
	ctx, err := heif.EncodeFromImage(img, heif.CompressionHEVC, maxQuality, heif.LosslessModeEnabled, heif.LoggingLevelNone)
	if err != nil {
		return fmt.Errorf("encode heif image: %w", err)
	}
	return ctx.Write(w)
}
